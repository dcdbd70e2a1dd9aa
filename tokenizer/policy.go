package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Policy selects how invalid UTF-8 is handled when decoding token ids back
// to text. It mirrors the Python codec error modes of the same names.
type Policy int

const (
	// PolicyReplace substitutes U+FFFD for each invalid byte. The default.
	PolicyReplace Policy = iota
	// PolicyStrict fails on the first invalid byte.
	PolicyStrict
	// PolicyIgnore drops invalid bytes.
	PolicyIgnore
	// PolicyBackslashReplace renders invalid bytes as \xNN escapes.
	PolicyBackslashReplace
	// PolicyXMLCharRefReplace renders invalid bytes as &#NN; references.
	PolicyXMLCharRefReplace
)

var policyNames = map[string]Policy{
	"replace":           PolicyReplace,
	"strict":            PolicyStrict,
	"ignore":            PolicyIgnore,
	"backslashreplace":  PolicyBackslashReplace,
	"xmlcharrefreplace": PolicyXMLCharRefReplace,
}

// ParsePolicy maps a policy name to its Policy. Unrecognized names are a
// construction-time error, not a first-use surprise.
func ParsePolicy(name string) (Policy, error) {
	if p, ok := policyNames[name]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

func (p Policy) String() string {
	for name, v := range policyNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

func (p Policy) valid() bool {
	return p >= PolicyReplace && p <= PolicyXMLCharRefReplace
}

// decodeUTF8 interprets raw as UTF-8 under the policy. Valid sequences pass
// through untouched in every mode.
func decodeUTF8(raw []byte, p Policy) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r != utf8.RuneError || size > 1 {
			sb.WriteRune(r)
			raw = raw[size:]
			continue
		}

		switch p {
		case PolicyStrict:
			return "", fmt.Errorf("%w: byte 0x%02x", ErrInvalidUTF8, raw[0])
		case PolicyReplace:
			sb.WriteRune(utf8.RuneError)
		case PolicyIgnore:
		case PolicyBackslashReplace:
			fmt.Fprintf(&sb, `\x%02x`, raw[0])
		case PolicyXMLCharRefReplace:
			fmt.Fprintf(&sb, "&#%d;", raw[0])
		}
		raw = raw[1:]
	}
	return sb.String(), nil
}
