package tokenizer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/encodium/bpe/vocab"
)

// byteVocabulary builds a vocabulary covering every alphabet symbol (ids
// 0..255) plus an entry for each merge product, the shape every complete
// byte-level vocabulary has.
func byteVocabulary(tb testing.TB, merges []vocab.MergePair) *vocab.Vocabulary {
	tb.Helper()

	byteToSym, _ := alphabet()
	ids := make(map[string]int32, 256+len(merges))
	for b, r := range byteToSym {
		ids[string(r)] = int32(b)
	}

	next := int32(256)
	for _, m := range merges {
		tok := m.First + m.Second
		if _, ok := ids[tok]; !ok {
			ids[tok] = next
			next++
		}
	}

	v, err := vocab.New(ids, merges)
	if err != nil {
		tb.Fatal(err)
	}
	return v
}

func newTestTokenizer(tb testing.TB, v *vocab.Vocabulary, policy Policy, opts ...Option) *Tokenizer {
	tb.Helper()
	tok, err := New(v, policy, opts...)
	if err != nil {
		tb.Fatal(err)
	}
	return tok
}

func TestEncode(t *testing.T) {
	abVocab, err := vocab.New(
		map[string]int32{"a": 0, "b": 1, "ab": 2},
		[]vocab.MergePair{{First: "a", Second: "b"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
		want  []int32
	}{
		{
			name:  "adjacent pair merges",
			input: "ab",
			want:  []int32{2},
		},
		{
			name:  "reversed pair does not merge",
			input: "ba",
			want:  []int32{1, 0},
		},
		{
			name:  "empty input",
			input: "",
			want:  []int32{},
		},
	}

	tok := newTestTokenizer(t, abVocab, PolicyReplace)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tok.Encode(tt.input)
			if err != nil {
				t.Fatalf("Encode(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Encode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodeAcrossChunks(t *testing.T) {
	tok := newTestTokenizer(t, byteVocabulary(t, []vocab.MergePair{
		{First: "t", Second: "h"},
		{First: "th", Second: "e"},
	}), PolicyReplace)

	ids, err := tok.Encode("the the")
	if err != nil {
		t.Fatal(err)
	}

	// "the" merges fully in both chunks; the second chunk keeps its leading
	// space as the Ġ symbol.
	the, _ := tok.vocab.ID("the")
	space, _ := tok.vocab.ID("Ġ")
	want := []int32{the, space, the}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Encode(\"the the\") = %v, want %v", ids, want)
	}
}

func TestEncodeVocabularyMismatch(t *testing.T) {
	// The merge table produces "ab" but the vocabulary has no id for it:
	// a data error that must surface, not be skipped.
	v, err := vocab.New(
		map[string]int32{"a": 0, "b": 1},
		[]vocab.MergePair{{First: "a", Second: "b"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	tok := newTestTokenizer(t, v, PolicyReplace)
	if _, err := tok.Encode("ab"); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("Encode error = %v, want ErrUnknownToken", err)
	}
}

func TestDecode(t *testing.T) {
	abVocab, err := vocab.New(
		map[string]int32{"a": 0, "b": 1, "ab": 2},
		[]vocab.MergePair{{First: "a", Second: "b"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	tok := newTestTokenizer(t, abVocab, PolicyReplace)

	got, err := tok.Decode([]int32{2})
	if err != nil {
		t.Fatal(err)
	}
	if got != "ab" {
		t.Errorf("Decode([2]) = %q, want %q", got, "ab")
	}

	if _, err := tok.Decode([]int32{2, 7}); !errors.Is(err, ErrUnknownID) {
		t.Errorf("Decode error = %v, want ErrUnknownID", err)
	}
}

func TestDecodeUnknownSymbol(t *testing.T) {
	// U+2603 is not an alphabet symbol; ids that decode to it are corrupt.
	v, err := vocab.New(map[string]int32{"☃": 0}, nil)
	if err != nil {
		t.Fatal(err)
	}

	tok := newTestTokenizer(t, v, PolicyReplace)
	if _, err := tok.Decode([]int32{0}); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Decode error = %v, want ErrUnknownSymbol", err)
	}
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		"hello",
		"Hello, world!",
		"the quick brown fox jumps over the lazy dog",
		"numbers 123 and 456789",
		"unicode héllo ünïcode €100",
		"  leading and trailing  ",
		"tabs\tand\nnewlines",
		"",
	}

	for _, policy := range []Policy{PolicyStrict, PolicyReplace} {
		tok := newTestTokenizer(t, byteVocabulary(t, nil), policy)
		for _, text := range texts {
			ids, err := tok.Encode(text)
			if err != nil {
				t.Fatalf("%v: Encode(%q) error: %v", policy, text, err)
			}
			got, err := tok.Decode(ids)
			if err != nil {
				t.Fatalf("%v: Decode error: %v", policy, err)
			}
			if got != text {
				t.Errorf("%v: round trip of %q gave %q", policy, text, got)
			}
		}
	}
}

func TestTokenBound(t *testing.T) {
	tok := newTestTokenizer(t, byteVocabulary(t, nil), PolicyReplace)

	for _, text := range []string{
		"a",
		"it's",
		"word word word",
		"°±²³ punctuation €",
		"        ",
	} {
		ids, err := tok.Encode(text)
		if err != nil {
			t.Fatal(err)
		}
		if len(ids) > 4*len(text) {
			t.Errorf("Encode(%q) produced %d tokens, bound is %d", text, len(ids), 4*len(text))
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	tok := newTestTokenizer(t, byteVocabulary(t, []vocab.MergePair{
		{First: "a", Second: "b"},
		{First: "ab", Second: "ab"},
	}), PolicyReplace)

	first, err := tok.Encode("ababab abab")
	if err != nil {
		t.Fatal(err)
	}
	second, err := tok.Encode("ababab abab")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Encode differs: %v then %v", first, second)
	}
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	if _, err := New(byteVocabulary(t, nil), Policy(42)); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("New error = %v, want ErrUnknownPolicy", err)
	}
}

func TestDecodePolicies(t *testing.T) {
	// 0xff is printable Latin-1, so its symbol is 'ÿ' and a vocabulary of
	// just that symbol decodes to the lone invalid byte 0xff.
	v, err := vocab.New(map[string]int32{"ÿ": 0}, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		policy  Policy
		want    string
		wantErr bool
	}{
		{policy: PolicyStrict, wantErr: true},
		{policy: PolicyReplace, want: "�"},
		{policy: PolicyIgnore, want: ""},
		{policy: PolicyBackslashReplace, want: `\xff`},
		{policy: PolicyXMLCharRefReplace, want: "&#255;"},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			tok := newTestTokenizer(t, v, tt.policy)
			got, err := tok.Decode([]int32{0})
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUTF8) {
					t.Fatalf("Decode error = %v, want ErrInvalidUTF8", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for name, want := range policyNames {
		got, err := ParsePolicy(name)
		if err != nil {
			t.Fatalf("ParsePolicy(%q) error: %v", name, err)
		}
		if got != want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParsePolicy("surrogateescape"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("ParsePolicy error = %v, want ErrUnknownPolicy", err)
	}
}
