// Package vocab models a BPE vocabulary: a bijection between token strings
// and integer ids, plus the ordered merge list whose positions define merge
// ranks.
package vocab

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty reports a vocabulary with no entries.
	ErrEmpty = errors.New("vocab: empty vocabulary")
	// ErrDuplicateID reports two token strings sharing one id.
	ErrDuplicateID = errors.New("vocab: duplicate token id")
	// ErrBadMerge reports a merge rule with an empty side.
	ErrBadMerge = errors.New("vocab: malformed merge rule")
)

// MergePair is one rule in the ordered merge list. Its position in the list
// is its rank; lower ranks merge first.
type MergePair struct {
	First, Second string
}

// Vocabulary is immutable once constructed.
type Vocabulary struct {
	ids    map[string]int32
	tokens map[int32]string
	merges []MergePair
}

// New validates and builds a Vocabulary. The id map must be non-empty and
// collision-free in the reverse direction; ids need not be contiguous.
func New(ids map[string]int32, merges []MergePair) (*Vocabulary, error) {
	if len(ids) == 0 {
		return nil, ErrEmpty
	}

	tokens := make(map[int32]string, len(ids))
	for tok, id := range ids {
		if prev, ok := tokens[id]; ok {
			return nil, fmt.Errorf("%w: %d maps to both %q and %q", ErrDuplicateID, id, prev, tok)
		}
		tokens[id] = tok
	}

	for rank, m := range merges {
		if m.First == "" || m.Second == "" {
			return nil, fmt.Errorf("%w: rank %d", ErrBadMerge, rank)
		}
	}

	own := make(map[string]int32, len(ids))
	for tok, id := range ids {
		own[tok] = id
	}

	return &Vocabulary{
		ids:    own,
		tokens: tokens,
		merges: append([]MergePair(nil), merges...),
	}, nil
}

// ID returns the id for a token string.
func (v *Vocabulary) ID(tok string) (int32, bool) {
	id, ok := v.ids[tok]
	return id, ok
}

// Token returns the token string for an id.
func (v *Vocabulary) Token(id int32) (string, bool) {
	tok, ok := v.tokens[id]
	return tok, ok
}

// Merges returns the ordered merge list.
func (v *Vocabulary) Merges() []MergePair {
	return v.merges
}

// Len returns the number of vocabulary entries.
func (v *Vocabulary) Len() int {
	return len(v.ids)
}
