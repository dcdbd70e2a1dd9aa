// Package tokenizer implements byte-level byte-pair encoding over a fixed
// vocabulary and rank-ordered merge table.
//
// Text is pre-tokenized into chunks, each chunk's bytes are translated into
// a reversible symbol alphabet, the merge table is applied greedily by rank,
// and the surviving symbols are looked up in the vocabulary. Decoding runs
// the same pipeline in reverse.
package tokenizer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/encodium/bpe/cache"
	"github.com/encodium/bpe/logutil"
	"github.com/encodium/bpe/vocab"
)

var (
	// ErrUnknownPolicy reports an unrecognized error-handling policy name.
	ErrUnknownPolicy = errors.New("unknown error-handling policy")
	// ErrUnknownToken reports a merged symbol string with no vocabulary id,
	// which means the vocabulary and merge table do not belong together.
	ErrUnknownToken = errors.New("merged token not in vocabulary")
	// ErrUnknownID reports a token id with no vocabulary entry.
	ErrUnknownID = errors.New("token id not in vocabulary")
	// ErrUnknownSymbol reports a vocabulary symbol with no byte mapping,
	// which means the token ids being decoded are corrupt.
	ErrUnknownSymbol = errors.New("symbol not in byte alphabet")
	// ErrInvalidUTF8 reports invalid UTF-8 during decode under PolicyStrict.
	ErrInvalidUTF8 = errors.New("invalid utf-8 sequence")
)

// Tokenizer converts text to token ids and back. All fields are fixed at
// construction; only the cache mutates afterwards, and every cache
// implementation is safe for concurrent use, so a single Tokenizer may be
// shared across goroutines.
type Tokenizer struct {
	vocab  *vocab.Vocabulary
	ranks  map[pair]int
	pre    *pretokenizer
	cache  cache.Cache
	policy Policy

	byteToSym [256]rune
	symToByte map[rune]byte
}

// Option adjusts construction of a Tokenizer.
type Option func(*Tokenizer)

// WithCache substitutes the merge memoization backend. The default is
// cache.NewUnbounded; pass a cache.LRU to bound memory.
func WithCache(c cache.Cache) Option {
	return func(t *Tokenizer) { t.cache = c }
}

// New builds a Tokenizer from a validated vocabulary and the given UTF-8
// error-handling policy.
func New(v *vocab.Vocabulary, policy Policy, opts ...Option) (*Tokenizer, error) {
	if v == nil {
		return nil, vocab.ErrEmpty
	}
	if !policy.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(policy))
	}

	merges := v.Merges()
	ranks := make(map[pair]int, len(merges))
	for i, m := range merges {
		ranks[pair{m.First, m.Second}] = i
	}

	byteToSym, symToByte := alphabet()

	t := &Tokenizer{
		vocab:     v,
		ranks:     ranks,
		pre:       newPretokenizer(),
		cache:     cache.NewUnbounded(),
		policy:    policy,
		byteToSym: byteToSym,
		symToByte: symToByte,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Encode converts text into token ids.
func (t *Tokenizer) Encode(text string) ([]int32, error) {
	ids := make([]int32, 0, len(text))
	for _, chunk := range t.pre.split(text) {
		var sb strings.Builder
		for _, b := range []byte(chunk) {
			sb.WriteRune(t.byteToSym[b])
		}

		for _, tok := range strings.Split(t.merge(sb.String()), " ") {
			id, ok := t.vocab.ID(tok)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownToken, tok)
			}
			ids = append(ids, id)
		}
	}

	logutil.Trace("encoded", "text", text, "ids", lazyIdsString{ids: ids})
	return ids, nil
}

// Decode converts token ids back into text. Invalid UTF-8 in the recovered
// bytes is handled per the configured policy.
func (t *Tokenizer) Decode(ids []int32) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		tok, ok := t.vocab.Token(id)
		if !ok {
			return "", fmt.Errorf("%w: %d", ErrUnknownID, id)
		}
		sb.WriteString(tok)
	}

	raw := make([]byte, 0, sb.Len())
	for _, r := range sb.String() {
		b, ok := t.symToByte[r]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, r)
		}
		raw = append(raw, b)
	}

	text, err := decodeUTF8(raw, t.policy)
	if err != nil {
		return "", err
	}

	logutil.Trace("decoded", "text", text, "from", lazyIdsString{ids: ids})
	return text, nil
}

type lazyIdsString struct {
	ids []int32
}

func (l lazyIdsString) LogValue() slog.Value {
	return slog.AnyValue(fmt.Sprint(l.ids))
}
