package tokenizer

import "github.com/dlclark/regexp2"

// defaultPattern is the byte-level pre-tokenizer, e.g.
// https://github.com/huggingface/tokenizers/blob/main/tokenizers/src/pre_tokenizers/byte_level.rs#L44
//
// Alternatives are tried in order, so a leading space stays attached to the
// letter, number or punctuation run that follows it, and contractions are
// never split internally. Compiled case-insensitively so 'S, 'LL etc. merge
// the same way as their lowercase forms. The `\s+(?!\S)` lookahead keeps
// regexp2 in the picture; stdlib regexp cannot express it.
const defaultPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

type pretokenizer struct {
	re *regexp2.Regexp
}

func newPretokenizer() *pretokenizer {
	return &pretokenizer{re: regexp2.MustCompile(defaultPattern, regexp2.IgnoreCase)}
}

// split partitions text into chunks. The pattern's alternatives cover every
// character class, so the chunks are non-overlapping and concatenate back to
// the input.
func (p *pretokenizer) split(text string) []string {
	var chunks []string
	r := []rune(text)
	for m, _ := p.re.FindRunesMatch(r); m != nil; m, _ = p.re.FindNextMatch(m) {
		chunks = append(chunks, m.String())
	}
	return chunks
}
