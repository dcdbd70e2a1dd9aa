package tokenizer

// pair is an adjacent (first, second) symbol pair within a chunk.
type pair struct {
	first, second string
}

// pairs returns the set of adjacent symbol pairs in word. A repeated bigram
// collapses to one entry; a single-symbol word yields an empty set.
func pairs(word []string) map[pair]struct{} {
	set := make(map[pair]struct{}, len(word))
	for i := 0; i+1 < len(word); i++ {
		set[pair{word[i], word[i+1]}] = struct{}{}
	}
	return set
}
