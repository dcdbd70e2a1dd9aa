package tokenizer

import (
	"cmp"
	"strings"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"
)

// ranked is a merge candidate: an adjacent pair together with its position
// in the merge table.
type ranked struct {
	pair pair
	rank int
}

// merge applies the rank-ordered merge table to the chunk's symbols until no
// table pair remains, returning the symbols joined by single spaces. Results
// are memoized per chunk.
func (t *Tokenizer) merge(chunk string) string {
	return t.cache.GetOrCompute(chunk, func() string {
		word := make([]string, 0, len(chunk))
		for _, r := range chunk {
			word = append(word, string(r))
		}

		for len(word) > 1 {
			bigram, ok := t.lowestRank(pairs(word))
			if !ok {
				break
			}
			word = mergePair(word, bigram)
		}

		return strings.Join(word, " ")
	})
}

// lowestRank selects the highest-priority mergeable pair. Pairs absent from
// the merge table never enter the heap, so an empty heap means the chunk is
// fully merged.
func (t *Tokenizer) lowestRank(set map[pair]struct{}) (pair, bool) {
	candidates := heap.NewWith(func(i, j *ranked) int {
		return cmp.Compare(i.rank, j.rank)
	})

	for p := range set {
		if r, ok := t.ranks[p]; ok {
			candidates.Push(&ranked{pair: p, rank: r})
		}
	}

	c, ok := candidates.Pop()
	if !ok {
		return pair{}, false
	}
	return c.pair, true
}

// mergePair rewrites word in a single left-to-right pass, replacing every
// non-overlapping occurrence of the bigram with its concatenation. After a
// merge at i the scan resumes at i+2, so "aaa" with bigram (a,a) becomes
// ["aa", "a"], never ["a", "aa"].
func mergePair(word []string, bigram pair) []string {
	merged := make([]string, 0, len(word))
	for i := 0; i < len(word); {
		if i+1 < len(word) && word[i] == bigram.first && word[i+1] == bigram.second {
			merged = append(merged, bigram.first+bigram.second)
			i += 2
		} else {
			merged = append(merged, word[i])
			i++
		}
	}
	return merged
}
