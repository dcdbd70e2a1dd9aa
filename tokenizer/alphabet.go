package tokenizer

import "sync"

// alphabet returns the reversible mapping between the 256 byte values and
// single-rune symbols used by the merge engine, e.g.
// https://github.com/openai/gpt-2/blob/master/src/encoder.py
//
// Printable Latin-1 bytes ('!'..'~', '¡'..'¬', '®'..'ÿ') map to themselves
// so merge tables stay readable; every other byte is assigned a fresh code
// point starting at 256, in ascending byte order. Space therefore becomes
// 'Ġ' (U+0120), the stand-in seen throughout GPT-2 vocabularies.
var alphabet = sync.OnceValues(func() ([256]rune, map[rune]byte) {
	var byteToSym [256]rune
	symToByte := make(map[rune]byte, 256)

	printable := func(b int) bool {
		return (b >= '!' && b <= '~') || (b >= 0xa1 && b <= 0xac) || (b >= 0xae && b <= 0xff)
	}

	next := rune(256)
	for b := 0; b < 256; b++ {
		r := rune(b)
		if !printable(b) {
			r = next
			next++
		}
		byteToSym[b] = r
		symToByte[r] = byte(b)
	}

	return byteToSym, symToByte
})
