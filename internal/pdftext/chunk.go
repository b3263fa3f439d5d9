package pdftext

import (
	"strings"
	"unicode/utf8"
)

// Chunk splits text into pieces of at most size bytes, breaking on sentence
// boundaries. A sentence longer than size is hard-split on a rune boundary.
func Chunk(text string, size int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, sentence := range SplitSentences(text) {
		for len(sentence) > size {
			flush()
			cut := runeBoundary(sentence, size)
			chunks = append(chunks, strings.TrimSpace(sentence[:cut]))
			sentence = strings.TrimSpace(sentence[cut:])
		}
		if sentence == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+1+len(sentence) > size {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	flush()
	return chunks
}

// runeBoundary returns the largest index <= n that does not split a UTF-8 sequence.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	if n == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return n
}
