package game

import (
	"strings"

	"github.com/valyala/fastrand"
)

var DefaultWords = []string{
	"apple", "banana", "cat", "dog", "car", "house", "tree", "sun", "moon",
	"computer", "phone", "book", "chair", "guitar", "pizza", "rocket",
	"bicycle", "castle", "elephant", "umbrella",
}

// WordList picks uniformly from a fixed list. Repeats are allowed.
type WordList struct {
	words []string
}

// NewWordList keeps the non-blank entries of words, lowercased. It falls back
// to DefaultWords when nothing usable is left.
func NewWordList(words []string) *WordList {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, DefaultWords...)
	}
	return &WordList{words: kept}
}

func (wl *WordList) Len() int {
	return len(wl.words)
}

func (wl *WordList) Generate(count int) []string {
	out := make([]string, 0, count)
	for range count {
		out = append(out, wl.words[fastrand.Uint32n(uint32(len(wl.words)))])
	}
	return out
}
