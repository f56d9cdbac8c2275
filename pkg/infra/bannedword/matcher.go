package bannedword

import (
	"sort"
	"strings"
	"unicode"
)

// Matcher does case-insensitive substring matching against a fixed word list.
// Longer words are tried first so the most specific entry is reported.
type Matcher struct {
	words []string
}

func NewMatcher(words []string) *Matcher {
	return &Matcher{words: Normalize(words)}
}

func (m *Matcher) Match(text string) (string, bool) {
	if m == nil || len(m.words) == 0 || text == "" {
		return "", false
	}
	haystack := strings.ToLower(text)
	for _, w := range m.words {
		if strings.Contains(haystack, w) {
			return w, true
		}
	}
	return "", false
}

func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.words)
}

// Normalize lowercases, trims and dedupes words, dropping blanks.
func Normalize(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimFunc(w, unicode.IsSpace))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
