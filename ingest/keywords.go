package ingest

import "strings"

// KeywordMatcher picks the canonical product or venue name out of free text.
type KeywordMatcher struct {
	keywords []string
}

func NewKeywordMatcher(keywords []string) KeywordMatcher {
	return KeywordMatcher{keywords: keywords}
}

// Match returns the last configured keyword that occurs in text, or "" when
// none does. Keyword order therefore decides ties.
func (m KeywordMatcher) Match(text string) string {
	match := ""
	for _, k := range m.keywords {
		if k != "" && strings.Contains(text, k) {
			match = k
		}
	}
	return match
}
