package feed

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeywordMatcher finds the first configured keyword contained in a post's
// title or body. Matching is a case-insensitive substring test, so short
// keywords can match inside longer words.
type KeywordMatcher struct {
	keywords []string
}

func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	lower := cases.Lower(language.Und)

	normalized := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		normalized = append(normalized, lower.String(keyword))
	}

	return &KeywordMatcher{keywords: normalized}
}

// FirstMatch returns the first keyword, in configured order, found in the
// post's title or body. Tag and URL are not searched.
func (m *KeywordMatcher) FirstMatch(post Post) (string, bool) {
	// Casers keep state, so each call gets its own.
	lower := cases.Lower(language.Und)
	title := lower.String(post.Title)
	body := lower.String(post.Body)

	for _, keyword := range m.keywords {
		if strings.Contains(title, keyword) || strings.Contains(body, keyword) {
			return keyword, true
		}
	}
	return "", false
}

func (m *KeywordMatcher) Keywords() []string {
	keywordsCopy := make([]string, len(m.keywords))
	copy(keywordsCopy, m.keywords)
	return keywordsCopy
}
