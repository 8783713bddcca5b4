// Package article defines the normalized representation of one fetched
// news item and the identity helpers used for deduplication.
package article

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Article is one fetched news item. It is treated as a value object:
// constructed by the collector, scored once, and read-only afterwards.
type Article struct {
	Title     string
	Source    string
	Link      string
	Published time.Time // zero value means unknown publish time
	Summary   string

	// Score is populated by the scoring engine; zero before scoring.
	Score float64
	// Seq is the position in the assembled fetch pool, used as the
	// final deterministic tiebreak during selection.
	Seq int
}

// Valid reports whether the article carries the minimum fields the
// pipeline needs to work with it.
func (a Article) Valid() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("article has empty title")
	}
	if strings.TrimSpace(a.Link) == "" {
		return fmt.Errorf("article %q has empty link", a.Title)
	}
	return nil
}

// HasPublished reports whether the publish time is known.
func (a Article) HasPublished() bool {
	return !a.Published.IsZero()
}

// NormalizeLink canonicalizes a URL for duplicate detection: lowercase,
// no query string, no fragment, no trailing slash. Syndicated copies of
// the same story often differ only in tracking parameters.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	link = strings.SplitN(link, "?", 2)[0]
	link = strings.SplitN(link, "#", 2)[0]
	link = strings.TrimRight(link, "/")
	return strings.ToLower(link)
}

// English stop words that carry no identity signal in a headline.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "to": true, "in": true, "on": true, "for": true,
	"is": true, "are": true, "as": true, "at": true, "with": true,
	"its": true, "it": true, "by": true, "from": true,
}

// TitleTokens returns up to max significant title words, lowercased and
// stripped of punctuation. Used by the title-similarity dedup heuristic.
func TitleTokens(title string, max int) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := make([]string, 0, max)
	for _, w := range strings.Fields(b.String()) {
		if len(tokens) >= max {
			break
		}
		if stopWords[w] || len(w) <= 2 {
			continue
		}
		tokens = append(tokens, w)
	}

	// Headline of nothing but stop words: fall back to raw words so the
	// heuristic still has something to compare.
	if len(tokens) == 0 {
		words := strings.Fields(b.String())
		if len(words) > max {
			words = words[:max]
		}
		tokens = words
	}
	return tokens
}
