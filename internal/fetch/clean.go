package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Summary text beyond this length adds prompt cost without adding
// scoring signal.
const maxSummaryRunes = 500

// CleanSummary strips HTML markup from a feed item's description,
// collapses whitespace, and caps the length. Feed descriptions range
// from plain sentences to full markup with embedded images and share
// links; scoring and the synthesizer prompt both want plain text.
func CleanSummary(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	text := raw
	if strings.ContainsRune(raw, '<') {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > maxSummaryRunes {
		text = strings.TrimSpace(string(runes[:maxSummaryRunes-3])) + "..."
	}
	return text
}
