package fetch

import (
	"net/url"
	"strings"

	"aidigest/internal/rank"
)

// Weight at or above which a keyword is interesting enough to search
// for on its own.
const queryTierWeight = 2.5

// NewsQueries derives Google News search queries from the keyword
// tiers instead of a hardcoded list: the top-weighted terms become
// individual queries, followed by a few fixed combination searches
// covering the AI and media beats.
func NewsQueries(tiers []rank.Tier, max int) []string {
	var queries []string

	for _, tier := range tiers {
		if tier.Weight < queryTierWeight {
			continue
		}
		for _, term := range tier.Terms {
			if len(queries) >= 6 {
				break
			}
			queries = append(queries, term)
		}
	}

	queries = append(queries,
		"OpenAI OR Anthropic OR DeepMind",
		"Netflix OR Disney+ OR Spotify OR YouTube",
		"AI video generation",
		"AI content personalization",
	)

	if len(queries) > max {
		queries = queries[:max]
	}
	return queries
}

// googleNewsURL builds the RSS search URL for one query. Google News
// trails the wire by only 15-30 minutes, which is what makes the
// real-time augmentation worth its noise.
func googleNewsURL(query string) string {
	q := url.QueryEscape(strings.TrimSpace(query))
	return "https://news.google.com/rss/search?q=" + q + "&hl=en&gl=US&ceid=US:en"
}
