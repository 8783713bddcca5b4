package rank

import (
	"sort"

	"aidigest/internal/article"
)

// Limits bounds the selection filter's output.
type Limits struct {
	// MaxArticles caps the final selection size.
	MaxArticles int
	// MaxPerSource caps how many articles one source may contribute. A
	// value larger than MaxArticles simply leaves the cap inactive.
	MaxPerSource int
	// MinScore excludes articles below the relevance threshold before
	// deduplication. Zero keeps everything.
	MinScore float64
}

// How many significant title words participate in the similarity check,
// and how many must overlap for two headlines to count as the same
// story. Syndicated duplicates usually share most of the headline.
const (
	titleTokenCount   = 5
	titleTokenOverlap = 3
)

// Select reduces a scored pool to an ordered, deduplicated, diverse
// subset: at most MaxArticles items, score-descending, with at most
// MaxPerSource per source. The walk is greedy over the globally sorted
// list rather than round-robin by source, so overall relevance ranking
// is preserved while a single busy source cannot dominate the digest.
//
// Deterministic for a fixed pool: ties break by publish time (recent
// first), then by fetch order.
func Select(pool []article.Article, limits Limits) []article.Article {
	candidates := make([]article.Article, 0, len(pool))
	for _, a := range pool {
		if a.Score >= limits.MinScore {
			candidates = append(candidates, a)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if !candidates[i].Published.Equal(candidates[j].Published) {
			return candidates[i].Published.After(candidates[j].Published)
		}
		return candidates[i].Seq < candidates[j].Seq
	})

	// Dedup walk. The list is already score-descending, so the first
	// member of a duplicate group seen is its highest-scoring one.
	seenLinks := map[string]bool{}
	var seenTitles [][]string
	unique := candidates[:0]
	for _, a := range candidates {
		link := article.NormalizeLink(a.Link)
		if link != "" && seenLinks[link] {
			continue
		}

		tokens := article.TitleTokens(a.Title, titleTokenCount)
		if similarToAny(tokens, seenTitles) {
			continue
		}

		if link != "" {
			seenLinks[link] = true
		}
		seenTitles = append(seenTitles, tokens)
		unique = append(unique, a)
	}

	// Greedy per-source cap, then truncate. Rejected articles are
	// skipped, not replaced; lower-ranked articles from other sources
	// fill the remaining slots as the walk continues.
	perSource := map[string]int{}
	selected := make([]article.Article, 0, limits.MaxArticles)
	for _, a := range unique {
		if len(selected) >= limits.MaxArticles {
			break
		}
		if limits.MaxPerSource > 0 && perSource[a.Source] >= limits.MaxPerSource {
			continue
		}
		perSource[a.Source]++
		selected = append(selected, a)
	}

	return selected
}

func similarToAny(tokens []string, seen [][]string) bool {
	for _, prev := range seen {
		if overlap(tokens, prev) >= titleTokenOverlap {
			return true
		}
	}
	return false
}

func overlap(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	n := 0
	for _, w := range b {
		if set[w] {
			n++
			set[w] = false
		}
	}
	return n
}
