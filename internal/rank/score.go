// Package rank holds the analytical core of the pipeline: the scoring
// engine that assigns a relevance score to every fetched article, and
// the selection filter that reduces the scored pool to a bounded,
// diverse subset.
package rank

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"aidigest/internal/article"
)

// Tier is one keyword set with its point value. Every distinct term of
// the tier found in an article contributes Weight exactly once; repeated
// occurrences of the same term do not multiply the score.
type Tier struct {
	Weight float64  `yaml:"weight"`
	Terms  []string `yaml:"terms"`
}

// ScoreConfig parameterizes the scoring engine.
type ScoreConfig struct {
	Tiers []Tier

	// RecencyWindow is the freshness window for the step bonus.
	// Articles published within the window (boundary inclusive) of the
	// run time get RecencyBonus; older or unknown timestamps get nothing.
	RecencyWindow time.Duration
	RecencyBonus  float64

	// Quality signals: detailed summaries and substantive titles beat
	// teaser-only entries.
	SummaryBonusLen int
	SummaryBonus    float64
	TitleBonusLen   int
	TitleBonus      float64
}

// DefaultScoreConfig returns the stock scoring parameters: AI and media
// industry keyword tiers, a 24h recency window worth +2.0, and small
// length bonuses.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		Tiers:           DefaultTiers(),
		RecencyWindow:   24 * time.Hour,
		RecencyBonus:    2.0,
		SummaryBonusLen: 200,
		SummaryBonus:    0.5,
		TitleBonusLen:   60,
		TitleBonus:      0.3,
	}
}

// DefaultTiers covers frontier-model news, AI company tracking, core
// technologies, business moves, and media/streaming industry terms.
func DefaultTiers() []Tier {
	return []Tier{
		{Weight: 3.0, Terms: []string{
			"gpt-4", "gpt-5", "claude", "gemini",
		}},
		{Weight: 2.5, Terms: []string{
			"reasoning model", "frontier model", "breakthrough", "agi",
			"llama", "personalization", "recommendation", "content discovery",
			"video generation",
		}},
		{Weight: 2.0, Terms: []string{
			"openai", "anthropic", "google ai", "deepmind", "meta ai",
			"microsoft ai", "hugging face", "transformer", "multimodal",
			"diffusion", "reinforcement learning", "rlhf", "ipo",
			"netflix", "disney+", "hbo max", "prime video", "spotify",
			"engagement", "retention", "churn", "dubbing", "localization",
			"linear tv", "tv ratings", "viewership", "nielsen",
			"cord-cutting", "live sports",
		}},
		{Weight: 1.8, Terms: []string{
			"copilot", "chatgpt", "midjourney", "stable diffusion",
			"open source", "open model", "acquisition", "youtube",
			"creator", "tiktok", "broadcast",
		}},
		{Weight: 1.5, Terms: []string{
			"paper", "arxiv", "benchmark", "startup", "funding",
			"streaming", "ott", "influencer", "television",
		}},
		{Weight: 1.2, Terms: []string{"llm"}},
		{Weight: 1.0, Terms: []string{
			"artificial intelligence", "ai", "machine learning",
			"deep learning", "neural network",
		}},
	}
}

// ScoreAll populates Score on every article in the pool, in place. It
// never reorders or drops items; exclusion is the selection filter's
// job. Articles with missing fields are scored on whatever is present.
func ScoreAll(pool []article.Article, cfg ScoreConfig, now time.Time) {
	for i := range pool {
		pool[i].Score = scoreOne(pool[i], cfg, now)
	}
}

func scoreOne(a article.Article, cfg ScoreConfig, now time.Time) float64 {
	text := strings.ToLower(a.Title + " " + a.Summary)
	score := 0.0

	for _, tier := range cfg.Tiers {
		for _, term := range tier.Terms {
			if matchesTerm(text, term) {
				score += tier.Weight
			}
		}
	}

	if a.HasPublished() {
		age := now.Sub(a.Published)
		if age >= 0 && age <= cfg.RecencyWindow {
			score += cfg.RecencyBonus
		}
	}

	if len(a.Summary) > cfg.SummaryBonusLen {
		score += cfg.SummaryBonus
	}
	if len(a.Title) > cfg.TitleBonusLen {
		score += cfg.TitleBonus
	}

	return score
}

var (
	wordRegexMu sync.Mutex
	wordRegexes = map[string]*regexp.Regexp{}
)

// matchesTerm reports whether text contains term. Phrases match as
// substrings; short tokens (<=3 chars) require word boundaries so that
// "ai" does not match "said"; longer single words match as substrings.
func matchesTerm(text, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}

	if strings.Contains(term, " ") {
		return strings.Contains(text, term)
	}

	if len(term) <= 3 {
		wordRegexMu.Lock()
		re, ok := wordRegexes[term]
		if !ok {
			re = regexp.MustCompile(`(^|[^a-z0-9])` + regexp.QuoteMeta(term) + `($|[^a-z0-9])`)
			wordRegexes[term] = re
		}
		wordRegexMu.Unlock()
		return re.MatchString(text)
	}

	return strings.Contains(text, term)
}
