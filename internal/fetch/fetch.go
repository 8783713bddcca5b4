// Package fetch collects the raw article pool from the configured RSS
// feeds and, optionally, Google News real-time search queries. Sources
// are fetched concurrently; one source's failure never affects the
// others, it just contributes zero articles.
package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"aidigest/internal/article"
	"aidigest/internal/config"
	"aidigest/internal/metrics"
)

const userAgent = "Mozilla/5.0 (compatible; aidigest/1.0; +rss)"

// How many items one Google News query may contribute. Search results
// repeat heavily across queries; the dedup filter catches the rest.
const maxItemsPerQuery = 5

type Collector struct {
	cfg     *config.Config
	metrics *metrics.Metrics
}

func NewCollector(cfg *config.Config, m *metrics.Metrics) *Collector {
	return &Collector{cfg: cfg, metrics: m}
}

type source struct {
	name     string // empty: use the feed's own title
	url      string
	category string
	maxItems int // 0 = unlimited
}

type result struct {
	url      string
	articles []article.Article
	err      error
}

// Collect fetches every configured source concurrently and returns the
// pooled articles. Seq numbers are assigned after the full pool is
// assembled, in deterministic source-list order, so downstream
// tiebreaks do not depend on network timing.
func (c *Collector) Collect(ctx context.Context) []article.Article {
	sources := make([]source, 0, len(c.cfg.Feeds))
	for _, f := range c.cfg.Feeds {
		sources = append(sources, source{url: f.URL, category: f.Category})
	}
	if c.cfg.EnableGoogleNews {
		for _, q := range NewsQueries(c.cfg.Scoring.Tiers, 10) {
			sources = append(sources, source{
				name:     "Google News",
				url:      googleNewsURL(q),
				category: "realtime",
				maxItems: maxItemsPerQuery,
			})
		}
	}

	results := make(map[string]result, len(sources))
	ch := make(chan result, len(sources))
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src source) {
			defer wg.Done()
			ch <- c.fetchOne(ctx, src)
		}(src)
	}
	go func() { wg.Wait(); close(ch) }()

	for r := range ch {
		results[r.url] = r
	}

	// Pool in configured order, not arrival order.
	var pool []article.Article
	for _, src := range sources {
		r := results[src.url]
		if r.err != nil {
			slog.Warn("feed fetch failed", "url", src.url, "error", r.err)
			c.metrics.RecordFeed(false, 0)
			continue
		}
		slog.Info("feed fetched", "url", src.url, "articles", len(r.articles))
		c.metrics.RecordFeed(true, len(r.articles))
		pool = append(pool, r.articles...)
	}
	for i := range pool {
		pool[i].Seq = i
	}
	return pool
}

func (c *Collector) fetchOne(ctx context.Context, src source) result {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: c.cfg.RequestTimeout}

	feed, err := parser.ParseURLWithContext(src.url, ctx)
	if err != nil {
		return result{url: src.url, err: err}
	}

	sourceName := src.name
	if sourceName == "" {
		sourceName = strings.TrimSpace(feed.Title)
	}
	if sourceName == "" {
		sourceName = hostOf(src.url)
	}

	var articles []article.Article
	for _, item := range feed.Items {
		if src.maxItems > 0 && len(articles) >= src.maxItems {
			break
		}
		a := itemToArticle(item, sourceName)
		if err := a.Valid(); err != nil {
			slog.Debug("skipping malformed feed item", "source", sourceName, "error", err)
			continue
		}
		articles = append(articles, a)
	}
	return result{url: src.url, articles: articles}
}

func itemToArticle(item *gofeed.Item, sourceName string) article.Article {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return article.Article{
		Title:     strings.TrimSpace(item.Title),
		Source:    sourceName,
		Link:      strings.TrimSpace(item.Link),
		Published: published,
		Summary:   CleanSummary(summary),
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
