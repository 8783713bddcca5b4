package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aidigest/internal/config"
	"aidigest/internal/metrics"
	"aidigest/internal/rank"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>TITLE</title>
<item>
  <title>First story</title>
  <link>https://example.com/first</link>
  <description>&lt;p&gt;An &lt;b&gt;HTML&lt;/b&gt; description.&lt;/p&gt;</description>
  <pubDate>Mon, 09 Jun 2025 10:00:00 +0000</pubDate>
</item>
<item>
  <title>Second story</title>
  <link>https://example.com/second</link>
  <description>Plain description.</description>
</item>
</channel></rss>`

func feedServer(t *testing.T, title string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(strings.ReplaceAll(rssTemplate, "TITLE", title)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func collectorFor(feeds []config.FeedSource) (*Collector, *metrics.Metrics) {
	m := &metrics.Metrics{IsHealthy: true}
	cfg := &config.Config{
		Feeds:          feeds,
		RequestTimeout: 5 * time.Second,
	}
	return NewCollector(cfg, m), m
}

func TestCollect(t *testing.T) {
	a := feedServer(t, "Feed A")
	b := feedServer(t, "Feed B")

	c, m := collectorFor([]config.FeedSource{
		{URL: a.URL, Category: "tech"},
		{URL: b.URL, Category: "media"},
	})
	pool := c.Collect(context.Background())

	if len(pool) != 4 {
		t.Fatalf("got %d articles, want 4", len(pool))
	}
	for i, art := range pool {
		if art.Seq != i {
			t.Errorf("pool[%d].Seq = %d, want %d", i, art.Seq, i)
		}
	}
	if pool[0].Source != "Feed A" {
		t.Errorf("source = %q, want %q", pool[0].Source, "Feed A")
	}
	if pool[0].Summary != "An HTML description." {
		t.Errorf("summary not cleaned: %q", pool[0].Summary)
	}
	if !pool[0].HasPublished() {
		t.Error("first item should have a publish time")
	}
	if pool[1].HasPublished() {
		t.Error("second item has no pubDate, publish time should be unknown")
	}
	if m.FeedsSucceeded != 2 {
		t.Errorf("FeedsSucceeded = %d, want 2", m.FeedsSucceeded)
	}
}

// One source failing must not abort the run or taint the other
// sources' results.
func TestCollectIsolatesSourceFailure(t *testing.T) {
	ok := feedServer(t, "Healthy")
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	c, m := collectorFor([]config.FeedSource{
		{URL: ok.URL, Category: "tech"},
		{URL: broken.URL, Category: "tech"},
	})
	pool := c.Collect(context.Background())

	if len(pool) != 2 {
		t.Fatalf("got %d articles from the healthy source, want 2", len(pool))
	}
	if m.FeedsFailed != 1 || m.FeedsSucceeded != 1 {
		t.Errorf("feed counters = %d ok / %d failed, want 1/1", m.FeedsSucceeded, m.FeedsFailed)
	}
}

func TestCollectDeterministicPoolOrder(t *testing.T) {
	a := feedServer(t, "Feed A")
	b := feedServer(t, "Feed B")
	feeds := []config.FeedSource{
		{URL: a.URL, Category: "tech"},
		{URL: b.URL, Category: "media"},
	}

	c1, _ := collectorFor(feeds)
	c2, _ := collectorFor(feeds)
	p1 := c1.Collect(context.Background())
	p2 := c2.Collect(context.Background())

	if len(p1) != len(p2) {
		t.Fatalf("pool sizes differ: %d vs %d", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i].Link != p2[i].Link {
			t.Errorf("pool order differs at %d: %q vs %q", i, p1[i].Link, p2[i].Link)
		}
	}
}

func TestCleanSummary(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Hello <a href='#'>world</a></p>", "Hello world"},
		{"plain   text\n with   spaces", "plain text with spaces"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanSummary(c.in); got != c.want {
			t.Errorf("CleanSummary(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	long := strings.Repeat("word ", 200)
	if got := CleanSummary(long); len([]rune(got)) > 500 {
		t.Errorf("long summary not capped: %d runes", len([]rune(got)))
	}
}

func TestNewsQueries(t *testing.T) {
	tiers := []rank.Tier{
		{Weight: 3.0, Terms: []string{"gpt-5", "claude"}},
		{Weight: 1.0, Terms: []string{"ai"}},
	}
	queries := NewsQueries(tiers, 10)

	if len(queries) == 0 || queries[0] != "gpt-5" {
		t.Fatalf("expected top-weighted terms first, got %v", queries)
	}
	for _, q := range queries {
		if q == "ai" {
			t.Error("low-weight term should not become a query")
		}
	}
	if len(queries) > 10 {
		t.Errorf("got %d queries, want at most 10", len(queries))
	}

	if got := NewsQueries(tiers, 3); len(got) != 3 {
		t.Errorf("max not applied: %d", len(got))
	}
}
