// Package config builds the pipeline configuration once at process
// start from environment variables and the YAML feeds file. Components
// receive it by reference; nothing reads the environment after Load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"aidigest/internal/rank"
)

// FeedSource is one configured RSS feed.
type FeedSource struct {
	URL      string
	Category string
}

type Config struct {
	// Feed settings
	FeedsConfigPath  string
	Feeds            []FeedSource
	RequestTimeout   time.Duration
	EnableGoogleNews bool

	// Scoring and selection
	Scoring      rank.ScoreConfig
	MaxArticles  int
	MaxPerSource int
	MinScore     float64

	// LLM settings
	LLMProvider   string // "openai" or "gemini"
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string

	// Delivery settings
	SMTPHost     string
	SMTPPort     int
	SMTPPassword string
	FromEmail    string
	ToEmail      string
	DryRun       bool
	OutputDir    string
	RunLogPath   string

	// Rendering
	EnableQuickScan bool

	// App settings
	Debug         bool
	RetryAttempts int
	RetryDelay    time.Duration
}

// feedsFile is the YAML layout of the feeds config:
//
//	feeds:
//	  ai_focused:
//	    - https://...
//	keywords:
//	  - weight: 3.0
//	    terms: [gpt-5, claude]
type feedsFile struct {
	Feeds    map[string][]string `yaml:"feeds"`
	Keywords []rank.Tier         `yaml:"keywords"`
}

func Load() (*Config, error) {
	cfg := &Config{
		FeedsConfigPath:  "configs/feeds.yaml",
		RequestTimeout:   15 * time.Second,
		EnableGoogleNews: true,
		Scoring:          rank.DefaultScoreConfig(),
		MaxArticles:      20,
		MaxPerSource:     3,
		MinScore:         0.8,
		LLMProvider:      "openai",
		OpenAIModel:      "gpt-4o",
		GeminiModel:      "gemini-1.5-flash",
		SMTPHost:         "smtp.gmail.com",
		SMTPPort:         587,
		OutputDir:        ".",
		RunLogPath:       "email_log.txt",
		EnableQuickScan:  true,
		RetryAttempts:    3,
		RetryDelay:       5 * time.Second,
	}

	if p := os.Getenv("FEEDS_CONFIG_PATH"); p != "" {
		cfg.FeedsConfigPath = p
	}
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	cfg.EnableGoogleNews = envBool("ENABLE_GOOGLE_NEWS", true)
	cfg.EnableQuickScan = envBool("ENABLE_QUICK_SCAN", true)
	cfg.DryRun = envBool("DRY_RUN", false)
	cfg.Debug = os.Getenv("DEBUG") == "true"

	if v := os.Getenv("MAX_ARTICLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxArticles = n
		}
	}
	if v := os.Getenv("MAX_PER_SOURCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxPerSource = n
		}
	}
	if v := os.Getenv("MIN_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.MinScore = f
		}
	}
	if v := os.Getenv("RECENCY_BOOST_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Scoring.RecencyWindow = time.Duration(n) * time.Hour
		}
	}

	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		cfg.LLMProvider = strings.ToLower(p)
	}
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		cfg.OpenAIModel = m
	}
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if m := os.Getenv("GEMINI_MODEL"); m != "" {
		cfg.GeminiModel = m
	}

	if h := os.Getenv("SMTP_HOST"); h != "" {
		cfg.SMTPHost = h
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SMTPPort = n
		}
	}
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.FromEmail = os.Getenv("FROM_EMAIL")
	cfg.ToEmail = os.Getenv("TO_EMAIL")
	if d := os.Getenv("OUTPUT_DIR"); d != "" {
		cfg.OutputDir = d
	}
	if p := os.Getenv("RUN_LOG_PATH"); p != "" {
		cfg.RunLogPath = p
	}

	// Feed list: the FEEDS env override wins, otherwise the YAML file,
	// otherwise the built-in defaults.
	if raw := os.Getenv("FEEDS"); raw != "" {
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.Feeds = append(cfg.Feeds, FeedSource{URL: u, Category: "custom"})
			}
		}
	} else if err := cfg.loadFeedsFile(); err != nil {
		return nil, err
	}
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = DefaultFeeds()
	}

	return cfg, cfg.Validate()
}

// loadFeedsFile merges the YAML feeds file into the config. A missing
// file is not an error; built-in defaults apply.
func (c *Config) loadFeedsFile() error {
	f, err := os.Open(c.FeedsConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open feeds config: %w", err)
	}
	defer f.Close()

	var ff feedsFile
	if err := yaml.NewDecoder(f).Decode(&ff); err != nil {
		return fmt.Errorf("parse feeds config %s: %w", c.FeedsConfigPath, err)
	}

	for category, urls := range ff.Feeds {
		for _, u := range urls {
			if u = strings.TrimSpace(u); u != "" {
				c.Feeds = append(c.Feeds, FeedSource{URL: u, Category: category})
			}
		}
	}
	if len(ff.Keywords) > 0 {
		c.Scoring.Tiers = ff.Keywords
	}
	return nil
}

// Validate fails fast on misconfiguration, before any network call is
// made or LLM request spent.
func (c *Config) Validate() error {
	if c.MaxArticles <= 0 {
		return fmt.Errorf("MAX_ARTICLES must be positive")
	}
	if c.MaxPerSource <= 0 {
		return fmt.Errorf("MAX_PER_SOURCE must be positive")
	}

	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be 'openai' or 'gemini', got %q", c.LLMProvider)
	}

	if !c.DryRun {
		if c.FromEmail == "" || c.ToEmail == "" {
			return fmt.Errorf("FROM_EMAIL and TO_EMAIL are required unless DRY_RUN is set")
		}
		if c.SMTPPassword == "" {
			return fmt.Errorf("SMTP_PASSWORD is required unless DRY_RUN is set")
		}
	}
	return nil
}

// Limits returns the selection filter bounds derived from this config.
func (c *Config) Limits() rank.Limits {
	return rank.Limits{
		MaxArticles:  c.MaxArticles,
		MaxPerSource: c.MaxPerSource,
		MinScore:     c.MinScore,
	}
}

// envBool parses a boolean toggle. Absence defaults to def; the truthy
// spellings follow the original workflow config ("1", "true", "yes").
func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// DefaultFeeds is the built-in source list: AI coverage plus media and
// streaming industry outlets.
func DefaultFeeds() []FeedSource {
	return []FeedSource{
		{URL: "https://www.technologyreview.com/feed/", Category: "ai_focused"},
		{URL: "https://www.artificialintelligence-news.com/feed/", Category: "ai_focused"},
		{URL: "https://venturebeat.com/category/ai/feed/", Category: "ai_focused"},
		{URL: "https://www.theverge.com/rss/ai/index.xml", Category: "major_tech_news"},
		{URL: "https://techcrunch.com/tag/artificial-intelligence/feed/", Category: "major_tech_news"},
		{URL: "https://www.wired.com/feed/tag/ai/latest/rss", Category: "major_tech_news"},
		{URL: "https://blog.google/technology/ai/rss/", Category: "research"},
		{URL: "https://openai.com/blog/rss/", Category: "research"},
		{URL: "https://huggingface.co/blog/feed.xml", Category: "open_source"},
		{URL: "https://news.ycombinator.com/rss", Category: "developer"},
		{URL: "https://feeds.bbci.co.uk/news/technology/rss.xml", Category: "news_general"},
		{URL: "https://variety.com/feed/", Category: "streaming_media"},
		{URL: "https://www.hollywoodreporter.com/feed/", Category: "streaming_media"},
		{URL: "https://www.tubefilter.com/feed/", Category: "creator_economy"},
		{URL: "https://digiday.com/feed/", Category: "media_business"},
		{URL: "https://www.broadcastingcable.com/feed", Category: "broadcast_tv"},
	}
}
