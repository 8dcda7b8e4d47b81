package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// FeedSource is one RSS/Atom feed entry from the sources file.
type FeedSource struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Whitelist bool   `yaml:"whitelist"`
}

// Curation holds the keyword lists and weights driving the funnel. It can be
// overridden per-field from a YAML file; anything left empty keeps the
// built-in default.
type Curation struct {
	Keywords            []string           `yaml:"keywords"`
	HardNoiseKeywords   []string           `yaml:"hard_noise_keywords"`
	HardNoiseKeywordsZH []string           `yaml:"hard_noise_keywords_zh"`
	NoisePatterns       []string           `yaml:"noise_patterns"`
	WhitelistDomains    []string           `yaml:"whitelist_domains"`
	SourceWeights       map[string]float64 `yaml:"source_weights"`
	VaguePhrases        []string           `yaml:"vague_phrases"`
	PaperCategories     []string           `yaml:"paper_categories"`
	HackerNewsKeywords  []string           `yaml:"hackernews_keywords"`
	Feeds               []FeedSource       `yaml:"feeds"`
	ArxivCategories     map[string]string  `yaml:"arxiv_categories"`
}

// Config is the full pipeline configuration.
type Config struct {
	// Gemini settings
	GeminiAPIKey      string
	ScoreModel        string
	RefineModel       string
	EmbedModel        string
	OracleConcurrency int
	OracleTimeout     time.Duration
	OracleDailyBudget int

	// Retry policy for oracle calls
	RetryAttempts int
	RetryDelay    time.Duration
	RetryMaxDelay time.Duration

	// Stage 1 thresholds
	MinPaperUpvotes  int
	MinHNScore       int
	RedditMinUpvotes int

	// Stage 2
	ScoreBatchSize         int
	MaxSocialReference     int
	WhitelistBonus         float64
	OfficialNewsBonus      float64
	NonOfficialNewsPenalty float64
	NewsMinScore           float64
	NewsMinReasonLen       int
	L2PaperCategoryMax     int
	L2NewsLimit            int

	// Semantic dedup
	SemanticDedupEnabled bool
	SemanticThreshold    float64
	SemanticMaxItems     int

	// Stage 3
	L3PaperCategoryTarget int
	L3NewsTarget          int
	SummaryBatchSize      int
	NewsSummaryMinRunes   int

	// Ingestion
	HoursLookback     int
	ScrapeConcurrency int
	ScrapeMaxArticles int
	RequestTimeout    time.Duration
	FullTextCacheTTL  time.Duration
	SourcesConfigPath string

	// Output
	ReportPath  string
	HistoryPath string

	Debug bool

	Curation Curation
}

// Default returns the configuration with all built-in values and no
// environment applied. Tests build on top of this.
func Default() *Config {
	return &Config{
		ScoreModel:        "gemini-1.5-flash",
		RefineModel:       "gemini-1.5-pro",
		EmbedModel:        "text-embedding-004",
		OracleConcurrency: 1,
		OracleTimeout:     60 * time.Second,
		OracleDailyBudget: 500,

		RetryAttempts: 3,
		RetryDelay:    2 * time.Second,
		RetryMaxDelay: 10 * time.Second,

		MinPaperUpvotes:  5,
		MinHNScore:       10,
		RedditMinUpvotes: 10,

		ScoreBatchSize:         10,
		MaxSocialReference:     500,
		WhitelistBonus:         2.0,
		OfficialNewsBonus:      0.6,
		NonOfficialNewsPenalty: -1.0,
		NewsMinScore:           6.0,
		NewsMinReasonLen:       20,
		L2PaperCategoryMax:     18,
		L2NewsLimit:            30,

		SemanticDedupEnabled: true,
		SemanticThreshold:    0.85,
		SemanticMaxItems:     200,

		L3PaperCategoryTarget: 6,
		L3NewsTarget:          11,
		SummaryBatchSize:      8,
		NewsSummaryMinRunes:   60,

		HoursLookback:     24,
		ScrapeConcurrency: 8,
		ScrapeMaxArticles: 10,
		RequestTimeout:    30 * time.Second,
		FullTextCacheTTL:  12 * time.Hour,
		SourcesConfigPath: "configs/sources.yaml",

		ReportPath:  "data/tide-news.json",
		HistoryPath: "data/history.json",

		Curation: defaultCuration(),
	}
}

// Load builds the configuration from defaults, environment variables and the
// optional sources YAML file.
func Load() (*Config, error) {
	cfg := Default()

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if m := os.Getenv("TIDE_SCORE_MODEL"); m != "" {
		cfg.ScoreModel = m
	}
	if m := os.Getenv("TIDE_REFINE_MODEL"); m != "" {
		cfg.RefineModel = m
	}
	if m := os.Getenv("TIDE_EMBED_MODEL"); m != "" {
		cfg.EmbedModel = m
	}

	cfg.OracleConcurrency = getEnvIntOrDefault("TIDE_ORACLE_CONCURRENCY", cfg.OracleConcurrency)
	cfg.OracleDailyBudget = getEnvIntOrDefault("TIDE_ORACLE_DAILY_BUDGET", cfg.OracleDailyBudget)
	cfg.RetryAttempts = getEnvIntOrDefault("TIDE_RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.MinPaperUpvotes = getEnvIntOrDefault("TIDE_MIN_PAPER_UPVOTES", cfg.MinPaperUpvotes)
	cfg.MinHNScore = getEnvIntOrDefault("TIDE_MIN_HN_SCORE", cfg.MinHNScore)
	cfg.RedditMinUpvotes = getEnvIntOrDefault("TIDE_REDDIT_MIN_UPVOTES", cfg.RedditMinUpvotes)
	cfg.ScoreBatchSize = getEnvIntOrDefault("TIDE_SCORE_BATCH_SIZE", cfg.ScoreBatchSize)
	cfg.L2PaperCategoryMax = getEnvIntOrDefault("TIDE_L2_PAPER_CATEGORY_MAX", cfg.L2PaperCategoryMax)
	cfg.L2NewsLimit = getEnvIntOrDefault("TIDE_L2_NEWS_LIMIT", cfg.L2NewsLimit)
	cfg.L3PaperCategoryTarget = getEnvIntOrDefault("TIDE_L3_PAPER_CATEGORY_TARGET", cfg.L3PaperCategoryTarget)
	cfg.L3NewsTarget = getEnvIntOrDefault("TIDE_L3_NEWS_TARGET", cfg.L3NewsTarget)
	cfg.HoursLookback = getEnvIntOrDefault("TIDE_HOURS_LOOKBACK", cfg.HoursLookback)
	cfg.ScrapeConcurrency = getEnvIntOrDefault("TIDE_SCRAPE_CONCURRENCY", cfg.ScrapeConcurrency)
	cfg.ScrapeMaxArticles = getEnvIntOrDefault("TIDE_SCRAPE_MAX_ARTICLES", cfg.ScrapeMaxArticles)

	if v := os.Getenv("TIDE_SEMANTIC_DEDUP"); v != "" {
		cfg.SemanticDedupEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("TIDE_SEMANTIC_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.SemanticThreshold = f
		}
	}

	cfg.SourcesConfigPath = getEnvOrDefault("TIDE_SOURCES_CONFIG", cfg.SourcesConfigPath)
	cfg.ReportPath = getEnvOrDefault("TIDE_REPORT_PATH", cfg.ReportPath)
	cfg.HistoryPath = getEnvOrDefault("TIDE_HISTORY_PATH", cfg.HistoryPath)

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	if err := cfg.loadSources(cfg.SourcesConfigPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSources overlays the YAML sources file onto the built-in curation
// defaults. A missing file is fine; the defaults stand.
func (c *Config) loadSources(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open sources config: %w", err)
	}
	defer f.Close()

	var cur Curation
	if err := yaml.NewDecoder(f).Decode(&cur); err != nil {
		return fmt.Errorf("decode sources config %s: %w", path, err)
	}
	if len(cur.Keywords) > 0 {
		c.Curation.Keywords = cur.Keywords
	}
	if len(cur.HardNoiseKeywords) > 0 {
		c.Curation.HardNoiseKeywords = cur.HardNoiseKeywords
	}
	if len(cur.HardNoiseKeywordsZH) > 0 {
		c.Curation.HardNoiseKeywordsZH = cur.HardNoiseKeywordsZH
	}
	if len(cur.NoisePatterns) > 0 {
		c.Curation.NoisePatterns = cur.NoisePatterns
	}
	if len(cur.WhitelistDomains) > 0 {
		c.Curation.WhitelistDomains = cur.WhitelistDomains
	}
	if len(cur.SourceWeights) > 0 {
		c.Curation.SourceWeights = cur.SourceWeights
	}
	if len(cur.VaguePhrases) > 0 {
		c.Curation.VaguePhrases = cur.VaguePhrases
	}
	if len(cur.PaperCategories) > 0 {
		c.Curation.PaperCategories = cur.PaperCategories
	}
	if len(cur.HackerNewsKeywords) > 0 {
		c.Curation.HackerNewsKeywords = cur.HackerNewsKeywords
	}
	if len(cur.Feeds) > 0 {
		c.Curation.Feeds = cur.Feeds
	}
	if len(cur.ArxivCategories) > 0 {
		c.Curation.ArxivCategories = cur.ArxivCategories
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
