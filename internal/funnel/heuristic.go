package funnel

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

// L1Result partitions the candidate pool after the heuristic stage.
// Whitelisted items skip the content gates but are still scored and
// quota-bounded downstream.
type L1Result struct {
	PapersL2        []*model.Item
	PapersWhitelist []*model.Item
	NewsL2          []*model.Item
	NewsWhitelist   []*model.Item
}

// HeuristicFilter is the zero-cost L1 admission filter: whitelist fast-track,
// topical keyword gate, noise gate and community-score threshold, evaluated
// in that order with the first conclusive verdict winning.
type HeuristicFilter struct {
	cfg *config.Config

	keywordRegex   *regexp.Regexp
	hardNoiseRegex *regexp.Regexp
	noisePatterns  []*regexp.Regexp
}

func NewHeuristicFilter(cfg *config.Config) *HeuristicFilter {
	f := &HeuristicFilter{cfg: cfg}

	if kws := cfg.Curation.Keywords; len(kws) > 0 {
		f.keywordRegex = regexp.MustCompile("(?i)" + escapedAlternation(kws))
	}

	noise := append([]string{}, cfg.Curation.HardNoiseKeywords...)
	noise = append(noise, cfg.Curation.HardNoiseKeywordsZH...)
	if len(noise) > 0 {
		f.hardNoiseRegex = regexp.MustCompile("(?i)" + escapedAlternation(noise))
	}

	for _, pattern := range cfg.Curation.NoisePatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			logger.Warn("skipping invalid noise pattern", "pattern", pattern, "error", err)
			continue
		}
		f.noisePatterns = append(f.noisePatterns, re)
	}
	return f
}

func escapedAlternation(keywords []string) string {
	escaped := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		escaped = append(escaped, regexp.QuoteMeta(kw))
	}
	return strings.Join(escaped, "|")
}

// Run partitions papers and news into whitelist, pass and (implicit) reject
// sets. The only side effects are the IsWhitelist/L1Passed flags.
func (f *HeuristicFilter) Run(papers, news []*model.Item) L1Result {
	res := L1Result{}
	res.PapersL2, res.PapersWhitelist = f.filter(papers)
	res.NewsL2, res.NewsWhitelist = f.filter(news)

	logger.Info("heuristic filter done",
		"papers_in", len(papers),
		"papers_passed", len(res.PapersL2),
		"papers_whitelist", len(res.PapersWhitelist),
		"news_in", len(news),
		"news_passed", len(res.NewsL2),
		"news_whitelist", len(res.NewsWhitelist))
	return res
}

func (f *HeuristicFilter) filter(items []*model.Item) (passed, whitelist []*model.Item) {
	for _, item := range items {
		if f.checkWhitelist(item) {
			item.IsWhitelist = true
			item.L1Passed = true
			whitelist = append(whitelist, item)
			continue
		}
		if !f.checkKeywords(item) {
			continue
		}
		if !f.checkNotNoise(item) {
			continue
		}
		if !f.checkScoreThreshold(item) {
			continue
		}
		item.L1Passed = true
		passed = append(passed, item)
	}
	return passed, whitelist
}

// checkWhitelist reports whether the item's URL host equals a whitelist
// domain or is one of its subdomains. Unparseable URLs are simply not
// whitelisted.
func (f *HeuristicFilter) checkWhitelist(item *model.Item) bool {
	if item.IsWhitelist {
		return true
	}
	if item.URL == "" {
		return false
	}
	u, err := url.Parse(item.URL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, domain := range f.cfg.Curation.WhitelistDomains {
		d := strings.ToLower(strings.TrimSpace(domain))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// checkKeywords passes when no keywords are configured at all: an empty
// topic list means "accept every topic", not "reject everything".
func (f *HeuristicFilter) checkKeywords(item *model.Item) bool {
	if f.keywordRegex == nil {
		return true
	}
	return f.keywordRegex.MatchString(item.Title + " " + item.Abstract)
}

func (f *HeuristicFilter) checkNotNoise(item *model.Item) bool {
	text := strings.ToLower(item.Title + " " + item.URL + " " + item.Abstract)
	if f.hardNoiseRegex != nil && f.hardNoiseRegex.MatchString(text) {
		return false
	}
	for _, pattern := range f.noisePatterns {
		if pattern.MatchString(text) {
			return false
		}
	}
	return true
}

// checkScoreThreshold applies the per-source community-score gate. Sources
// with no comparable metric auto-pass; unknown types fail open.
func (f *HeuristicFilter) checkScoreThreshold(item *model.Item) bool {
	switch item.ContentType {
	case model.TypePaper:
		if item.SourceType == model.SourceArxiv {
			return true
		}
		return item.Score >= f.cfg.MinPaperUpvotes
	case model.TypeNews:
		switch item.SourceType {
		case model.SourceRSS, model.SourceGitHub:
			return true
		case model.SourceReddit:
			return item.Score >= f.cfg.RedditMinUpvotes
		default:
			return item.Score >= f.cfg.MinHNScore
		}
	}
	return true
}
