// Package feed ingests candidate papers and news from the upstream
// sources: HuggingFace daily papers, the arXiv API, Hacker News, Reddit,
// GitHub trending and a configurable RSS feed list.
package feed

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

type Fetcher struct {
	cfg    *config.Config
	client *http.Client
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// FetchAll pulls every configured source. Individual source failures are
// logged and skipped; the funnel runs on whatever arrived.
func (f *Fetcher) FetchAll(ctx context.Context) (papers, news []*model.Item) {
	if items, err := f.FetchHuggingFacePapers(ctx); err != nil {
		logger.Error("huggingface fetch failed", "error", err)
	} else {
		papers = append(papers, items...)
	}
	if items, err := f.FetchArxivPapers(ctx); err != nil {
		logger.Error("arxiv fetch failed", "error", err)
	} else {
		papers = append(papers, items...)
	}

	if items, err := f.FetchHackerNews(ctx); err != nil {
		logger.Error("hackernews fetch failed", "error", err)
	} else {
		news = append(news, items...)
	}
	if items, err := f.FetchReddit(ctx); err != nil {
		logger.Error("reddit fetch failed", "error", err)
	} else {
		news = append(news, items...)
	}
	if items, err := f.FetchGitHubTrending(ctx); err != nil {
		logger.Error("github trending fetch failed", "error", err)
	} else {
		news = append(news, items...)
	}
	news = append(news, f.FetchRSSFeeds(ctx)...)

	logger.Info("ingestion complete", "papers", len(papers), "news", len(news))
	return papers, news
}

// newsCutoff is the oldest publication time a news item may have.
func (f *Fetcher) newsCutoff() time.Time {
	return time.Now().UTC().Add(-time.Duration(f.cfg.HoursLookback) * time.Hour)
}

func hashID(prefix, s string) string {
	h := sha1.Sum([]byte(strings.ToLower(s)))
	return prefix + "_" + hex.EncodeToString(h[:])[:16]
}

// containsKeyword matches keywords against text, using word boundaries for
// short tokens so "ai" does not match inside "said".
func containsKeyword(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}
		if len(k) <= 3 {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
			if re.MatchString(text) {
				return true
			}
			continue
		}
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
