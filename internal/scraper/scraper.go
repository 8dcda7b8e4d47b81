// Package scraper pulls article bodies for news items so the scoring and
// summary prompts see more than a feed snippet.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/TidalHarley/Morning-Tide/internal/cache"
	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

type Scraper struct {
	cfg    *config.Config
	cache  *cache.Cache
	client *http.Client
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{
		cfg:   cfg,
		cache: cache.New(),
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Enrich fetches full text for the highest-scored news items that lack a
// usable body. Workers run concurrently up to the configured bound; a
// failed scrape leaves the item as it arrived.
func (s *Scraper) Enrich(ctx context.Context, items []*model.Item) {
	candidates := make([]*model.Item, 0, len(items))
	for _, item := range items {
		if item.ContentType != model.TypeNews {
			continue
		}
		if item.FullText != "" || item.URL == "" {
			continue
		}
		if item.SourceType == model.SourceReddit && len(item.Abstract) > 500 {
			continue
		}
		candidates = append(candidates, item)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > s.cfg.ScrapeMaxArticles {
		candidates = candidates[:s.cfg.ScrapeMaxArticles]
	}
	if len(candidates) == 0 {
		return
	}

	concurrency := s.cfg.ScrapeConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for _, item := range candidates {
		wg.Add(1)
		go func(item *model.Item) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			text, err := s.fullText(ctx, item.URL)
			if err != nil {
				logger.Debug("scrape failed", "url", item.URL, "error", err)
				return
			}
			item.FullText = text
		}(item)
	}
	wg.Wait()
	logger.Info("full-text enrichment done", "candidates", len(candidates))
}

func (s *Scraper) fullText(ctx context.Context, url string) (string, error) {
	key := cache.GenerateKey(url)
	if text, ok := s.cache.Get(key); ok {
		return text, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "morning-tide/1.0")
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	content := cleanContent(extractGenericContent(doc))
	if len(content) < 100 {
		return "", fmt.Errorf("content too short")
	}
	s.cache.Set(key, content, s.cfg.FullTextCacheTTL)
	return content, nil
}

// extractGenericContent tries the common article body selectors in order of
// specificity.
func extractGenericContent(doc *goquery.Document) string {
	var paragraphs []string

	selectors := []string{
		"article p",
		".article p",
		".content p",
		".post-content p",
		".entry-content p",
		"main p",
		"#content p",
		".text p",
		"p",
	}

	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text != "" && len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

// cleanContent strips boilerplate lines and bounds the result so prompts
// stay a reasonable size.
func cleanContent(content string) string {
	if content == "" {
		return ""
	}

	junkIndicators := []string{
		"cookie", "subscribe to", "sign up for", "newsletter",
		"read more", "click here", "follow us", "share this",
		"privacy policy", "terms of service", "log in", "create account",
		"advertisement",
	}

	lines := strings.Split(content, "\n")
	var cleanLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) < 30 {
			continue
		}
		lower := strings.ToLower(line)
		isJunk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				isJunk = true
				break
			}
		}
		if isJunk {
			continue
		}
		cleanLines = append(cleanLines, line)
	}

	result := strings.Join(cleanLines, "\n\n")
	for strings.Contains(result, "  ") {
		result = strings.ReplaceAll(result, "  ", " ")
	}
	result = strings.TrimSpace(result)

	// Keep whole paragraphs under the size cap.
	if len(result) > 1800 {
		paragraphs := strings.Split(result, "\n\n")
		var kept []string
		total := 0
		for _, p := range paragraphs {
			if total+len(p) >= 1600 {
				break
			}
			kept = append(kept, p)
			total += len(p) + 2
		}
		if len(kept) > 0 {
			result = strings.Join(kept, "\n\n")
		}
	}

	return result
}
