package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

const (
	hnBaseURL        = "https://hacker-news.firebaseio.com/v0"
	hnCandidateLimit = 200

	githubTrendingURL = "https://github.com/trending?since=daily"

	userAgent = "morning-tide/1.0"
)

var redditSubreddits = []string{"MachineLearning", "LocalLLaMA", "artificial"}

type hnStory struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	URL         string `json:"url"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
}

// FetchHackerNews walks the top-story list and keeps recent stories whose
// title or body matches the AI keyword list.
func (f *Fetcher) FetchHackerNews(ctx context.Context) ([]*model.Item, error) {
	var ids []int
	if err := f.getJSON(ctx, hnBaseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("hackernews top stories: %w", err)
	}
	if len(ids) > hnCandidateLimit {
		ids = ids[:hnCandidateLimit]
	}

	cutoff := f.newsCutoff()
	var items []*model.Item
	for _, id := range ids {
		var story hnStory
		if err := f.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", hnBaseURL, id), &story); err != nil {
			logger.Debug("hackernews story fetch failed", "id", id, "error", err)
			continue
		}
		if story.Type != "story" || story.Title == "" {
			continue
		}
		published := time.Unix(story.Time, 0).UTC()
		if published.Before(cutoff) {
			continue
		}
		if !containsKeyword(story.Title+" "+story.Text, f.cfg.Curation.HackerNewsKeywords) {
			continue
		}
		link := story.URL
		if link == "" {
			link = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
		}
		var authors []string
		if story.By != "" {
			authors = []string{story.By}
		}
		items = append(items, &model.Item{
			ID:            fmt.Sprintf("hn_%d", story.ID),
			Title:         story.Title,
			URL:           link,
			ContentType:   model.TypeNews,
			SourceType:    model.SourceHackerNews,
			SourceName:    "Hacker News",
			Authors:       authors,
			PublishedAt:   &published,
			Score:         story.Score,
			CommentsCount: story.Descendants,
		})
	}
	logger.Info("hackernews fetched", "count", len(items))
	return items, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Permalink   string  `json:"permalink"`
				Author      string  `json:"author"`
				CreatedUTC  float64 `json:"created_utc"`
				Ups         int     `json:"ups"`
				NumComments int     `json:"num_comments"`
				Stickied    bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchReddit pulls the hot listing of a few AI subreddits.
func (f *Fetcher) FetchReddit(ctx context.Context) ([]*model.Item, error) {
	cutoff := f.newsCutoff()
	var items []*model.Item
	for _, sub := range redditSubreddits {
		var listing redditListing
		url := fmt.Sprintf("https://www.reddit.com/r/%s/hot.json?limit=50", sub)
		if err := f.getJSON(ctx, url, &listing); err != nil {
			logger.Warn("reddit fetch failed", "subreddit", sub, "error", err)
			continue
		}
		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Stickied || post.Title == "" {
				continue
			}
			published := time.Unix(int64(post.CreatedUTC), 0).UTC()
			if published.Before(cutoff) {
				continue
			}
			var authors []string
			if post.Author != "" {
				authors = []string{post.Author}
			}
			items = append(items, &model.Item{
				ID:            "reddit_" + post.ID,
				Title:         post.Title,
				URL:           "https://www.reddit.com" + post.Permalink,
				ContentType:   model.TypeNews,
				SourceType:    model.SourceReddit,
				SourceName:    "r/" + sub,
				Abstract:      post.Selftext,
				Authors:       authors,
				PublishedAt:   &published,
				Score:         post.Ups,
				CommentsCount: post.NumComments,
			})
		}
	}
	logger.Info("reddit fetched", "count", len(items))
	return items, nil
}

// FetchGitHubTrending scrapes the daily trending page and keeps repos whose
// name or description matches the AI keyword list.
func (f *Fetcher) FetchGitHubTrending(ctx context.Context) ([]*model.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubTrendingURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github trending request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github trending returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github trending parse: %w", err)
	}

	now := time.Now().UTC()
	var items []*model.Item
	doc.Find("article.Box-row").Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("h2 a").Attr("href")
		if !ok {
			return
		}
		repo := strings.Trim(href, "/")
		desc := strings.TrimSpace(row.Find("p").First().Text())
		if !containsKeyword(repo+" "+desc, f.cfg.Curation.Keywords) {
			return
		}
		published := now
		items = append(items, &model.Item{
			ID:          hashID("github", repo),
			Title:       "GitHub Trending: " + repo,
			URL:         "https://github.com/" + repo,
			ContentType: model.TypeNews,
			SourceType:  model.SourceGitHub,
			SourceName:  "GitHub Trending",
			Abstract:    desc,
			PublishedAt: &published,
		})
	})
	logger.Info("github trending fetched", "count", len(items))
	return items, nil
}

// FetchRSSFeeds parses every configured feed. A broken feed is logged and
// skipped so one dead blog cannot starve the digest.
func (f *Fetcher) FetchRSSFeeds(ctx context.Context) []*model.Item {
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = userAgent

	cutoff := f.newsCutoff()
	var items []*model.Item
	successCount := 0
	for _, src := range f.cfg.Curation.Feeds {
		feed, err := parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			logger.Warn("rss feed parse failed", "feed", src.Name, "error", err)
			continue
		}
		successCount++
		for _, entry := range feed.Items {
			if entry.Title == "" || entry.Link == "" {
				continue
			}
			published := entry.PublishedParsed
			if published == nil {
				published = entry.UpdatedParsed
			}
			if published == nil || published.Before(cutoff) {
				continue
			}
			var authors []string
			for _, a := range entry.Authors {
				if a.Name != "" {
					authors = append(authors, a.Name)
				}
			}
			items = append(items, &model.Item{
				ID:          hashID("rss", entry.Link),
				Title:       entry.Title,
				URL:         entry.Link,
				ContentType: model.TypeNews,
				SourceType:  model.SourceRSS,
				SourceName:  src.Name,
				Abstract:    strings.TrimSpace(entry.Description),
				Authors:     authors,
				PublishedAt: published,
				IsWhitelist: src.Whitelist,
			})
		}
	}
	logger.Info("rss feeds processed", "ok", successCount, "total", len(f.cfg.Curation.Feeds), "items", len(items))
	return items
}

func (f *Fetcher) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
