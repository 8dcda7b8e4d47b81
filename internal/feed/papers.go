package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

const (
	huggingFaceDailyURL = "https://huggingface.co/api/daily_papers"
	arxivQueryURL       = "http://export.arxiv.org/api/query"

	hfDailyLimit     = 60
	arxivPerCategory = 50
)

type hfPaperEntry struct {
	Paper *struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Summary     string `json:"summary"`
		PublishedAt string `json:"publishedAt"`
		Authors     []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"paper"`
	NumUpvotes  int `json:"numUpvotes"`
	NumComments int `json:"numComments"`
}

// FetchHuggingFacePapers pulls the HuggingFace daily papers list.
func (f *Fetcher) FetchHuggingFacePapers(ctx context.Context) ([]*model.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, huggingFaceDailyURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface returned status %d", resp.StatusCode)
	}

	var entries []hfPaperEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("huggingface decode: %w", err)
	}

	items := make([]*model.Item, 0, len(entries))
	for _, entry := range entries {
		if entry.Paper == nil || entry.Paper.ID == "" {
			continue
		}
		published, err := time.Parse(time.RFC3339, entry.Paper.PublishedAt)
		if err != nil {
			continue
		}
		authors := make([]string, 0, len(entry.Paper.Authors))
		for _, a := range entry.Paper.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		items = append(items, &model.Item{
			ID:            "hf_" + entry.Paper.ID,
			Title:         entry.Paper.Title,
			URL:           "https://huggingface.co/papers/" + entry.Paper.ID,
			ContentType:   model.TypePaper,
			SourceType:    model.SourceHuggingFace,
			SourceName:    "HuggingFace Daily Papers",
			Abstract:      entry.Paper.Summary,
			Authors:       authors,
			PublishedAt:   &published,
			Score:         entry.NumUpvotes,
			CommentsCount: entry.NumComments,
			IsWhitelist:   true,
		})
		if len(items) >= hfDailyLimit {
			break
		}
	}
	logger.Info("huggingface papers fetched", "count", len(items))
	return items, nil
}

// FetchArxivPapers queries the arXiv Atom API for each configured category.
// The category the paper was found under becomes its report bucket.
func (f *Fetcher) FetchArxivPapers(ctx context.Context) ([]*model.Item, error) {
	parser := gofeed.NewParser()
	parser.Client = f.client

	var items []*model.Item
	seen := make(map[string]bool)
	for arxivCat, bucket := range f.cfg.Curation.ArxivCategories {
		q := url.Values{}
		q.Set("search_query", "cat:"+arxivCat)
		q.Set("sortBy", "submittedDate")
		q.Set("sortOrder", "descending")
		q.Set("start", "0")
		q.Set("max_results", fmt.Sprintf("%d", arxivPerCategory))

		feed, err := parser.ParseURLWithContext(arxivQueryURL+"?"+q.Encode(), ctx)
		if err != nil {
			logger.Warn("arxiv category fetch failed", "category", arxivCat, "error", err)
			continue
		}
		for _, entry := range feed.Items {
			arxivID := arxivIDFromLink(entry.Link)
			if arxivID == "" || seen[arxivID] {
				continue
			}
			seen[arxivID] = true

			published := entry.PublishedParsed
			if entry.UpdatedParsed != nil {
				published = entry.UpdatedParsed
			}
			if published == nil {
				continue
			}
			authors := make([]string, 0, len(entry.Authors))
			for _, a := range entry.Authors {
				if a.Name != "" {
					authors = append(authors, a.Name)
				}
			}
			items = append(items, &model.Item{
				ID:            "arxiv_" + strings.NewReplacer(".", "_", "/", "_").Replace(arxivID),
				Title:         strings.Join(strings.Fields(entry.Title), " "),
				URL:           "https://arxiv.org/abs/" + arxivID,
				ContentType:   model.TypePaper,
				SourceType:    model.SourceArxiv,
				SourceName:    "arXiv",
				Abstract:      strings.Join(strings.Fields(entry.Description), " "),
				Authors:       authors,
				PublishedAt:   published,
				PaperCategory: bucket,
			})
		}
	}
	logger.Info("arxiv papers fetched", "count", len(items))
	return items, nil
}

func arxivIDFromLink(link string) string {
	idx := strings.LastIndex(link, "/abs/")
	if idx < 0 {
		return ""
	}
	return strings.TrimSuffix(link[idx+len("/abs/"):], "/")
}
