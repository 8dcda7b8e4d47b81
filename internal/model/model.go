package model

import "time"

// ContentType distinguishes the two kinds of curated items.
type ContentType string

const (
	TypePaper ContentType = "paper"
	TypeNews  ContentType = "news"
)

// SourceType identifies where an item was ingested from. The funnel uses it
// to pick score thresholds; everything else treats it as an opaque tag.
type SourceType string

const (
	SourceHuggingFace SourceType = "huggingface"
	SourceArxiv       SourceType = "arxiv"
	SourceHackerNews  SourceType = "hackernews"
	SourceRSS         SourceType = "rss"
	SourceReddit      SourceType = "reddit"
	SourceGitHub      SourceType = "github"
)

// DefaultPaperCategory is used whenever a paper carries no arXiv category.
const DefaultPaperCategory = "General AI"

// Item is the unit of work flowing through the curation funnel. Ingestion
// constructs it once; each stage only adds to it, never erases an earlier
// stage's verdict.
type Item struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	TitleZH     string      `json:"title_zh,omitempty"`
	TitleEN     string      `json:"title_en,omitempty"`
	URL         string      `json:"url"`
	ContentType ContentType `json:"content_type"`
	SourceType  SourceType  `json:"source_type"`
	SourceName  string      `json:"source_name"`

	Abstract string   `json:"abstract,omitempty"`
	FullText string   `json:"full_text,omitempty"`
	Authors  []string `json:"authors,omitempty"`

	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Community signal. Semantics vary by source (HN score, HF upvotes,
	// keyword hits); only "higher is better" within a source family.
	Score         int `json:"score"`
	CommentsCount int `json:"comments_count,omitempty"`

	IsWhitelist bool `json:"is_whitelist"`

	L1Passed        bool    `json:"l1_passed"`
	L2Score         float64 `json:"l2_score"`
	L2Reason        string  `json:"l2_reason,omitempty"`
	L2CombinedScore float64 `json:"l2_combined_score"`
	L3Selected      bool    `json:"l3_selected"`

	SummaryZH     string   `json:"summary_zh,omitempty"`
	SummaryEN     string   `json:"summary_en,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	PaperCategory string   `json:"paper_category,omitempty"`
}

// Category returns the item's paper category, defaulting when unset.
func (it *Item) Category() string {
	if it.PaperCategory == "" {
		return DefaultPaperCategory
	}
	return it.PaperCategory
}

// Report is the daily output of one funnel run.
type Report struct {
	Date           string    `json:"date"`
	GeneratedAt    time.Time `json:"generated_at"`
	IntroductionZH string    `json:"introduction_zh"`
	IntroductionEN string    `json:"introduction_en"`
	LongformZH     string    `json:"longform_script_zh,omitempty"`
	LongformEN     string    `json:"longform_script_en,omitempty"`

	Papers []*Item `json:"papers"`
	News   []*Item `json:"news"`

	Stats map[string]int `json:"stats"`
}
