// Package funnel implements the three-stage content curation funnel:
// a deterministic heuristic filter (L1), an oracle-assisted relevance
// scorer (L2), URL and semantic deduplication, and a quota-bounded final
// selection (L3). External AI services are consumed through the small
// interfaces below; every stage has a deterministic fallback so a run
// always produces a complete report.
package funnel

import (
	"context"
	"errors"

	"github.com/TidalHarley/Morning-Tide/internal/model"
)

// ErrBadResponse marks an oracle reply that arrived but failed schema
// validation. Callers treat it differently from transport errors: a bad
// response yields default scores, a dead oracle yields the heuristic path.
var ErrBadResponse = errors.New("unparsable oracle response")

// ScoreJudgment is one item's verdict from the relevance oracle.
type ScoreJudgment struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// ScoreOracle assigns 0-10 relevance judgments to a batch of items.
type ScoreOracle interface {
	ScoreBatch(ctx context.Context, items []*model.Item, contentType model.ContentType) ([]ScoreJudgment, error)
}

// Selection is the final-selection oracle's reply.
type Selection struct {
	SelectedPaperIDs []string `json:"selected_paper_ids"`
	SelectedNewsIDs  []string `json:"selected_news_ids"`
	IntroductionZH   string   `json:"daily_introduction_zh"`
	IntroductionEN   string   `json:"daily_introduction_en"`
}

// ItemSummary is one item's generated summary and localized titles.
type ItemSummary struct {
	ID        string `json:"id"`
	SummaryZH string `json:"summary_zh"`
	SummaryEN string `json:"summary_en"`
	TitleZH   string `json:"title_zh"`
	TitleEN   string `json:"title_en"`
}

// RefineOracle backs Stage 3: final selection confirmation, per-item
// summaries and the longform briefing script.
type RefineOracle interface {
	Select(ctx context.Context, papers, news []*model.Item) (*Selection, error)
	Summarize(ctx context.Context, items []*model.Item) ([]ItemSummary, error)
	Longform(ctx context.Context, news []*model.Item, introduction, language string) (string, error)
}

// Embedder turns texts into unit-normalized vectors for semantic dedup.
// A nil or unavailable embedder degrades the feature to a no-op.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Available() bool
}
