package funnel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

type fakeScoreOracle struct {
	judge func(items []*model.Item) ([]ScoreJudgment, error)
}

func (f *fakeScoreOracle) ScoreBatch(_ context.Context, items []*model.Item, _ model.ContentType) ([]ScoreJudgment, error) {
	return f.judge(items)
}

func fixedScoreOracle(score float64, reason string) *fakeScoreOracle {
	return &fakeScoreOracle{judge: func(items []*model.Item) ([]ScoreJudgment, error) {
		out := make([]ScoreJudgment, 0, len(items))
		for _, it := range items {
			out = append(out, ScoreJudgment{ID: it.ID, Score: score, Reason: reason})
		}
		return out, nil
	}}
}

func TestScorer_CombinedScoreBlendsRelevanceAndCommunity(t *testing.T) {
	cfg := config.Default()
	s := NewScorer(cfg, fixedScoreOracle(8, "具体扎实的评分理由，覆盖事件主体与影响面"))

	paper := &model.Item{
		ID:          "p1",
		Title:       "New multimodal model",
		URL:         "https://huggingface.co/papers/2501.01234",
		ContentType: model.TypePaper,
		SourceType:  model.SourceHuggingFace,
		SourceName:  "HuggingFace Daily Papers",
		Score:       250,
		IsWhitelist: true,
	}
	res := s.Run(context.Background(), nil, []*model.Item{paper}, nil, nil)
	if len(res.PapersL3) != 1 {
		t.Fatalf("expected 1 paper, got %d", len(res.PapersL3))
	}
	// 8*0.6 + (250/500*10)*0.4 + 2.0 whitelist = 8.8
	if got := res.PapersL3[0].L2CombinedScore; got != 8.8 {
		t.Errorf("combined score = %v, want 8.8", got)
	}
}

func TestScorer_ArxivCombinedIgnoresCommunitySignal(t *testing.T) {
	cfg := config.Default()
	s := NewScorer(cfg, fixedScoreOracle(7, "评分理由足够长，描述了论文的具体贡献点"))

	mk := func(id string, score int) *model.Item {
		return &model.Item{
			ID:          id,
			Title:       "Attention mechanism study",
			URL:         "https://arxiv.org/abs/2501.0" + id,
			ContentType: model.TypePaper,
			SourceType:  model.SourceArxiv,
			SourceName:  "arXiv",
			Score:       score,
		}
	}
	res := s.Run(context.Background(), []*model.Item{mk("1", 0), mk("2", 400)}, nil, nil, nil)
	if len(res.PapersL3) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(res.PapersL3))
	}
	if res.PapersL3[0].L2CombinedScore != res.PapersL3[1].L2CombinedScore {
		t.Errorf("arXiv combined must not depend on ingestion score: %v vs %v",
			res.PapersL3[0].L2CombinedScore, res.PapersL3[1].L2CombinedScore)
	}
	if res.PapersL3[0].L2CombinedScore != 7 {
		t.Errorf("arXiv combined = %v, want relevance alone (7)", res.PapersL3[0].L2CombinedScore)
	}
}

func TestScorer_ClampsOutOfRangeScores(t *testing.T) {
	cfg := config.Default()
	s := NewScorer(cfg, fixedScoreOracle(15, "超出范围的分数应被截断到有效区间内"))

	item := &model.Item{
		ID:          "p1",
		Title:       "LLM paper",
		URL:         "https://arxiv.org/abs/2501.00001",
		ContentType: model.TypePaper,
		SourceType:  model.SourceArxiv,
	}
	res := s.Run(context.Background(), []*model.Item{item}, nil, nil, nil)
	if got := res.PapersL3[0].L2Score; got != 10 {
		t.Errorf("L2Score = %v, want clamped 10", got)
	}
}

func TestScorer_BadResponseGivesDefaultScore(t *testing.T) {
	cfg := config.Default()
	oracle := &fakeScoreOracle{judge: func(items []*model.Item) ([]ScoreJudgment, error) {
		return nil, fmt.Errorf("%w: junk", ErrBadResponse)
	}}
	s := NewScorer(cfg, oracle)

	item := &model.Item{
		ID:          "p1",
		Title:       "Some paper",
		ContentType: model.TypePaper,
		SourceType:  model.SourceArxiv,
	}
	res := s.Run(context.Background(), []*model.Item{item}, nil, nil, nil)
	if got := res.PapersL3[0].L2Score; got != 5 {
		t.Errorf("L2Score = %v, want default 5 on unparsable response", got)
	}
	if res.PapersL3[0].L2Reason == "" {
		t.Errorf("expected a default-score reason to be recorded")
	}
}

func TestScorer_TransportFailureFallsBackToHeuristic(t *testing.T) {
	cfg := config.Default()
	oracle := &fakeScoreOracle{judge: func(items []*model.Item) ([]ScoreJudgment, error) {
		return nil, errors.New("connection refused")
	}}
	s := NewScorer(cfg, oracle)

	item := &model.Item{
		ID:          "p1",
		Title:       "OpenAI announces breakthrough reasoning model",
		ContentType: model.TypePaper,
		SourceType:  model.SourceArxiv,
	}
	res := s.Run(context.Background(), []*model.Item{item}, nil, nil, nil)
	// 5.0 base + 1.5 breakthrough + 1.0 openai = 7.5
	if got := res.PapersL3[0].L2Score; got != 7.5 {
		t.Errorf("heuristic L2Score = %v, want 7.5", got)
	}
}

func TestScorer_NilOracleUsesHeuristic(t *testing.T) {
	cfg := config.Default()
	s := NewScorer(cfg, nil)

	item := &model.Item{
		ID:          "p1",
		Title:       "A tutorial on transformers",
		ContentType: model.TypePaper,
		SourceType:  model.SourceArxiv,
	}
	res := s.Run(context.Background(), []*model.Item{item}, nil, nil, nil)
	// 5.0 base - 1.0 tutorial = 4.0
	if got := res.PapersL3[0].L2Score; got != 4 {
		t.Errorf("heuristic L2Score = %v, want 4", got)
	}
}

func TestScorer_MissingJudgmentDefaultsToFive(t *testing.T) {
	cfg := config.Default()
	oracle := &fakeScoreOracle{judge: func(items []*model.Item) ([]ScoreJudgment, error) {
		// Respond for every item except p2.
		var out []ScoreJudgment
		for _, it := range items {
			if it.ID == "p2" {
				continue
			}
			out = append(out, ScoreJudgment{ID: it.ID, Score: 9, Reason: "评分理由足够长，说明了论文的核心价值所在"})
		}
		return out, nil
	}}
	s := NewScorer(cfg, oracle)

	items := []*model.Item{
		{ID: "p1", Title: "A", ContentType: model.TypePaper, SourceType: model.SourceArxiv},
		{ID: "p2", Title: "B", ContentType: model.TypePaper, SourceType: model.SourceArxiv},
	}
	res := s.Run(context.Background(), items, nil, nil, nil)
	var p2 *model.Item
	for _, it := range res.PapersL3 {
		if it.ID == "p2" {
			p2 = it
		}
	}
	if p2 == nil {
		t.Fatal("p2 missing from scored output")
	}
	if p2.L2Score != 5 {
		t.Errorf("missing judgment L2Score = %v, want 5", p2.L2Score)
	}
}

func TestScorer_NewsQualityGateDropsWeakItems(t *testing.T) {
	cfg := config.Default()
	oracle := &fakeScoreOracle{judge: func(items []*model.Item) ([]ScoreJudgment, error) {
		out := make([]ScoreJudgment, 0, len(items))
		for _, it := range items {
			switch it.ID {
			case "strong":
				out = append(out, ScoreJudgment{ID: it.ID, Score: 8, Reason: "OpenAI 发布新模型，推理成本下降一半，直接影响开发者定价"})
			case "vague":
				out = append(out, ScoreJudgment{ID: it.ID, Score: 8, Reason: "这条新闻意义重大，影响深远，值得关注并持续跟踪观察"})
			case "lowscore":
				out = append(out, ScoreJudgment{ID: it.ID, Score: 4, Reason: "虽然理由写得足够具体详细，但分数本身低于新闻门槛"})
			}
		}
		return out, nil
	}}
	s := NewScorer(cfg, oracle)

	news := []*model.Item{
		{ID: "strong", Title: "A", ContentType: model.TypeNews, SourceType: model.SourceRSS},
		{ID: "vague", Title: "B", ContentType: model.TypeNews, SourceType: model.SourceRSS},
		{ID: "lowscore", Title: "C", ContentType: model.TypeNews, SourceType: model.SourceRSS},
	}
	res := s.Run(context.Background(), nil, nil, news, nil)
	if len(res.NewsL3) != 1 || res.NewsL3[0].ID != "strong" {
		t.Fatalf("expected only the strong item, got %d items", len(res.NewsL3))
	}
}

func TestScorer_QualityGateNeverEmptiesNewsPool(t *testing.T) {
	cfg := config.Default()
	// Every reason is vague, so the strict gate matches nothing.
	s := NewScorer(cfg, fixedScoreOracle(8, "意义重大"))

	news := []*model.Item{
		{ID: "n1", Title: "A", ContentType: model.TypeNews, SourceType: model.SourceRSS},
		{ID: "n2", Title: "B", ContentType: model.TypeNews, SourceType: model.SourceRSS},
	}
	res := s.Run(context.Background(), nil, nil, news, nil)
	if len(res.NewsL3) != 2 {
		t.Errorf("gate must not empty the pool: got %d, want 2", len(res.NewsL3))
	}
}

func TestScorer_PaperCategoryQuota(t *testing.T) {
	cfg := config.Default()
	cfg.L2PaperCategoryMax = 2
	s := NewScorer(cfg, fixedScoreOracle(7, "评分理由足够长，描述了论文的具体贡献点"))

	var papers []*model.Item
	for i := 0; i < 5; i++ {
		papers = append(papers, &model.Item{
			ID:            fmt.Sprintf("cv%d", i),
			Title:         "CV paper",
			ContentType:   model.TypePaper,
			SourceType:    model.SourceArxiv,
			PaperCategory: "Computer Vision",
		})
	}
	papers = append(papers, &model.Item{
		ID:          "gen",
		Title:       "General paper",
		ContentType: model.TypePaper,
		SourceType:  model.SourceArxiv,
		// Empty category defaults to General AI.
	})
	res := s.Run(context.Background(), papers, nil, nil, nil)

	counts := map[string]int{}
	for _, p := range res.PapersL3 {
		counts[p.Category()]++
	}
	if counts["Computer Vision"] != 2 {
		t.Errorf("Computer Vision quota = %d, want 2", counts["Computer Vision"])
	}
	if counts["General AI"] != 1 {
		t.Errorf("General AI count = %d, want 1", counts["General AI"])
	}
}

func TestSelectByCategory_UnknownCategoryCountsAsDefault(t *testing.T) {
	items := []*model.Item{
		{ID: "a", PaperCategory: "Quantum Computing", L2CombinedScore: 9},
		{ID: "b", PaperCategory: "General AI", L2CombinedScore: 8},
	}
	got := selectByCategory(items, []string{"General AI", "Computer Vision"}, 1, 0)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unknown category must compete in the default bucket, got %d items", len(got))
	}
}

func TestSelectByCategory_TotalCapBounds(t *testing.T) {
	var items []*model.Item
	for i := 0; i < 10; i++ {
		items = append(items, &model.Item{ID: fmt.Sprintf("i%d", i), PaperCategory: "General AI"})
	}
	got := selectByCategory(items, nil, 0, 3)
	if len(got) != 3 {
		t.Errorf("no-category top-N = %d, want 3", len(got))
	}
}
