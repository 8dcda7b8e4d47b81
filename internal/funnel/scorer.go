package funnel

import (
	"context"
	"errors"
	"math"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

// L2Result carries the scored, pre-selected candidates for Stage 3.
// NewsL3 is the full quality-gated pool sorted by combined score; the caller
// deduplicates it semantically before truncating to the configured limit.
type L2Result struct {
	PapersL3 []*model.Item
	NewsL3   []*model.Item
}

// Scorer is the L2 relevance scorer. With an oracle it batches items through
// it; without one (or after retries are exhausted) it falls back to a
// deterministic local heuristic so every item leaves with a score.
type Scorer struct {
	cfg    *config.Config
	oracle ScoreOracle
}

// NewScorer builds the Stage-2 scorer. oracle may be nil.
func NewScorer(cfg *config.Config, oracle ScoreOracle) *Scorer {
	return &Scorer{cfg: cfg, oracle: oracle}
}

// Run scores all four L1 partitions (whitelisted items are scored too, so
// that ranking works) and applies the post-scoring paper quotas and news
// quality gate.
func (s *Scorer) Run(ctx context.Context, papersL2, papersWL, newsL2, newsWL []*model.Item) L2Result {
	allPapers := append(s.scoreBatches(ctx, papersL2, model.TypePaper), s.scoreBatches(ctx, papersWL, model.TypePaper)...)
	allNews := append(s.scoreBatches(ctx, newsL2, model.TypeNews), s.scoreBatches(ctx, newsWL, model.TypeNews)...)

	for _, item := range allPapers {
		if item.PaperCategory == "" {
			item.PaperCategory = model.DefaultPaperCategory
		}
	}

	SortByCombined(allPapers)
	SortByCombined(allNews)

	strong := make([]*model.Item, 0, len(allNews))
	for _, item := range allNews {
		if s.isStrongNews(item) {
			strong = append(strong, item)
		}
	}
	// Never let the quality gate alone empty the news pool.
	if len(strong) > 0 {
		allNews = strong
	}

	topPapers := selectByCategory(allPapers, s.cfg.Curation.PaperCategories, s.cfg.L2PaperCategoryMax, 0)

	logger.Info("relevance scorer done",
		"papers_scored", len(allPapers),
		"papers_selected", len(topPapers),
		"news_scored", len(allNews))

	return L2Result{PapersL3: topPapers, NewsL3: allNews}
}

// scoreBatches splits items into fixed-size batches and scores each one,
// preferring the oracle and degrading per batch.
func (s *Scorer) scoreBatches(ctx context.Context, items []*model.Item, contentType model.ContentType) []*model.Item {
	if len(items) == 0 {
		return nil
	}

	batchSize := s.cfg.ScoreBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	scored := make([]*model.Item, 0, len(items))
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		judgments := s.judgeBatch(ctx, batch, contentType)

		for _, item := range batch {
			j, ok := judgments[item.ID]
			if !ok {
				j = ScoreJudgment{Score: 5}
			}
			item.L2Score = clampScore(j.Score)
			item.L2Reason = j.Reason
			item.L2CombinedScore = s.combinedScore(item, item.L2Score)
			scored = append(scored, item)
		}
	}
	return scored
}

// judgeBatch asks the oracle for one batch's judgments. A schema-level bad
// response yields default scores; any other failure (including no oracle at
// all) yields the local heuristic.
func (s *Scorer) judgeBatch(ctx context.Context, batch []*model.Item, contentType model.ContentType) map[string]ScoreJudgment {
	result := make(map[string]ScoreJudgment, len(batch))

	if s.oracle != nil {
		judgments, err := s.oracle.ScoreBatch(ctx, batch, contentType)
		if err == nil {
			for _, j := range judgments {
				result[j.ID] = j
			}
			return result
		}
		if errors.Is(err, ErrBadResponse) {
			logger.Warn("oracle response unparsable, using default scores", "items", len(batch))
			for _, item := range batch {
				result[item.ID] = ScoreJudgment{ID: item.ID, Score: 5, Reason: "评分解析失败，使用默认分"}
			}
			return result
		}
		logger.Warn("oracle call failed, falling back to heuristic scores", "error", err, "items", len(batch))
	}

	for _, item := range batch {
		result[item.ID] = ScoreJudgment{ID: item.ID, Score: s.heuristicScore(item), Reason: "启发式评分"}
	}
	return result
}

var (
	highValueKeywords = []string{
		"sota", "breakthrough", "state-of-the-art", "novel", "first",
		"gpt-5", "claude", "gemini", "突破", "创新",
	}
	bigTechKeywords = []string{
		"openai", "anthropic", "deepmind", "meta ai", "google research",
	}
	lowValueKeywords = []string{
		"tutorial", "beginner", "introduction", "survey", "review",
	}
)

// heuristicScore is the deterministic local substitute for the oracle:
// additive bonuses for breakthrough-class keywords and major labs, penalties
// for tutorial-class keywords, around a 5.0 baseline.
func (s *Scorer) heuristicScore(item *model.Item) float64 {
	score := 5.0
	text := strings.ToLower(item.Title + " " + item.Abstract)

	for _, kw := range highValueKeywords {
		if strings.Contains(text, kw) {
			score += 1.5
		}
	}
	for _, kw := range bigTechKeywords {
		if strings.Contains(text, kw) {
			score += 1.0
		}
	}
	for _, kw := range lowValueKeywords {
		if strings.Contains(text, kw) {
			score -= 1.0
		}
	}
	return clampScore(score)
}

// combinedScore blends oracle relevance with community signal and source
// trust. arXiv papers carry no comparable social signal, so for them the
// community and whitelist terms are deliberately excluded.
func (s *Scorer) combinedScore(item *model.Item, relevance float64) float64 {
	sourceBonus := 0.0
	name := strings.ToLower(item.SourceName)
	link := strings.ToLower(item.URL)
	for key, weight := range s.cfg.Curation.SourceWeights {
		k := strings.ToLower(key)
		if strings.Contains(name, k) || strings.Contains(link, k) {
			sourceBonus = math.Max(sourceBonus, weight)
		}
	}

	if item.ContentType == model.TypePaper && item.SourceType == model.SourceArxiv {
		return round2(relevance + sourceBonus)
	}

	officialBias := 0.0
	if item.ContentType == model.TypeNews {
		if s.isOfficialSource(item) {
			officialBias = s.cfg.OfficialNewsBonus
		} else {
			officialBias = s.cfg.NonOfficialNewsPenalty
		}
	}

	maxRef := s.cfg.MaxSocialReference
	if maxRef <= 0 {
		maxRef = 500
	}
	normalizedSocial := math.Min(10, float64(item.Score)/float64(maxRef)*10)

	whitelistBonus := 0.0
	if item.IsWhitelist {
		whitelistBonus = s.cfg.WhitelistBonus
	}

	combined := relevance*0.6 + normalizedSocial*0.4 + whitelistBonus + sourceBonus + officialBias
	return round2(combined)
}

func (s *Scorer) isOfficialSource(item *model.Item) bool {
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
	for _, domain := range s.cfg.Curation.WhitelistDomains {
		if strings.Contains(host, strings.ToLower(domain)) {
			return true
		}
	}
	return false
}

// isStrongNews drops items whose oracle verdict rubber-stamps without a
// substantive justification.
func (s *Scorer) isStrongNews(item *model.Item) bool {
	if item.L2Score < s.cfg.NewsMinScore {
		return false
	}
	reason := strings.TrimSpace(item.L2Reason)
	if utf8.RuneCountInString(reason) < s.cfg.NewsMinReasonLen {
		return false
	}
	return !s.isVagueReason(reason)
}

func (s *Scorer) isVagueReason(reason string) bool {
	if reason == "" {
		return true
	}
	text := strings.ToLower(reason)
	for _, phrase := range s.cfg.Curation.VaguePhrases {
		if strings.Contains(text, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(10, score))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// SortByCombined orders items by combined score, highest first. The sort is
// stable so equal scores keep their arrival order.
func SortByCombined(items []*model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].L2CombinedScore > items[j].L2CombinedScore
	})
}

// selectByCategory walks the globally sorted pool and greedily fills each
// category bucket up to perCategory, preserving global score order in the
// output. With no categories configured it degrades to an un-bucketed top-N
// (totalCap, or everything when totalCap is 0). A totalCap > 0 also bounds
// the bucketed result.
func selectByCategory(sorted []*model.Item, categories []string, perCategory, totalCap int) []*model.Item {
	if len(categories) == 0 {
		if totalCap > 0 && len(sorted) > totalCap {
			return sorted[:totalCap]
		}
		return sorted
	}

	counts := make(map[string]int, len(categories))
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c] = true
	}

	var chosen []*model.Item
	for _, item := range sorted {
		category := item.Category()
		if !known[category] {
			category = model.DefaultPaperCategory
		}
		if counts[category] >= perCategory {
			continue
		}
		counts[category]++
		chosen = append(chosen, item)
	}

	if totalCap > 0 && len(chosen) > totalCap {
		chosen = chosen[:totalCap]
	}
	return chosen
}
