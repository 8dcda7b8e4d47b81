package funnel

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

// Refiner is Stage 3: the quota-bounded final selection plus narrative and
// summary enrichment. Selection itself is deterministic; the oracle only
// confirms news picks and supplies text, and every oracle failure has a
// templated fallback so the run always yields a complete report.
type Refiner struct {
	cfg    *config.Config
	oracle RefineOracle
}

// NewRefiner builds the Stage-3 refiner. oracle may be nil.
func NewRefiner(cfg *config.Config, oracle RefineOracle) *Refiner {
	return &Refiner{cfg: cfg, oracle: oracle}
}

// Run produces the daily report from the scored, deduplicated candidates.
func (r *Refiner) Run(ctx context.Context, papersL3, newsL3 []*model.Item) *model.Report {
	logger.Info("refiner start", "papers", len(papersL3), "news", len(newsL3))

	for _, item := range papersL3 {
		if item.PaperCategory == "" {
			item.PaperCategory = model.DefaultPaperCategory
		}
		if len(item.Tags) == 0 {
			item.Tags = AutoTag(item.Title, item.Abstract)
		}
	}

	SortByCombined(papersL3)
	SortByCombined(newsL3)

	var (
		selectedPapers []*model.Item
		selectedNews   []*model.Item
		introZH        string
		introEN        string
	)

	if r.oracle != nil {
		selection, err := r.oracle.Select(ctx, papersL3, newsL3)
		if err != nil {
			logger.Warn("selection oracle failed, using deterministic fallback", "error", err)
			selectedPapers, selectedNews, introZH, introEN = r.fallbackSelection(papersL3, newsL3)
		} else {
			confirmed := make(map[string]bool, len(selection.SelectedNewsIDs))
			for _, id := range selection.SelectedNewsIDs {
				confirmed[id] = true
			}
			// Papers are always re-derived by quota; the oracle's paper ids
			// are advisory only.
			selectedPapers = r.selectPapers(papersL3)
			selectedNews = r.selectNews(newsL3, confirmed)
			introZH = selection.IntroductionZH
			introEN = selection.IntroductionEN
		}
	} else {
		selectedPapers, selectedNews, introZH, introEN = r.fallbackSelection(papersL3, newsL3)
	}

	for _, item := range selectedPapers {
		item.L3Selected = true
	}
	for _, item := range selectedNews {
		item.L3Selected = true
	}

	r.enrichSummaries(ctx, append(append([]*model.Item{}, selectedPapers...), selectedNews...))
	r.ensureNewsText(selectedNews)

	for _, item := range selectedPapers {
		item.Tags = AutoTag(item.Title, item.Abstract)
	}
	for _, item := range selectedNews {
		item.Tags = AutoTag(item.Title, item.Abstract)
	}

	if introZH == "" {
		introZH = "今日 AI 领域动态汇总。"
	}
	if introEN == "" {
		introEN = "Today's AI developments at a glance."
	}

	longformZH, longformEN := r.longform(ctx, selectedNews, introZH, introEN)

	now := time.Now()
	report := &model.Report{
		Date:           now.Format("2006-01-02"),
		GeneratedAt:    now,
		IntroductionZH: introZH,
		IntroductionEN: introEN,
		LongformZH:     longformZH,
		LongformEN:     longformEN,
		Papers:         selectedPapers,
		News:           selectedNews,
		Stats: map[string]int{
			"l2_papers_scored":   len(papersL3),
			"l2_news_scored":     len(newsL3),
			"l3_papers_selected": len(selectedPapers),
			"l3_news_selected":   len(selectedNews),
		},
	}

	logger.Info("refiner done", "papers", len(selectedPapers), "news", len(selectedNews))
	return report
}

// selectPapers re-applies the category-bucketed greedy fill at the tighter
// Stage-3 target.
func (r *Refiner) selectPapers(papers []*model.Item) []*model.Item {
	categories := r.cfg.Curation.PaperCategories
	target := r.cfg.L3PaperCategoryTarget
	totalCap := target * len(categories)
	if len(categories) == 0 {
		// Misconfigured category list must not crash the funnel; fall back
		// to an un-bucketed top-N at the per-category target.
		totalCap = target
	}
	return selectByCategory(papers, categories, target, totalCap)
}

// selectNews starts from oracle-confirmed ids and backfills from the sorted
// pool until the target count is reached.
func (r *Refiner) selectNews(news []*model.Item, confirmed map[string]bool) []*model.Item {
	target := r.cfg.L3NewsTarget
	selected := make([]*model.Item, 0, target)
	picked := make(map[string]bool, target)

	for _, item := range news {
		if confirmed[item.ID] {
			selected = append(selected, item)
			picked[item.ID] = true
		}
	}
	for _, item := range news {
		if len(selected) >= target {
			break
		}
		if !picked[item.ID] {
			selected = append(selected, item)
			picked[item.ID] = true
		}
	}
	if len(selected) > target {
		selected = selected[:target]
	}
	return selected
}

// fallbackSelection is the fully deterministic path: quota selection plus a
// templated narrative from the top titles.
func (r *Refiner) fallbackSelection(papers, news []*model.Item) ([]*model.Item, []*model.Item, string, string) {
	selectedPapers := r.selectPapers(papers)
	selectedNews := r.selectNews(news, nil)

	paperTitles := topTitles(selectedPapers, 3)
	newsTitles := topTitles(selectedNews, 3)

	introZH := fmt.Sprintf(
		"今日 AI 动态：论文方面关注 %s 等研究；行业新闻涵盖 %s 等内容。",
		strings.Join(paperTitles, "、"), strings.Join(newsTitles, "、"))
	introEN := fmt.Sprintf(
		"Today's AI highlights: key papers include %s; industry news covers %s.",
		strings.Join(paperTitles, ", "), strings.Join(newsTitles, ", "))

	return selectedPapers, selectedNews, introZH, introEN
}

func topTitles(items []*model.Item, n int) []string {
	titles := make([]string, 0, n)
	for _, item := range items {
		if len(titles) >= n {
			break
		}
		title := item.Title
		if utf8.RuneCountInString(title) > 30 {
			title = string([]rune(title)[:30])
		}
		titles = append(titles, title)
	}
	return titles
}

// enrichSummaries asks the oracle for batched summaries and applies them,
// substituting deterministic fallbacks per item when a batch fails or the
// oracle is absent.
func (r *Refiner) enrichSummaries(ctx context.Context, items []*model.Item) {
	if len(items) == 0 {
		return
	}

	summaries := make(map[string]ItemSummary, len(items))
	if r.oracle != nil {
		batchSize := r.cfg.SummaryBatchSize
		if batchSize <= 0 {
			batchSize = 8
		}
		for start := 0; start < len(items); start += batchSize {
			end := start + batchSize
			if end > len(items) {
				end = len(items)
			}
			batch := items[start:end]
			results, err := r.oracle.Summarize(ctx, batch)
			if err != nil {
				logger.Warn("summary batch failed, using fallback", "items", len(batch), "error", err)
				continue
			}
			for _, s := range results {
				summaries[s.ID] = s
			}
		}
	}

	for _, item := range items {
		s := summaries[item.ID]
		if strings.TrimSpace(s.SummaryZH) != "" {
			item.SummaryZH = strings.TrimSpace(s.SummaryZH)
		} else {
			item.SummaryZH = r.fallbackSummaryZH(item)
		}
		if strings.TrimSpace(s.SummaryEN) != "" {
			item.SummaryEN = strings.TrimSpace(s.SummaryEN)
		} else {
			item.SummaryEN = r.fallbackSummaryEN(item)
		}
		if item.ContentType == model.TypeNews {
			if t := strings.TrimSpace(s.TitleZH); t != "" {
				item.TitleZH = t
			}
			if t := strings.TrimSpace(s.TitleEN); t != "" {
				item.TitleEN = t
			}
		}
	}
}

// ensureNewsText guarantees every selected news item leaves with non-empty
// localized summary and title fields.
func (r *Refiner) ensureNewsText(news []*model.Item) {
	for _, item := range news {
		if !r.isValidNewsSummary(item.SummaryZH) {
			item.SummaryZH = r.fallbackSummaryZH(item)
		}
		if !r.isValidNewsSummary(item.SummaryEN) {
			item.SummaryEN = r.fallbackSummaryEN(item)
		}
		if strings.TrimSpace(item.TitleZH) == "" {
			item.TitleZH = item.Title
		}
		if strings.TrimSpace(item.TitleEN) == "" {
			item.TitleEN = item.Title
		}
	}
}

func (r *Refiner) isValidNewsSummary(summary string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(summary)) >= r.cfg.NewsSummaryMinRunes
}

func (r *Refiner) fallbackSummaryZH(item *model.Item) string {
	if item.ContentType == model.TypeNews {
		about := item.Abstract
		if about == "" {
			about = item.Title
		}
		about = truncateRunes(about, 80)
		return fmt.Sprintf(
			"%s，该事件带来新的技术、产品或监管变化，并将影响 AI 模型的能力、成本或应用边界，同时意味着普通人可能在工具可用性、价格或隐私体验上感知到变化。",
			about)
	}
	summary := item.Title
	if item.Abstract != "" {
		summary = truncateRunes(item.Abstract, 120) + "..."
	}
	return fmt.Sprintf(
		"主要内容：%s；关键点：%s；为什么重要：这是近期 AI 领域值得跟踪的进展。",
		summary, truncateRunes(item.Title, 60))
}

func (r *Refiner) fallbackSummaryEN(item *model.Item) string {
	if item.ContentType == model.TypeNews {
		about := item.Abstract
		if about == "" {
			about = item.Title
		}
		return fmt.Sprintf(
			"%s. This matters because it may reshape AI capability, cost, or deployment choices, and can affect how end users work with AI tools.",
			truncateRunes(about, 120))
	}
	summary := item.Title
	if item.Abstract != "" {
		summary = truncateRunes(item.Abstract, 150) + "..."
	}
	return fmt.Sprintf(
		"Main point: %s. Key takeaway: %s. Why it matters: this is a notable AI development to track.",
		summary, truncateRunes(item.Title, 80))
}

// longform generates the podcast briefing scripts, falling back to the
// introductions when the oracle cannot deliver.
func (r *Refiner) longform(ctx context.Context, news []*model.Item, introZH, introEN string) (string, string) {
	if r.oracle == nil || len(news) == 0 {
		return introZH, introEN
	}

	zh, err := r.oracle.Longform(ctx, news, introZH, "zh")
	if err != nil || strings.TrimSpace(zh) == "" {
		logger.Warn("longform generation failed, using introduction", "lang", "zh", "error", err)
		zh = introZH
	}
	en, err := r.oracle.Longform(ctx, news, introEN, "en")
	if err != nil || strings.TrimSpace(en) == "" {
		logger.Warn("longform generation failed, using introduction", "lang", "en", "error", err)
		en = introEN
	}
	return strings.TrimSpace(zh), strings.TrimSpace(en)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
