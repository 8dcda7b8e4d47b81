// Package app wires the full daily run: ingestion, the three funnel
// stages, deduplication and report persistence.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/feed"
	"github.com/TidalHarley/Morning-Tide/internal/funnel"
	"github.com/TidalHarley/Morning-Tide/internal/gemini"
	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/metrics"
	"github.com/TidalHarley/Morning-Tide/internal/model"
	"github.com/TidalHarley/Morning-Tide/internal/scraper"
	"github.com/TidalHarley/Morning-Tide/internal/storage"
)

const historyTTLDays = 7

// Run executes one full curation cycle and writes the daily report.
func Run(ctx context.Context) error {
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init()

	var (
		scoreOracle  funnel.ScoreOracle
		refineOracle funnel.RefineOracle
		embedder     funnel.Embedder
	)
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			metrics.Global.SetError(err.Error())
			return fmt.Errorf("gemini client: %w", err)
		}
		defer client.Close()
		scoreOracle = client
		refineOracle = client
		embedder = client
	} else {
		logger.Warn("no gemini api key set, running on heuristic scoring only")
	}

	history := storage.NewHistory(cfg.HistoryPath, historyTTLDays)
	if err := history.Load(); err != nil {
		logger.Warn("history load failed, starting fresh", "error", err)
	}

	// Ingestion
	fetcher := feed.NewFetcher(cfg)
	papers, news := fetcher.FetchAll(ctx)
	metrics.Global.AddIngested(len(papers), len(news))

	// Exact URL dedup, then drop anything already published recently.
	dedup := funnel.NewDeduplicator(cfg, embedder)
	beforeTotal := len(papers) + len(news)
	papers = dedup.DeduplicateByURL(papers)
	news = dedup.DeduplicateByURL(news)
	metrics.Global.AddURLDuplicates(beforeTotal - len(papers) - len(news))

	papers = dropPublished(history, papers)
	news = dropPublished(history, news)

	// Articles the prompts will actually read get full text.
	scraper.New(cfg).Enrich(ctx, news)

	// Stage 1
	l1 := funnel.NewHeuristicFilter(cfg).Run(papers, news)
	passedPapers := len(l1.PapersL2) + len(l1.PapersWhitelist)
	passedNews := len(l1.NewsL2) + len(l1.NewsWhitelist)
	metrics.Global.AddL1Passed(passedPapers, passedNews, len(papers)+len(news)-passedPapers-passedNews)

	// Stage 2
	scorer := funnel.NewScorer(cfg, scoreOracle)
	l2 := scorer.Run(ctx, l1.PapersL2, l1.PapersWhitelist, l1.NewsL2, l1.NewsWhitelist)
	metrics.Global.AddL2Scored(len(l2.PapersL3) + len(l2.NewsL3))

	// Semantic dedup runs on the full gated news pool before the Stage-3
	// candidate cut, so near-duplicates cannot occupy two quota slots.
	newsPool := dedup.DeduplicateSemantic(ctx, l2.NewsL3)
	funnel.SortByCombined(newsPool)
	if len(newsPool) > cfg.L2NewsLimit {
		newsPool = newsPool[:cfg.L2NewsLimit]
	}

	// Stage 3
	refiner := funnel.NewRefiner(cfg, refineOracle)
	report := refiner.Run(ctx, l2.PapersL3, newsPool)
	metrics.Global.AddL3Selected(len(report.Papers) + len(report.News))

	if err := storage.SaveReport(cfg.ReportPath, report); err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("save report: %w", err)
	}
	history.RecordReport(report)
	if err := history.Save(); err != nil {
		logger.Warn("history save failed", "error", err)
	}

	metrics.Global.RecordRun(time.Since(start))
	logger.Info("run complete",
		"duration", time.Since(start).Round(time.Second).String(),
		"papers", len(report.Papers),
		"news", len(report.News),
		"report", cfg.ReportPath)
	return nil
}

// dropPublished removes items whose link already appeared in a recent
// report.
func dropPublished(history *storage.History, items []*model.Item) []*model.Item {
	kept := items[:0]
	dropped := 0
	for _, item := range items {
		if history.Seen(item.URL) {
			dropped++
			continue
		}
		kept = append(kept, item)
	}
	if dropped > 0 {
		logger.Info("dropped already-published items", "count", dropped)
	}
	return kept
}
