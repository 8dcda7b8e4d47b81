package funnel

import (
	"context"
	"strings"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/metrics"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

// Deduplicator removes exact URL duplicates and, when an embedder is
// available, near-duplicate stories by embedding similarity.
type Deduplicator struct {
	cfg      *config.Config
	embedder Embedder
}

// NewDeduplicator builds a deduplicator. embedder may be nil; semantic
// dedup then degrades to a no-op.
func NewDeduplicator(cfg *config.Config, embedder Embedder) *Deduplicator {
	return &Deduplicator{cfg: cfg, embedder: embedder}
}

// DeduplicateByURL keeps the first item seen for each normalized-URL key,
// preserving input order. Items without a URL fall back to a normalized
// title key.
func (d *Deduplicator) DeduplicateByURL(items []*model.Item) []*model.Item {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]*model.Item, 0, len(items))
	for _, item := range items {
		key := NormalizeURL(item.URL)
		if key == "" {
			key = "title::" + strings.ToLower(strings.TrimSpace(item.Title))
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}
	if dropped := len(items) - len(result); dropped > 0 {
		logger.Info("url dedup", "in", len(items), "out", len(result))
	}
	return result
}

// rank orders near-duplicates: the better-scored story wins regardless of
// arrival order.
func rank(item *model.Item) float64 {
	return item.L2CombinedScore*2 + float64(item.Score)
}

// DeduplicateSemantic suppresses near-duplicate items by cosine similarity
// over embeddings of "title + abstract". When two items exceed the
// threshold the higher-ranked of the pair is kept, replacing the earlier
// entry in place if needed. The pool is capped to bound embedding cost;
// anything past the cap passes through untouched.
func (d *Deduplicator) DeduplicateSemantic(ctx context.Context, items []*model.Item) []*model.Item {
	if len(items) < 2 || !d.cfg.SemanticDedupEnabled {
		return items
	}
	if d.embedder == nil || !d.embedder.Available() {
		logger.Warn("no embedding backend, skipping semantic dedup")
		return items
	}

	maxItems := d.cfg.SemanticMaxItems
	if maxItems <= 0 || maxItems > len(items) {
		maxItems = len(items)
	}
	candidates := items[:maxItems]

	texts := make([]string, len(candidates))
	for i, item := range candidates {
		texts[i] = strings.TrimSpace(item.Title + ". " + item.Abstract)
	}

	embeddings, err := d.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(embeddings) != len(candidates) {
		logger.Warn("embedding failed, skipping semantic dedup", "error", err)
		return items
	}

	var keptIdx []int
	var keptEmb [][]float32

	for idx, emb := range embeddings {
		isDuplicate := false
		for pos, kEmb := range keptEmb {
			if cosine(emb, kEmb) >= d.cfg.SemanticThreshold {
				if rank(candidates[idx]) > rank(candidates[keptIdx[pos]]) {
					keptIdx[pos] = idx
					keptEmb[pos] = emb
					metrics.Global.IncrementSemanticReplaced()
				}
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			keptIdx = append(keptIdx, idx)
			keptEmb = append(keptEmb, emb)
		}
	}

	result := make([]*model.Item, 0, len(keptIdx)+len(items)-maxItems)
	for _, i := range keptIdx {
		result = append(result, candidates[i])
	}
	result = append(result, items[maxItems:]...)

	logger.Info("semantic dedup", "in", len(items), "out", len(result))
	return result
}

// cosine is a plain dot product; vectors are expected unit-normalized.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}
