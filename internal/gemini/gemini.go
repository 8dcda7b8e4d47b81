// Package gemini adapts Google's Gemini API to the funnel's oracle
// interfaces: relevance scoring, final selection, summarization and
// embeddings all go through one client with shared concurrency and
// retry handling.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/funnel"
	"github.com/TidalHarley/Morning-Tide/internal/logger"
	"github.com/TidalHarley/Morning-Tide/internal/metrics"
	"github.com/TidalHarley/Morning-Tide/internal/model"
	"github.com/TidalHarley/Morning-Tide/internal/ratelimit"
	"github.com/TidalHarley/Morning-Tide/internal/retry"
)

type Client struct {
	client  *genai.Client
	cfg     *config.Config
	sem     chan struct{}
	limiter *ratelimit.Limiter
}

// NewClient connects to the Gemini API. The semaphore caps concurrent
// requests across all oracle roles.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	concurrency := cfg.OracleConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Client{
		client:  client,
		cfg:     cfg,
		sem:     make(chan struct{}, concurrency),
		limiter: ratelimit.New(cfg.OracleDailyBudget),
	}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) Available() bool {
	return c != nil && c.client != nil
}

// generate runs one prompt against the named model under the shared
// semaphore, retrying transport failures with backoff.
func (c *Client) generate(ctx context.Context, modelName, prompt string) (string, error) {
	if err := c.limiter.Allow(); err != nil {
		return "", err
	}
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	gm := c.client.GenerativeModel(modelName)
	gm.SetTemperature(0.3)

	var text string
	err := retry.WithRetry(ctx, retry.Config{
		MaxAttempts: c.cfg.RetryAttempts,
		Delay:       c.cfg.RetryDelay,
		MaxDelay:    c.cfg.RetryMaxDelay,
	}, func() error {
		metrics.Global.IncrementOracleCalls()
		resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			metrics.Global.IncrementOracleFailures()
			return err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			metrics.Global.IncrementOracleFailures()
			return fmt.Errorf("empty response from gemini")
		}
		text = partsToString(resp.Candidates[0].Content.Parts)
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func partsToString(parts []genai.Part) string {
	var b strings.Builder
	for _, p := range parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// stripFences removes a surrounding markdown code fence so that lenient
// models still parse as strict JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// ScoreBatch implements funnel.ScoreOracle.
func (c *Client) ScoreBatch(ctx context.Context, items []*model.Item, contentType model.ContentType) ([]funnel.ScoreJudgment, error) {
	prompt := buildScoringPrompt(items, contentType)
	text, err := c.generate(ctx, c.cfg.ScoreModel, prompt)
	if err != nil {
		return nil, fmt.Errorf("score batch: %w", err)
	}

	var judgments []funnel.ScoreJudgment
	if err := json.Unmarshal([]byte(stripFences(text)), &judgments); err != nil {
		logger.Warn("score response failed json parse", "error", err)
		return nil, fmt.Errorf("%w: %v", funnel.ErrBadResponse, err)
	}
	return judgments, nil
}

// Select implements the final-selection half of funnel.RefineOracle.
func (c *Client) Select(ctx context.Context, papers, news []*model.Item) (*funnel.Selection, error) {
	prompt := buildSelectionPrompt(c.cfg, papers, news)
	text, err := c.generate(ctx, c.cfg.RefineModel, prompt)
	if err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}

	var sel funnel.Selection
	if err := json.Unmarshal([]byte(stripFences(text)), &sel); err != nil {
		logger.Warn("selection response failed json parse", "error", err)
		return nil, fmt.Errorf("%w: %v", funnel.ErrBadResponse, err)
	}
	return &sel, nil
}

// Summarize implements the summary half of funnel.RefineOracle.
func (c *Client) Summarize(ctx context.Context, items []*model.Item) ([]funnel.ItemSummary, error) {
	prompt := buildSummaryPrompt(items)
	text, err := c.generate(ctx, c.cfg.RefineModel, prompt)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	var summaries []funnel.ItemSummary
	if err := json.Unmarshal([]byte(stripFences(text)), &summaries); err != nil {
		logger.Warn("summary response failed json parse", "error", err)
		return nil, fmt.Errorf("%w: %v", funnel.ErrBadResponse, err)
	}
	return summaries, nil
}

// Longform implements the briefing-script half of funnel.RefineOracle.
func (c *Client) Longform(ctx context.Context, news []*model.Item, introduction, language string) (string, error) {
	prompt := buildLongformPrompt(news, introduction, language)
	text, err := c.generate(ctx, c.cfg.RefineModel, prompt)
	if err != nil {
		return "", fmt.Errorf("longform: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// EmbedBatch implements funnel.Embedder. Returned vectors are
// unit-normalized so callers can compare with a plain dot product.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := c.limiter.Allow(); err != nil {
		return nil, err
	}
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	em := c.client.EmbeddingModel(c.cfg.EmbedModel)
	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	var vectors [][]float32
	err := retry.WithRetry(ctx, retry.Config{
		MaxAttempts: c.cfg.RetryAttempts,
		Delay:       c.cfg.RetryDelay,
		MaxDelay:    c.cfg.RetryMaxDelay,
	}, func() error {
		metrics.Global.IncrementOracleCalls()
		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			metrics.Global.IncrementOracleFailures()
			return err
		}
		vectors = make([][]float32, 0, len(resp.Embeddings))
		for _, e := range resp.Embeddings {
			vectors = append(vectors, normalize(e.Values))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	return vectors, nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
