package metrics

import (
	"sync"
	"time"
)

// Metrics tracks funnel-stage counters for one pipeline process.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	PapersIngested   int64
	NewsIngested     int64
	DuplicatesByURL  int64
	SemanticReplaced int64
	L1PapersPassed   int64
	L1NewsPassed     int64
	L1Rejected       int64
	L2Scored         int64
	OracleCalls      int64
	OracleFailures   int64
	L3Selected       int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddIngested(papers, news int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PapersIngested += int64(papers)
	m.NewsIngested += int64(news)
}

func (m *Metrics) AddURLDuplicates(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesByURL += int64(n)
}

func (m *Metrics) IncrementSemanticReplaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SemanticReplaced++
}

func (m *Metrics) AddL1Passed(papers, news, rejected int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L1PapersPassed += int64(papers)
	m.L1NewsPassed += int64(news)
	m.L1Rejected += int64(rejected)
}

func (m *Metrics) AddL2Scored(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L2Scored += int64(n)
}

func (m *Metrics) IncrementOracleCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OracleCalls++
}

func (m *Metrics) IncrementOracleFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OracleFailures++
}

func (m *Metrics) AddL3Selected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L3Selected += int64(n)
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"papers_ingested":      m.PapersIngested,
		"news_ingested":        m.NewsIngested,
		"duplicates_by_url":    m.DuplicatesByURL,
		"semantic_replaced":    m.SemanticReplaced,
		"l1_papers_passed":     m.L1PapersPassed,
		"l1_news_passed":       m.L1NewsPassed,
		"l1_rejected":          m.L1Rejected,
		"l2_scored":            m.L2Scored,
		"oracle_calls":         m.OracleCalls,
		"oracle_failures":      m.OracleFailures,
		"l3_selected":          m.L3Selected,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
