// Package storage persists the daily report and the rolling history of
// already-published links used for cross-day deduplication.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TidalHarley/Morning-Tide/internal/model"
)

// SaveReport writes the report as indented JSON, creating the parent
// directory if needed.
func SaveReport(path string, report *model.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// publishedItem is one already-published link in the history file.
type publishedItem struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	PublishedOn string    `json:"published_on"`
	SavedAt     time.Time `json:"saved_at"`
}

// History tracks which links already appeared in past reports so the same
// story is not re-published on consecutive days.
type History struct {
	filePath string
	ttlDays  int
	items    map[string]publishedItem
	mu       sync.RWMutex
}

func NewHistory(filePath string, ttlDays int) *History {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	return &History{
		filePath: filePath,
		ttlDays:  ttlDays,
		items:    make(map[string]publishedItem),
	}
}

// Load reads the history file. A missing file starts an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var items []publishedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -h.ttlDays)
	for _, item := range items {
		if item.SavedAt.After(cutoff) {
			h.items[item.URL] = item
		}
	}
	return nil
}

// Save writes the current history back to disk.
func (h *History) Save() error {
	h.mu.RLock()
	items := make([]publishedItem, 0, len(h.items))
	for _, item := range h.items {
		items = append(items, item)
	}
	h.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(h.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(h.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Seen reports whether the link appeared in a recent report.
func (h *History) Seen(url string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.items[url]
	return ok
}

// RecordReport marks every item in the report as published.
func (h *History) RecordReport(report *model.Report) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	record := func(items []*model.Item) {
		for _, item := range items {
			if item.URL == "" {
				continue
			}
			h.items[item.URL] = publishedItem{
				URL:         item.URL,
				Title:       item.Title,
				PublishedOn: report.Date,
				SavedAt:     now,
			}
		}
	}
	record(report.Papers)
	record(report.News)
}

// Cleanup drops entries older than the TTL.
func (h *History) Cleanup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -h.ttlDays)
	for url, item := range h.items {
		if item.SavedAt.Before(cutoff) {
			delete(h.items, url)
		}
	}
}
