package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TidalHarley/Morning-Tide/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Date:           "2026-08-31",
		GeneratedAt:    time.Now(),
		IntroductionZH: "今日要点。",
		IntroductionEN: "Highlights.",
		Papers: []*model.Item{
			{ID: "p1", Title: "Paper", URL: "https://arxiv.org/abs/2501.00001"},
		},
		News: []*model.Item{
			{ID: "n1", Title: "Story", URL: "https://example.com/story"},
		},
		Stats: map[string]int{"l3_news_selected": 1},
	}
}

func TestSaveReport_CreatesDirAndWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := SaveReport(path, sampleReport()); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got model.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Date != "2026-08-31" || len(got.News) != 1 {
		t.Errorf("round trip mismatch: date=%q news=%d", got.Date, len(got.News))
	}
}

func TestHistory_RecordAndSeen(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history.json"), 7)
	h.RecordReport(sampleReport())

	if !h.Seen("https://example.com/story") {
		t.Error("recorded news url not seen")
	}
	if !h.Seen("https://arxiv.org/abs/2501.00001") {
		t.Error("recorded paper url not seen")
	}
	if h.Seen("https://example.com/other") {
		t.Error("unrecorded url reported seen")
	}
}

func TestHistory_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	h := NewHistory(path, 7)
	h.RecordReport(sampleReport())
	if err := h.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewHistory(path, 7)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reloaded.Seen("https://example.com/story") {
		t.Error("url lost across save/load")
	}
}

func TestHistory_LoadMissingFileIsEmpty(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "nope.json"), 7)
	if err := h.Load(); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if h.Seen("https://example.com/story") {
		t.Error("empty history reported a url as seen")
	}
}

func TestHistory_LoadDropsExpiredEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	old := []publishedItem{
		{URL: "https://example.com/old", Title: "Old", SavedAt: time.Now().AddDate(0, 0, -10)},
		{URL: "https://example.com/new", Title: "New", SavedAt: time.Now()},
	}
	data, err := json.Marshal(old)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path, 7)
	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Seen("https://example.com/old") {
		t.Error("entry past the ttl survived load")
	}
	if !h.Seen("https://example.com/new") {
		t.Error("fresh entry dropped on load")
	}
}

func TestHistory_CleanupDropsOldEntries(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history.json"), 7)
	h.items["https://example.com/old"] = publishedItem{
		URL:     "https://example.com/old",
		SavedAt: time.Now().AddDate(0, 0, -10),
	}
	h.items["https://example.com/new"] = publishedItem{
		URL:     "https://example.com/new",
		SavedAt: time.Now(),
	}

	h.Cleanup()

	if h.Seen("https://example.com/old") {
		t.Error("cleanup left an expired entry")
	}
	if !h.Seen("https://example.com/new") {
		t.Error("cleanup dropped a fresh entry")
	}
}
