package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestCleanContent_DropsBoilerplateAndShortLines(t *testing.T) {
	content := strings.Join([]string{
		"The company announced a new model family with longer context windows.",
		"Subscribe to our newsletter for daily updates on everything.",
		"ok",
		"Benchmarks show a clear improvement over the previous generation of models.",
	}, "\n")

	got := cleanContent(content)
	if strings.Contains(strings.ToLower(got), "newsletter") {
		t.Error("boilerplate line survived cleaning")
	}
	for _, line := range strings.Split(got, "\n") {
		if strings.TrimSpace(line) == "ok" {
			t.Error("short line survived cleaning")
		}
	}
	if !strings.Contains(got, "longer context windows") {
		t.Error("real content was dropped")
	}
}

func TestCleanContent_CapsLengthOnParagraphBoundary(t *testing.T) {
	paragraph := strings.Repeat("This sentence pads the paragraph to a useful length. ", 10)
	content := strings.Join([]string{paragraph, paragraph, paragraph, paragraph, paragraph}, "\n")

	got := cleanContent(content)
	if len(got) > 1800 {
		t.Errorf("cleaned content length %d exceeds the cap", len(got))
	}
	if got == "" {
		t.Error("cap must keep at least one paragraph")
	}
}

func TestCleanContent_EmptyInput(t *testing.T) {
	if got := cleanContent(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestExtractGenericContent_PrefersArticleParagraphs(t *testing.T) {
	html := `<html><body>
		<nav><p>Site navigation links that are long enough to qualify</p></nav>
		<article>
			<p>First paragraph of the story body with enough characters.</p>
			<p>Second paragraph carrying the substance of the report here.</p>
			<p>Third paragraph that concludes the article body text nicely.</p>
		</article>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	got := extractGenericContent(doc)
	if !strings.Contains(got, "First paragraph") || !strings.Contains(got, "Third paragraph") {
		t.Errorf("article paragraphs missing from %q", got)
	}
	if strings.Contains(got, "navigation") {
		t.Error("non-article paragraph leaked into the extract")
	}
}

func TestExtractGenericContent_FallsBackToBareParagraphs(t *testing.T) {
	html := `<html><body>
		<p>Only bare paragraphs exist on this page, but they are long.</p>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if got := extractGenericContent(doc); !strings.Contains(got, "bare paragraphs") {
		t.Errorf("fallback selector missed content: %q", got)
	}
}

func TestExtractGenericContent_SkipsShortParagraphs(t *testing.T) {
	html := `<html><body><article><p>tiny</p></article></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if got := extractGenericContent(doc); got != "" {
		t.Errorf("got %q, want empty for too-short paragraphs", got)
	}
}
