package gemini

import (
	"math"
	"strings"
	"testing"

	"github.com/TidalHarley/Morning-Tide/internal/model"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain json untouched", `[{"id":"a"}]`, `[{"id":"a"}]`},
		{"json fence", "```json\n[{\"id\":\"a\"}]\n```", `[{"id":"a"}]`},
		{"bare fence", "```\n{\"x\":1}\n```", `{"x":1}`},
		{"surrounding whitespace", "  \n[1,2]\n  ", "[1,2]"},
		{"unterminated fence", "```json\n[1,2]", "[1,2]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_UnitLength(t *testing.T) {
	v := normalize([]float32{3, 4})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(sum)-1) > 1e-6 {
		t.Errorf("norm = %v, want 1", math.Sqrt(sum))
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("normalized = %v, want [0.6 0.8]", v)
	}
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	v := normalize([]float32{0, 0, 0})
	for _, x := range v {
		if x != 0 {
			t.Fatalf("zero vector changed: %v", v)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("短文本", 10); got != "短文本" {
		t.Errorf("clip under max changed input: %q", got)
	}
	if got := clip("一二三四五六七八九十一二", 10); got != "一二三四五六七八九十" {
		t.Errorf("clip = %q, want 10 runes", got)
	}
}

func TestOrNone(t *testing.T) {
	if got := orNone("  "); got != "无" {
		t.Errorf(`orNone(blank) = %q, want "无"`, got)
	}
	if got := orNone("abstract"); got != "abstract" {
		t.Errorf("orNone(non-blank) = %q", got)
	}
}

func TestBuildScoringPrompt_IncludesItemsAndRubric(t *testing.T) {
	items := []*model.Item{
		{ID: "p1", Title: "Scaling laws revisited", Abstract: "We study scaling."},
	}
	prompt := buildScoringPrompt(items, model.TypePaper)

	if !strings.Contains(prompt, "p1") || !strings.Contains(prompt, "Scaling laws revisited") {
		t.Error("prompt missing item fields")
	}
	if !strings.Contains(prompt, "论文") {
		t.Error("prompt missing the paper content-type label")
	}
	if !strings.Contains(prompt, "JSON") {
		t.Error("prompt missing the output format instruction")
	}
}

func TestBuildLongformPrompt_SelectsLanguageTemplate(t *testing.T) {
	news := []*model.Item{{ID: "n1", Title: "Model launch", SummaryZH: "发布摘要", SummaryEN: "Launch summary"}}

	zh := buildLongformPrompt(news, "今日导语", "zh")
	if !strings.Contains(zh, "今日导语") {
		t.Error("zh prompt missing the introduction")
	}
	en := buildLongformPrompt(news, "Intro line", "en")
	if !strings.Contains(en, "Intro line") {
		t.Error("en prompt missing the introduction")
	}
	if zh == en {
		t.Error("zh and en prompts must differ")
	}
}
