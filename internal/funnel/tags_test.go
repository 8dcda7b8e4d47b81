package funnel

import (
	"reflect"
	"testing"
)

func TestAutoTag_MatchesVocabularyOrder(t *testing.T) {
	tags := AutoTag("A multimodal LLM agent for robot manipulation", "")
	want := []string{"LLM", "Multimodal", "Agent", "Robotics"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestAutoTag_CapsAtFour(t *testing.T) {
	tags := AutoTag("multimodal llm agent robot diffusion audio benchmark", "")
	if len(tags) != 4 {
		t.Errorf("got %d tags, want cap of 4", len(tags))
	}
}

func TestAutoTag_ChineseKeywords(t *testing.T) {
	tags := AutoTag("全新开源大语言模型发布", "")
	got := make(map[string]bool)
	for _, tag := range tags {
		got[tag] = true
	}
	if !got["LLM"] || !got["Open Source"] {
		t.Errorf("tags = %v, want LLM and Open Source", tags)
	}
}

func TestAutoTag_NoMatchesReturnsEmpty(t *testing.T) {
	if tags := AutoTag("Quarterly earnings call schedule", ""); len(tags) != 0 {
		t.Errorf("tags = %v, want none", tags)
	}
}

func TestAutoTag_ScansAbstractToo(t *testing.T) {
	tags := AutoTag("Untitled", "We study retrieval-augmented generation quality.")
	got := make(map[string]bool)
	for _, tag := range tags {
		got[tag] = true
	}
	if !got["RAG"] {
		t.Errorf("tags = %v, want RAG from abstract", tags)
	}
}
