package funnel

import "strings"

// tagEntry keeps the vocabulary ordered so tagging is deterministic.
type tagEntry struct {
	tag      string
	keywords []string
}

// tagLibrary maps topic tags to trigger keywords scanned over
// title+abstract.
var tagLibrary = []tagEntry{
	{"LLM", []string{"llm", "language model", "gpt", "claude", "gemini", "llama", "大语言模型"}},
	{"Vision", []string{"vision", "image", "视觉", "图像", "cv", "computer vision"}},
	{"Multimodal", []string{"multimodal", "多模态", "vlm", "vision-language"}},
	{"Agent", []string{"agent", "智能体", "agentic", "tool use", "function calling"}},
	{"Robotics", []string{"robot", "机器人", "embodied", "manipulation", "具身"}},
	{"Diffusion", []string{"diffusion", "stable diffusion", "扩散", "生成"}},
	{"Audio", []string{"audio", "speech", "音频", "语音", "tts", "asr"}},
	{"3D", []string{"3d", "nerf", "gaussian", "三维"}},
	{"Training", []string{"training", "fine-tuning", "rlhf", "dpo", "sft", "训练"}},
	{"Inference", []string{"inference", "推理加速", "quantization", "量化"}},
	{"RAG", []string{"rag", "retrieval", "检索增强"}},
	{"Reasoning", []string{"reasoning", "chain-of-thought", "推理", "cot"}},
	{"Industry", []string{"openai", "anthropic", "google", "meta", "microsoft", "发布"}},
	{"Research", []string{"research", "paper", "arxiv", "论文", "研究"}},
	{"Open Source", []string{"open source", "开源", "github", "huggingface"}},
	{"Benchmark", []string{"benchmark", "evaluation", "评测", "leaderboard"}},
}

const maxTags = 4

// AutoTag scans title+abstract against the tag vocabulary and returns the
// first matching tags in vocabulary order, capped at maxTags.
func AutoTag(title, abstract string) []string {
	text := strings.ToLower(title + " " + abstract)
	var tags []string
	for _, entry := range tagLibrary {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				tags = append(tags, entry.tag)
				break
			}
		}
		if len(tags) >= maxTags {
			break
		}
	}
	return tags
}
