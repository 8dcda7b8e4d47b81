package config

// defaultCuration carries the built-in keyword lists, domain whitelist and
// source weights. The YAML sources file can override any block wholesale.
func defaultCuration() Curation {
	return Curation{
		Keywords: []string{
			"AI", "Artificial Intelligence", "人工智能", "AGI",
			"Foundation Model", "Frontier Model",
			"Large Language Model", "LLM", "Language Model",
			"Multimodal", "VLM", "Vision-Language Model",
			"Generative AI", "GenAI", "生成式AI",
			"Reasoning Model", "推理模型",
			"Scaling Law", "Emergent Abilities",
			"SOTA", "State of the Art", "Benchmark", "Leaderboard",
			"Pretraining", "预训练", "Fine-tuning", "微调",
			"Instruction Tuning", "In-Context Learning", "Few-shot", "Zero-shot",
			"Prompt Engineering", "提示工程",
			"Transformer", "Attention", "Mixture of Experts", "MoE",
			"Vision Transformer", "ViT", "CLIP", "DINOv2",
			"State Space Model", "Mamba", "RWKV",
			"Diffusion Model", "Diffusion", "扩散模型", "Flow Matching",
			"NeRF", "Gaussian Splatting", "World Model",
			"RLHF", "RLAIF", "Reward Model", "DPO", "PPO", "GRPO", "SFT",
			"Alignment", "对齐", "Constitutional AI", "Red Teaming",
			"Interpretability", "可解释性", "Jailbreak", "Prompt Injection",
			"Speculative Decoding", "KV Cache", "FlashAttention",
			"Long Context", "Context Window",
			"Retrieval-Augmented Generation", "RAG",
			"Tool Use", "Function Calling",
			"Tokenizer", "Synthetic Data", "Data Contamination",
			"LoRA", "QLoRA", "PEFT", "Quantization", "GPTQ", "AWQ",
			"DeepSpeed", "FSDP", "Tensor Parallel",
			"Agent", "AI Agent", "智能体", "Multi-Agent",
			"Chain-of-Thought", "CoT", "ReAct",
			"Embodied AI", "具身智能", "Robot", "Robotics", "机器人",
			"Imitation Learning", "Reinforcement Learning", "Sim2Real",
			"Manipulation", "Vision-Language Navigation", "VLN",
			"OCR", "VQA", "Text-to-Image", "Text-to-Video",
			"Text-to-Speech", "TTS", "ASR",
			"LLM-as-a-Judge", "MMLU", "GSM8K", "HumanEval", "SWE-bench",
			"Hallucination", "事实幻觉",
			"Machine Learning", "Deep Learning", "Neural Network",
			"GPT", "ChatGPT", "Claude", "Gemini", "Llama", "Mistral", "Qwen",
			"Stable Diffusion", "DALL-E", "Sora",
		},
		HardNoiseKeywords: []string{
			"tutorial", "beginner", "beginners", "introduction to",
			"getting started", "quickstart", "quick start",
			"how to", "step by step", "hands-on", "walkthrough",
			"for dummies", "101", "crash course",
			"course", "bootcamp", "certification", "certificate",
			"curriculum", "syllabus", "webinar",
			"limited time", "act now", "buy now", "discount", "coupon",
			"promo", "sign up", "affiliate", "sponsored",
			"ultimate guide", "complete guide", "everything you need to know",
			"must read", "tips and tricks", "cheat sheet", "checklist",
		},
		HardNoiseKeywordsZH: []string{
			"教程", "入门", "新手", "小白", "零基础", "从零", "快速上手", "手把手",
			"一步一步", "带你", "教你",
			"课程", "网课", "训练营", "课件", "讲义", "培训",
			"考证", "证书", "报名", "直播课",
			"限时", "优惠", "折扣", "秒杀", "下单", "领取", "福利", "推广",
			"最全", "终极", "大全", "合集", "盘点", "必看", "干货",
			"秘籍", "清单", "模板", "一文读懂",
		},
		NoisePatterns: []string{
			`\btop\s*\d+\b`,
			`\b\d+\s*(ways|tips|tricks|templates|examples|steps)\b`,
			`\b(ultimate|complete)\s+guide\b`,
			`\b(checklist|cheat\s*sheet|templates?)\b`,
			`\b(you\s+won't\s+believe|what\s+happens\s+next)\b`,
		},
		WhitelistDomains: []string{
			"openai.com", "anthropic.com", "claude.ai",
			"deepmind.google", "research.google", "ai.google",
			"microsoft.com", "ai.meta.com", "meta.com",
			"nvidia.com", "amazon.science", "apple.com",
			"ibm.com", "intel.com", "huawei.com",
			"damo.alibaba.com", "bytedance.com",
			"mit.edu", "stanford.edu", "berkeley.edu", "cmu.edu",
		},
		SourceWeights: map[string]float64{
			"OpenAI":                2.0,
			"Anthropic":             2.0,
			"DeepMind":              2.0,
			"Google":                1.5,
			"Meta":                  1.5,
			"Microsoft":             1.5,
			"NVIDIA":                1.5,
			"BAIR":                  1.5,
			"Nature":                1.5,
			"Science":               1.5,
			"The Verge":             1.0,
			"TechCrunch":            1.0,
			"VentureBeat":           1.0,
			"MIT Technology Review": 1.0,
			"Hugging Face":          1.0,
		},
		VaguePhrases: []string{
			"值得关注", "引发关注", "具有意义", "很重要", "影响深远",
			"潜力巨大", "意义重大", "有望改变",
			"interesting", "notable", "significant", "important",
			"impactful", "worth watching",
		},
		PaperCategories: []string{"General AI", "Computer Vision", "Robotics"},
		HackerNewsKeywords: []string{
			"ai", "artificial intelligence", "llm", "large language model",
			"gpt", "chatgpt", "openai", "anthropic", "claude",
			"gemini", "deepmind", "qwen", "mistral", "llama",
			"diffusion", "stable diffusion", "sora", "dall-e",
			"rag", "retrieval-augmented", "embedding",
			"prompt", "transformer", "multimodal",
			"machine learning", "neural network",
		},
		Feeds: []FeedSource{
			{Name: "OpenAI Blog", URL: "https://openai.com/blog/rss.xml", Whitelist: true},
			{Name: "Google AI Blog", URL: "https://blog.google/technology/ai/rss/", Whitelist: true},
			{Name: "DeepMind Blog", URL: "https://deepmind.google/blog/rss.xml", Whitelist: true},
			{Name: "Microsoft Research", URL: "https://www.microsoft.com/en-us/research/feed/", Whitelist: true},
			{Name: "NVIDIA Blog", URL: "https://blogs.nvidia.com/feed/", Whitelist: true},
			{Name: "BAIR Blog", URL: "https://bair.berkeley.edu/blog/feed.xml", Whitelist: true},
			{Name: "The Verge AI", URL: "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml"},
			{Name: "TechCrunch AI", URL: "https://techcrunch.com/category/artificial-intelligence/feed/"},
			{Name: "VentureBeat AI", URL: "https://venturebeat.com/category/ai/feed/"},
			{Name: "Hugging Face Blog", URL: "https://huggingface.co/blog/feed.xml"},
			{Name: "MIT Tech Review AI", URL: "https://www.technologyreview.com/topic/artificial-intelligence/feed"},
		},
		ArxivCategories: map[string]string{
			"cs.AI": "General AI",
			"cs.CV": "Computer Vision",
			"cs.RO": "Robotics",
		},
	}
}
