package gemini

import (
	"fmt"
	"strings"

	"github.com/TidalHarley/Morning-Tide/internal/config"
	"github.com/TidalHarley/Morning-Tide/internal/model"
)

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "无"
	}
	return s
}

func buildScoringPrompt(items []*model.Item, contentType model.ContentType) string {
	typeDesc := "AI 新闻"
	if contentType == model.TypePaper {
		typeDesc = "AI 论文"
	}

	var itemsText strings.Builder
	for i, item := range items {
		fmt.Fprintf(&itemsText, `
[%d] ID: %s
标题: %s
摘要: %s
全文(如有): %s
来源: %s
---`, i+1, item.ID, item.Title, orNone(clip(item.Abstract, 300)), orNone(clip(item.FullText, 1200)), item.SourceName)
	}

	return fmt.Sprintf(`你是一位拥有全球视野的 AI 科技主编。请以"全球影响力"和"行业变革性"为核心标准，对以下 %d 条%s进行评分。

评分标准 (0-10分):
- 10分 (Historic): 改变 AI 历史进程的里程碑事件（如 GPT-4 发布、Sora 发布、Transformer 论文）。
- 9分 (Strategic): 具有全球产业影响力的重大发布、顶级实验室的核心突破、各国国家级 AI 政策。
- 7-8分 (Impactful): 显著提升现有技术水平的 SOTA 工作、主流科技媒体头条报道、知名独角兽的大额融资或产品发布。
- 5-6分 (Relevant): 扎实的研究进展、有一定实用价值的开源项目、常规行业资讯。
- 3-4分 (Niche): 过于细分领域的改进、影响力受限的小型工具、普通的观点文章。
- 0-2分 (Noise): 纯营销、低质量教程、标题党、重复信息。

核心准则:
1. **格局要大**: 优先筛选能影响未来 6-12 个月行业走向的内容。
2. **去伪存真**: 警惕营销炒作，识别真正的技术干货。
3. **全球视野**: 关注全球范围内的顶尖动态，不局限于单一地区。

待评内容:
%s

请严格按照以下 JSON 格式返回评分结果（不要添加任何其他文字）:
[
{"id": "内容ID", "score": 分数, "reason": "一两句话的评分理由"},
...
]`, len(items), typeDesc, itemsText.String())
}

func formatCandidates(items []*model.Item, label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n### %s\n", label)
	for i, item := range items {
		fmt.Fprintf(&b, `
[%d] ID: %s
标题: %s
摘要: %s
正文(节选): %s
来源: %s | L2得分: %.2f
---`, i+1, item.ID, item.Title, orNone(clip(item.Abstract, 200)), orNone(clip(item.FullText, 800)), item.SourceName, item.L2CombinedScore)
	}
	return b.String()
}

func buildSelectionPrompt(cfg *config.Config, papers, news []*model.Item) string {
	paperTarget := cfg.L3PaperCategoryTarget * len(cfg.Curation.PaperCategories)
	return fmt.Sprintf(`你是 AI 全球日报的首席主编, 负责每日 AI 情报的最终筛选。

## 任务
从以下候选内容中，为读者精选出最值得关注的内容：
- 从论文中选出最多 %d 篇
- 从新闻中选出最多 %d 条

## 选择标准
1. **影响力**: 对 AI 行业有重大影响, 能够代表今天AI领域最核心的进展. 影响力是第一要务, 其他标准都是次要的.
2. **创新性**: 代表技术突破或新方向
3. **时效性**: 今日最值得关注的动态
4. **多样性**: 尽量覆盖不同领域，但是影响力和权威性仍然是第一要务
5. **新闻筛选硬性条件**: 只有当你能基于标题/摘要清晰回答"新闻关于什么、重要性在哪里、对AI领域的意义、对普通人意味着什么"时，才允许入选新闻列表，否则不要选。
6. **反空泛要求**: 如果只能给出空泛理由（如"值得关注/意义重大/影响深远"），不要选入新闻列表。

## 候选内容
%s
%s

## 输出要求
请返回严格的 JSON 格式（不要有其他文字）：
{
  "selected_paper_ids": ["id1", "id2", ...],
  "selected_news_ids": ["id1", "id2", ...],
  "daily_introduction_zh": "中文综述，180~260字，新闻记者语气，不空泛",
  "daily_introduction_en": "English introduction, 120-180 words, concise and natural"
}`, paperTarget, cfg.L3NewsTarget,
		formatCandidates(papers, "论文候选"), formatCandidates(news, "新闻候选"))
}

func buildSummaryPrompt(items []*model.Item) string {
	var itemsText strings.Builder
	for _, item := range items {
		kind := "论文"
		if item.ContentType == model.TypeNews {
			kind = "新闻"
		}
		fmt.Fprintf(&itemsText, `
[ID: %s]
类型: %s
标题: %s
摘要: %s
正文(节选): %s
---`, item.ID, kind, item.Title, orNone(item.Abstract), orNone(clip(item.FullText, 1500)))
	}

	return fmt.Sprintf(`你是一位顶级 AI 科技编辑，请为以下 %d 条内容生成高质量中英双语摘要与新闻标题。

%s

## 质量要求
1. **准确**：不添加原文没有的信息，不夸大、不虚构。
2. **完整叙述**：输出是一段连贯的完整中文句子，不要碎片化罗列。
3. **可读性**：专业、简洁、可读性强，避免模板化套话。
4. **克制长度**：在保证信息完整的前提下尽量简短，避免冗余。

### 新闻摘要额外要求（只对类型=新闻生效）
- 产出**一段完整中文句子**，不分点、不换行，语气像专业科技编辑。
- 必须覆盖四个维度：**主要内容**、**重要性**、**对 AI 领域的意义**、**对普通人的影响/可采取的行动**。
- 要具体、信息密度高，避免空泛词（如"引发关注""意义重大"），要写出**事件主体、动作、结果/影响**。
- 字数建议 200~300 字；若信息不足，可用更少字但仍需覆盖四个维度。

### 新闻标题要求
- 仅对新闻生成 title_zh，要求像新闻标题：简洁、有动词、12~24 字。AI 领域的公司名和专有名词保留英文。
- 论文 title_zh 置空字符串。

### 论文摘要要求
- 必须包含**主要内容**、**关键点**、**为什么重要**三部分，但写成一段通顺话，不要分点。
- 信息密度要高，尽量包含方法/实验/指标/结论/应用中的可用细节。

## 输出格式
- 返回严格的 JSON 格式：
[
  {
    "id": "内容ID",
    "summary_zh": "中文摘要",
    "summary_en": "English summary",
    "title_zh": "新闻标题(仅新闻)",
    "title_en": "English headline (news only)"
  },
  ...
]`, len(items), itemsText.String())
}

func buildLongformPrompt(news []*model.Item, introduction, language string) string {
	var itemsText strings.Builder
	for i, item := range news {
		if language == "en" {
			summary := item.SummaryEN
			if summary == "" {
				summary = item.Abstract
			}
			if summary == "" {
				summary = item.Title
			}
			title := item.TitleEN
			if title == "" {
				title = item.Title
			}
			fmt.Fprintf(&itemsText, `
[%d] Title: %s
Source: %s
Summary: %s
URL: %s
---`, i+1, title, item.SourceName, summary, item.URL)
		} else {
			summary := item.SummaryZH
			if summary == "" {
				summary = item.Abstract
			}
			if summary == "" {
				summary = item.Title
			}
			title := item.TitleZH
			if title == "" {
				title = item.Title
			}
			fmt.Fprintf(&itemsText, `
[%d] 标题: %s
来源: %s
摘要: %s
链接: %s
---`, i+1, title, item.SourceName, summary, item.URL)
		}
	}

	if language == "en" {
		intro := introduction
		if intro == "" {
			intro = "(none)"
		}
		return fmt.Sprintf(`You are the editor-in-chief of an AI tech podcast. Based on the news below, write an English long-form script that can be directly read as an audio briefing.

## Goals
1. Help listeners understand today's key AI developments in 5-8 minutes.
2. Keep a natural editorial tone, concise and professional.
3. Organize ideas into coherent paragraphs, not bullet dumps.

## Structure
1) Opening (1 paragraph): today's macro trend.
2) Main body (3-5 paragraphs): each paragraph covers a major theme with representative examples.
3) Insights and advice (1 paragraph): what to watch next, risks, opportunities.
4) Closing (1 paragraph): brief wrap-up.

## Existing introduction (reference only)
%s

## News material
%s

## Constraints
- 900-1300 words in English.
- Avoid generic filler and repetitive AI phrases.
- Output only the final script body, no extra notes.`, intro, itemsText.String())
	}

	intro := introduction
	if intro == "" {
		intro = "（无）"
	}
	return fmt.Sprintf(`你是一位资深 AI 科技播客的主编，请基于以下新闻素材生成一篇"可直接用于音频播客"的中文长文稿。

## 写作目标
1. 让听众在 5~8 分钟内清楚理解今天 AI 领域发生了什么。
2. 语气自然、克制、有编辑感，避免 AI 腔和模板话术。
3. 结构清晰、自然分段，避免列表化堆砌。

## 写作结构（必须遵守）
1) 开场（1段）：用几句简短的话概括今日整体趋势。
2) 主体（3~5段）：每段聚焦一个主题或事件群，不要逐条复述；用"归纳+代表案例"的方式写。
3) 观察与建议（1段）：告诉听众如何理解今天的变化/风险/机会。
4) 收尾（1段）：简短收束，不要口号式。

## 已有综述（供参考，不要照抄）
%s

## 新闻素材（当天全部新闻）
%s

## 文字约束
- 全文 1600~2000 字（中文字数）。
- 不要出现"本文/本文将/综上/总之"等模板话。
- 不要像新闻通稿，语气要像播客主持人的口播稿。
- 适当加入过渡句，让段落衔接自然。

请直接输出文稿正文，不要加标题或额外说明。`, intro, itemsText.String())
}
