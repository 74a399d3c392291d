package generator

import (
	"fmt"
	"strings"
)

// DefaultQuestionCount is how many questions are requested when the caller
// does not say.
const DefaultQuestionCount = 5

func joinLabels(labels []string) string {
	return strings.Join(labels, ", ")
}

func questionPrompt(req QuestionRequest) string {
	count := req.Count
	if count <= 0 {
		count = DefaultQuestionCount
	}
	s := req.Selection

	var b strings.Builder
	fmt.Fprintf(&b, "Context: A user (MBTI: %s, Age: %s, Gender: %s) is playing a mate-selection game.\n\n",
		req.Profile.MBTI, req.Profile.Age, req.Profile.Gender)
	b.WriteString("Their choices:\n")
	fmt.Fprintf(&b, "- Must Have (High Priority): %s\n", joinLabels(s.MustHave))
	fmt.Fprintf(&b, "- Bonus (Nice to have): %s\n", joinLabels(s.Bonus))
	fmt.Fprintf(&b, "- Accepted Flaws (To save coins): %s\n", joinLabels(s.Flaw))
	fmt.Fprintf(&b, "- Deal Breakers (Absolute No): %s\n\n", joinLabels(s.DealBreaker))
	fmt.Fprintf(&b, "Task: Generate %d multiple-choice questions (in Chinese) to clarify their psychological contradictions or confirm their values.\n", count)
	b.WriteString("Focus on the trade-offs they made (e.g., if they chose Money over Looks, or accepted 'Cheating' to get 'Rich').\n\n")
	b.WriteString(`Return STRICT JSON format:
[
  {
    "id": "q1",
    "question": "Question text here?",
    "options": [
      {"id": "a", "text": "Option A"},
      {"id": "b", "text": "Option B"},
      {"id": "c", "text": "Option C"}
    ]
  }
]
`)
	return b.String()
}

func reportPrompt(req ReportRequest) string {
	s := req.Selection

	var b strings.Builder
	b.WriteString("你是一位毒舌、深刻、一针见血的心理专家。\n\n")
	b.WriteString("【用户画像】\n")
	fmt.Fprintf(&b, "MBTI: %s, %s岁, %s\n\n", req.Profile.MBTI, req.Profile.Age, req.Profile.GenderLabel())
	b.WriteString("【用户的第一阶段选择】\n")
	fmt.Fprintf(&b, "1. 必须拥有 (核心): %s\n", joinLabels(s.MustHave))
	fmt.Fprintf(&b, "2. 加分项: %s\n", joinLabels(s.Bonus))
	fmt.Fprintf(&b, "3. 忍受的缺点: %s\n", joinLabels(s.Flaw))
	fmt.Fprintf(&b, "4. 绝对雷点: %s\n\n", joinLabels(s.DealBreaker))
	b.WriteString("【用户的第二阶段测试答案】\n")
	for _, p := range req.Answers {
		fmt.Fprintf(&b, "Q: %s A: %s\n", p.Question, p.Answer)
	}
	b.WriteString("\n【任务】\n")
	b.WriteString("生成一份深度分析。请返回 JSON:\n")
	b.WriteString("- personaTitle: (String) 简短、好笑、精准的人格称号。\n")
	b.WriteString("- analysis: (String) 200字左右深度分析。分析TA的“交易心理”（牺牲了什么换取什么？）。\n")
	b.WriteString("- advice: (String) 一句扎心的建议。\n")
	b.WriteString("- tags: (Array) 3个标签。\n")
	return b.String()
}

func matchPrompt(req MatchRequest) string {
	var b strings.Builder
	b.WriteString("Context: Two users generated their \"Ideal Partner Persona\". Analyze their compatibility.\n\n")
	writeParty(&b, "User A", req.Mine)
	writeParty(&b, "User B", req.Theirs)
	b.WriteString("Task: Calculate compatibility score (0-100) and explain why.\n")
	b.WriteString(`Return JSON:
{
  "score": number,
  "title": "Short relationship title (e.g., 'Mars colliding with Earth')",
  "analysis": "Explain compatibility logic.",
  "warning": "Potential conflict area."
}
`)
	return b.String()
}

func writeParty(b *strings.Builder, name string, p Party) {
	fmt.Fprintf(b, "%s (%s, %s):\n", name, p.Gender, p.MBTI)
	fmt.Fprintf(b, "- Must Haves: %s\n", joinLabels(p.MustHave))
	fmt.Fprintf(b, "- Deal Breakers: %s\n\n", joinLabels(p.DealBreaker))
}
