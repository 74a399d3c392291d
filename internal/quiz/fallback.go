package quiz

// Fallback returns the built-in question set used when generation fails.
func Fallback() []Question {
	return []Question{
		{
			ID:   "q1",
			Text: "如果在婚后第五年，对方因为意外导致家庭经济陷入危机，你会？",
			Options: []Option{
				{ID: "a", Text: "既然当初选了经济条件，现在没了就离婚"},
				{ID: "b", Text: "动用自己的积蓄共渡难关"},
				{ID: "c", Text: "接受生活降级，精神支持"},
			},
		},
		{
			ID:   "q2",
			Text: "你最不能忍受对方在哪个方面对你隐瞒？",
			Options: []Option{
				{ID: "a", Text: "过往的情感经历"},
				{ID: "b", Text: "真实的财务状况"},
				{ID: "c", Text: "内心的负面情绪"},
			},
		},
		{
			ID:   "q3",
			Text: "如果必须放弃一个你选中的“核心”特质来换取对方永远不出轨，你选哪个？",
			Options: []Option{
				{ID: "a", Text: "放弃外貌相关的特质"},
				{ID: "b", Text: "放弃物质相关的特质"},
				{ID: "c", Text: "绝不放弃，出轨就离"},
			},
		},
	}
}
