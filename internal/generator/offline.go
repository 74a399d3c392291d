package generator

import (
	"context"
	"fmt"

	"matebuilder/internal/quiz"
)

// Offline stands in for the real generator when no API key is configured.
// Question generation always fails so the caller falls back to the built-in
// quiz; report and match return fixed placeholder results.
type Offline struct{}

var _ Collaborator = Offline{}

// OfflineReport is the placeholder report.
var OfflineReport = Report{
	Title:     "本地测试员",
	Narrative: "由于未连接AI，这是基于本地逻辑的简单反馈。你选择了很多高价值特质，说明你是一个完美主义者。",
	Advice:    "请配置API KEY以获得完整的心理侧写。",
	Tags:      []string{"测试模式", "离线", "默认"},
}

// OfflineMatch is the placeholder match result.
var OfflineMatch = MatchResult{Score: 50, Title: "未知匹配", Narrative: "需要API Key", Warning: "无法连接"}

func (Offline) GenerateQuestions(ctx context.Context, _ QuestionRequest) ([]quiz.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
}

func (Offline) GenerateReport(ctx context.Context, _ ReportRequest) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	return OfflineReport.Clone(), nil
}

func (Offline) GenerateMatch(ctx context.Context, _ MatchRequest) (MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}
	return OfflineMatch, nil
}
