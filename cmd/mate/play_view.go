package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"matebuilder/cmd/mate/ui"
	"matebuilder/internal/allocation"
	"matebuilder/internal/quiz"
	"matebuilder/internal/snapshot"
	"matebuilder/internal/workflow"
)

func (m playModel) View() string {
	v := m.machine.View()

	var body string
	switch {
	case m.edit == editProfile:
		body = m.profileView()
	case m.edit == editImport:
		body = m.importView()
	case v.Phase.Loading():
		body = m.loadingView(v.Phase)
	case v.Phase == workflow.PhaseSelecting:
		body = m.boardView(v) + "\n" + m.quoteView(v)
	case v.Phase == workflow.PhaseQuizAnswering:
		body = m.quizView(v)
	default:
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(v),
		body,
		m.statusView(),
		m.helpView(v),
	)
}

func (m playModel) headerView(v workflow.View) string {
	p := v.Profile
	who := "未填写资料"
	if p.MBTI != "" || p.Age != "" {
		who = fmt.Sprintf("%s · %s · %s岁", p.MBTI, p.GenderLabel(), p.Age)
	}
	left := m.styles.Header.Render("💘 理想型构建")
	right := fmt.Sprintf(" %s  %s  已选 %d/%d",
		ui.BalanceView(m.styles, v.State.Balance()), m.styles.Muted.Render(who), v.State.Placed(), v.MinSelections)
	return left + right + "\n"
}

func (m playModel) boardView(v workflow.View) string {
	rules := m.app.engine.Rules()
	colW := (m.width - 6) / 3
	if colW < 20 {
		colW = 20
	}
	rows := (m.height - 14) / 2
	if rows < 3 {
		rows = 3
	}

	render := func(i int, height int) string {
		b := columns[i]
		col := ui.Column{Bucket: b, Title: "待选池 (Pool)", Tokens: v.State.Tokens(b)}
		if bc, ok := rules.Config(b); ok {
			col.Title, col.Description, col.Limit = bc.Title, bc.Description, bc.Limit
		}
		return ui.ColumnView(m.styles, col, m.focus == i, m.cursors[i], colW, height)
	}

	pool := render(0, rows*2+3)
	right := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, render(1, rows), render(2, rows)),
		lipgloss.JoinHorizontal(lipgloss.Top, render(3, rows), render(4, rows)),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, pool, right)
}

// quoteView previews the balance change of each move key for the token
// under the cursor.
func (m playModel) quoteView(v workflow.View) string {
	src := columns[m.focus]
	col := v.State.Tokens(src)
	if len(col) == 0 {
		return ""
	}
	tok := col[clamp(m.cursors[m.focus], len(col))]

	var parts []string
	for _, k := range []string{"1", "2", "3", "4", "0"} {
		target := moveKeys[k]
		if target == src {
			continue
		}
		delta, err := m.machine.Engine().Quote(v.State, allocation.Move{TokenID: tok.ID, Source: src, Target: target})
		switch {
		case err != nil:
			parts = append(parts, m.styles.Muted.Render(k+" ✗"))
		case delta == 0:
			parts = append(parts, k+" ±0")
		default:
			parts = append(parts, fmt.Sprintf("%s %+d", k, delta))
		}
	}
	return fmt.Sprintf(" %s %s  %s", tok.Emoji, tok.Label, strings.Join(parts, "  "))
}

func (m playModel) quizView(v workflow.View) string {
	if len(v.Questions) == 0 {
		return ""
	}
	idx := clamp(m.question, len(v.Questions))
	q := v.Questions[idx]

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("问题 %d/%d", idx+1, len(v.Questions))))
	if v.Origin == quiz.OriginFallback {
		sb.WriteString("  " + m.styles.Muted.Render("(备用题目)"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Bold.Render(q.Text))
	sb.WriteString("\n\n")
	for i, o := range q.Options {
		mark := "○"
		if v.Answers[q.ID] == o.ID {
			mark = "●"
		}
		line := fmt.Sprintf("%s %s. %s", mark, strings.ToUpper(o.ID), o.Text)
		if i == m.option {
			sb.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	missing := v.Answers.Missing(v.Questions)
	sb.WriteString("\n")
	if len(missing) == 0 {
		sb.WriteString(m.styles.Success.Render("全部回答完毕，按 s 生成报告"))
	} else {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("还有 %d 题未回答", len(missing))))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m playModel) loadingView(p workflow.Phase) string {
	label := map[workflow.Phase]string{
		workflow.PhaseQuizLoading:    "AI 正在根据你的选择出题…",
		workflow.PhaseReportLoading:  "AI 正在分析你的择偶观…",
		workflow.PhaseMatchUploading: "正在计算你们的匹配度…",
	}[p]
	return lipgloss.NewStyle().Padding(2, 4).Render(m.spinner.View() + " " + label)
}

func (m playModel) profileView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("个人资料"))
	sb.WriteString("\n\n")
	sb.WriteString(m.mbti.View())
	sb.WriteString("\n")
	sb.WriteString(m.age.View())
	sb.WriteString("\n")
	g := make([]string, len(genders))
	for i, name := range genders {
		label := map[string]string{"female": "女", "male": "男", "other": "其他"}[name]
		if i == m.gender {
			label = m.styles.Selected.Render(" " + label + " ")
		}
		g[i] = label
	}
	prefix := "性别  "
	if m.field == 2 {
		prefix = m.styles.Cursor.Render("性别  ")
	}
	sb.WriteString(prefix + strings.Join(g, "  "))
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m playModel) importView() string {
	return lipgloss.NewStyle().Padding(1, 2).Render(
		m.styles.Title.Render("导入对方的档案") + "\n\n" + m.path.View())
}

func (m playModel) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.Error.Render(m.status)
	}
	return m.styles.Info.Render(m.status)
}

func (m playModel) helpView(v workflow.View) string {
	var keys string
	switch {
	case m.edit == editProfile:
		keys = "tab 切换 · ←/→ 性别 · enter 保存 · esc 取消"
	case m.edit == editImport:
		keys = "enter 导入 · esc 取消"
	case v.Phase == workflow.PhaseSelecting:
		keys = "←/→ 栏目 · ↑/↓ 选择 · 1 核心 2 加分 3 雷点 4 缺点 0 放回 · p 资料 · enter 开始测试 · r 重置 · q 退出"
	case v.Phase == workflow.PhaseQuizAnswering:
		keys = "↑/↓ 选项 · enter 确认 · ←/→ 切题 · s 提交 · r 重置 · q 退出"
	case v.Phase.Loading():
		keys = "r 取消并重置 · q 退出"
	default:
		keys = "↑/↓ 滚动 · e 导出 · i 导入对方档案 · r 重新开始 · q 退出"
		if usageView := ui.UsageView(m.styles, m.app.tracker.Stats()); usageView != "" && v.Phase == workflow.PhaseMatchReady {
			keys = usageView + "\n" + keys
		}
	}
	return m.styles.Footer.Render(keys)
}

// describe turns workflow and allocation errors into user-facing text.
func describe(err error) string {
	var guard *workflow.GuardError
	if errors.As(err, &guard) {
		switch guard.Reason {
		case workflow.GuardTooFewSelections:
			return fmt.Sprintf("至少需要放置 %d 个特质 (当前 %d)", guard.Need, guard.Have)
		case workflow.GuardMissingMBTI:
			return "请先填写 MBTI (按 p)"
		case workflow.GuardMissingAge:
			return "请先填写年龄 (按 p)"
		case workflow.GuardUnansweredQuestions:
			return fmt.Sprintf("还有 %d 题未回答", len(guard.Missing))
		}
	}
	if reason, ok := allocation.ReasonOf(err); ok {
		switch reason {
		case allocation.ReasonWrongPolarity:
			return "这个格子不接受该类型的特质"
		case allocation.ReasonCapacityExceeded:
			return "这个格子已经满了"
		case allocation.ReasonInsufficientFunds:
			return "金币不足"
		}
	}
	switch {
	case errors.Is(err, workflow.ErrFrozen):
		return "选择已锁定，按 r 重新开始"
	case errors.Is(err, snapshot.ErrMalformed):
		return "文件格式错误: " + err.Error()
	}
	return err.Error()
}
