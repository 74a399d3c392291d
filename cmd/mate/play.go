package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"matebuilder/cmd/mate/ui"
	"matebuilder/internal/allocation"
	"matebuilder/internal/generator"
	"matebuilder/internal/logging"
	"matebuilder/internal/profile"
	"matebuilder/internal/quiz"
	"matebuilder/internal/snapshot"
	"matebuilder/internal/usage"
	"matebuilder/internal/workflow"
)

// playCmd starts the interactive session
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive allocation session (default)",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	m := newPlayModel(ctx, a)
	logging.UI("starting session %s", m.machine.SessionID())

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("session ended with error: %w", err)
	}
	return nil
}

// editMode is the text entry overlay in use, if any.
type editMode int

const (
	editNone editMode = iota
	editProfile
	editImport
)

// board columns, left to right
var columns = []allocation.Bucket{
	allocation.Pool, allocation.MustHave, allocation.Bonus, allocation.DealBreaker, allocation.Flaw,
}

// moveKeys maps number keys to move targets.
var moveKeys = map[string]allocation.Bucket{
	"0": allocation.Pool,
	"1": allocation.MustHave,
	"2": allocation.Bonus,
	"3": allocation.DealBreaker,
	"4": allocation.Flaw,
}

type playModel struct {
	ctx     context.Context
	app     *app
	machine *workflow.Machine
	styles  ui.Styles

	spinner  spinner.Model
	viewport viewport.Model
	mbti     textinput.Model
	age      textinput.Model
	path     textinput.Model
	gender   int
	field    int

	edit     editMode
	focus    int
	cursors  []int
	question int
	option   int

	status    string
	statusErr bool
	width     int
	height    int
}

// jobDoneMsg reports a finished collaborator round trip.
type jobDoneMsg struct {
	op  string
	err error
}

var genders = []string{profile.GenderFemale, profile.GenderMale, profile.GenderOther}

func newPlayModel(ctx context.Context, a *app) playModel {
	styles := ui.DefaultStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	mbti := textinput.New()
	mbti.Placeholder = "INTJ"
	mbti.CharLimit = 4
	mbti.Prompt = "MBTI  "

	age := textinput.New()
	age.Placeholder = "25"
	age.CharLimit = 3
	age.Prompt = "年龄  "

	path := textinput.New()
	path.Placeholder = "partner.json"
	path.Prompt = "文件  "
	path.CharLimit = 1024

	ctx = usage.NewContext(ctx, a.tracker)
	machine := workflow.New(a.engine, a.gen, workflow.Options{
		MinSelections: a.cfg.Game.MinSelections,
		QuestionCount: a.cfg.LLM.QuestionCount,
	})
	machine.AddListener(workflow.ListenerFunc(func(e workflow.Event) {
		if e.Type == workflow.EventFailed {
			logging.UI("collaborator failure surfaced to user: %v", e.Err)
		}
	}))

	return playModel{
		ctx:      ctx,
		app:      a,
		machine:  machine,
		styles:   styles,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		mbti:     mbti,
		age:      age,
		path:     path,
		cursors:  make([]int, len(columns)),
		width:    100,
		height:   30,
	}
}

func (m playModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
		m.refreshResult()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case jobDoneMsg:
		return m.handleJobDone(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.edit != editNone {
			return m.updateEdit(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m playModel) handleJobDone(msg jobDoneMsg) playModel {
	if workflow.IsStale(msg.err) {
		return m
	}
	v := m.machine.View()
	switch {
	case msg.err != nil:
		m.fail(fmt.Sprintf("%s 失败: %v", msg.op, msg.err))
	case msg.op == "quiz" && v.Err != nil:
		m.warn("题目生成失败，已使用备用题目")
	default:
		m.clearStatus()
	}
	m.question, m.option = 0, 0
	m.refreshResult()
	return m
}

func (m playModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	v := m.machine.View()

	switch key {
	case "q":
		return m, tea.Quit
	case "r":
		m.machine.Reset()
		m.cursors = make([]int, len(columns))
		m.focus, m.question, m.option = 0, 0, 0
		m.info("已重置")
		return m, nil
	}

	switch v.Phase {
	case workflow.PhaseSelecting:
		return m.updateBoard(key, v)
	case workflow.PhaseQuizAnswering:
		return m.updateQuiz(key, v)
	case workflow.PhaseReportReady, workflow.PhaseMatchReady:
		return m.updateResult(msg, v)
	}
	return m, nil
}

func (m playModel) updateBoard(key string, v workflow.View) (tea.Model, tea.Cmd) {
	col := v.State.Tokens(columns[m.focus])
	switch key {
	case "left", "h":
		m.focus = (m.focus + len(columns) - 1) % len(columns)
	case "right", "l", "tab":
		m.focus = (m.focus + 1) % len(columns)
	case "up", "k":
		if m.cursors[m.focus] > 0 {
			m.cursors[m.focus]--
		}
	case "down", "j":
		if m.cursors[m.focus] < len(col)-1 {
			m.cursors[m.focus]++
		}
	case "p":
		return m.openProfile(v), textinput.Blink
	case "enter":
		job, err := m.machine.BeginQuiz(m.ctx)
		if err != nil {
			m.fail(describe(err))
			return m, nil
		}
		m.info("正在生成题目…")
		gen, machine := m.app.gen, m.machine
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			qs, genErr := gen.GenerateQuestions(job.Context(), job.Request)
			return jobDoneMsg{op: "quiz", err: machine.CompleteQuiz(job.Ticket, qs, genErr)}
		})
	default:
		target, ok := moveKeys[key]
		if !ok || len(col) == 0 {
			return m, nil
		}
		src := columns[m.focus]
		tok := col[clamp(m.cursors[m.focus], len(col))]
		next, err := m.machine.Move(tok.ID, src, target)
		if err != nil {
			m.fail(describe(err))
			return m, nil
		}
		m.cursors[m.focus] = clamp(m.cursors[m.focus], next.Count(src))
		m.info(fmt.Sprintf("%s → %s", tok.Label, target))
	}
	return m, nil
}

func (m playModel) updateQuiz(key string, v workflow.View) (tea.Model, tea.Cmd) {
	if len(v.Questions) == 0 {
		return m, nil
	}
	q := v.Questions[clamp(m.question, len(v.Questions))]
	switch key {
	case "up", "k":
		if m.option > 0 {
			m.option--
		}
	case "down", "j":
		if m.option < len(q.Options)-1 {
			m.option++
		}
	case "left", "h":
		if m.question > 0 {
			m.question--
			m.option = answeredOption(v.Questions[m.question], v.Answers)
		}
	case "right", "l":
		if m.question < len(v.Questions)-1 {
			m.question++
			m.option = answeredOption(v.Questions[m.question], v.Answers)
		}
	case "enter", " ":
		if err := m.machine.Answer(q.ID, q.Options[m.option].ID); err != nil {
			m.fail(describe(err))
			return m, nil
		}
		if m.question < len(v.Questions)-1 {
			m.question++
			m.option = answeredOption(v.Questions[m.question], v.Answers)
		}
		m.clearStatus()
	case "s":
		job, err := m.machine.BeginReport(m.ctx)
		if err != nil {
			m.fail(describe(err))
			return m, nil
		}
		m.info("正在生成报告…")
		gen, machine := m.app.gen, m.machine
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			r, genErr := gen.GenerateReport(job.Context(), job.Request)
			return jobDoneMsg{op: "report", err: machine.CompleteReport(job.Ticket, r, genErr)}
		})
	}
	return m, nil
}

func (m playModel) updateResult(msg tea.KeyMsg, v workflow.View) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		path, err := m.export()
		if err != nil {
			m.fail(err.Error())
		} else {
			m.info("已导出到 " + path)
		}
		return m, nil
	case "i":
		m.edit = editImport
		m.path.SetValue("")
		m.path.Focus()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m playModel) export() (string, error) {
	s, err := m.machine.ExportSnapshot()
	if err != nil {
		return "", err
	}
	path := m.app.cfg.ExportPath()
	err = snapshot.WriteFile(path, s)
	logging.AuditWithSession(m.machine.SessionID()).SnapshotOp(logging.AuditSnapshotExport, path, err)
	return path, err
}

func (m playModel) openProfile(v workflow.View) playModel {
	m.edit = editProfile
	m.field = 0
	m.mbti.SetValue(v.Profile.MBTI)
	m.age.SetValue(v.Profile.Age)
	m.gender = 0
	for i, g := range genders {
		if g == v.Profile.Gender {
			m.gender = i
		}
	}
	m.mbti.Focus()
	m.age.Blur()
	return m
}

func (m playModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.edit = editNone
		m.mbti.Blur()
		m.age.Blur()
		m.path.Blur()
		return m, nil
	case "enter":
		return m.submitEdit()
	}

	if m.edit == editImport {
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "tab", "down":
		m.field = (m.field + 1) % 3
	case "shift+tab", "up":
		m.field = (m.field + 2) % 3
	case "left", "right":
		if m.field == 2 {
			step := 1
			if msg.String() == "left" {
				step = len(genders) - 1
			}
			m.gender = (m.gender + step) % len(genders)
			return m, nil
		}
	}
	m.mbti.Blur()
	m.age.Blur()
	var cmd tea.Cmd
	switch m.field {
	case 0:
		m.mbti.Focus()
		m.mbti, cmd = m.mbti.Update(msg)
	case 1:
		m.age.Focus()
		m.age, cmd = m.age.Update(msg)
	}
	return m, cmd
}

func (m playModel) submitEdit() (tea.Model, tea.Cmd) {
	mode := m.edit
	m.edit = editNone
	m.mbti.Blur()
	m.age.Blur()
	m.path.Blur()

	switch mode {
	case editProfile:
		p := profile.Profile{MBTI: m.mbti.Value(), Age: m.age.Value(), Gender: genders[m.gender]}.Normalize()
		if err := m.machine.SetProfile(p); err != nil {
			m.fail(describe(err))
			return m, nil
		}
		if p.MBTI != "" && !profile.KnownMBTI(p.MBTI) {
			m.warn(fmt.Sprintf("%q 不是常见的 MBTI 类型", p.MBTI))
			return m, nil
		}
		m.info("资料已保存")
		return m, nil

	case editImport:
		path := strings.TrimSpace(m.path.Value())
		raw, err := os.ReadFile(path)
		if err != nil {
			m.fail(fmt.Sprintf("无法读取 %s: %v", path, err))
			return m, nil
		}
		job, err := m.machine.BeginMatchBytes(m.ctx, raw)
		logging.AuditWithSession(m.machine.SessionID()).SnapshotOp(logging.AuditSnapshotImport, path, err)
		if err != nil {
			m.fail(describe(err))
			return m, nil
		}
		m.info("正在计算匹配度…")
		gen, machine := m.app.gen, m.machine
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			r, genErr := gen.GenerateMatch(job.Context(), job.Request)
			return jobDoneMsg{op: "match", err: machine.CompleteMatch(job.Ticket, r, genErr)}
		})
	}
	return m, nil
}

// refreshResult re-renders the report and match into the viewport.
func (m *playModel) refreshResult() {
	v := m.machine.View()
	if v.Report == nil {
		m.viewport.SetContent("")
		return
	}
	md := reportMarkdown(*v.Report)
	if v.Match != nil {
		var partner generator.Party
		if v.Partner != nil {
			partner = *v.Partner
		}
		md += "\n---\n\n" + matchMarkdown(*v.Match, partner)
	}
	m.viewport.SetContent(renderMarkdown(md, m.viewport.Width))
	m.viewport.GotoTop()
}

func (m *playModel) info(s string) { m.status, m.statusErr = s, false }
func (m *playModel) fail(s string) { m.status, m.statusErr = s, true }
func (m *playModel) warn(s string) { m.status, m.statusErr = "⚠ "+s, false }
func (m *playModel) clearStatus()  { m.status, m.statusErr = "", false }

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// answeredOption returns the index of q's recorded answer, or 0.
func answeredOption(q quiz.Question, answers quiz.Answers) int {
	for i, o := range q.Options {
		if o.ID == answers[q.ID] {
			return i
		}
	}
	return 0
}
