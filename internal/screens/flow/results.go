package flow

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hongduc/quiz11/internal/quiz"
	"github.com/hongduc/quiz11/internal/screen"
	"github.com/hongduc/quiz11/internal/ui/components"
	"github.com/hongduc/quiz11/internal/ui/layout"
	"github.com/hongduc/quiz11/internal/ui/theme"
)

const (
	itemSubmit = iota
	itemRestart
	itemQuit
)

// ResultsScreen shows the final score and offers submission and restart.
type ResultsScreen struct {
	deps       Deps
	session    quiz.Session
	record     quiz.ResultRecord
	submission quiz.Submission
	menu       components.Menu
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// NewResults takes a Finished session.
func NewResults(deps Deps, s quiz.Session) *ResultsScreen {
	rec, _ := quiz.Result(s, time.Now())
	r := &ResultsScreen{deps: deps, session: s, record: rec}
	r.menu = components.NewMenu([]components.MenuItem{
		{Label: "Gửi kết quả cho giáo viên", Action: r.submit, Disabled: !deps.Service.CanSubmit()},
		{Label: "Làm bài mới", Action: func() tea.Cmd { return restart(r.deps, r.session) }},
		{Label: "Thoát", Action: func() tea.Cmd { return tea.Quit }},
	})
	return r
}

// Submission returns the submission indicator.
func (r *ResultsScreen) Submission() quiz.Submission { return r.submission }

func (r *ResultsScreen) Init() tea.Cmd { return nil }

func (r *ResultsScreen) Title() string { return "Kết quả" }

func (r *ResultsScreen) Status() string { return studentStatus(r.session) }

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Chọn"},
		{Key: "Enter", Description: "Xác nhận"},
		{Key: "Esc", Description: "Làm bài mới"},
	}
}

// submit starts a submission unless one is in flight or already succeeded.
func (r *ResultsScreen) submit() tea.Cmd {
	prev := r.submission
	if !prev.CanSubmit() {
		return nil
	}
	r.submission = prev.Begin()
	r.syncMenu()

	svc, s := r.deps.Service, r.session
	return func() tea.Msg {
		return submittedMsg{svc.Submit(r.deps.ctx(), s, prev)}
	}
}

func (r *ResultsScreen) syncMenu() {
	switch r.submission.Status {
	case quiz.SubmissionSubmitting:
		r.menu.SetLabel(itemSubmit, "Đang gửi...")
		r.menu.SetDisabled(itemSubmit, true)
	case quiz.SubmissionSuccess:
		r.menu.SetLabel(itemSubmit, "Đã gửi thành công!")
		r.menu.SetDisabled(itemSubmit, true)
	case quiz.SubmissionFailed:
		r.menu.SetLabel(itemSubmit, "Gửi lại")
		r.menu.SetDisabled(itemSubmit, false)
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		r.submission = msg.Submission
		r.syncMenu()
		if r.submission.Status == quiz.SubmissionFailed {
			r.menu.Selected = itemSubmit
		}
		return r, nil
	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return r, restart(r.deps, r.session)
		}
	}
	var cmd tea.Cmd
	r.menu, cmd = r.menu.Update(msg)
	// The action may have changed the submission while the menu copy
	// was being updated.
	r.syncMenu()
	return r, cmd
}

func (r *ResultsScreen) View(width, height int) string {
	rec := r.record
	cw := min(width-4, 64)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Hoàn thành bài kiểm tra!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Width(cw).Render(rec.LessonTitle))
	b.WriteString("\n\n")
	b.WriteString(theme.Correct.Width(cw).Align(lipgloss.Center).Render(
		fmt.Sprintf("%s câu đúng  ·  %s", rec.ScoreFraction(), rec.PercentageString())))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(cw).Align(lipgloss.Center).Render(rec.Feedback().Message()))
	b.WriteString("\n\n")
	b.WriteString(r.menu.View())

	switch r.submission.Status {
	case quiz.SubmissionSubmitting:
		b.WriteString("\n" + theme.Warning.Render("Đang gửi kết quả cho giáo viên..."))
	case quiz.SubmissionSuccess:
		b.WriteString("\n" + theme.Correct.Render("Giáo viên đã nhận được kết quả của em."))
	case quiz.SubmissionFailed:
		b.WriteString("\n" + theme.Incorrect.Render("Gửi thất bại. Vui lòng thử lại."))
	}
	if !r.deps.Service.CanSubmit() {
		b.WriteString("\n" + theme.Warning.Render("Chưa cấu hình nơi nhận kết quả."))
	}

	return layout.Center(theme.Card.Width(cw+6).Render(b.String()), width, height)
}
