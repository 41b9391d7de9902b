package flow

import (
	"errors"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hongduc/quiz11/internal/quiz"
	"github.com/hongduc/quiz11/internal/screen"
	"github.com/hongduc/quiz11/internal/ui/components"
	"github.com/hongduc/quiz11/internal/ui/layout"
	"github.com/hongduc/quiz11/internal/ui/theme"
)

const (
	fieldName = iota
	fieldClass
	fieldChapter
	fieldLesson
	fieldCount
	fieldStart
	fieldTotal
)

// SetupScreen collects the student's details and the lesson to practice.
type SetupScreen struct {
	deps    Deps
	session quiz.Session

	name    components.TextInput
	class   components.TextInput
	chapter components.Selector
	lesson  components.Selector
	count   components.Selector
	start   components.Button
	focus   int
	errMsg  string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// NewSetup creates the setup form for an Idle session. Name and class
// are prefilled from the session.
func NewSetup(deps Deps, s quiz.Session) *SetupScreen {
	cat := deps.Catalog

	titles := make([]string, len(cat.Chapters))
	for i, ch := range cat.Chapters {
		titles[i] = ch.Title
	}

	counts := make([]string, len(deps.Service.AllowedCounts()))
	start := 0
	for i, n := range deps.Service.AllowedCounts() {
		counts[i] = strconv.Itoa(n)
		if n == cat.DefaultCount {
			start = i
		}
	}

	m := &SetupScreen{
		deps:    deps,
		session: s,
		name:    components.NewTextInput("Nguyễn Văn A", 60),
		class:   components.NewTextInput("11A1", 10),
		chapter: components.NewSelector(titles, 0),
		count:   components.NewSelector(counts, start),
		start:   components.NewButton("Bắt đầu làm bài"),
	}
	m.name.SetValue(s.Config.StudentName)
	m.class.SetValue(s.Config.StudentClass)
	m.resetLessons()
	m.applyFocus()
	return m
}

func (m *SetupScreen) Init() tea.Cmd {
	return m.applyFocus()
}

func (m *SetupScreen) Title() string { return "Thông tin bài kiểm tra" }

func (m *SetupScreen) Status() string { return studentStatus(m.session) }

func (m *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Chuyển ô"},
		{Key: "←→", Description: "Chọn"},
		{Key: "Enter", Description: "Bắt đầu"},
		{Key: "Ctrl+C", Description: "Thoát"},
	}
}

func (m *SetupScreen) resetLessons() {
	m.lesson = components.NewPromptSelector(m.deps.Catalog.Lessons(m.chapter.Value()), "chọn bài học")
}

func (m *SetupScreen) applyFocus() tea.Cmd {
	m.name.Blur()
	m.class.Blur()
	m.chapter.Focused = m.focus == fieldChapter
	m.lesson.Focused = m.focus == fieldLesson
	m.count.Focused = m.focus == fieldCount
	m.start.Focused = m.focus == fieldStart

	switch m.focus {
	case fieldName:
		return m.name.Focus()
	case fieldClass:
		return m.class.Focus()
	}
	return nil
}

func (m *SetupScreen) move(delta int) tea.Cmd {
	m.focus = (m.focus + delta + fieldTotal) % fieldTotal
	return m.applyFocus()
}

func (m *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, m.forward(msg)
	}

	switch kmsg.String() {
	case "tab", "down":
		return m, m.move(1)
	case "shift+tab", "up":
		return m, m.move(-1)
	case "enter":
		if m.focus != fieldStart {
			return m, m.move(1)
		}
		return m, m.submit()
	}

	return m, m.forward(msg)
}

func (m *SetupScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldClass:
		m.class, cmd = m.class.Update(msg)
	case fieldChapter:
		var changed bool
		if m.chapter, changed = m.chapter.Update(msg); changed {
			m.resetLessons()
		}
	case fieldLesson:
		m.lesson, _ = m.lesson.Update(msg)
	case fieldCount:
		m.count, _ = m.count.Update(msg)
	}
	return cmd
}

// Configuration returns what the form currently holds.
func (m *SetupScreen) Configuration() quiz.Configuration {
	n, _ := strconv.Atoi(m.count.Value())
	return quiz.Configuration{
		StudentName:   m.name.Value(),
		StudentClass:  m.class.Value(),
		ChapterTitle:  m.chapter.Value(),
		LessonTitle:   m.lesson.Value(),
		QuestionCount: n,
	}
}

func (m *SetupScreen) submit() tea.Cmd {
	next, err := m.deps.Service.Begin(m.deps.ctx(), m.session, m.Configuration())
	if err != nil {
		var ve *quiz.ValidationError
		if errors.As(err, &ve) {
			m.errMsg = ve.Message()
		} else {
			m.errMsg = err.Error()
		}
		return nil
	}
	m.errMsg = ""
	return replace(NewPlay(m.deps, next))
}

func (m *SetupScreen) View(width, height int) string {
	cw := min(width-4, 72)
	label := theme.Label.Width(14)

	rows := []string{
		label.Render("Họ và tên") + m.name.View(),
		label.Render("Lớp") + m.class.View(),
		label.Render("Chủ đề") + m.chapter.View(),
		label.Render("Bài học") + m.lesson.View(),
		label.Render("Số câu hỏi") + m.count.View(),
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Kiểm tra kiến thức Tin học 11"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("Câu hỏi được AI soạn theo bài học em chọn"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(rows, "\n\n"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(m.start.View()))
	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Width(cw).Align(lipgloss.Center).Render(m.errMsg))
	}

	return layout.Center(theme.Card.Width(cw+6).Render(b.String()), width, height)
}
