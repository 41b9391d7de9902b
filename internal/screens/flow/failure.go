package flow

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hongduc/quiz11/internal/quiz"
	"github.com/hongduc/quiz11/internal/screen"
	"github.com/hongduc/quiz11/internal/ui/components"
	"github.com/hongduc/quiz11/internal/ui/layout"
	"github.com/hongduc/quiz11/internal/ui/theme"
)

// FailureScreen reports a failed generation. Restart is the only way on.
type FailureScreen struct {
	deps    Deps
	session quiz.Session
	menu    components.Menu
}

var _ screen.Screen = (*FailureScreen)(nil)

// NewFailure takes a session in the Error state.
func NewFailure(deps Deps, s quiz.Session) *FailureScreen {
	f := &FailureScreen{deps: deps, session: s}
	f.menu = components.NewMenu([]components.MenuItem{
		{Label: "Thử lại", Action: func() tea.Cmd { return restart(f.deps, f.session) }},
		{Label: "Thoát", Action: func() tea.Cmd { return tea.Quit }},
	})
	return f
}

func (f *FailureScreen) Init() tea.Cmd { return nil }

func (f *FailureScreen) Title() string { return "Đã xảy ra lỗi" }

func (f *FailureScreen) Status() string { return studentStatus(f.session) }

func (f *FailureScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "esc" {
		return f, restart(f.deps, f.session)
	}
	var cmd tea.Cmd
	f.menu, cmd = f.menu.Update(msg)
	return f, cmd
}

func (f *FailureScreen) View(width, height int) string {
	cw := min(width-4, 64)
	var b strings.Builder
	b.WriteString(theme.Incorrect.Render("Không thể bắt đầu bài kiểm tra"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(cw).Render(f.session.LastError))
	b.WriteString("\n\n")
	b.WriteString(f.menu.View())
	return layout.Center(theme.ErrorCard.Width(cw+6).Render(b.String()), width, height)
}
