package flow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hongduc/quiz11/internal/logging"
	"github.com/hongduc/quiz11/internal/quiz"
	"github.com/hongduc/quiz11/internal/screen"
	"github.com/hongduc/quiz11/internal/ui/components"
	"github.com/hongduc/quiz11/internal/ui/layout"
	"github.com/hongduc/quiz11/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// PlayScreen covers Loading and Active: it waits for the questions, then
// presents them one at a time with a reveal after each answer.
type PlayScreen struct {
	deps    Deps
	session quiz.Session
	choice  components.Choice
	frame   int
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// NewPlay takes a Loading session; Init issues the generation request.
func NewPlay(deps Deps, s quiz.Session) *PlayScreen {
	if deps.RevealDelay <= 0 {
		deps.RevealDelay = DefaultRevealDelay
	}
	return &PlayScreen{deps: deps, session: s}
}

// Session returns the current session value.
func (p *PlayScreen) Session() quiz.Session { return p.session }

func (p *PlayScreen) Init() tea.Cmd {
	if p.session.State != quiz.StateLoading {
		return nil
	}
	return tea.Batch(p.fetch(), spinnerTick())
}

func (p *PlayScreen) fetch() tea.Cmd {
	svc, s := p.deps.Service, p.session
	return func() tea.Msg {
		return loadedMsg{svc.Fetch(p.deps.ctx(), s)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (p *PlayScreen) Title() string {
	if p.session.State == quiz.StateLoading {
		return "Đang tạo câu hỏi"
	}
	return p.session.Config.LessonTitle
}

func (p *PlayScreen) Status() string { return studentStatus(p.session) }

func (p *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case p.session.State == quiz.StateLoading:
		return []layout.KeyHint{{Key: "Esc", Description: "Huỷ"}}
	case p.session.Revealed != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Câu tiếp theo"},
			{Key: "Esc", Description: "Làm lại"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Chọn"},
			{Key: "1-4/A-D", Description: "Trả lời nhanh"},
			{Key: "Enter", Description: "Trả lời"},
			{Key: "Esc", Description: "Làm lại"},
		}
	}
}

func (p *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return p.handleLoaded(msg)

	case spinnerTickMsg:
		if p.session.State != quiz.StateLoading {
			return p, nil
		}
		p.frame = (p.frame + 1) % len(spinnerFrames)
		return p, spinnerTick()

	case advanceMsg:
		if msg.attempt != p.session.Attempt || msg.index != p.session.CurrentIndex {
			return p, nil
		}
		return p.advance()

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PlayScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	next, err := p.deps.Service.Apply(p.deps.ctx(), p.session, msg.Loaded)
	if err != nil {
		return p, nil
	}
	p.session = next
	if next.State == quiz.StateError {
		return p, replace(NewFailure(p.deps, next))
	}
	p.resetChoice()
	return p, nil
}

func (p *PlayScreen) resetChoice() {
	q, _ := p.session.Current()
	p.choice = components.NewChoice(q.Options)
}

func (p *PlayScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		return p, restart(p.deps, p.session)
	}
	if p.session.State != quiz.StateActive {
		return p, nil
	}

	if p.session.Revealed != nil {
		switch msg.String() {
		case "enter", "space", "right", "n":
			return p.advance()
		}
		return p, nil
	}

	var picked bool
	p.choice, picked = p.choice.Update(msg)
	if !picked {
		return p, nil
	}
	return p.reveal(p.choice.Current())
}

func (p *PlayScreen) reveal(option string) (screen.Screen, tea.Cmd) {
	next, err := quiz.Reveal(p.session, option)
	if err != nil {
		p.deps.logger().Debug("reveal rejected", logging.Err(err))
		return p, nil
	}
	p.session = next
	p.choice.Reveal(next.Revealed.Chosen, next.Revealed.Answer)

	msg := advanceMsg{attempt: next.Attempt, index: next.CurrentIndex}
	return p, tea.Tick(p.deps.RevealDelay, func(time.Time) tea.Msg { return msg })
}

func (p *PlayScreen) advance() (screen.Screen, tea.Cmd) {
	next, err := p.deps.Service.Advance(p.deps.ctx(), p.session)
	if err != nil {
		if !errors.Is(err, quiz.ErrNotRevealed) {
			p.deps.logger().Warn("advance failed", logging.Err(err))
		}
		return p, nil
	}
	p.session = next
	if next.State == quiz.StateFinished {
		return p, replace(NewResults(p.deps, next))
	}
	p.resetChoice()
	return p, nil
}

func (p *PlayScreen) View(width, height int) string {
	if p.session.State == quiz.StateLoading {
		return p.renderLoading(width, height)
	}
	q, ok := p.session.Current()
	if !ok {
		return ""
	}

	cw := min(width-4, 90)
	var b strings.Builder

	bar := components.NewProgressBar("Câu", p.session.CurrentIndex+1, p.session.Total(), cw/2)
	score := theme.Correct.Render(fmt.Sprintf("Điểm: %d", p.session.RunningScore()))
	gap := max(cw-lipgloss.Width(bar.View())-lipgloss.Width(score), 1)
	b.WriteString(bar.View() + strings.Repeat(" ", gap) + score)
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Bold(true).Width(cw).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(p.choice.View(cw - 6))

	if r := p.session.Revealed; r != nil {
		b.WriteString("\n")
		if r.Correct {
			b.WriteString(theme.Correct.Render("Chính xác!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Chưa đúng. Đáp án: " + r.Answer))
		}
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(cw).Render(r.Explanation))
		b.WriteString("\n\n")
		b.WriteString(theme.Dimmed.Render(fmt.Sprintf("Tự chuyển sau %s, hoặc nhấn Enter", p.deps.RevealDelay)))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (p *PlayScreen) renderLoading(width, height int) string {
	cfg := p.session.Config
	msg := theme.Selected.Render(spinnerFrames[p.frame]+"  AI đang soạn câu hỏi...") + "\n\n" +
		theme.Subtitle.Render(fmt.Sprintf("%s · %d câu", cfg.LessonTitle, cfg.QuestionCount))
	return layout.Center(msg, width, height)
}
