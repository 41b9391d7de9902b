// Package flow holds the screens of one quiz run: setup, play, results
// and failure. Screens hand the session to each other by value through
// router.ReplaceScreenMsg.
package flow

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hongduc/quiz11/internal/catalog"
	"github.com/hongduc/quiz11/internal/quiz"
	"github.com/hongduc/quiz11/internal/router"
	"github.com/hongduc/quiz11/internal/screen"
)

// DefaultRevealDelay is how long an explanation stays up before the
// next question appears on its own.
const DefaultRevealDelay = 3 * time.Second

// Deps are shared by every screen in the flow.
type Deps struct {
	Service     *quiz.Service
	Catalog     *catalog.Catalog
	RevealDelay time.Duration
	Logger      *slog.Logger
}

func (d Deps) ctx() context.Context { return context.Background() }

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

func replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
}

func studentStatus(s quiz.Session) string {
	c := s.Config
	switch {
	case c.StudentName != "" && c.StudentClass != "":
		return c.StudentName + " · " + c.StudentClass
	default:
		return c.StudentName
	}
}

// restart returns to setup keeping the student's name and class.
func restart(d Deps, s quiz.Session) tea.Cmd {
	next := d.Service.Restart(d.ctx(), s)
	return replace(NewSetup(d, next))
}
