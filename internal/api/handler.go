package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hongduc/quiz11/internal/catalog"
	"github.com/hongduc/quiz11/internal/logging"
	"github.com/hongduc/quiz11/internal/quiz"
)

// Handler serves the quiz over HTTP using the same state machine as the
// terminal app.
type Handler struct {
	log      *slog.Logger
	service  *quiz.Service
	catalog  *catalog.Catalog
	sessions *Registry
	now      func() time.Time
}

// NewHandler creates a Handler with an empty session registry.
func NewHandler(log *slog.Logger, svc *quiz.Service, cat *catalog.Catalog) *Handler {
	return &Handler{
		log:      log,
		service:  svc,
		catalog:  cat,
		sessions: NewRegistry(),
		now:      time.Now,
	}
}

type createRequest struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

type startRequest struct {
	Chapter string `json:"chapter"`
	Lesson  string `json:"lesson"`
	Count   int    `json:"count"`
}

type revealRequest struct {
	Option string `json:"option" binding:"required"`
}

func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Available", "sessions": h.sessions.Len()})
}

func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"chapters":       h.catalog.Chapters,
		"questionCounts": h.service.AllowedCounts(),
		"defaultCount":   h.catalog.DefaultCount,
		"submitEnabled":  h.service.CanSubmit(),
	})
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, s := h.sessions.Create(req.Name, req.Class)
	c.JSON(http.StatusCreated, newSessionView(id, s, quiz.Submission{}, h.now()))
}

func (h *Handler) GetSession(c *gin.Context) {
	id := c.Param("id")
	s, sub, err := h.sessions.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, s, sub, h.now()))
}

// Start validates the configuration, then blocks on the single
// generation request. The session is Loading while the request runs.
func (h *Handler) Start(c *gin.Context) {
	id := c.Param("id")
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// The generation outcome is applied even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	e, err := h.sessions.Update(id, func(e entry) (entry, error) {
		cfg := quiz.Configuration{
			StudentName:   e.session.Config.StudentName,
			StudentClass:  e.session.Config.StudentClass,
			ChapterTitle:  req.Chapter,
			LessonTitle:   req.Lesson,
			QuestionCount: req.Count,
		}
		if cfg.ChapterTitle == "" {
			cfg.ChapterTitle, _ = h.catalog.ChapterOf(req.Lesson)
		}
		next, err := h.service.Begin(ctx, e.session, cfg)
		if err != nil {
			return e, err
		}
		return entry{session: next}, nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	loaded := h.service.Fetch(ctx, e.session)

	e, err = h.sessions.Update(id, func(e entry) (entry, error) {
		next, err := h.service.Apply(ctx, e.session, loaded)
		if err != nil {
			return e, err
		}
		e.session = next
		return e, nil
	})
	if err != nil && !errors.Is(err, quiz.ErrStaleAttempt) {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, e.session, e.submission, h.now()))
}

func (h *Handler) Reveal(c *gin.Context) {
	id := c.Param("id")
	var req revealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option is required"})
		return
	}
	h.transition(c, id, func(ctx context.Context, s quiz.Session) (quiz.Session, error) {
		return quiz.Reveal(s, req.Option)
	})
}

func (h *Handler) Advance(c *gin.Context) {
	h.transition(c, c.Param("id"), h.service.Advance)
}

func (h *Handler) Restart(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	e, err := h.sessions.Update(id, func(e entry) (entry, error) {
		return entry{session: h.service.Restart(ctx, e.session)}, nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, e.session, e.submission, h.now()))
}

// Submit sends the finished result once. While a submission is in flight
// or after it succeeded, the current status is returned unchanged.
func (h *Handler) Submit(c *gin.Context) {
	id := c.Param("id")
	ctx := context.WithoutCancel(c.Request.Context())

	var prev quiz.Submission
	e, err := h.sessions.Update(id, func(e entry) (entry, error) {
		if e.session.State != quiz.StateFinished {
			return e, quiz.ErrNotFinished
		}
		prev = e.submission
		if prev.CanSubmit() {
			e.submission = prev.Begin()
		}
		return e, nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if !prev.CanSubmit() {
		c.JSON(http.StatusOK, newSessionView(id, e.session, e.submission, h.now()))
		return
	}

	sub := h.service.Submit(ctx, e.session, prev)

	e, err = h.sessions.Update(id, func(cur entry) (entry, error) {
		if cur.session.Attempt != e.session.Attempt {
			// Restarted meanwhile; the result no longer belongs here.
			return cur, nil
		}
		cur.submission = sub
		return cur, nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	status := http.StatusOK
	if sub.Status == quiz.SubmissionFailed {
		status = http.StatusBadGateway
	}
	c.JSON(status, newSessionView(id, e.session, e.submission, h.now()))
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		h.fail(c, ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) transition(c *gin.Context, id string, fn func(context.Context, quiz.Session) (quiz.Session, error)) {
	ctx := c.Request.Context()
	e, err := h.sessions.Update(id, func(e entry) (entry, error) {
		next, err := fn(ctx, e.session)
		if err != nil {
			return e, err
		}
		e.session = next
		return e, nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, e.session, e.submission, h.now()))
}

// fail maps domain errors to HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	var ve *quiz.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   err.Error(),
			"message": ve.Message(),
			"missing": ve.Missing,
		})
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrInvalidOption):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrBusy),
		errors.Is(err, quiz.ErrNotIdle),
		errors.Is(err, quiz.ErrNotActive),
		errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, quiz.ErrNotRevealed),
		errors.Is(err, quiz.ErrNotFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", "path", c.FullPath(), logging.Err(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
