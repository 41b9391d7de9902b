package quiz

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hongduc/quiz11/internal/logging"
)

// QuestionSource produces the question set for a lesson.
type QuestionSource interface {
	Generate(ctx context.Context, lesson string, count int) ([]Question, error)
}

// ResultSink persists a finished quiz result somewhere remote.
type ResultSink interface {
	Submit(ctx context.Context, rec ResultRecord) error
}

// Event actions recorded through an EventRecorder.
const (
	ActionStart        = "start"
	ActionLoaded       = "loaded"
	ActionFailed       = "failed"
	ActionFinished     = "finished"
	ActionRestart      = "restart"
	ActionSubmitted    = "submitted"
	ActionSubmitFailed = "submit_failed"
)

// Event is an audit entry describing one lifecycle step.
type Event struct {
	SessionID string
	Action    string
	Lesson    string
	Score     int
	Total     int
	Detail    string
}

// EventRecorder receives lifecycle events. Recording failures are logged
// and never affect the session.
type EventRecorder interface {
	RecordQuizEvent(ctx context.Context, ev Event) error
}

// Loaded is the outcome of one generation request.
type Loaded struct {
	Attempt   string
	Questions []Question
	Err       error
}

// Service drives sessions against a question source and a result sink.
// It holds no session state of its own.
type Service struct {
	source  QuestionSource
	sink    ResultSink
	events  EventRecorder
	allowed []int
	logger  *slog.Logger
	now     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithEvents records lifecycle events.
func WithEvents(r EventRecorder) Option { return func(s *Service) { s.events = r } }

// WithAllowedCounts overrides DefaultQuestionCounts.
func WithAllowedCounts(counts []int) Option { return func(s *Service) { s.allowed = counts } }

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithClock overrides time.Now for result timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a Service. sink may be nil when submission is disabled.
func NewService(source QuestionSource, sink ResultSink, opts ...Option) *Service {
	svc := &Service{
		source:  source,
		sink:    sink,
		allowed: DefaultQuestionCounts,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// AllowedCounts returns the permitted question counts.
func (svc *Service) AllowedCounts() []int { return svc.allowed }

// CanSubmit reports whether a result sink is configured.
func (svc *Service) CanSubmit() bool { return svc.sink != nil }

// Begin validates cfg and moves s to Loading.
func (svc *Service) Begin(ctx context.Context, s Session, cfg Configuration) (Session, error) {
	next, err := Begin(s, cfg, svc.allowed)
	if err != nil {
		return s, err
	}
	svc.record(ctx, next, ActionStart, "")
	return next, nil
}

// Fetch performs the single generation call for a Loading session.
func (svc *Service) Fetch(ctx context.Context, s Session) Loaded {
	qs, err := svc.source.Generate(ctx, s.Config.LessonTitle, s.Config.QuestionCount)
	if err != nil {
		var ge *GenerationError
		if !errors.As(err, &ge) {
			err = &GenerationError{Lesson: s.Config.LessonTitle, Err: err}
		}
	}
	return Loaded{Attempt: s.Attempt, Questions: qs, Err: err}
}

// Apply folds a generation outcome into s. Stale outcomes are dropped.
func (svc *Service) Apply(ctx context.Context, s Session, l Loaded) (Session, error) {
	next, err := Load(s, l.Attempt, l.Questions, l.Err)
	if err != nil {
		svc.logger.Debug("discarding generation result", "attempt", l.Attempt, "state", s.State.String())
		return s, err
	}
	if next.State == StateError {
		svc.logger.Warn("question generation failed", "lesson", next.Config.LessonTitle, slog.String("error", next.LastError))
		svc.record(ctx, next, ActionFailed, next.LastError)
	} else {
		svc.record(ctx, next, ActionLoaded, "")
	}
	return next, nil
}

// Start is Begin, Fetch and Apply in sequence.
func (svc *Service) Start(ctx context.Context, s Session, cfg Configuration) (Session, error) {
	next, err := svc.Begin(ctx, s, cfg)
	if err != nil {
		return s, err
	}
	return svc.Apply(ctx, next, svc.Fetch(ctx, next))
}

// Advance wraps Advance and records the finish.
func (svc *Service) Advance(ctx context.Context, s Session) (Session, error) {
	next, err := Advance(s)
	if err != nil {
		return s, err
	}
	if next.State == StateFinished {
		svc.record(ctx, next, ActionFinished, "")
	}
	return next, nil
}

// Restart wraps Restart and records it.
func (svc *Service) Restart(ctx context.Context, s Session) Session {
	svc.record(ctx, s, ActionRestart, s.State.String())
	return Restart(s)
}

// Submit sends the result of a Finished session to the sink and returns
// the new submission status. The session is never modified.
func (svc *Service) Submit(ctx context.Context, s Session, sub Submission) Submission {
	if !sub.CanSubmit() {
		return sub
	}
	rec, err := Result(s, svc.now())
	if err != nil {
		return sub.Complete(err)
	}
	if svc.sink == nil {
		return sub.Complete(&SubmissionError{Err: errors.New("no result sink configured")})
	}

	err = svc.sink.Submit(ctx, rec)
	if err != nil {
		var se *SubmissionError
		if !errors.As(err, &se) {
			err = &SubmissionError{Err: err}
		}
		svc.logger.Warn("result submission failed", "lesson", rec.LessonTitle, logging.Err(err))
		svc.record(ctx, s, ActionSubmitFailed, err.Error())
		return sub.Begin().Complete(err)
	}
	svc.record(ctx, s, ActionSubmitted, rec.ScoreFraction())
	return sub.Begin().Complete(nil)
}

func (svc *Service) record(ctx context.Context, s Session, action, detail string) {
	if svc.events == nil {
		return
	}
	ev := Event{
		SessionID: s.Attempt,
		Action:    action,
		Lesson:    s.Config.LessonTitle,
		Score:     s.Score,
		Total:     len(s.Questions),
		Detail:    detail,
	}
	if err := svc.events.RecordQuizEvent(ctx, ev); err != nil {
		svc.logger.Error("record quiz event", "action", action, logging.Err(err))
	}
}
