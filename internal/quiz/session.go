package quiz

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// State is the lifecycle phase of a quiz session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateActive
	StateFinished
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Answered is the choice recorded for the current question, held until Advance.
type Answered struct {
	Chosen      string
	Correct     bool
	Explanation string
	Answer      string // the correct option
}

// Session is one student's run through one generated question set.
//
// Sessions are values. Every transition takes a Session and returns a new
// one; callers replace their copy with the result.
//
// Invariants: 0 <= CurrentIndex <= len(Questions); Score <= CurrentIndex;
// Active implies len(Questions) > 0; Finished implies
// CurrentIndex == len(Questions).
type Session struct {
	Config       Configuration
	Questions    []Question
	CurrentIndex int
	Score        int
	State        State
	LastError    string

	// Attempt identifies the run started by Begin. While Loading, results
	// carrying a different attempt are discarded.
	Attempt string

	// Revealed is non-nil between Reveal and Advance.
	Revealed *Answered
}

// New returns an Idle session for the given student.
func New(name, class string) Session {
	return Session{
		Config: Configuration{StudentName: name, StudentClass: class},
		State:  StateIdle,
	}
}

// Current returns the question at CurrentIndex. ok is false outside Active.
func (s Session) Current() (Question, bool) {
	if s.State != StateActive || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Total is the number of questions actually served, which may be fewer
// than the configured count.
func (s Session) Total() int { return len(s.Questions) }

// RunningScore includes the pending reveal, for display while the
// explanation is shown.
func (s Session) RunningScore() int {
	if s.Revealed != nil && s.Revealed.Correct {
		return s.Score + 1
	}
	return s.Score
}

// Begin validates cfg and moves the session to Loading with a fresh
// attempt id. On a validation failure the session is returned unchanged.
func Begin(s Session, cfg Configuration, allowed []int) (Session, error) {
	switch s.State {
	case StateIdle:
	case StateLoading:
		return s, ErrBusy
	default:
		return s, fmt.Errorf("begin from %s: %w", s.State, ErrNotIdle)
	}
	if err := cfg.Validate(allowed); err != nil {
		return s, err
	}
	next := Session{
		Config:  cfg.normalized(),
		State:   StateLoading,
		Attempt: uuid.NewString(),
	}
	return next, nil
}

// Load applies the outcome of the generation request identified by
// attempt. A failure, an empty list or any malformed question moves to
// Error; otherwise the session becomes Active at the first question. Outcomes for any other
// attempt, or arriving outside Loading, return ErrStaleAttempt and leave
// the session untouched.
func Load(s Session, attempt string, questions []Question, genErr error) (Session, error) {
	if s.State != StateLoading || attempt == "" || attempt != s.Attempt {
		return s, ErrStaleAttempt
	}

	next := s
	next.CurrentIndex = 0
	next.Score = 0
	next.Revealed = nil

	if genErr == nil && len(questions) == 0 {
		genErr = &GenerationError{Lesson: s.Config.LessonTitle}
	}
	if genErr == nil {
		genErr = validateBatch(s.Config.LessonTitle, questions)
	}
	if genErr != nil {
		next.Questions = nil
		next.State = StateError
		next.LastError = userMessage(genErr)
		return next, nil
	}

	next.Questions = copyQuestions(questions)
	next.State = StateActive
	next.LastError = ""
	return next, nil
}

// Reveal records the student's choice for the current question. A second
// choice for the same question is ignored and reported as
// ErrAlreadyAnswered. Score is applied on Advance.
func Reveal(s Session, option string) (Session, error) {
	q, ok := s.Current()
	if !ok {
		return s, ErrNotActive
	}
	if s.Revealed != nil {
		return s, ErrAlreadyAnswered
	}
	if !q.HasOption(option) {
		return s, fmt.Errorf("%w: %q", ErrInvalidOption, option)
	}

	next := s
	next.Revealed = &Answered{
		Chosen:      option,
		Correct:     option == q.CorrectAnswer,
		Explanation: q.Explanation,
		Answer:      q.CorrectAnswer,
	}
	return next, nil
}

// Advance commits the recorded answer and moves to the next question, or
// to Finished after the last one.
func Advance(s Session) (Session, error) {
	if s.State != StateActive {
		return s, ErrNotActive
	}
	if s.Revealed == nil {
		return s, ErrNotRevealed
	}

	next := s
	if s.Revealed.Correct {
		next.Score++
	}
	next.Revealed = nil
	next.CurrentIndex++
	if next.CurrentIndex >= len(next.Questions) {
		next.CurrentIndex = len(next.Questions)
		next.State = StateFinished
	}
	return next, nil
}

// Answer is Reveal followed immediately by Advance.
func Answer(s Session, option string) (Session, error) {
	next, err := Reveal(s, option)
	if err != nil {
		return s, err
	}
	return Advance(next)
}

// Restart returns to Idle from any state, keeping only the student's name
// and class. Any in-flight generation becomes stale.
func Restart(s Session) Session {
	return New(s.Config.StudentName, s.Config.StudentClass)
}

// validateBatch rejects the whole batch on the first malformed question.
func validateBatch(lesson string, questions []Question) error {
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return &GenerationError{Lesson: lesson, Err: fmt.Errorf("question %d: %w", i+1, err)}
		}
	}
	return nil
}

func userMessage(err error) string {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Message()
	}
	return "Lỗi: " + err.Error()
}
