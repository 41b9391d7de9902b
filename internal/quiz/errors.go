package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotActive is returned when an answer arrives outside the Active state.
	ErrNotActive = errors.New("quiz is not active")

	// ErrAlreadyAnswered is returned for a second answer to the same question.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrNotRevealed is returned by Advance before the current question is answered.
	ErrNotRevealed = errors.New("current question has not been answered")

	// ErrStaleAttempt is returned when a generation result belongs to an
	// attempt that is no longer current.
	ErrStaleAttempt = errors.New("generation result is for a stale attempt")

	// ErrNotFinished is returned when a result is requested before the quiz ends.
	ErrNotFinished = errors.New("quiz is not finished")

	// ErrInvalidOption is returned when the chosen option is not offered.
	ErrInvalidOption = errors.New("option is not one of the choices")

	// ErrNotIdle is returned by Begin outside Idle; restart first.
	ErrNotIdle = errors.New("quiz must be restarted before starting again")

	// ErrBusy is returned by Begin while questions are already loading.
	ErrBusy = errors.New("questions are already loading")
)

// ValidationError lists what is wrong with a Configuration.
type ValidationError struct {
	Missing  []string // "name", "class", "lesson"
	BadCount int      // non-zero when the question count is not allowed
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if e.BadCount != 0 {
		parts = append(parts, fmt.Sprintf("question count %d not allowed", e.BadCount))
	}
	return "invalid quiz configuration: " + strings.Join(parts, "; ")
}

// Message is the text shown to the student.
func (e *ValidationError) Message() string {
	return "Vui lòng điền đầy đủ thông tin và chọn bài học."
}

// GenerationError means the question source failed or returned nothing usable.
type GenerationError struct {
	Lesson string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generate questions for %q: no questions", e.Lesson)
	}
	return fmt.Sprintf("generate questions for %q: %v", e.Lesson, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Message is the text shown to the student.
func (e *GenerationError) Message() string {
	if e.Err == nil {
		return "Không thể tạo câu hỏi. Vui lòng thử lại."
	}
	return "Lỗi: " + e.Err.Error()
}

// SubmissionError means the result sink rejected or could not receive a record.
type SubmissionError struct {
	StatusCode int // HTTP status when the sink is HTTP based, else 0
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submit result: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("submit result: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
