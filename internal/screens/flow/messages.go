package flow

import (
	"time"

	"github.com/hongduc/quiz11/internal/quiz"
)

// loadedMsg carries the outcome of the single generation request.
type loadedMsg struct {
	quiz.Loaded
}

// spinnerTickMsg animates the loading indicator.
type spinnerTickMsg time.Time

// advanceMsg ends the explanation dwell for one question. It is ignored
// unless attempt and index still match the session.
type advanceMsg struct {
	attempt string
	index   int
}

// submittedMsg carries the result of a submission.
type submittedMsg struct {
	quiz.Submission
}
