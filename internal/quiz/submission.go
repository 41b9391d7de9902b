package quiz

import "fmt"

// SubmissionStatus tracks a result submission independently of the session.
type SubmissionStatus int

const (
	SubmissionIdle SubmissionStatus = iota
	SubmissionSubmitting
	SubmissionSuccess
	SubmissionFailed
)

func (s SubmissionStatus) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionSubmitting:
		return "submitting"
	case SubmissionSuccess:
		return "success"
	case SubmissionFailed:
		return "error"
	default:
		return fmt.Sprintf("submission(%d)", int(s))
	}
}

// Submission is the tri-state submit indicator shown on the results screen.
type Submission struct {
	Status SubmissionStatus
	Err    error
}

// CanSubmit is false while a submission is in flight or after one succeeded.
func (s Submission) CanSubmit() bool {
	return s.Status == SubmissionIdle || s.Status == SubmissionFailed
}

// Begin marks a submission as in flight.
func (s Submission) Begin() Submission {
	return Submission{Status: SubmissionSubmitting}
}

// Complete records the outcome of an in-flight submission.
func (s Submission) Complete(err error) Submission {
	if err != nil {
		return Submission{Status: SubmissionFailed, Err: err}
	}
	return Submission{Status: SubmissionSuccess}
}
