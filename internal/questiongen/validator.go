package questiongen

import (
	"fmt"
	"unicode/utf8"

	"github.com/hongduc/quiz11/internal/quiz"
)

// Validator checks one generated question.
type Validator interface {
	Name() string
	Validate(q quiz.Question) error
}

// ValidationError names the validator and the offending question.
type ValidationError struct {
	Validator string
	Index     int
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d failed %s check: %v", e.Index+1, e.Validator, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StructuralValidator enforces the question invariants: non-empty text
// and explanation, 2-4 distinct options, answer among the options.
type StructuralValidator struct{}

func (StructuralValidator) Name() string { return "structural" }

func (StructuralValidator) Validate(q quiz.Question) error { return q.Validate() }

// LengthValidator rejects runaway output.
type LengthValidator struct {
	MaxText        int
	MaxExplanation int
}

func (LengthValidator) Name() string { return "length" }

func (v LengthValidator) Validate(q quiz.Question) error {
	if v.MaxText > 0 && utf8.RuneCountInString(q.Text) > v.MaxText {
		return fmt.Errorf("question text exceeds %d characters", v.MaxText)
	}
	if v.MaxExplanation > 0 && utf8.RuneCountInString(q.Explanation) > v.MaxExplanation {
		return fmt.Errorf("explanation exceeds %d characters", v.MaxExplanation)
	}
	return nil
}

// validateBatch runs every validator over every question. One failure
// rejects the whole batch.
func validateBatch(qs []quiz.Question, validators []Validator) error {
	for i, q := range qs {
		for _, v := range validators {
			if err := v.Validate(q); err != nil {
				return &ValidationError{Validator: v.Name(), Index: i, Err: err}
			}
		}
	}
	return nil
}
