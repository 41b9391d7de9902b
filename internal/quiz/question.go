package quiz

import (
	"fmt"
	"slices"
	"strings"
)

// Default labels for the two options of a true/false question.
const (
	DefaultTrueLabel  = "Đúng"
	DefaultFalseLabel = "Sai"
)

// Question is one generated quiz item.
type Question struct {
	// Text is the prompt shown to the student.
	Text string `json:"question"`

	// Options holds 2 to 4 answer choices. True/false questions carry
	// exactly the two localized labels.
	Options []string `json:"options"`

	// CorrectAnswer is the text of the correct option.
	CorrectAnswer string `json:"correctAnswer"`

	// Explanation is shown after the student answers.
	Explanation string `json:"explanation"`
}

// Validate checks the structural invariants of a single question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) < 2 || len(q.Options) > 4 {
		return fmt.Errorf("question %q has %d options, want 2-4", q.Text, len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("question %q has an empty option", q.Text)
		}
		if seen[opt] {
			return fmt.Errorf("question %q has duplicate option %q", q.Text, opt)
		}
		seen[opt] = true
	}
	if !seen[q.CorrectAnswer] {
		return fmt.Errorf("question %q: correct answer %q is not one of the options", q.Text, q.CorrectAnswer)
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return fmt.Errorf("question %q has no explanation", q.Text)
	}
	return nil
}

// IsTrueFalse reports whether the options are exactly the given pair.
func (q Question) IsTrueFalse(trueLabel, falseLabel string) bool {
	return len(q.Options) == 2 &&
		slices.Contains(q.Options, trueLabel) &&
		slices.Contains(q.Options, falseLabel)
}

// HasOption reports whether option is one of the question's choices.
func (q Question) HasOption(option string) bool {
	return slices.Contains(q.Options, option)
}

func copyQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}
