package questiongen

import "github.com/hongduc/quiz11/internal/quiz"

// Config controls the Generator.
type Config struct {
	// Grade is the school year named in the prompt.
	Grade int

	// TrueFalseCount is how many true/false questions to request. It is
	// capped at the requested total.
	TrueFalseCount int

	// TrueLabel and FalseLabel are the fixed options of a true/false question.
	TrueLabel  string
	FalseLabel string

	// MaxTokens is the token budget for the whole batch.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// Validators run on every question, in order. The first failure
	// rejects the batch.
	Validators []Validator
}

// DefaultConfig mirrors the classroom setup: grade 11, four true/false
// questions, the rest four-option multiple choice.
func DefaultConfig() Config {
	return Config{
		Grade:          11,
		TrueFalseCount: 4,
		TrueLabel:      quiz.DefaultTrueLabel,
		FalseLabel:     quiz.DefaultFalseLabel,
		MaxTokens:      8192,
		Temperature:    0.7,
		Validators: []Validator{
			StructuralValidator{},
			LengthValidator{MaxText: 600, MaxExplanation: 1200},
		},
	}
}
