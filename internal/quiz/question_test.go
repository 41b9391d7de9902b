package quiz

import "testing"

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"multiple choice", mcQuestion("q", "B"), false},
		{"true false", tfQuestion("q", false), false},
		{"empty text", Question{Options: []string{"A", "B"}, CorrectAnswer: "A", Explanation: "e"}, true},
		{"one option", Question{Text: "q", Options: []string{"A"}, CorrectAnswer: "A", Explanation: "e"}, true},
		{"five options", Question{Text: "q", Options: []string{"A", "B", "C", "D", "E"}, CorrectAnswer: "A", Explanation: "e"}, true},
		{"answer not in options", Question{Text: "q", Options: []string{"A", "B"}, CorrectAnswer: "C", Explanation: "e"}, true},
		{"duplicate option", Question{Text: "q", Options: []string{"A", "A"}, CorrectAnswer: "A", Explanation: "e"}, true},
		{"blank option", Question{Text: "q", Options: []string{"A", " "}, CorrectAnswer: "A", Explanation: "e"}, true},
		{"no explanation", Question{Text: "q", Options: []string{"A", "B"}, CorrectAnswer: "A"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsTrueFalse(t *testing.T) {
	if !tfQuestion("q", true).IsTrueFalse(DefaultTrueLabel, DefaultFalseLabel) {
		t.Error("expected true/false question")
	}
	if mcQuestion("q", "A").IsTrueFalse(DefaultTrueLabel, DefaultFalseLabel) {
		t.Error("4-option question reported as true/false")
	}
	yesNo := Question{Text: "q", Options: []string{"Có", "Không"}, CorrectAnswer: "Có", Explanation: "e"}
	if yesNo.IsTrueFalse(DefaultTrueLabel, DefaultFalseLabel) {
		t.Error("other two-option pair reported as true/false")
	}
}
