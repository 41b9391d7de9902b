package quiz

import (
	"slices"
	"strings"
)

// DefaultQuestionCounts is the enumerated set of allowed question counts.
var DefaultQuestionCounts = []int{5, 10, 15, 20}

// Configuration is what the student picks before a quiz starts. It is
// frozen into the session once Begin succeeds.
type Configuration struct {
	StudentName   string `json:"name"`
	StudentClass  string `json:"class"`
	ChapterTitle  string `json:"chapter"`
	LessonTitle   string `json:"lesson"`
	QuestionCount int    `json:"count"`
}

// Validate reports every missing field at once. allowed is the set of
// permitted question counts; nil means DefaultQuestionCounts.
func (c Configuration) Validate(allowed []int) error {
	if allowed == nil {
		allowed = DefaultQuestionCounts
	}
	var ve ValidationError
	if strings.TrimSpace(c.StudentName) == "" {
		ve.Missing = append(ve.Missing, "name")
	}
	if strings.TrimSpace(c.StudentClass) == "" {
		ve.Missing = append(ve.Missing, "class")
	}
	if strings.TrimSpace(c.LessonTitle) == "" {
		ve.Missing = append(ve.Missing, "lesson")
	}
	if !slices.Contains(allowed, c.QuestionCount) {
		ve.BadCount = c.QuestionCount
		if ve.BadCount == 0 {
			ve.BadCount = -1
		}
	}
	if len(ve.Missing) == 0 && ve.BadCount == 0 {
		return nil
	}
	return &ve
}

func (c Configuration) normalized() Configuration {
	c.StudentName = strings.TrimSpace(c.StudentName)
	c.StudentClass = strings.TrimSpace(c.StudentClass)
	c.ChapterTitle = strings.TrimSpace(c.ChapterTitle)
	c.LessonTitle = strings.TrimSpace(c.LessonTitle)
	return c
}
