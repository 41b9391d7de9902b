// Package results delivers finished quiz results to remote collectors.
package results

import (
	"encoding/json"
	"time"

	"github.com/hongduc/quiz11/internal/quiz"
)

// TimestampLayout matches how Vietnamese locales print date-times,
// e.g. "14:05:09 16/10/2026".
const TimestampLayout = "15:04:05 2/1/2006"

// Payload is the wire shape shared by every sink. Field names are the
// column headers of the results spreadsheet.
type Payload struct {
	Timestamp  string `json:"timestamp"`
	Name       string `json:"name"`
	Class      string `json:"class"`
	Chapter    string `json:"chapter"`
	Lesson     string `json:"lesson"`
	Score      string `json:"score"`
	Percentage string `json:"percentage"`
}

// NewPayload renders rec in local time.
func NewPayload(rec quiz.ResultRecord) Payload {
	return Payload{
		Timestamp:  rec.Timestamp.Local().Format(TimestampLayout),
		Name:       rec.StudentName,
		Class:      rec.StudentClass,
		Chapter:    rec.ChapterTitle,
		Lesson:     rec.LessonTitle,
		Score:      rec.ScoreFraction(),
		Percentage: rec.PercentageString(),
	}
}

func encode(rec quiz.ResultRecord) ([]byte, error) {
	return json.Marshal(NewPayload(rec))
}

// stamp returns rec's timestamp, or now when it was left zero.
func stamp(rec quiz.ResultRecord) time.Time {
	if rec.Timestamp.IsZero() {
		return time.Now()
	}
	return rec.Timestamp
}
