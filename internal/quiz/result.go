package quiz

import (
	"fmt"
	"math"
	"time"
)

// ResultRecord is derived from a finished session when the student opts to
// submit. It is never stored in the session.
type ResultRecord struct {
	Timestamp    time.Time
	StudentName  string
	StudentClass string
	ChapterTitle string
	LessonTitle  string
	Score        int
	Total        int
}

// Result builds the record for a Finished session.
func Result(s Session, now time.Time) (ResultRecord, error) {
	if s.State != StateFinished {
		return ResultRecord{}, ErrNotFinished
	}
	return ResultRecord{
		Timestamp:    now,
		StudentName:  s.Config.StudentName,
		StudentClass: s.Config.StudentClass,
		ChapterTitle: s.Config.ChapterTitle,
		LessonTitle:  s.Config.LessonTitle,
		Score:        s.Score,
		Total:        len(s.Questions),
	}, nil
}

// ScoreFraction formats the score as "X/Y".
func (r ResultRecord) ScoreFraction() string {
	return fmt.Sprintf("%d/%d", r.Score, r.Total)
}

// Percentage is the score as a whole percent, rounded half up.
func (r ResultRecord) Percentage() int {
	return Percentage(r.Score, r.Total)
}

// PercentageString formats the percentage as "Z%".
func (r ResultRecord) PercentageString() string {
	return fmt.Sprintf("%d%%", r.Percentage())
}

// Feedback returns the encouragement tier for the percentage.
func (r ResultRecord) Feedback() Feedback {
	return FeedbackFor(r.Percentage())
}

// Percentage returns round(score/total*100), or 0 when total is 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Feedback is a result tier with its message.
type Feedback int

const (
	FeedbackKeepTrying Feedback = iota
	FeedbackGood
	FeedbackGreat
	FeedbackExcellent
)

// FeedbackFor maps a percentage to its tier.
func FeedbackFor(percentage int) Feedback {
	switch {
	case percentage >= 90:
		return FeedbackExcellent
	case percentage >= 80:
		return FeedbackGreat
	case percentage >= 50:
		return FeedbackGood
	default:
		return FeedbackKeepTrying
	}
}

func (f Feedback) String() string {
	switch f {
	case FeedbackExcellent:
		return "excellent"
	case FeedbackGreat:
		return "great"
	case FeedbackGood:
		return "good"
	default:
		return "keep-trying"
	}
}

// Message is the localized encouragement line.
func (f Feedback) Message() string {
	switch f {
	case FeedbackExcellent:
		return "Tuyệt vời! Em đã nắm rất vững bài học!"
	case FeedbackGreat:
		return "Xuất sắc! Một kết quả rất ấn tượng!"
	case FeedbackGood:
		return "Khá tốt! Cố gắng thêm chút nữa nhé."
	default:
		return "Đừng nản lòng! Hãy ôn tập và thử lại nhé."
	}
}
