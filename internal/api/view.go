package api

import (
	"time"

	"github.com/hongduc/quiz11/internal/quiz"
)

type questionView struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

type revealView struct {
	Chosen        string `json:"chosen"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

type resultView struct {
	Score      string `json:"score"`
	Percentage string `json:"percentage"`
	Feedback   string `json:"feedback"`
	Message    string `json:"message"`
}

type submissionView struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// sessionView is the public shape of a session. The correct answer of
// the current question only appears once it has been revealed.
type sessionView struct {
	ID           string             `json:"id"`
	State        string             `json:"state"`
	Config       quiz.Configuration `json:"config"`
	Index        int                `json:"index"`
	Total        int                `json:"total"`
	Score        int                `json:"score"`
	RunningScore int                `json:"runningScore"`
	Question     *questionView      `json:"current,omitempty"`
	Reveal       *revealView        `json:"reveal,omitempty"`
	Error        string             `json:"error,omitempty"`
	Result       *resultView        `json:"result,omitempty"`
	Submission   submissionView     `json:"submission"`
}

func newSessionView(id string, s quiz.Session, sub quiz.Submission, now time.Time) sessionView {
	v := sessionView{
		ID:           id,
		State:        s.State.String(),
		Config:       s.Config,
		Index:        s.CurrentIndex,
		Total:        s.Total(),
		Score:        s.Score,
		RunningScore: s.RunningScore(),
		Error:        s.LastError,
		Submission:   submissionView{Status: sub.Status.String()},
	}
	if sub.Err != nil {
		v.Submission.Error = sub.Err.Error()
	}
	if q, ok := s.Current(); ok {
		v.Question = &questionView{Text: q.Text, Options: q.Options}
	}
	if r := s.Revealed; r != nil {
		v.Reveal = &revealView{
			Chosen:        r.Chosen,
			Correct:       r.Correct,
			CorrectAnswer: r.Answer,
			Explanation:   r.Explanation,
		}
	}
	if rec, err := quiz.Result(s, now); err == nil {
		v.Result = &resultView{
			Score:      rec.ScoreFraction(),
			Percentage: rec.PercentageString(),
			Feedback:   rec.Feedback().String(),
			Message:    rec.Feedback().Message(),
		}
	}
	return v
}
