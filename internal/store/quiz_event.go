package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/hongduc/quiz11/internal/quiz"
)

const quizEventsTable = "quiz_events"

var quizEventColumns = []string{
	"id", "sequence", "created_at", "session_id", "action",
	"lesson", "score", "total", "detail",
}

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(quizEventsTable).
		Columns(quizEventColumns[1:]...).
		Values(
			seqNum, time.Now().UnixMilli(),
			data.SessionID, data.Action, data.Lesson,
			data.Score, data.Total, data.Detail,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEvent, error) {
	b := builder()
	sel := b.Select(quizEventColumns...).From(b.Table(quizEventsTable))
	preds := opts.predicates()
	if opts.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", opts.SessionID))
	}
	query, args := paginate(sel, preds, opts.Limit).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}
	defer rows.Close()

	var out []QuizEvent
	for rows.Next() {
		var (
			e  QuizEvent
			ts int64
		)
		err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.Action,
			&e.Lesson, &e.Score, &e.Total, &e.Detail)
		if err != nil {
			return nil, fmt.Errorf("scan quiz event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// QuizRecorder adapts an EventRepo to quiz.EventRecorder.
type QuizRecorder struct {
	Repo EventRepo
}

var _ quiz.EventRecorder = QuizRecorder{}

// RecordQuizEvent stores ev.
func (r QuizRecorder) RecordQuizEvent(ctx context.Context, ev quiz.Event) error {
	return r.Repo.AppendQuizEvent(ctx, QuizEventData{
		SessionID: ev.SessionID,
		Action:    ev.Action,
		Lesson:    ev.Lesson,
		Score:     ev.Score,
		Total:     ev.Total,
		Detail:    ev.Detail,
	})
}
