package results

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongduc/quiz11/internal/quiz"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink inserts each result as a row.
type PostgresSink struct {
	db     execer
	insert string
	closer func()
}

// NewPostgresSink opens a pool for dsn and creates table if it is missing.
func NewPostgresSink(ctx context.Context, dsn, table string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	s := newPostgresSink(pool, table)
	s.closer = pool.Close
	if _, err := pool.Exec(ctx, createTableSQL(table)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return s, nil
}

func newPostgresSink(db execer, table string) *PostgresSink {
	name := pgx.Identifier{table}.Sanitize()
	return &PostgresSink{
		db: db,
		insert: "INSERT INTO " + name +
			" (submitted_at, name, class, chapter, lesson, score, total, percentage)" +
			" VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
	}
}

func createTableSQL(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + pgx.Identifier{table}.Sanitize() + ` (
	id           BIGSERIAL PRIMARY KEY,
	submitted_at TIMESTAMPTZ NOT NULL,
	name         TEXT NOT NULL,
	class        TEXT NOT NULL,
	chapter      TEXT NOT NULL DEFAULT '',
	lesson       TEXT NOT NULL,
	score        INTEGER NOT NULL,
	total        INTEGER NOT NULL,
	percentage   INTEGER NOT NULL
)`
}

// Submit inserts one record.
func (s *PostgresSink) Submit(ctx context.Context, rec quiz.ResultRecord) error {
	_, err := s.db.Exec(ctx, s.insert,
		stamp(rec),
		rec.StudentName,
		rec.StudentClass,
		rec.ChapterTitle,
		rec.LessonTitle,
		rec.Score,
		rec.Total,
		rec.Percentage(),
	)
	if err != nil {
		return &quiz.SubmissionError{Err: fmt.Errorf("insert result: %w", err)}
	}
	return nil
}

func (s *PostgresSink) Close() error {
	if s.closer != nil {
		s.closer()
	}
	return nil
}
