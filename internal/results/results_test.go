package results

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongduc/quiz11/internal/config"
	"github.com/hongduc/quiz11/internal/quiz"
)

func record() quiz.ResultRecord {
	return quiz.ResultRecord{
		Timestamp:    time.Date(2026, 3, 5, 9, 7, 3, 0, time.Local),
		StudentName:  "Nguyễn Văn A",
		StudentClass: "11A1",
		ChapterTitle: "Chủ đề 4. Giới thiệu các hệ cơ sở dữ liệu",
		LessonTitle:  "Bài 11. Cơ sở dữ liệu",
		Score:        7,
		Total:        9,
	}
}

func TestNewPayload(t *testing.T) {
	p := NewPayload(record())

	assert.Equal(t, "09:07:03 5/3/2026", p.Timestamp)
	assert.Equal(t, "Nguyễn Văn A", p.Name)
	assert.Equal(t, "11A1", p.Class)
	assert.Equal(t, "Bài 11. Cơ sở dữ liệu", p.Lesson)
	assert.Equal(t, "7/9", p.Score)
	assert.Equal(t, "78%", p.Percentage)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, k := range []string{"timestamp", "name", "class", "chapter", "lesson", "score", "percentage"} {
		assert.Contains(t, fields, k)
	}
}

func TestSheetSink_Success(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"created":1}`))
	}))
	defer srv.Close()

	sink := NewSheetSink(srv.URL, time.Second)
	defer sink.Close()

	require.NoError(t, sink.Submit(context.Background(), record()))
	assert.Equal(t, "7/9", got.Score)
	assert.Equal(t, "11A1", got.Class)
}

func TestSheetSink_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewSheetSink(srv.URL, time.Second).Submit(context.Background(), record())

	var se *quiz.SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}

func TestSheetSink_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewSheetSink(url, time.Second).Submit(context.Background(), record())

	var se *quiz.SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Zero(t, se.StatusCode)
}

func TestSheetSink_SingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	require.Error(t, NewSheetSink(srv.URL, time.Second).Submit(context.Background(), record()))
	assert.Equal(t, 1, calls)
}

type fakeList struct {
	key    string
	values []any
	err    error
}

func (f *fakeList) RPush(ctx context.Context, key string, values ...any) *redis.IntCmd {
	f.key = key
	f.values = append(f.values, values...)
	return redis.NewIntResult(int64(len(f.values)), f.err)
}

func TestRedisSink_Submit(t *testing.T) {
	list := &fakeList{}
	sink := &RedisSink{rdb: list, key: "quiz11:results"}

	require.NoError(t, sink.Submit(context.Background(), record()))
	require.Len(t, list.values, 1)
	assert.Equal(t, "quiz11:results", list.key)

	var p Payload
	require.NoError(t, json.Unmarshal(list.values[0].([]byte), &p))
	assert.Equal(t, "78%", p.Percentage)
	assert.NoError(t, sink.Close())
}

func TestRedisSink_Error(t *testing.T) {
	sink := &RedisSink{rdb: &fakeList{err: errors.New("READONLY")}, key: "k"}

	var se *quiz.SubmissionError
	require.ErrorAs(t, sink.Submit(context.Background(), record()), &se)
}

type fakePublisher struct {
	exchange, key string
	msgs          []amqp.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key = exchange, key
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestAMQPSink_Submit(t *testing.T) {
	pub := &fakePublisher{}
	sink := &AMQPSink{ch: pub, exchange: "quiz11", routingKey: "results.submitted"}

	require.NoError(t, sink.Submit(context.Background(), record()))
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "quiz11", pub.exchange)
	assert.Equal(t, "results.submitted", pub.key)

	msg := pub.msgs[0]
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.True(t, msg.Timestamp.Equal(record().Timestamp))
	assert.NoError(t, sink.Close())
}

func TestAMQPSink_Error(t *testing.T) {
	sink := &AMQPSink{ch: &fakePublisher{err: amqp.ErrClosed}, exchange: "x", routingKey: "k"}

	err := sink.Submit(context.Background(), record())
	var se *quiz.SubmissionError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

type fakeExec struct {
	sql  string
	args []any
	err  error
}

func (f *fakeExec) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestPostgresSink_Submit(t *testing.T) {
	db := &fakeExec{}
	sink := newPostgresSink(db, "quiz_results")

	require.NoError(t, sink.Submit(context.Background(), record()))
	assert.Contains(t, db.sql, `INSERT INTO "quiz_results"`)
	require.Len(t, db.args, 8)
	assert.Equal(t, "Nguyễn Văn A", db.args[1])
	assert.Equal(t, 7, db.args[5])
	assert.Equal(t, 9, db.args[6])
	assert.Equal(t, 78, db.args[7])
}

func TestPostgresSink_QuotesTable(t *testing.T) {
	assert.Contains(t, createTableSQL(`results"; drop`), `"results""; drop"`)
}

func TestPostgresSink_Error(t *testing.T) {
	sink := newPostgresSink(&fakeExec{err: errors.New("connection reset")}, "quiz_results")

	var se *quiz.SubmissionError
	require.ErrorAs(t, sink.Submit(context.Background(), record()), &se)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	sink, err := New(ctx, config.Results{Kind: KindNone})
	require.NoError(t, err)
	assert.Nil(t, sink)

	sink, err = New(ctx, config.Results{Kind: KindSheet, SheetURL: "http://localhost:1/api", Timeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &SheetSink{}, sink)

	for _, kind := range []string{KindSheet, KindRedis, KindAMQP, KindPostgres} {
		_, err := New(ctx, config.Results{Kind: kind})
		assert.ErrorIs(t, err, ErrNotConfigured, kind)
	}

	_, err = New(ctx, config.Results{Kind: "ftp"})
	assert.Error(t, err)
}

func TestSinkWithService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := quiz.NewService(nil, NewSheetSink(srv.URL, time.Second))
	s := quiz.Session{State: quiz.StateFinished, Score: 1, Questions: make([]quiz.Question, 2)}

	sub := svc.Submit(context.Background(), s, quiz.Submission{})
	assert.Equal(t, quiz.SubmissionFailed, sub.Status)
	assert.True(t, sub.CanSubmit())
}
