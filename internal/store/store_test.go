package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hongduc/quiz11/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"llm_request_events", "quiz_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.EventRepo().AppendQuizEvent(ctx, QuizEventData{SessionID: "a", Action: "start"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	events, err := s.EventRepo().QueryQuizEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("events after reopen = %d, want 1", len(events))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Errorf("Next = %d, want %d", got, want)
		}
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen", InputTokens: 100, OutputTokens: 900, LatencyMs: 1200, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen", InputTokens: 120, OutputTokens: 0, LatencyMs: 800, Success: false, ErrorMessage: "rate limited"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "other", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("events = %d, want 3", len(all))
	}
	if all[0].Model != "gpt-4o-mini" {
		t.Errorf("newest first: got %q", all[0].Model)
	}
	if all[2].Sequence >= all[0].Sequence {
		t.Error("sequence not increasing")
	}
	if time.Since(all[0].Timestamp) > time.Minute {
		t.Errorf("timestamp = %v", all[0].Timestamp)
	}

	gen, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(gen) != 1 || gen[0].Success || gen[0].ErrorMessage != "rate limited" {
		t.Errorf("purpose filter = %+v", gen)
	}

	first := all[2]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.RequestBody != "req" || got.ResponseBody != "resp" || !got.Success {
		t.Errorf("GetLLMEvent = %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("GetLLMEvent(missing) = %v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	qg := byPurpose[1]
	if qg.Purpose != "question-gen" || qg.Calls != 2 || qg.InputTokens != 220 || qg.OutputTokens != 900 || qg.AvgLatencyMs != 1000 {
		t.Errorf("question-gen usage = %+v", qg)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gemini-2.5-flash" || byModel[0].Calls != 2 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestQuizEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	steps := []QuizEventData{
		{SessionID: "s1", Action: "start", Lesson: "Bài 1"},
		{SessionID: "s1", Action: "loaded", Lesson: "Bài 1", Total: 5},
		{SessionID: "s2", Action: "start", Lesson: "Bài 2"},
		{SessionID: "s1", Action: "finished", Lesson: "Bài 1", Score: 4, Total: 5},
	}
	for _, st := range steps {
		if err := repo.AppendQuizEvent(ctx, st); err != nil {
			t.Fatal(err)
		}
	}
	// Interleave an LLM event to share the sequence.
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "question-gen", Success: true}); err != nil {
		t.Fatal(err)
	}

	s1, err := repo.QueryQuizEvents(ctx, QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(s1) != 3 {
		t.Fatalf("s1 events = %d, want 3", len(s1))
	}
	if s1[0].Action != "finished" || s1[0].Score != 4 || s1[0].Total != 5 {
		t.Errorf("latest s1 event = %+v", s1[0])
	}

	after, err := repo.QueryQuizEvents(ctx, QueryOpts{After: s1[1].Sequence})
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 2 {
		t.Errorf("events after seq %d = %d, want 2", s1[1].Sequence, len(after))
	}

	future, err := repo.QueryQuizEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if len(future) != 0 {
		t.Errorf("future events = %d", len(future))
	}
}

type cannedSource []quiz.Question

func (c cannedSource) Generate(context.Context, string, int) ([]quiz.Question, error) { return c, nil }

func TestQuizRecorderWithService(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	svc := quiz.NewService(cannedSource{{
		Text: "Q", Options: []string{"Đúng", "Sai"}, CorrectAnswer: "Đúng", Explanation: "E",
	}}, nil, quiz.WithEvents(QuizRecorder{Repo: s.EventRepo()}))

	sess, err := svc.Start(ctx, quiz.New("An", "11A1"), quiz.Configuration{
		StudentName: "An", StudentClass: "11A1", LessonTitle: "Bài 3", QuestionCount: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	sess, _ = quiz.Reveal(sess, "Đúng")
	if _, err := svc.Advance(ctx, sess); err != nil {
		t.Fatal(err)
	}

	events, err := s.EventRepo().QueryQuizEvents(ctx, QueryOpts{SessionID: sess.Attempt})
	if err != nil {
		t.Fatal(err)
	}
	var actions []string
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	want := []string{quiz.ActionFinished, quiz.ActionLoaded, quiz.ActionStart}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("actions = %v, want %v", actions, want)
			break
		}
	}
	if events[0].Score != 1 || events[0].Total != 1 || events[0].Lesson != "Bài 3" {
		t.Errorf("finished event = %+v", events[0])
	}
}
