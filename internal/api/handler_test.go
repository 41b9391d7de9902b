package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongduc/quiz11/internal/catalog"
	"github.com/hongduc/quiz11/internal/quiz"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeSource struct {
	questions []quiz.Question
	err       error
	calls     int
}

func (f *fakeSource) Generate(context.Context, string, int) ([]quiz.Question, error) {
	f.calls++
	return f.questions, f.err
}

type fakeSink struct {
	records []quiz.ResultRecord
	err     error
}

func (f *fakeSink) Submit(_ context.Context, rec quiz.ResultRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func questions() []quiz.Question {
	return []quiz.Question{
		{Text: "HTML là ngôn ngữ lập trình.", Options: []string{"Đúng", "Sai"}, CorrectAnswer: "Sai", Explanation: "HTML là ngôn ngữ đánh dấu."},
		{Text: "Thẻ tạo liên kết?", Options: []string{"<a>", "<p>", "<h1>", "<img>"}, CorrectAnswer: "<a>", Explanation: "Thẻ a tạo siêu liên kết."},
	}
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	source *fakeSource
	sink   *fakeSink
}

func newTestServer(t *testing.T, sinkErr error) *testServer {
	src := &fakeSource{questions: questions()}
	sink := &fakeSink{err: sinkErr}
	log := slog.New(slog.DiscardHandler)
	h := NewHandler(log, quiz.NewService(src, sink), catalog.Default())
	return &testServer{t: t, router: NewRouter(log, h, nil), source: src, sink: sink}
}

func (s *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func (s *testServer) create() string {
	w, out := s.do(http.MethodPost, "/v1/sessions", map[string]string{"name": "Hoa", "class": "11C"})
	require.Equal(s.t, http.StatusCreated, w.Code)
	assert.Equal(s.t, "idle", out["state"])
	return out["id"].(string)
}

func (s *testServer) start(id string) map[string]any {
	w, out := s.do(http.MethodPost, "/v1/sessions/"+id+"/start", map[string]any{
		"lesson": "Bài 17. Quản trị cơ sở dữ liệu trên máy tính", "count": 5,
	})
	require.Equal(s.t, http.StatusOK, w.Code, out)
	return out
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t, nil)
	w, out := s.do(http.MethodGet, "/v1/catalog", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["chapters"], len(catalog.Default().Chapters))
	assert.Equal(t, []any{5.0, 10.0, 15.0, 20.0}, out["questionCounts"])
	assert.Equal(t, true, out["submitEnabled"])
}

func TestStartHidesAnswer(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.create()

	out := s.start(id)

	assert.Equal(t, "active", out["state"])
	assert.EqualValues(t, 2, out["total"])
	assert.Equal(t, 1, s.source.calls)
	current := out["current"].(map[string]any)
	assert.Equal(t, "HTML là ngôn ngữ lập trình.", current["question"])
	assert.NotContains(t, current, "correctAnswer")
	assert.NotContains(t, out, "reveal")

	cfg := out["config"].(map[string]any)
	assert.Equal(t, "Hoa", cfg["name"])
	assert.NotEmpty(t, cfg["chapter"], "chapter derived from lesson")
}

func TestStartValidation(t *testing.T) {
	s := newTestServer(t, nil)
	w, out := s.do(http.MethodPost, "/v1/sessions", map[string]string{"name": " ", "class": ""})
	require.Equal(t, http.StatusCreated, w.Code)
	id := out["id"].(string)

	w, out = s.do(http.MethodPost, "/v1/sessions/"+id+"/start", map[string]any{"lesson": "", "count": 7})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []any{"name", "class", "lesson"}, out["missing"])
	assert.Equal(t, 0, s.source.calls)
}

func TestStartTwiceConflicts(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.create()
	s.start(id)

	w, _ := s.do(http.MethodPost, "/v1/sessions/"+id+"/start", map[string]any{"lesson": "Bài 1", "count": 5})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGenerationFailure(t *testing.T) {
	s := newTestServer(t, nil)
	s.source.err = errors.New("quota")
	id := s.create()

	out := s.start(id)

	assert.Equal(t, "error", out["state"])
	assert.Contains(t, out["error"], "Lỗi:")

	w, out := s.do(http.MethodPost, "/v1/sessions/"+id+"/restart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", out["state"])
	assert.Equal(t, "Hoa", out["config"].(map[string]any)["name"])
}

func TestFullRunAndSubmit(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.create()
	s.start(id)

	w, out := s.do(http.MethodPost, "/v1/sessions/"+id+"/advance", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "advance before reveal")

	w, out = s.do(http.MethodPost, "/v1/sessions/"+id+"/reveal", map[string]string{"option": "Sai"})
	require.Equal(t, http.StatusOK, w.Code)
	reveal := out["reveal"].(map[string]any)
	assert.Equal(t, true, reveal["correct"])
	assert.Equal(t, "Sai", reveal["correctAnswer"])
	assert.EqualValues(t, 0, out["score"])
	assert.EqualValues(t, 1, out["runningScore"])

	w, _ = s.do(http.MethodPost, "/v1/sessions/"+id+"/reveal", map[string]string{"option": "Đúng"})
	assert.Equal(t, http.StatusConflict, w.Code, "second answer")

	s.do(http.MethodPost, "/v1/sessions/"+id+"/advance", nil)

	w, _ = s.do(http.MethodPost, "/v1/sessions/"+id+"/reveal", map[string]string{"option": "<marquee>"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown option")

	s.do(http.MethodPost, "/v1/sessions/"+id+"/reveal", map[string]string{"option": "<p>"})
	w, out = s.do(http.MethodPost, "/v1/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "finished", out["state"])
	result := out["result"].(map[string]any)
	assert.Equal(t, "1/2", result["score"])
	assert.Equal(t, "50%", result["percentage"])

	w, out = s.do(http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", out["submission"].(map[string]any)["status"])
	require.Len(t, s.sink.records, 1)
	assert.Equal(t, "Hoa", s.sink.records[0].StudentName)

	// Success is final.
	s.do(http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	assert.Len(t, s.sink.records, 1)
}

func TestSubmitFailureThenRetry(t *testing.T) {
	s := newTestServer(t, errors.New("503"))
	id := s.create()
	s.source.questions = questions()[:1]
	s.start(id)
	s.do(http.MethodPost, "/v1/sessions/"+id+"/reveal", map[string]string{"option": "Sai"})
	s.do(http.MethodPost, "/v1/sessions/"+id+"/advance", nil)

	w, out := s.do(http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "error", out["submission"].(map[string]any)["status"])

	s.sink.err = nil
	w, out = s.do(http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", out["submission"].(map[string]any)["status"])
	assert.Len(t, s.sink.records, 2)
}

func TestSubmitBeforeFinishConflicts(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.create()
	s.start(id)

	w, _ := s.do(http.MethodPost, "/v1/sessions/"+id+"/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, s.sink.records)
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t, nil)
	w, _ := s.do(http.MethodGet, "/v1/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := s.create()
	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+id, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	w, _ = s.do(http.MethodGet, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegistryUpdateKeepsStateOnError(t *testing.T) {
	r := NewRegistry()
	id, _ := r.Create("A", "B")

	_, err := r.Update(id, func(e entry) (entry, error) {
		e.session.Score = 99
		return e, quiz.ErrNotActive
	})
	require.ErrorIs(t, err, quiz.ErrNotActive)

	s, _, err := r.Get(id)
	require.NoError(t, err)
	assert.Zero(t, s.Score)
}
