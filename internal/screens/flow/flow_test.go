package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hongduc/quiz11/internal/catalog"
	"github.com/hongduc/quiz11/internal/quiz"
	"github.com/hongduc/quiz11/internal/router"
	"github.com/hongduc/quiz11/internal/screen"
)

type stubSource struct {
	questions []quiz.Question
	err       error
	calls     int
}

func (s *stubSource) Generate(_ context.Context, _ string, _ int) ([]quiz.Question, error) {
	s.calls++
	return s.questions, s.err
}

type stubSink struct {
	err   error
	calls int
}

func (s *stubSink) Submit(_ context.Context, _ quiz.ResultRecord) error {
	s.calls++
	return s.err
}

func twoQuestions() []quiz.Question {
	return []quiz.Question{
		{Text: "RAM là bộ nhớ trong.", Options: []string{"Đúng", "Sai"}, CorrectAnswer: "Đúng", Explanation: "RAM là bộ nhớ trong."},
		{Text: "Đơn vị nhỏ nhất?", Options: []string{"Bit", "Byte", "KB", "MB"}, CorrectAnswer: "Bit", Explanation: "Bit là nhỏ nhất."},
	}
}

func testDeps(src quiz.QuestionSource, sink quiz.ResultSink) Deps {
	return Deps{
		Service:     quiz.NewService(src, sink),
		Catalog:     catalog.Default(),
		RevealDelay: time.Second,
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(keyPress(r))
	}
	return s
}

// replaced runs cmd and returns the screen it routes to, or nil.
func replaced(t *testing.T, cmd tea.Cmd) screen.Screen {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	return msg.Screen
}

func activePlay(t *testing.T, src *stubSource, sink quiz.ResultSink) *PlayScreen {
	t.Helper()
	deps := testDeps(src, sink)
	cat := deps.Catalog
	s, err := deps.Service.Begin(context.Background(), quiz.New("Lan", "11A2"), quiz.Configuration{
		StudentName:   "Lan",
		StudentClass:  "11A2",
		ChapterTitle:  cat.Chapters[0].Title,
		LessonTitle:   cat.Chapters[0].Lessons[0],
		QuestionCount: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	p := NewPlay(deps, s)
	p.Update(p.fetch()())
	if p.Session().State != quiz.StateActive {
		t.Fatalf("State = %v, want active", p.Session().State)
	}
	return p
}

func TestSetup_MissingFieldsShowsMessage(t *testing.T) {
	m := NewSetup(testDeps(&stubSource{}, nil), quiz.New("", ""))
	m.focus = fieldStart
	m.applyFocus()

	_, cmd := m.Update(specialKey(tea.KeyEnter))

	if cmd != nil {
		t.Error("expected no navigation on invalid form")
	}
	if !strings.Contains(m.View(100, 40), "Vui lòng điền đầy đủ thông tin") {
		t.Error("validation message not shown")
	}
}

func TestSetup_StartMovesToLoading(t *testing.T) {
	src := &stubSource{questions: twoQuestions()}
	var s screen.Screen = NewSetup(testDeps(src, nil), quiz.New("", ""))

	s = typeText(s, "Lan")
	s, _ = s.Update(specialKey(tea.KeyTab))
	s = typeText(s, "11A2")
	for range fieldLesson - fieldClass {
		s, _ = s.Update(specialKey(tea.KeyTab))
	}
	s, _ = s.Update(specialKey(tea.KeyRight))
	for range fieldStart - fieldLesson {
		s, _ = s.Update(specialKey(tea.KeyTab))
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))

	play, ok := replaced(t, cmd).(*PlayScreen)
	if !ok {
		t.Fatal("expected PlayScreen")
	}
	got := play.Session()
	if got.State != quiz.StateLoading {
		t.Errorf("State = %v, want loading", got.State)
	}
	if got.Config.StudentName != "Lan" || got.Config.StudentClass != "11A2" {
		t.Errorf("Config = %+v", got.Config)
	}
	if got.Config.LessonTitle != catalog.Default().Chapters[0].Lessons[0] {
		t.Errorf("LessonTitle = %q", got.Config.LessonTitle)
	}
	if got.Config.QuestionCount != catalog.Default().DefaultCount {
		t.Errorf("QuestionCount = %d, want catalog default", got.Config.QuestionCount)
	}
	if src.calls != 0 {
		t.Error("generation must start from the play screen, not setup")
	}
}

func TestSetup_NoLessonChosenShowsMessage(t *testing.T) {
	src := &stubSource{questions: twoQuestions()}
	m := NewSetup(testDeps(src, nil), quiz.New("Lan", "11A2"))
	if got := m.Configuration().LessonTitle; got != "" {
		t.Fatalf("lesson preselected: %q", got)
	}
	if !strings.Contains(m.View(100, 40), "chọn bài học") {
		t.Error("lesson placeholder not shown")
	}

	m.focus = fieldStart
	m.applyFocus()
	_, cmd := m.Update(specialKey(tea.KeyEnter))

	if cmd != nil {
		t.Error("expected no navigation without a lesson")
	}
	if !strings.Contains(m.View(100, 40), "Vui lòng điền đầy đủ thông tin") {
		t.Error("validation message not shown")
	}
	if src.calls != 0 {
		t.Error("source called without a lesson")
	}
}

func TestSetup_ChapterChangeResetsLesson(t *testing.T) {
	m := NewSetup(testDeps(&stubSource{}, nil), quiz.New("Lan", "11A2"))
	cat := catalog.Default()
	m.focus = fieldLesson
	m.applyFocus()
	m.Update(specialKey(tea.KeyRight))
	if got := m.Configuration().LessonTitle; got != cat.Chapters[0].Lessons[0] {
		t.Fatalf("lesson = %q, want first lesson", got)
	}

	m.focus = fieldChapter
	m.applyFocus()
	m.Update(specialKey(tea.KeyRight))

	cfg := m.Configuration()
	if cfg.ChapterTitle != cat.Chapters[1].Title {
		t.Fatalf("chapter = %q", cfg.ChapterTitle)
	}
	if cfg.LessonTitle != "" {
		t.Errorf("lesson = %q, want none after chapter change", cfg.LessonTitle)
	}
	if cfg.StudentName != "Lan" {
		t.Error("prefilled name lost")
	}
}

func TestPlay_RevealThenDwellAdvance(t *testing.T) {
	p := activePlay(t, &stubSource{questions: twoQuestions()}, nil)

	_, cmd := p.Update(keyPress('1'))
	if cmd == nil {
		t.Fatal("expected dwell tick after reveal")
	}
	s := p.Session()
	if s.Revealed == nil || !s.Revealed.Correct {
		t.Fatalf("Revealed = %+v", s.Revealed)
	}
	if s.Score != 0 || s.RunningScore() != 1 {
		t.Errorf("Score=%d RunningScore=%d", s.Score, s.RunningScore())
	}
	if !strings.Contains(p.View(100, 40), "Chính xác!") {
		t.Error("reveal not rendered")
	}

	// Answer keys are ignored while revealed.
	p.Update(keyPress('2'))
	if p.Session().Revealed.Chosen != "Đúng" {
		t.Error("second answer changed the reveal")
	}

	// A stale tick does nothing.
	p.Update(advanceMsg{attempt: s.Attempt, index: 5})
	if p.Session().CurrentIndex != 0 {
		t.Fatal("stale tick advanced")
	}

	p.Update(advanceMsg{attempt: s.Attempt, index: 0})
	s = p.Session()
	if s.CurrentIndex != 1 || s.Score != 1 || s.Revealed != nil {
		t.Errorf("after advance: index=%d score=%d revealed=%v", s.CurrentIndex, s.Score, s.Revealed)
	}
}

func TestPlay_EnterSkipsDwellAndFinishes(t *testing.T) {
	p := activePlay(t, &stubSource{questions: twoQuestions()}, nil)

	p.Update(keyPress('2')) // wrong
	p.Update(specialKey(tea.KeyEnter))
	p.Update(keyPress('a')) // Bit, correct
	_, cmd := p.Update(specialKey(tea.KeyEnter))

	res, ok := replaced(t, cmd).(*ResultsScreen)
	if !ok {
		t.Fatal("expected ResultsScreen")
	}
	if res.session.State != quiz.StateFinished || res.record.ScoreFraction() != "1/2" {
		t.Errorf("state=%v score=%s", res.session.State, res.record.ScoreFraction())
	}

	// The dwell tick for the last question arrives late and is ignored.
	_, cmd = p.Update(advanceMsg{attempt: p.Session().Attempt, index: 1})
	if cmd != nil {
		t.Error("late tick after finish produced a command")
	}
}

func TestPlay_GenerationFailureShowsFailure(t *testing.T) {
	deps := testDeps(&stubSource{err: errors.New("boom")}, nil)
	s, _ := deps.Service.Begin(context.Background(), quiz.New("Lan", "11A2"), quiz.Configuration{
		StudentName: "Lan", StudentClass: "11A2", LessonTitle: "Bài 1", QuestionCount: 5,
	})
	p := NewPlay(deps, s)

	_, cmd := p.Update(p.fetch()())

	f, ok := replaced(t, cmd).(*FailureScreen)
	if !ok {
		t.Fatal("expected FailureScreen")
	}
	if !strings.Contains(f.View(100, 40), "Lỗi:") {
		t.Error("error message not shown")
	}

	back, ok := replaced(t, func() tea.Cmd { _, c := f.Update(specialKey(tea.KeyEnter)); return c }()).(*SetupScreen)
	if !ok {
		t.Fatal("retry should return to setup")
	}
	if back.session.State != quiz.StateIdle || back.session.Config.StudentName != "Lan" {
		t.Errorf("restarted session = %+v", back.session)
	}
}

func TestPlay_CancelWhileLoadingDiscardsLateResult(t *testing.T) {
	src := &stubSource{questions: twoQuestions()}
	deps := testDeps(src, nil)
	s, _ := deps.Service.Begin(context.Background(), quiz.New("Lan", "11A2"), quiz.Configuration{
		StudentName: "Lan", StudentClass: "11A2", LessonTitle: "Bài 1", QuestionCount: 5,
	})
	p := NewPlay(deps, s)
	late := p.fetch()()

	_, cmd := p.Update(specialKey(tea.KeyEscape))
	setup, ok := replaced(t, cmd).(*SetupScreen)
	if !ok {
		t.Fatal("expected SetupScreen")
	}

	// The response lands on the setup screen, which ignores it.
	setup.Update(late)
	if setup.session.State != quiz.StateIdle {
		t.Errorf("State = %v", setup.session.State)
	}
}

func finishedResults(t *testing.T, sink quiz.ResultSink) *ResultsScreen {
	t.Helper()
	p := activePlay(t, &stubSource{questions: twoQuestions()[:1]}, sink)
	p.Update(keyPress('1'))
	_, cmd := p.Update(specialKey(tea.KeyEnter))
	return replaced(t, cmd).(*ResultsScreen)
}

func TestResults_SubmitSuccessIsFinal(t *testing.T) {
	sink := &stubSink{}
	r := finishedResults(t, sink)

	_, cmd := r.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	if r.Submission().Status != quiz.SubmissionSubmitting {
		t.Errorf("Status = %v, want submitting", r.Submission().Status)
	}

	// A second press while in flight is ignored.
	if _, again := r.Update(specialKey(tea.KeyEnter)); again != nil {
		if _, isSubmit := again().(submittedMsg); isSubmit {
			t.Error("submitted twice while in flight")
		}
	}

	r.Update(cmd())
	if r.Submission().Status != quiz.SubmissionSuccess {
		t.Fatalf("Status = %v, want success", r.Submission().Status)
	}
	if sink.calls != 1 {
		t.Errorf("sink calls = %d", sink.calls)
	}
	if !strings.Contains(r.View(100, 40), "Đã gửi thành công!") {
		t.Error("success not rendered")
	}
}

func TestResults_SubmitFailureAllowsRetry(t *testing.T) {
	sink := &stubSink{err: errors.New("503")}
	r := finishedResults(t, sink)

	_, cmd := r.Update(specialKey(tea.KeyEnter))
	r.Update(cmd())
	if r.Submission().Status != quiz.SubmissionFailed {
		t.Fatalf("Status = %v, want error", r.Submission().Status)
	}

	sink.err = nil
	_, cmd = r.Update(specialKey(tea.KeyEnter))
	r.Update(cmd())
	if r.Submission().Status != quiz.SubmissionSuccess || sink.calls != 2 {
		t.Errorf("Status = %v calls = %d", r.Submission().Status, sink.calls)
	}
}

func TestResults_NoSinkDisablesSubmit(t *testing.T) {
	r := finishedResults(t, nil)
	if !r.menu.Items[itemSubmit].Disabled {
		t.Error("submit should be disabled without a sink")
	}
	if r.menu.Selected != itemRestart {
		t.Errorf("Selected = %d, want restart", r.menu.Selected)
	}
	if !strings.Contains(r.View(100, 40), "100%") {
		t.Error("percentage not rendered")
	}
}
