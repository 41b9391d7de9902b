// Package questiongen produces quiz questions for a lesson with an LLM.
package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hongduc/quiz11/internal/llm"
	"github.com/hongduc/quiz11/internal/quiz"
)

// Purpose labels generation requests in the LLM event log.
const Purpose = "question-gen"

// Generator implements quiz.QuestionSource on top of an llm.Provider.
// Each Generate call makes exactly one provider request.
type Generator struct {
	provider llm.Provider
	config   Config
	schema   *llm.Schema
}

var _ quiz.QuestionSource = (*Generator)(nil)

// New creates a Generator.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{
		provider: provider,
		config:   cfg,
		schema:   BatchSchema(cfg.TrueLabel, cfg.FalseLabel),
	}
}

type batchOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// Generate requests count questions for lesson. Any provider failure,
// malformed payload, empty list or single invalid question yields a
// *quiz.GenerationError. Fewer questions than requested are returned
// as is.
func (g *Generator) Generate(ctx context.Context, lesson string, count int) ([]quiz.Question, error) {
	if count <= 0 {
		return nil, &quiz.GenerationError{Lesson: lesson, Err: fmt.Errorf("question count must be positive, got %d", count)}
	}
	ctx = llm.WithSubject(llm.WithPurpose(ctx, Purpose), lesson)

	tf := min(g.config.TrueFalseCount, count)
	req := llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(lesson, count, tf, g.config),
		Schema:      g.schema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &quiz.GenerationError{Lesson: lesson, Err: describe(err)}
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &quiz.GenerationError{Lesson: lesson, Err: fmt.Errorf("parse response: %w", err)}
	}
	if len(out.Questions) == 0 {
		return nil, &quiz.GenerationError{Lesson: lesson}
	}

	qs := make([]quiz.Question, len(out.Questions))
	for i, q := range out.Questions {
		qs[i] = normalize(q)
	}
	if err := validateBatch(qs, g.config.Validators); err != nil {
		return nil, &quiz.GenerationError{Lesson: lesson, Err: err}
	}

	return qs, nil
}

// normalize trims stray whitespace the model sometimes adds around
// options and the answer, so equality checks are exact.
func normalize(q quiz.Question) quiz.Question {
	q.Text = strings.TrimSpace(q.Text)
	q.Explanation = strings.TrimSpace(q.Explanation)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = strings.TrimSpace(o)
	}
	q.Options = opts
	return q
}

// describe maps provider errors to a short message for the student.
func describe(err error) error {
	var (
		rl  *llm.ErrRateLimit
		mt  *llm.ErrMaxTokensExceeded
		inv *llm.ErrInvalidResponse
	)
	switch {
	case errors.As(err, &rl):
		return fmt.Errorf("dịch vụ AI đang quá tải, vui lòng thử lại sau: %w", err)
	case errors.As(err, &mt):
		return fmt.Errorf("phản hồi của AI bị cắt ngắn, hãy chọn ít câu hỏi hơn: %w", err)
	case errors.As(err, &inv):
		return fmt.Errorf("AI trả về dữ liệu không hợp lệ: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("hết thời gian chờ dịch vụ AI: %w", err)
	default:
		return fmt.Errorf("không kết nối được dịch vụ AI: %w", err)
	}
}
