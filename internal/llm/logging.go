package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hongduc/quiz11/internal/logging"
	"github.com/hongduc/quiz11/internal/store"
)

type loggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	logger   *slog.Logger
}

// WithLogging records one LLMRequestEvent per call in repo and writes a
// log line. Either repo or logger may be nil. Failing to store the event
// never fails the call.
func WithLogging(p Provider, provider string, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = logging.Discard()
	}
	return &loggingProvider{inner: p, provider: provider, repo: repo, logger: logger}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	switch {
	case resp != nil:
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.ResponseBody = string(resp.Content)
	case err != nil:
		ev.ResponseBody = string(rejectedContent(err))
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	log := l.logger.With(
		slog.String("provider", ev.Provider),
		slog.String("model", ev.Model),
		slog.String("purpose", ev.Purpose),
		slog.Int64("latency_ms", ev.LatencyMs),
	)
	if subject := SubjectFrom(ctx); subject != "" {
		log = log.With(slog.String("subject", subject))
	}
	if err != nil {
		log.Warn("llm request failed", logging.Err(err))
	} else {
		log.Info("llm request", slog.Int("input_tokens", ev.InputTokens), slog.Int("output_tokens", ev.OutputTokens))
	}

	if l.repo != nil {
		if serr := l.repo.AppendLLMRequest(ctx, ev); serr != nil {
			l.logger.Error("append llm request event", logging.Err(serr))
		}
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }

// rejectedContent returns the reply text carried by an invalid or
// truncated response error, so the event log shows what the model said.
func rejectedContent(err error) json.RawMessage {
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return inv.Content
	}
	var mt *ErrMaxTokensExceeded
	if errors.As(err, &mt) {
		return mt.Content
	}
	return nil
}

// transcript renders a request for `quiz11 llm view`.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", req.Prompt)
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "\n[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
