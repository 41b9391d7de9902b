package results

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hongduc/quiz11/internal/quiz"
)

// SheetSink posts results as JSON to a spreadsheet-backed REST endpoint
// such as SheetDB. Any 2xx answer counts as success.
type SheetSink struct {
	url    string
	client *http.Client
}

// NewSheetSink creates a SheetSink. A zero timeout leaves the client
// unbounded; callers then rely on the context deadline.
func NewSheetSink(url string, timeout time.Duration) *SheetSink {
	return &SheetSink{url: url, client: &http.Client{Timeout: timeout}}
}

// Submit sends one record in a single request.
func (s *SheetSink) Submit(ctx context.Context, rec quiz.ResultRecord) error {
	body, err := encode(rec)
	if err != nil {
		return &quiz.SubmissionError{Err: fmt.Errorf("encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return &quiz.SubmissionError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &quiz.SubmissionError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &quiz.SubmissionError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("server responded with %s", resp.Status),
		}
	}
	return nil
}

// Close releases idle connections.
func (s *SheetSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
