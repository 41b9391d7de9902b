package llm

import (
	"encoding/json"
	"fmt"
)

// ErrRateLimit: the vendor answered 429.
type ErrRateLimit struct {
	Err error
}

func (e *ErrRateLimit) Error() string { return fmt.Sprintf("rate limited: %v", e.Err) }
func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse: the reply was empty, not JSON, or did not match the
// request schema. Content is the reply as received.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return fmt.Sprintf("invalid LLM response: %v", e.Err) }
func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers every other failure: network errors,
// 5xx, rejected requests and cancelled contexts.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded: the reply was cut off at Request.MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string { return "LLM response truncated at max tokens" }
