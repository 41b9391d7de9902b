package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas caches compiled schemas by Schema.Name.
var compiledSchemas = &schemaCache{byName: make(map[string]*jsonschema.Schema)}

type schemaCache struct {
	mu     sync.Mutex
	byName map[string]*jsonschema.Schema
}

func (c *schemaCache) get(s *Schema) (*jsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if compiled, ok := c.byName[s.Name]; ok {
		return compiled, nil
	}

	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", s.Name, err)
	}

	url := "mem://schemas/" + s.Name + ".json"
	comp := jsonschema.NewCompiler()
	if err := comp.AddResource(url, doc); err != nil {
		return nil, err
	}
	compiled, err := comp.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", s.Name, err)
	}
	c.byName[s.Name] = compiled
	return compiled, nil
}

type validatingProvider struct {
	inner Provider
}

// WithValidation checks every schema request's reply against its schema.
// A reply wrapped in a markdown code fence is unwrapped first; the
// returned Content is always the bare JSON document.
func WithValidation(p Provider) Provider {
	return &validatingProvider{inner: p}
}

func (v *validatingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := v.inner.Generate(ctx, req)
	if err != nil || req.Schema == nil {
		return resp, err
	}
	content, err := conform(req.Schema, resp.Content)
	if err != nil {
		return nil, err
	}
	out := *resp
	out.Content = content
	return &out, nil
}

func (v *validatingProvider) ModelID() string { return v.inner.ModelID() }

// conform strips any code fence around raw and validates the remainder
// against s. Failures are *ErrInvalidResponse carrying the original text.
func conform(s *Schema, raw json.RawMessage) (json.RawMessage, error) {
	body := unfence(raw)

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}

	compiled, err := compiledSchemas.get(s)
	if err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			err = fmt.Errorf("does not match %s: %s", s.Name, verr.Error())
		}
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}
	return body, nil
}

// unfence removes a ```json ... ``` wrapper some models add around JSON
// output even in structured mode.
func unfence(raw json.RawMessage) json.RawMessage {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return json.RawMessage(s)
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return json.RawMessage(strings.TrimSpace(s))
}
