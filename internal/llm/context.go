package llm

import "context"

type tagKey struct{}

// tag labels a request for the event log.
type tag struct {
	purpose string
	subject string
}

func tagFrom(ctx context.Context) tag {
	t, _ := ctx.Value(tagKey{}).(tag)
	return t
}

// WithPurpose names the kind of request, e.g. "question-gen".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	t := tagFrom(ctx)
	t.purpose = purpose
	return context.WithValue(ctx, tagKey{}, t)
}

// WithSubject names what the request is about, e.g. the lesson title.
// It appears in log lines only.
func WithSubject(ctx context.Context, subject string) context.Context {
	t := tagFrom(ctx)
	t.subject = subject
	return context.WithValue(ctx, tagKey{}, t)
}

// PurposeFrom returns the purpose label, or "unlabeled".
func PurposeFrom(ctx context.Context) string {
	if p := tagFrom(ctx).purpose; p != "" {
		return p
	}
	return "unlabeled"
}

// SubjectFrom returns the subject label, or "".
func SubjectFrom(ctx context.Context) string {
	return tagFrom(ctx).subject
}
