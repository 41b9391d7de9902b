package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizEvent is one step of a quiz session's lifecycle. Student names
// are never stored.
type QuizEvent struct {
	ent.Schema
}

func (QuizEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id"),
		field.Enum("action").
			Values("start", "loaded", "failed", "finished", "restart", "submitted", "submit_failed"),
		field.String("lesson").Default(""),
		field.Int("score").Default(0),
		field.Int("total").Default(0),
		field.String("detail").Default(""),
	}
}

func (QuizEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
