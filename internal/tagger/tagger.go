// Package tagger defines the named-entity tagging boundary used for name fallback.
package tagger

import "context"

// LabelPerson marks entities that name a person.
const LabelPerson = "PERSON"

// Entity is a labelled span of text.
type Entity struct {
	Text  string `json:"text" mapstructure:"text"`
	Label string `json:"label" mapstructure:"label"`
}

// Tagger labels spans of text with entity types.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Entity, error)
}

// Nop never finds anything.
type Nop struct{}

func (Nop) Tag(context.Context, string) ([]Entity, error) { return nil, nil }

// Static returns the same entities for every text. Handy when the host already
// has tagger output at hand.
type Static []Entity

func (s Static) Tag(context.Context, string) ([]Entity, error) { return s, nil }
