// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Session is the unit of interaction state: one research run's tree plus
// any expansions made against it. Commands load a session, act on it, and
// save it back; nothing holds session state between invocations except
// the store.
type Session struct {
	// ID is a UUID assigned when the session is created.
	ID string `json:"id" yaml:"id"`

	// Topic is the researched topic.
	Topic string `json:"topic" yaml:"topic"`

	// Tree is the knowledge tree produced by the research run.
	Tree KnowledgeTree `json:"tree" yaml:"tree"`

	// Expansions maps subtopic name to its expansion. Re-expanding a
	// subtopic replaces the earlier entry.
	Expansions map[string]ExpandedSubtopic `json:"expansions,omitempty" yaml:"expansions,omitempty"`

	// CreatedAt is when the research run completed.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt advances every time the session is saved.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
