// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textorg sends organizing prompts to a generative text model and
// returns the raw response text. Callers own prompt construction and
// response parsing; this package only speaks the provider protocol.
package textorg

import "context"

// Backend abstracts the generative text API so tests can supply a mock.
// Complete sends a single prompt and returns the model's full response
// text. Temperature controls output variability (0 deterministic, higher
// values more diverse).
type Backend interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}
