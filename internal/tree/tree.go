// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tree organizes scraped source text into hierarchical knowledge
// structures by prompting a generative model. The builder never raises:
// any model or decode failure is logged and converted into a degraded
// placeholder structure so a research run always produces output.
package tree

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/knowtree/internal/jsonx"
	"github.com/pdiddy/knowtree/internal/textorg"
	"github.com/pdiddy/knowtree/pkg/types"
)

// Default sampling temperatures. Tree and expansion prompts want nearly
// deterministic structure; the prose summary tolerates a little more
// variation.
const (
	defaultTreeTemperature    = 0.2
	defaultSummaryTemperature = 0.3
)

// Builder turns source content into knowledge trees, subtopic expansions,
// and topic summaries.
type Builder struct {
	backend textorg.Backend
	cfg     types.AIConfig
	logger  *zap.Logger
}

// NewBuilder creates a Builder over a text-organizing backend. A nil
// logger disables logging.
func NewBuilder(backend textorg.Backend, cfg types.AIConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{backend: backend, cfg: cfg, logger: logger}
}

// GenerateResult is the outcome of a tree generation. Degraded is true
// when the tree is a synthesized placeholder rather than model output;
// Reason then carries the underlying failure.
type GenerateResult struct {
	Tree     types.KnowledgeTree
	Degraded bool
	Reason   string
}

// ExpandResult is the outcome of a subtopic expansion.
type ExpandResult struct {
	Expansion types.ExpandedSubtopic
	Degraded  bool
	Reason    string
}

// SummarizeResult is the outcome of a topic summarization.
type SummarizeResult struct {
	Summary  string
	Degraded bool
	Reason   string
}

// Generate builds a knowledge tree for topic from the given source
// content. On any failure it returns a degraded placeholder tree carrying
// the failure text, never an error.
func (b *Builder) Generate(ctx context.Context, topic, content string) GenerateResult {
	prompt, err := renderTreePrompt(topic, content)
	if err != nil {
		return b.degradedTree(topic, fmt.Errorf("rendering prompt: %w", err))
	}

	raw, err := b.backend.Complete(ctx, prompt, b.treeTemperature())
	if err != nil {
		return b.degradedTree(topic, err)
	}

	var tree types.KnowledgeTree
	if err := json.Unmarshal([]byte(jsonx.Extract(raw)), &tree); err != nil {
		return b.degradedTree(topic, fmt.Errorf("decoding tree JSON: %w", err))
	}

	return GenerateResult{Tree: tree}
}

// Expand produces a detailed expansion of one subtopic. On any failure it
// returns a degraded placeholder expansion, never an error.
func (b *Builder) Expand(ctx context.Context, topic, subtopic, content string) ExpandResult {
	prompt, err := renderExpandPrompt(topic, subtopic, content)
	if err != nil {
		return b.degradedExpansion(subtopic, fmt.Errorf("rendering prompt: %w", err))
	}

	raw, err := b.backend.Complete(ctx, prompt, b.treeTemperature())
	if err != nil {
		return b.degradedExpansion(subtopic, err)
	}

	var exp types.ExpandedSubtopic
	if err := json.Unmarshal([]byte(jsonx.Extract(raw)), &exp); err != nil {
		return b.degradedExpansion(subtopic, fmt.Errorf("decoding expansion JSON: %w", err))
	}

	return ExpandResult{Expansion: exp}
}

// Summarize produces a prose summary of the source content. The response
// is used verbatim; no JSON extraction. On failure the summary is a fixed
// placeholder string.
func (b *Builder) Summarize(ctx context.Context, topic, content string) SummarizeResult {
	prompt, err := renderSummaryPrompt(topic, content)
	if err != nil {
		return b.degradedSummary(topic, fmt.Errorf("rendering prompt: %w", err))
	}

	raw, err := b.backend.Complete(ctx, prompt, b.summaryTemperature())
	if err != nil {
		return b.degradedSummary(topic, err)
	}

	return SummarizeResult{Summary: raw}
}

func (b *Builder) treeTemperature() float64 {
	if b.cfg.TreeTemperature > 0 {
		return b.cfg.TreeTemperature
	}
	return defaultTreeTemperature
}

func (b *Builder) summaryTemperature() float64 {
	if b.cfg.SummaryTemperature > 0 {
		return b.cfg.SummaryTemperature
	}
	return defaultSummaryTemperature
}

func (b *Builder) degradedTree(topic string, err error) GenerateResult {
	b.logger.Warn("knowledge tree generation failed",
		zap.String("topic", topic),
		zap.Error(err))
	return GenerateResult{
		Tree: types.KnowledgeTree{
			Topic: topic,
			Subtopics: []types.Subtopic{
				{
					Name: "Error generating knowledge tree",
					KeyPoints: []types.KeyPoint{
						{
							Point:       "Error",
							Explanation: fmt.Sprintf("Failed to generate knowledge tree: %v", err),
						},
					},
				},
			},
		},
		Degraded: true,
		Reason:   err.Error(),
	}
}

func (b *Builder) degradedExpansion(subtopic string, err error) ExpandResult {
	b.logger.Warn("subtopic expansion failed",
		zap.String("subtopic", subtopic),
		zap.Error(err))
	return ExpandResult{
		Expansion: types.ExpandedSubtopic{
			Subtopic: subtopic,
			Overview: fmt.Sprintf("Failed to expand subtopic: %v", err),
			Aspects:  []types.Aspect{},
		},
		Degraded: true,
		Reason:   err.Error(),
	}
}

func (b *Builder) degradedSummary(topic string, err error) SummarizeResult {
	b.logger.Warn("summarization failed",
		zap.String("topic", topic),
		zap.Error(err))
	return SummarizeResult{
		Summary:  "Failed to summarize content due to an error.",
		Degraded: true,
		Reason:   err.Error(),
	}
}
