// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs the end-to-end pipeline: search the web for a
// topic, fetch and clean the resulting pages, and organize the combined
// text into a knowledge tree or prose summary.
package research

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/knowtree/internal/fetch"
	"github.com/pdiddy/knowtree/internal/tree"
	"github.com/pdiddy/knowtree/pkg/types"
)

// ErrNoResults signals that the search stage found nothing for the topic.
// Nothing downstream of the search runs when this is returned.
var ErrNoResults = errors.New("no search results found")

const (
	// defaultSearchResults is the result count used by the summarize flow.
	defaultSearchResults = 5
	// summarizeTopResults bounds how many pages the summarize flow fetches.
	summarizeTopResults = 3
)

// Searcher is the search stage. Implementations return an empty slice on
// provider failure, never an error.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int) []types.SearchResult
}

// PageFetcher is the batch fetch stage.
type PageFetcher interface {
	FetchAll(ctx context.Context, results []types.SearchResult, w io.Writer) ([]types.SourceDocument, fetch.BatchResult)
}

// TreeBuilder is the organizing stage.
type TreeBuilder interface {
	Generate(ctx context.Context, topic, content string) tree.GenerateResult
	Summarize(ctx context.Context, topic, content string) tree.SummarizeResult
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	searcher Searcher
	fetcher  PageFetcher
	builder  TreeBuilder
	logger   *zap.Logger
}

// NewOrchestrator creates an Orchestrator. A nil logger disables logging.
func NewOrchestrator(searcher Searcher, fetcher PageFetcher, builder TreeBuilder, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{searcher: searcher, fetcher: fetcher, builder: builder, logger: logger}
}

// Report is the outcome of a research run. Degraded and Reason mirror the
// builder result; Results and Documents count search hits and surviving
// fetched pages.
type Report struct {
	Tree      types.KnowledgeTree
	Degraded  bool
	Reason    string
	Documents int
	Results   int
}

// SummaryReport is the outcome of a summarize run.
type SummaryReport struct {
	Summary  types.TopicSummary
	Degraded bool
	Reason   string
}

// Run researches a topic: search, fetch each result, combine the surviving
// page text, and generate a knowledge tree. Progress lines go to w. The
// tree's sources are always set to the URLs of the pages that survived
// fetching, in search-result order, whether or not generation degraded.
func (o *Orchestrator) Run(ctx context.Context, topic string, numResults int, w io.Writer) (*Report, error) {
	fmt.Fprintln(w, "Searching the web for information...")
	results := o.searcher.Search(ctx, topic, numResults)
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	fmt.Fprintln(w, "Extracting content from websites...")
	docs, _ := o.fetcher.FetchAll(ctx, results, w)

	fmt.Fprintln(w, "Generating knowledge tree...")
	gen := o.builder.Generate(ctx, topic, combineContent(docs))

	t := gen.Tree
	t.Sources = sourceURLs(docs)

	o.logger.Info("research run complete",
		zap.String("topic", topic),
		zap.Int("results", len(results)),
		zap.Int("documents", len(docs)),
		zap.Bool("degraded", gen.Degraded))

	return &Report{
		Tree:      t,
		Degraded:  gen.Degraded,
		Reason:    gen.Reason,
		Documents: len(docs),
		Results:   len(results),
	}, nil
}

// Summarize researches a topic into a prose summary instead of a tree:
// search, fetch the top results, combine, and summarize.
func (o *Orchestrator) Summarize(ctx context.Context, topic string, w io.Writer) (*SummaryReport, error) {
	fmt.Fprintln(w, "Searching the web for information...")
	results := o.searcher.Search(ctx, topic, defaultSearchResults)
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	if len(results) > summarizeTopResults {
		results = results[:summarizeTopResults]
	}

	fmt.Fprintln(w, "Extracting content from websites...")
	docs, _ := o.fetcher.FetchAll(ctx, results, w)

	fmt.Fprintln(w, "Summarizing content...")
	sum := o.builder.Summarize(ctx, topic, combineContent(docs))

	o.logger.Info("summarize run complete",
		zap.String("topic", topic),
		zap.Int("documents", len(docs)),
		zap.Bool("degraded", sum.Degraded))

	return &SummaryReport{
		Summary: types.TopicSummary{
			Topic:   topic,
			Summary: sum.Summary,
			Sources: sourceURLs(docs),
		},
		Degraded: sum.Degraded,
		Reason:   sum.Reason,
	}, nil
}

// combineContent merges fetched documents into one block per source:
// "SOURCE: {title}\n{content}", blocks separated by a blank line.
func combineContent(docs []types.SourceDocument) string {
	blocks := make([]string, len(docs))
	for i, d := range docs {
		blocks[i] = fmt.Sprintf("SOURCE: %s\n%s", d.Title, d.Content)
	}
	return strings.Join(blocks, "\n\n")
}

func sourceURLs(docs []types.SourceDocument) []string {
	urls := make([]string, len(docs))
	for i, d := range docs {
		urls[i] = d.URL
	}
	return urls
}
