// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the knowtree pipeline:
// search results, fetched source documents, the knowledge tree produced by
// the organizing model, and the session envelope that carries a tree and
// its expansions between commands.
package types

// SearchResult is one organic result returned by a web search provider.
// Fields the provider omits are empty strings, never absent.
type SearchResult struct {
	// Title is the result's page title.
	Title string `json:"title" yaml:"title"`

	// Snippet is the provider's short excerpt for the result.
	Snippet string `json:"snippet" yaml:"snippet"`

	// URL is the result's target address.
	URL string `json:"url" yaml:"url"`
}

// SourceDocument pairs a search result with the cleaned text fetched from
// its URL. Content is plain text, whitespace-normalized and truncated to
// the fetch stage's character budget.
type SourceDocument struct {
	// Title is carried over from the originating search result.
	Title string `json:"title" yaml:"title"`

	// Content is the cleaned page text. Empty content means the fetch
	// failed or the page had no extractable text; such documents are
	// dropped before reaching the organizing model.
	Content string `json:"content" yaml:"content"`

	// URL is the fetched address, recorded as a source on the tree.
	URL string `json:"url" yaml:"url"`
}

// KnowledgeTree is the hierarchical structure the organizing model builds
// for a topic. Subtopics nominally has 3-5 entries; that bound is a prompt
// contract, not validated or corrected here.
type KnowledgeTree struct {
	// Topic is the researched topic as given by the user.
	Topic string `json:"topic" yaml:"topic"`

	// Subtopics are the major divisions of the topic, in model order.
	Subtopics []Subtopic `json:"subtopics" yaml:"subtopics"`

	// Sources lists the URLs of the documents the tree was built from,
	// in search-result order. Always set by the orchestrator, including
	// on degraded trees.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Subtopic is one division of a knowledge tree.
type Subtopic struct {
	// Name is the subtopic heading.
	Name string `json:"name" yaml:"name"`

	// KeyPoints are the subtopic's main ideas, nominally 3-5.
	KeyPoints []KeyPoint `json:"key_points" yaml:"key_points"`
}

// KeyPoint is a single idea under a subtopic.
type KeyPoint struct {
	// Point is the idea stated briefly.
	Point string `json:"point" yaml:"point"`

	// Explanation expands the point in one or two sentences.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// ExpandedSubtopic is the on-demand deep dive into one subtopic. It is an
// independent structure keyed by subtopic name; expanding never mutates
// the tree it was derived from.
type ExpandedSubtopic struct {
	// Subtopic is the name of the subtopic that was expanded.
	Subtopic string `json:"subtopic" yaml:"subtopic"`

	// Overview introduces the subtopic in a few sentences.
	Overview string `json:"overview" yaml:"overview"`

	// Aspects are the subtopic's components, in model order. Empty on a
	// degraded expansion.
	Aspects []Aspect `json:"aspects" yaml:"aspects"`
}

// Aspect is one component of an expanded subtopic.
type Aspect struct {
	// Name is the aspect heading.
	Name string `json:"name" yaml:"name"`

	// Details is the aspect's full description.
	Details string `json:"details" yaml:"details"`

	// Examples lists concrete examples or applications. Optional.
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// TopicSummary is the output of the summarize flow: a prose summary of a
// topic with the URLs it drew from.
type TopicSummary struct {
	// Topic is the summarized topic as given by the user.
	Topic string `json:"topic" yaml:"topic"`

	// Summary is the model's prose summary, around 500 words.
	Summary string `json:"summary" yaml:"summary"`

	// Sources lists the URLs the summary drew from, in search-result order.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}
