// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"fmt"
	"io"

	"github.com/pdiddy/knowtree/pkg/types"
)

// FormatTree writes an indented terminal rendering of a knowledge tree.
func FormatTree(t types.KnowledgeTree, w io.Writer) {
	fmt.Fprintf(w, "%s\n", t.Topic)

	for i, st := range t.Subtopics {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, st.Name)
		for _, kp := range st.KeyPoints {
			fmt.Fprintf(w, "   - %s: %s\n", kp.Point, kp.Explanation)
		}
	}

	writeSources(w, t.Sources)
}

// FormatExpanded writes a terminal rendering of a subtopic expansion.
func FormatExpanded(e types.ExpandedSubtopic, w io.Writer) {
	fmt.Fprintf(w, "%s\n\n%s\n", e.Subtopic, e.Overview)

	for i, a := range e.Aspects {
		fmt.Fprintf(w, "\n%d. %s\n\n%s\n", i+1, a.Name, a.Details)
		if len(a.Examples) > 0 {
			fmt.Fprintf(w, "\n   Examples:\n")
			for _, ex := range a.Examples {
				fmt.Fprintf(w, "   - %s\n", ex)
			}
		}
	}
}

// FormatSummary writes a terminal rendering of a topic summary.
func FormatSummary(s types.TopicSummary, w io.Writer) {
	fmt.Fprintf(w, "%s\n\n%s\n", s.Topic, s.Summary)
	writeSources(w, s.Sources)
}

func writeSources(w io.Writer, sources []string) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSources:\n")
	for i, src := range sources {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, src)
	}
}
