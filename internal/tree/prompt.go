// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"bytes"
	"text/template"
)

// treePromptTmpl instructs the model to organize source content into a
// topic / subtopic / key point hierarchy and answer with a JSON object.
// The field names in the embedded schema are the decode contract for
// types.KnowledgeTree.
var treePromptTmpl = template.Must(template.New("tree").Parse(`You are a knowledge organizer tasked with creating a structured knowledge tree about {{.Topic}}.

Based on the following content:

{{.Content}}

Generate a knowledge tree with the following structure:
1. Main topic (the topic provided)
2. 3-5 major subtopics
3. For each subtopic, 3-5 key points or concepts
4. For each key point, a brief explanation (1-2 sentences)

Format your response as a JSON object with the following structure:
{
    "topic": "Main Topic",
    "subtopics": [
        {
            "name": "Subtopic 1",
            "key_points": [
                {
                    "point": "Key Point 1",
                    "explanation": "Brief explanation of Key Point 1"
                },
                // more key points...
            ]
        },
        // more subtopics...
    ]
}

Ensure the structure is comprehensive and covers the most important aspects of the topic.
`))

// expandPromptTmpl asks for a deeper treatment of one subtopic. The schema
// decodes into types.ExpandedSubtopic.
var expandPromptTmpl = template.Must(template.New("expand").Parse(`You are a knowledge organizer tasked with expanding detailed information about the subtopic {{.Subtopic}} within the main topic {{.Topic}}.

Based on the following content:

{{.Content}}

Generate a detailed expansion of this subtopic with the following structure:
1. Brief overview of the subtopic (2-3 sentences)
2. 3-5 key aspects or components of this subtopic
3. For each aspect, provide detailed information (2-3 paragraphs)
4. Include any relevant examples, case studies, or applications

Format your response as a JSON object with the following structure:
{
    "subtopic": "{{.Subtopic}}",
    "overview": "Brief overview text",
    "aspects": [
        {
            "name": "Aspect 1",
            "details": "Detailed information about Aspect 1",
            "examples": ["Example 1", "Example 2"]
        },
        // more aspects...
    ]
}

Ensure the information is accurate, comprehensive, and well-structured.
`))

// summaryPromptTmpl asks for free prose, not JSON.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are a researcher tasked with summarizing information about {{.Topic}}.
The following is content collected from various web sources:

{{.Content}}

Please provide a comprehensive summary of the topic in about 500 words.
Focus on the most important aspects and ensure the information is accurate.
Do not include any opinions or biases.
`))

// renderTreePrompt executes the knowledge tree template.
func renderTreePrompt(topic, content string) (string, error) {
	var buf bytes.Buffer
	err := treePromptTmpl.Execute(&buf, struct{ Topic, Content string }{topic, content})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderExpandPrompt executes the subtopic expansion template.
func renderExpandPrompt(topic, subtopic, content string) (string, error) {
	var buf bytes.Buffer
	err := expandPromptTmpl.Execute(&buf, struct{ Topic, Subtopic, Content string }{topic, subtopic, content})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderSummaryPrompt executes the summarization template.
func renderSummaryPrompt(topic, content string) (string, error) {
	var buf bytes.Buffer
	err := summaryPromptTmpl.Execute(&buf, struct{ Topic, Content string }{topic, content})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
