// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/curioquest/pkg/types"
)

var (
	summarizeTmpl = template.Must(template.New("summarize").Parse(`summarize: {{.Text}}. {{.Instruction}}`))
	translateTmpl = template.Must(template.New("translate").Parse(`Translate to {{.Lang}}: {{.Text}}. Do not miss anything from the summary.`))
	answerTmpl    = template.Must(template.New("answer").Parse(`question: {{.Question}} context: {{.Text}}`))
)

var instructions = map[types.SummaryLength]string{
	types.SummaryShort:    "Provide a brief summary of this paper in your own words such that most important part of the paper is included.",
	types.SummaryModerate: "Please summarize the key findings and challenges in this paper in your own words. Format it in the following way for each - heading: content",
	types.SummaryDetailed: "Provide a detailed summary in your own words covering the introduction, abstract, key findings, methodology, results, challenges, and references. Format it in the following way for each - heading: content",
}

func instructionFor(length types.SummaryLength) string {
	if s, ok := instructions[length]; ok {
		return s
	}
	return instructions[types.SummaryModerate]
}

type promptData struct {
	Text        string
	Instruction string
	Lang        string
	Question    string
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
