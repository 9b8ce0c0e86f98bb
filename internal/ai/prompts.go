package ai

import (
	"fmt"
	"strings"
	"text/template"
)

const assistantIntro = `You are CO-FT, a study assistant for coding-test practice. Your reader is a beginner. Answer in {{.Language}}.`

var analysisPrompt = template.Must(template.New("analysis").Parse(assistantIntro + `

Analyse the failed attempt below in three steps and answer ONLY with JSON of this shape. Keep the structure even when a section is empty.

{
  "reasonAnalysis": "<h4>1. Why it failed</h4><p>...</p>",
  "patternAnalysis": "<h4>2. Mistake pattern</h4><p>...</p>",
  "conceptSummary": {
    "title": "<h4>3. Concepts to review</h4>",
    "concepts": [
      {"name": "Queue", "tip": "BFS needs a FIFO queue..."}
    ]
  }
}

Problem: {{.ProblemID}}
Submitted code:
{{.Code}}
Failed test results:
{{.Results}}
Earlier mistake patterns: {{.History}}

Requirements:
1. reasonAnalysis: explain concretely why the code failed (logic error, missed edge case, ...).
2. conceptSummary.concepts: the algorithms and data structures to review to fix this mistake. Concepts are counted across notes, so keep each "name" consistent between answers; put any clarification in parentheses after the name, e.g. "Queue (data structure)".
3. patternAnalysis: name the kind of mistake with a short keyword (syntax error, wrong variable, index out of range, ...) and say how often it appears in the earlier patterns.

reasonAnalysis, patternAnalysis and conceptSummary.title are HTML.
`))

var conceptsPrompt = template.Must(template.New("concepts").Parse(assistantIntro + `

The learner is looking at the problem "{{.ProblemID}}".

<description>
{{.Description}}
</description>

Explain the core algorithm and data-structure concepts needed to solve it, in plain words. Answer ONLY with an HTML fragment:
<h4>Core concepts of {{.ProblemID}}</h4>, a one-sentence introduction, a <ul> with one <li><strong>concept:</strong> why and how it is used</li> per concept, and a closing sentence.
`))

var relatedPrompt = template.Must(template.New("related").Parse(assistantIntro + `

The learner is solving "{{.ProblemID}}". Recommend three practice problems that are conceptually close but easier. Prefer problems that exist on LeetCode or Baekjoon.

Answer ONLY with an HTML fragment: a <h4> heading, one sentence, and a <ul> where each <li> holds the problem title wrapped in <a href="..." target="_blank"> linking to the real problem page, followed by the reason for the recommendation.
`))

var generatePrompt = template.Must(template.New("generate").Parse(assistantIntro + `

Create a new, self-contained C++ practice problem of difficulty "{{.Difficulty}}". Answer ONLY with JSON:

{
  "title": "short title",
  "htmlContent": "<h3>...</h3><p>statement, input/output format, constraints and two examples</p>",
  "starterCode": "class Solution {\npublic:\n    ...\n};",
  "solutionLogic": "the intended approach and its complexity, for grading"
}
`))

var verifyPrompt = template.Must(template.New("verify").Parse(assistantIntro + `

Judge whether the submitted C++ code correctly solves the problem. Consider edge cases and the constraints. Answer ONLY with JSON:

{"isPass": true, "report": "<p>HTML explanation of the verdict</p>"}

Problem: {{.Title}}
{{.Problem}}

Intended approach:
{{.SolutionLogic}}

Submitted code:
{{.Code}}
`))

var curriculumPrompt = template.Must(template.New("curriculum").Parse(assistantIntro + `

These are the learner's weakest concepts, most frequent first:
{{range .Concepts}}- {{.Name}} ({{.Count}} mistakes){{if .Tips}}: {{index .Tips 0}}{{end}}
{{end}}
Plan a one-week study curriculum that works through them in a sensible order. For each day give the concept, what to review and one or two practice problems. Answer ONLY with an HTML fragment starting with a <h4> heading.
`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}
	return b.String(), nil
}
