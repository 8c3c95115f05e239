package llm

import (
	"strings"
	"text/template"
)

// ResearchVars feeds the research loop prompt
type ResearchVars struct {
	Code      string
	Context   string
	ToolsInfo string
	History   string
}

// DocsVars feeds the docs expert prompt
type DocsVars struct {
	Analysis     string
	ExistingDocs string
}

// ImpactVars feeds the impact loop prompt
type ImpactVars struct {
	SymbolID  string
	Code      string
	Analysis  string
	ToolsInfo string
	History   string
}

// AnalysisVars feeds the code expert prompt (review variant)
type AnalysisVars struct {
	Code     string
	Context  string
	Feedback string
}

// ReviewVars feeds the documentation review prompt
type ReviewVars struct {
	Code         string
	CurrentDocs  string
	UsageContext string
}

var researchLoopTmpl = template.Must(template.New("research").Parse(`You are a Senior Go Engineer (Code Expert) working in a think/act/observe loop.
Your task is to analyze the following Go code so it can be documented. You may call tools to gather more information about how the code is used.

Context (related symbols):
{{.Context}}

Code to Analyze:
` + "```go\n{{.Code}}\n```" + `

{{.ToolsInfo}}

History of your previous steps:
{{.History}}

Respond with EXACTLY ONE JSON object and nothing else, using one of these shapes:
- Tool call: {"thought": "why you need it", "action": "<tool name>", "args": {"...": "..."}}
- Final answer: {"action": "FINISH", "analysis": "detailed technical analysis covering: summary of functionality, parameters (name, type, description), return values, errors returned, usage examples"}

Do not wrap the JSON in code fences. Do not output anything besides the JSON object.`))

var docsExpertTmpl = template.Must(template.New("docs").Parse(`You are a Technical Writer (Documentation Expert).
Your task is to generate high-quality Markdown API documentation based on the technical analysis provided by the Code Expert.

Technical Analysis:
{{.Analysis}}

Existing Documentation (if any):
{{.ExistingDocs}}

Generate the Markdown documentation following this structure:
### ` + "`SymbolName`" + `

**Summary**
...

**Parameters**
- ` + "`name`" + ` (type): description

**Returns**
- (type): description

**Errors**
- ` + "`ErrName`" + `: description

**Examples**
` + "```go\n...\n```" + `

**See also**
...

CRITICAL INSTRUCTIONS:
1. Output ONLY the Markdown content.
2. DO NOT output any "thinking" process, reasoning, or internal monologue.
3. DO NOT output any conversational text like "Here is the documentation".
4. DO NOT wrap the output in markdown code blocks. Just output the raw markdown.`))

var impactLoopTmpl = template.Must(template.New("impact").Parse(`You are a Lead Software Architect analyzing the ripple effects of a code change.
The symbol below was just changed and re-documented. Determine whether documentation of OTHER symbols that depend on it must be updated. Use tools to find usages and read existing documentation.

Changed symbol: {{.SymbolID}}

Code:
` + "```go\n{{.Code}}\n```" + `

Technical analysis of the change:
{{.Analysis}}

{{.ToolsInfo}}

History of your previous steps:
{{.History}}

Respond with EXACTLY ONE JSON object and nothing else, using one of these shapes:
- Tool call: {"thought": "why you need it", "action": "<tool name>", "args": {"...": "..."}}
- Final answer: {"action": "FINISH", "impact_instructions": [{"symbol_id": "pkg.mod.Dependent", "original_docs": "<the current documentation block>", "update_instructions": "what must change and why"}]}

If no dependent documentation needs updating, finish with an empty impact_instructions list.
Do not wrap the JSON in code fences. Do not output anything besides the JSON object.`))

var codeExpertTmpl = template.Must(template.New("analyze").Parse(`You are a Senior Go Engineer (Code Expert).
Your task is to analyze the following Go code and its context to understand its behavior, parameters, return values, and error conditions.

Context (related symbols):
{{.Context}}

Previous Feedback (if any):
{{.Feedback}}

Code to Analyze:
` + "```go\n{{.Code}}\n```" + `

Provide a detailed technical analysis including:
1. Summary of functionality.
2. Parameters (name, type, description).
3. Return values (type, description).
4. Errors returned.
5. Usage examples.

CRITICAL INSTRUCTIONS:
1. Be purely factual and structural.
2. DO NOT output internal monologue or "thinking".
3. Output ONLY the analysis.`))

var reviewTmpl = template.Must(template.New("review").Parse(`You are a Lead Software Architect (Documentation Reviewer).
Your task is to review the generated documentation for a specific code symbol and ensure it is complete, accurate, and safe.

Code:
` + "```go\n{{.Code}}\n```" + `

Generated Documentation:
{{.CurrentDocs}}

Usage Context (where this symbol is used in the codebase):
{{.UsageContext}}

Instructions:
1. Think step-by-step.
2. Check for missing parameters, return type mismatches, or missing error conditions.
3. Verify side-effects: check if changes in this symbol might break the usages listed in Usage Context.
4. If the documentation is accurate and complete, approve it.
5. If there are issues, produce specific feedback for the Code Expert to fix them.

Output must be a JSON object with the following structure:
{"status": "APPROVED" or "REVISION_NEEDED", "reasoning": "your step-by-step reasoning", "feedback": "specific instructions if revision is needed, empty if APPROVED"}

Do not wrap the JSON in code fences. Do not output anything besides the JSON object.`))

func render(tmpl *template.Template, vars interface{}) string {
	var sb strings.Builder
	// Templates are parsed at init and vars are plain structs; execution
	// cannot fail at runtime.
	_ = tmpl.Execute(&sb, vars)
	return sb.String()
}

// ResearchLoopPrompt renders the per-step prompt of the research agent loop
func ResearchLoopPrompt(vars ResearchVars) string { return render(researchLoopTmpl, vars) }

// DocsExpertPrompt renders the documentation generation prompt
func DocsExpertPrompt(vars DocsVars) string { return render(docsExpertTmpl, vars) }

// ImpactLoopPrompt renders the per-step prompt of the impact agent loop
func ImpactLoopPrompt(vars ImpactVars) string { return render(impactLoopTmpl, vars) }

// CodeExpertPrompt renders the single-shot analysis prompt used by the
// review-gated generation variant
func CodeExpertPrompt(vars AnalysisVars) string { return render(codeExpertTmpl, vars) }

// ReviewPrompt renders the documentation review prompt
func ReviewPrompt(vars ReviewVars) string { return render(reviewTmpl, vars) }
