// Package agent implements the bounded tool-use state machine that drives
// the completion service through a think/act/observe cycle. The loop always
// terminates with a FINISH payload after at most maxSteps+1 completion calls
// and never lets a failure escape its boundary.
package agent

import (
	"encoding/json"
	"errors"
	"strings"
)

// ActionFinish is the terminal action name
const ActionFinish = "FINISH"

// ErrMalformedResponse is returned when the model output cannot be parsed
// into a decision
var ErrMalformedResponse = errors.New("malformed model response")

// ImpactInstruction describes a dependent symbol whose documentation must be
// updated after a change.
type ImpactInstruction struct {
	SymbolID           string `json:"symbol_id"`
	OriginalDocs       string `json:"original_docs"`
	UpdateInstructions string `json:"update_instructions"`
}

// Decision is the strict tagged union of model responses: either a tool call
// (Action names a registered tool) or a terminal FINISH payload.
type Decision struct {
	Thought            string                 `json:"thought,omitempty"`
	Action             string                 `json:"action"`
	Args               map[string]interface{} `json:"args,omitempty"`
	Analysis           string                 `json:"analysis,omitempty"`
	ImpactInstructions []ImpactInstruction    `json:"impact_instructions,omitempty"`
}

// IsFinish reports whether this decision is terminal
func (d *Decision) IsFinish() bool {
	return d.Action == ActionFinish
}

// ParseDecision parses raw model output into a Decision, stripping optional
// surrounding code fences first. It fails closed: anything that does not
// decode to an object with a non-empty action is ErrMalformedResponse.
func ParseDecision(raw string) (*Decision, error) {
	cleaned := StripFences(raw)

	var d Decision
	if err := json.Unmarshal([]byte(cleaned), &d); err != nil {
		return nil, ErrMalformedResponse
	}
	if d.Action == "" {
		return nil, ErrMalformedResponse
	}
	return &d, nil
}

// StripFences removes a surrounding markdown code fence, if present. Models
// routinely wrap structured output in fences despite instructions not to.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
