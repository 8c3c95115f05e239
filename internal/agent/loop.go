package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/docweave/docweave/internal/llm"
)

// TruncationSuffix marks a tool observation that was cut to the limit
const TruncationSuffix = "...(truncated)"

// forcedFinishNote is appended to history when the step budget runs out
const forcedFinishNote = "System: You have reached the maximum number of tool calls. " +
	"You MUST now produce the final answer based on the information you have. " +
	"Do not call any more tools. Output the final JSON with action=\"FINISH\"."

// PromptFunc renders the per-step prompt from the joined textual history
type PromptFunc func(history string) string

// Loop drives the completion service through a bounded think/act/observe
// cycle. Run always returns a terminal FINISH decision: after maxSteps
// iterations without one, it makes exactly one forced fallback attempt and
// coerces whatever comes back into a terminal payload.
type Loop struct {
	svc              llm.CompletionService
	registry         *Registry
	audit            *AuditLog
	maxSteps         int
	observationLimit int
}

// NewLoop creates a Loop with the given step budget and observation limit
func NewLoop(svc llm.CompletionService, registry *Registry, audit *AuditLog, maxSteps, observationLimit int) *Loop {
	if maxSteps <= 0 {
		maxSteps = 5
	}
	if observationLimit <= 0 {
		observationLimit = 1000
	}
	return &Loop{
		svc:              svc,
		registry:         registry,
		audit:            audit,
		maxSteps:         maxSteps,
		observationLimit: observationLimit,
	}
}

// Run executes the loop until FINISH or budget exhaustion. Every step,
// successful or not, counts against the budget and lands in the audit log.
func (l *Loop) Run(ctx context.Context, prompt PromptFunc) *Decision {
	var history []string

	for step := 1; step <= l.maxSteps; step++ {
		raw, err := l.svc.Complete(ctx, prompt(strings.Join(history, "\n")))
		if err != nil {
			note := fmt.Sprintf("System: Error occurred: %v", err)
			history = append(history, note)
			l.audit.RecordError(step, err.Error())
			continue
		}

		decision, err := ParseDecision(raw)
		if err != nil {
			history = append(history, "System: You produced invalid JSON. Please correct it.")
			l.audit.RecordError(step, "invalid JSON received: "+truncate(raw, l.observationLimit))
			continue
		}

		if decision.IsFinish() {
			l.audit.RecordFinish(step)
			return decision
		}

		if _, ok := l.registry.Lookup(decision.Action); !ok {
			note := fmt.Sprintf("Error: Unknown action %s", decision.Action)
			history = append(history, note)
			l.audit.RecordError(step, note)
			continue
		}

		observation := truncate(l.registry.Execute(ctx, decision.Action, decision.Args), l.observationLimit)
		history = append(history, fmt.Sprintf("Action: %s\nArgs: %v\nResult: %s\n",
			decision.Action, decision.Args, observation))
		l.audit.RecordStep(step, decision.Thought, decision.Action, decision.Args, observation)
	}

	return l.forceFinish(ctx, prompt, history)
}

// forceFinish makes exactly one more completion attempt and coerces the
// result into a terminal payload.
func (l *Loop) forceFinish(ctx context.Context, prompt PromptFunc, history []string) *Decision {
	history = append(history, forcedFinishNote)

	raw, err := l.svc.Complete(ctx, prompt(strings.Join(history, "\n")))
	if err != nil {
		l.audit.RecordError(l.maxSteps+1, "forced finish failed: "+err.Error())
		return &Decision{
			Action:   ActionFinish,
			Analysis: fmt.Sprintf("No analysis produced: completion failed during forced finish (%v).", err),
		}
	}

	decision, perr := ParseDecision(raw)
	if perr == nil && decision.IsFinish() {
		l.audit.RecordFinish(l.maxSteps + 1)
		return decision
	}

	// A tool call or malformed output at this point is wrapped as a
	// best-effort terminal payload.
	l.audit.RecordError(l.maxSteps+1, "forced finish coerced raw output")
	return &Decision{Action: ActionFinish, Analysis: strings.TrimSpace(raw)}
}

// truncate bounds an observation before it enters history, keeping prompt
// growth linear in the step budget.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + TruncationSuffix
}
