// Package review implements the quality-gate generation variant: analyze,
// draft, critique, and revise until the reviewer approves or the retry
// budget runs out. Exhaustion never blocks the batch; the best-effort draft
// is returned and a structured failure record is persisted for audit.
package review

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/docweave/docweave/internal/agent"
	"github.com/docweave/docweave/internal/llm"
)

// Review verdict statuses
const (
	StatusApproved       = "APPROVED"
	StatusRevisionNeeded = "REVISION_NEEDED"
)

// Verdict is the reviewer's structured output
type Verdict struct {
	Status    string `json:"status"`
	Reasoning string `json:"reasoning"`
	Feedback  string `json:"feedback"`
}

// FailureRecord is appended to the failure file when the retry budget is
// exhausted without approval.
type FailureRecord struct {
	SymbolID     string    `json:"symbol_id"`
	FinalDraft   string    `json:"final_draft"`
	LastFeedback string    `json:"last_feedback"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Reviewer wraps generation with a critique/revise cycle
type Reviewer struct {
	svc         llm.CompletionService
	retries     int
	failurePath string
}

// New creates a Reviewer with the given revision budget. failurePath may be
// empty to disable failure records.
func New(svc llm.CompletionService, retries int, failurePath string) *Reviewer {
	if retries <= 0 {
		retries = 3
	}
	return &Reviewer{svc: svc, retries: retries, failurePath: failurePath}
}

// Generate produces reviewed documentation for a symbol. Each attempt runs
// analysis (seeded with the previous feedback), drafts documentation, and
// asks the reviewer for a verdict. The returned draft is the approved one,
// or the last best-effort draft after exhaustion.
func (r *Reviewer) Generate(ctx context.Context, symbolID, code, ragContext, usageContext, existingDocs string) string {
	var draft string
	feedback := ""

	for attempt := 1; attempt <= r.retries; attempt++ {
		analysis, err := r.svc.Complete(ctx, llm.CodeExpertPrompt(llm.AnalysisVars{
			Code:     code,
			Context:  ragContext,
			Feedback: feedback,
		}))
		if err != nil {
			log.Printf("review: analysis attempt %d for %s failed: %v", attempt, symbolID, err)
			continue
		}

		draft, err = r.svc.Complete(ctx, llm.DocsExpertPrompt(llm.DocsVars{
			Analysis:     analysis,
			ExistingDocs: existingDocs,
		}))
		if err != nil {
			log.Printf("review: draft attempt %d for %s failed: %v", attempt, symbolID, err)
			continue
		}

		verdict := r.reviewDraft(ctx, code, draft, usageContext)
		if verdict.Status == StatusApproved {
			return draft
		}
		feedback = verdict.Feedback
	}

	r.recordFailure(FailureRecord{
		SymbolID:     symbolID,
		FinalDraft:   draft,
		LastFeedback: feedback,
		RecordedAt:   time.Now(),
	})
	return draft
}

// reviewDraft asks the reviewer for a verdict. Transport failures and
// malformed output fail closed into REVISION_NEEDED so a broken reviewer
// cannot silently approve.
func (r *Reviewer) reviewDraft(ctx context.Context, code, draft, usageContext string) Verdict {
	raw, err := r.svc.Complete(ctx, llm.ReviewPrompt(llm.ReviewVars{
		Code:         code,
		CurrentDocs:  draft,
		UsageContext: usageContext,
	}))
	if err != nil {
		return Verdict{Status: StatusRevisionNeeded, Feedback: "Reviewer unavailable; re-verify the draft against the code."}
	}

	var v Verdict
	if err := json.Unmarshal([]byte(agent.StripFences(raw)), &v); err != nil || v.Status == "" {
		return Verdict{Status: StatusRevisionNeeded, Feedback: "Reviewer output was malformed; re-verify the draft against the code."}
	}
	return v
}

// recordFailure appends one JSON line to the failure file, best-effort
func (r *Reviewer) recordFailure(rec FailureRecord) {
	if r.failurePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.failurePath), 0755); err != nil {
		log.Printf("review: cannot create failure record directory: %v", err)
		return
	}
	f, err := os.OpenFile(r.failurePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("review: cannot open failure record file: %v", err)
		return
	}
	defer func() { _ = f.Close() }()

	line, err := json.Marshal(rec)
	if err != nil {
		log.Printf("review: cannot marshal failure record: %v", err)
		return
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Printf("review: failure record write failed: %v", err)
	}
}
