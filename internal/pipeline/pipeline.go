// Package pipeline orchestrates one documentation sync pass: resolve changed
// files, diff symbols against the store, and for every changed symbol run
// research, generation, persistence, and impact propagation in source order.
//
// Failure isolation is strict: a symbol that fails any stage is logged and
// skipped, never aborting its file; a file that fails never aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docweave/docweave/internal/agent"
	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/docstore"
	"github.com/docweave/docweave/internal/indexer"
	"github.com/docweave/docweave/internal/llm"
	"github.com/docweave/docweave/internal/review"
	"github.com/docweave/docweave/internal/searcher"
	"github.com/docweave/docweave/pkg/types"
)

// Report summarizes one sync pass for callers and status tools
type Report struct {
	FilesProcessed   int      `json:"files_processed"`
	SymbolsChanged   int      `json:"symbols_changed"`
	SymbolsDeleted   int      `json:"symbols_deleted"`
	SymbolsUnchanged int      `json:"symbols_unchanged"`
	DocsWritten      int      `json:"docs_written"`
	ImpactUpdates    int      `json:"impact_updates"`
	SymbolFailures   int      `json:"symbol_failures"`
	Files            []string `json:"files,omitempty"`
}

// Pipeline wires the diff engine, retrieval, generation, and the document
// store into one sequential pass.
type Pipeline struct {
	cfg      config.Config
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
	docs     *docstore.Store
	svc      llm.CompletionService
	registry *agent.Registry
	audit    *agent.AuditLog
	reviewer *review.Reviewer // nil unless the review variant is enabled
}

// New assembles a Pipeline from already-constructed components. reviewer may
// be nil; the research-loop variant is used then.
func New(cfg config.Config, ix *indexer.Indexer, s *searcher.Searcher, docs *docstore.Store,
	svc llm.CompletionService, registry *agent.Registry, audit *agent.AuditLog, reviewer *review.Reviewer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		indexer:  ix,
		searcher: s,
		docs:     docs,
		svc:      svc,
		registry: registry,
		audit:    audit,
		reviewer: reviewer,
	}
}

// Run executes one sync pass over changedFiles (all files when nil) and
// returns the pass report. Only embedding or storage failures during the diff
// phase are fatal; everything downstream degrades per symbol.
func (p *Pipeline) Run(ctx context.Context, changedFiles []string) (*Report, error) {
	result, err := p.indexer.Sync(ctx, p.cfg.RepoRoot, changedFiles)
	if err != nil {
		return nil, fmt.Errorf("sync failed: %w", err)
	}

	report := &Report{
		FilesProcessed:   len(result.ChangedFiles),
		SymbolsChanged:   len(result.Changed),
		SymbolsDeleted:   len(result.DeletedIDs),
		SymbolsUnchanged: result.Unchanged,
		Files:            result.ChangedFiles,
	}

	changed := make(map[string]bool, len(result.Changed))
	for _, sym := range result.Changed {
		changed[sym.SymbolID] = true
	}

	byFile := make(map[string][]types.Symbol)
	for _, sym := range result.Symbols {
		if sym.Indexable() {
			byFile[sym.File] = append(byFile[sym.File], sym)
		}
	}

	for _, file := range result.ChangedFiles {
		symbols := byFile[file]
		sort.Slice(symbols, func(i, j int) bool { return symbols[i].Start < symbols[j].Start })

		docName := docstore.DocFileName(file)
		for _, sym := range symbols {
			if !changed[sym.SymbolID] {
				continue
			}
			if err := p.processSymbol(ctx, docName, sym, report); err != nil {
				log.Printf("pipeline: symbol %s failed: %v", sym.SymbolID, err)
				report.SymbolFailures++
			}
		}

		// Restore source order inside the document; stale blocks of deleted
		// symbols fall out here.
		orderedIDs := make([]string, len(symbols))
		for i, sym := range symbols {
			orderedIDs[i] = sym.SymbolID
		}
		if err := p.docs.ReorderSections(docName, orderedIDs); err != nil {
			log.Printf("pipeline: reorder of %s failed: %v", docName, err)
		}
	}

	return report, nil
}

// processSymbol runs the full per-symbol flow: read the source span, build
// retrieval context, generate documentation, persist the section, and
// propagate impact to dependents.
func (p *Pipeline) processSymbol(ctx context.Context, docName string, sym types.Symbol, report *Report) error {
	code, err := p.readSpan(sym)
	if err != nil {
		return fmt.Errorf("failed to read source span: %w", err)
	}

	ragContext := p.retrievalContext(ctx, sym.Qualname)
	existingDocs, _ := p.docs.DocForSymbol(sym.SymbolID)

	var analysis, draft string
	if p.reviewer != nil {
		usage := p.registry.Execute(ctx, "search_code", map[string]interface{}{"query": symbolName(sym.Qualname)})
		draft = p.reviewer.Generate(ctx, sym.SymbolID, code, ragContext, usage, existingDocs)
	} else {
		analysis, err = p.research(ctx, code, ragContext)
		if err != nil {
			return err
		}
		draft, err = p.svc.Complete(ctx, llm.DocsExpertPrompt(llm.DocsVars{
			Analysis:     analysis,
			ExistingDocs: existingDocs,
		}))
		if err != nil {
			return fmt.Errorf("documentation generation failed: %w", err)
		}
	}

	draft = strings.TrimSpace(draft)
	if draft == "" {
		return fmt.Errorf("documentation draft: %w", types.ErrEmptyContent)
	}
	if err := p.docs.WriteSection(docName, sym.SymbolID, draft); err != nil {
		return fmt.Errorf("failed to write section: %w", err)
	}
	report.DocsWritten++

	p.propagateImpact(ctx, sym, code, analysis, report)
	return nil
}

// research runs the bounded tool-use loop and returns the final analysis
func (p *Pipeline) research(ctx context.Context, code, ragContext string) (string, error) {
	loop := agent.NewLoop(p.svc, p.registry, p.audit, p.cfg.MaxSteps, p.cfg.ObservationLimit)
	decision := loop.Run(ctx, func(history string) string {
		return llm.ResearchLoopPrompt(llm.ResearchVars{
			Code:      code,
			Context:   ragContext,
			ToolsInfo: p.registry.Describe(),
			History:   history,
		})
	})
	analysis := strings.TrimSpace(decision.Analysis)
	if analysis == "" {
		return "", fmt.Errorf("research loop produced no analysis")
	}
	return analysis, nil
}

// propagateImpact runs the impact loop for a changed symbol and applies each
// returned instruction to the dependent symbol's existing block. Instruction
// failures are logged individually and never abort the pass.
func (p *Pipeline) propagateImpact(ctx context.Context, sym types.Symbol, code, analysis string, report *Report) {
	loop := agent.NewLoop(p.svc, p.registry, p.audit, p.cfg.MaxSteps, p.cfg.ObservationLimit)
	decision := loop.Run(ctx, func(history string) string {
		return llm.ImpactLoopPrompt(llm.ImpactVars{
			SymbolID:  sym.SymbolID,
			Code:      code,
			Analysis:  analysis,
			ToolsInfo: p.registry.Describe(),
			History:   history,
		})
	})

	for _, inst := range decision.ImpactInstructions {
		if inst.SymbolID == "" || inst.SymbolID == sym.SymbolID {
			continue
		}
		if err := p.applyImpact(ctx, inst); err != nil {
			log.Printf("pipeline: impact update of %s failed: %v", inst.SymbolID, err)
			continue
		}
		report.ImpactUpdates++
	}
}

// applyImpact regenerates one dependent symbol's block in place. Dependents
// without an existing block are skipped: they will be documented when their
// own file changes.
func (p *Pipeline) applyImpact(ctx context.Context, inst agent.ImpactInstruction) error {
	docName, ok := p.docs.LocateSymbol(inst.SymbolID)
	if !ok {
		return fmt.Errorf("documentation block: %w", types.ErrNotFound)
	}

	existing := inst.OriginalDocs
	if existing == "" {
		existing, _ = p.docs.DocForSymbol(inst.SymbolID)
	}

	draft, err := p.svc.Complete(ctx, llm.DocsExpertPrompt(llm.DocsVars{
		Analysis:     "Update the existing documentation as follows: " + inst.UpdateInstructions,
		ExistingDocs: existing,
	}))
	if err != nil {
		return fmt.Errorf("regeneration failed: %w", err)
	}
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return fmt.Errorf("regenerated draft: %w", types.ErrEmptyContent)
	}

	return p.docs.WriteSection(docName, inst.SymbolID, draft)
}

// retrievalContext builds the nearest-neighbor context for a symbol,
// degrading to the sentinel when retrieval itself fails.
func (p *Pipeline) retrievalContext(ctx context.Context, qualname string) string {
	ragContext, err := p.searcher.BuildContext(ctx, qualname, p.cfg.TopK)
	if err != nil {
		log.Printf("pipeline: context retrieval for %s failed: %v", qualname, err)
		return searcher.NoContextFound
	}
	return ragContext
}

// readSpan reads the symbol's line span from its source file
func (p *Pipeline) readSpan(sym types.Symbol) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.cfg.RepoRoot, filepath.FromSlash(sym.File)))
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(data), "\n")

	start, end := sym.Start, sym.End
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return "", fmt.Errorf("span %d-%d out of range for %s", sym.Start, sym.End, sym.File)
	}
	return strings.Join(lines[start-1:end], "\n"), nil
}

// symbolName returns the last segment of a qualified name
func symbolName(qualname string) string {
	if i := strings.LastIndex(qualname, "."); i >= 0 {
		return qualname[i+1:]
	}
	return qualname
}
