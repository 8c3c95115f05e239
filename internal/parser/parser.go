// Package parser extracts documentable symbols from Go source files using
// the standard library AST. Each run recomputes symbols from scratch; the
// content hash over a symbol's exact line span is the only change signal the
// rest of the pipeline relies on.
package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docweave/docweave/pkg/types"
)

// Directories never considered for extraction
var ignoreDirs = map[string]bool{
	"vendor":       true,
	"testdata":     true,
	"node_modules": true,
}

// Parser handles AST-based extraction of symbols from Go source files
type Parser struct {
	fset *token.FileSet
}

// New creates a new Parser instance
func New() *Parser {
	return &Parser{fset: token.NewFileSet()}
}

// CollectFiles finds all Go files under root, returning paths relative to
// root. Hidden directories, vendor trees, and testdata are skipped.
func CollectFiles(root string, includeTests bool) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if ignoreDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		if !includeTests && strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})

	return files, err
}

// ModuleQualname derives the dotted module path for a file relative to the
// repository root: "pkg/calc/core.go" becomes "pkg.calc.core".
func ModuleQualname(relFile string) string {
	trimmed := strings.TrimSuffix(filepath.ToSlash(relFile), ".go")
	return strings.ReplaceAll(trimmed, "/", ".")
}

// ParseFile parses one Go source file and returns its symbols in ascending
// start-line order. The returned slice includes a structural module symbol
// spanning the whole file, followed by classes (type declarations),
// functions, and methods.
func (p *Parser) ParseFile(root, relFile string) ([]types.Symbol, error) {
	absPath := filepath.Join(root, filepath.FromSlash(relFile))
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	file, err := goparser.ParseFile(p.fset, absPath, content, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", relFile, err)
	}

	lines := strings.Split(string(content), "\n")
	mod := ModuleQualname(relFile)

	symbols := []types.Symbol{{
		SymbolID:  mod,
		Kind:      types.KindModule,
		File:      relFile,
		Qualname:  mod,
		Start:     1,
		End:       len(lines),
		Docstring: docText(file.Doc),
		Hash:      spanHash(lines, 1, len(lines)),
	}}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			symbols = append(symbols, p.extractFunc(d, mod, relFile, lines))
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			symbols = append(symbols, p.extractTypes(d, mod, relFile, lines)...)
		}
	}

	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].Start < symbols[j].Start
	})

	return symbols, nil
}

// extractFunc builds a function or method symbol from a declaration
func (p *Parser) extractFunc(d *ast.FuncDecl, mod, relFile string, lines []string) types.Symbol {
	parent := mod
	kind := types.KindFunction
	name := d.Name.Name

	if d.Recv != nil && len(d.Recv.List) > 0 {
		if recv := receiverTypeName(d.Recv.List[0].Type); recv != "" {
			parent = mod + "." + recv
			kind = types.KindMethod
		}
	}

	start, end := p.declSpan(d, d.Doc)
	return types.Symbol{
		SymbolID:  parent + "." + name,
		Kind:      kind,
		File:      relFile,
		Qualname:  parent + "." + name,
		Parent:    parent,
		Start:     start,
		End:       end,
		Docstring: docText(d.Doc),
		Hash:      spanHash(lines, start, end),
	}
}

// extractTypes builds class symbols for every type spec in a declaration
func (p *Parser) extractTypes(d *ast.GenDecl, mod, relFile string, lines []string) []types.Symbol {
	out := make([]types.Symbol, 0, len(d.Specs))
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		doc := ts.Doc
		if doc == nil {
			doc = d.Doc
		}
		// Single-spec declarations span from the decl (including its doc
		// comment); grouped specs span the individual spec only.
		var start, end int
		if len(d.Specs) == 1 {
			start, end = p.declSpan(d, d.Doc)
		} else {
			start = p.fset.Position(ts.Pos()).Line
			end = p.fset.Position(ts.End()).Line
		}
		out = append(out, types.Symbol{
			SymbolID:  mod + "." + ts.Name.Name,
			Kind:      types.KindClass,
			File:      relFile,
			Qualname:  mod + "." + ts.Name.Name,
			Parent:    mod,
			Start:     start,
			End:       end,
			Docstring: docText(doc),
			Hash:      spanHash(lines, start, end),
		})
	}
	return out
}

// declSpan returns the 1-indexed inclusive line span of a declaration,
// extending upward to cover its doc comment so documentation-only edits
// still change the content hash.
func (p *Parser) declSpan(decl ast.Decl, doc *ast.CommentGroup) (int, int) {
	start := p.fset.Position(decl.Pos()).Line
	if doc != nil {
		if docStart := p.fset.Position(doc.Pos()).Line; docStart < start {
			start = docStart
		}
	}
	return start, p.fset.Position(decl.End()).Line
}

// receiverTypeName unwraps pointer and generic receivers to the base type name
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}

func docText(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

// spanHash computes the content digest over the exact [start,end] line span
func spanHash(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	segment := strings.Join(lines[start-1:end], "\n")
	sum := sha256.Sum256([]byte(segment))
	return hex.EncodeToString(sum[:])
}
