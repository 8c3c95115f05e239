package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/pkg/types"
)

const sampleSource = `package calc

// Engine evaluates arithmetic expressions.
type Engine struct {
	precision int
}

// Add returns a + b.
func (e *Engine) Add(a, b int) int {
	return a + b
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
}

func symbolByID(symbols []types.Symbol, id string) (types.Symbol, bool) {
	for _, s := range symbols {
		if s.SymbolID == id {
			return s, true
		}
	}
	return types.Symbol{}, false
}

func TestParseFileExtractsAllKinds(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/calc/core.go", sampleSource)

	symbols, err := New().ParseFile(root, "pkg/calc/core.go")
	require.NoError(t, err)
	require.Len(t, symbols, 4)

	mod, ok := symbolByID(symbols, "pkg.calc.core")
	require.True(t, ok)
	assert.Equal(t, types.KindModule, mod.Kind)
	assert.Equal(t, 1, mod.Start)

	engine, ok := symbolByID(symbols, "pkg.calc.core.Engine")
	require.True(t, ok)
	assert.Equal(t, types.KindClass, engine.Kind)
	assert.Equal(t, "Engine evaluates arithmetic expressions.", engine.Docstring)

	add, ok := symbolByID(symbols, "pkg.calc.core.Engine.Add")
	require.True(t, ok)
	assert.Equal(t, types.KindMethod, add.Kind)
	assert.Equal(t, "pkg.calc.core.Engine", add.Parent)

	clamp, ok := symbolByID(symbols, "pkg.calc.core.Clamp")
	require.True(t, ok)
	assert.Equal(t, types.KindFunction, clamp.Kind)
}

func TestParseFileReturnsSymbolsInSourceOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "core.go", sampleSource)

	symbols, err := New().ParseFile(root, "core.go")
	require.NoError(t, err)

	for i := 1; i < len(symbols); i++ {
		assert.LessOrEqual(t, symbols[i-1].Start, symbols[i].Start)
	}
}

func TestParseFileHashIsStable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "core.go", sampleSource)

	first, err := New().ParseFile(root, "core.go")
	require.NoError(t, err)
	second, err := New().ParseFile(root, "core.go")
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Hash, second[i].Hash, "hash drift for %s", first[i].SymbolID)
	}
}

func TestParseFileDocCommentEditChangesHash(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "core.go", sampleSource)

	before, err := New().ParseFile(root, "core.go")
	require.NoError(t, err)

	edited := strings.Replace(sampleSource,
		"// Engine evaluates arithmetic expressions.",
		"// Engine evaluates arithmetic expressions precisely.", 1)
	writeFile(t, root, "core.go", edited)

	after, err := New().ParseFile(root, "core.go")
	require.NoError(t, err)

	engineBefore, ok := symbolByID(before, "core.Engine")
	require.True(t, ok)
	engineAfter, ok := symbolByID(after, "core.Engine")
	require.True(t, ok)
	assert.NotEqual(t, engineBefore.Hash, engineAfter.Hash)

	// An untouched sibling keeps its hash.
	clampBefore, _ := symbolByID(before, "core.Clamp")
	clampAfter, _ := symbolByID(after, "core.Clamp")
	assert.Equal(t, clampBefore.Hash, clampAfter.Hash)
}

func TestParseFileBodyEditOnlyChangesThatSymbol(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "core.go", sampleSource)

	before, err := New().ParseFile(root, "core.go")
	require.NoError(t, err)

	edited := strings.Replace(sampleSource, "return a + b", "return b + a", 1)
	writeFile(t, root, "core.go", edited)

	after, err := New().ParseFile(root, "core.go")
	require.NoError(t, err)

	addBefore, _ := symbolByID(before, "core.Engine.Add")
	addAfter, ok := symbolByID(after, "core.Engine.Add")
	require.True(t, ok)
	assert.NotEqual(t, addBefore.Hash, addAfter.Hash)

	engineBefore, _ := symbolByID(before, "core.Engine")
	engineAfter, _ := symbolByID(after, "core.Engine")
	assert.Equal(t, engineBefore.Hash, engineAfter.Hash)
}

func TestParseFileRejectsInvalidSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.go", "package calc\n\nfunc Broken( {")

	_, err := New().ParseFile(root, "broken.go")
	assert.Error(t, err)
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "pkg/a.go", "package pkg\n")
	writeFile(t, root, "pkg/a_test.go", "package pkg\n")
	writeFile(t, root, "vendor/dep/dep.go", "package dep\n")
	writeFile(t, root, ".hidden/h.go", "package h\n")
	writeFile(t, root, "README.md", "# readme\n")

	files, err := CollectFiles(root, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.go", "pkg/a.go"}, files)

	withTests, err := CollectFiles(root, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.go", "pkg/a.go", "pkg/a_test.go"}, withTests)
}

func TestModuleQualname(t *testing.T) {
	assert.Equal(t, "pkg.calc.core", ModuleQualname("pkg/calc/core.go"))
	assert.Equal(t, "main", ModuleQualname("main.go"))
}
