package agent

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/docstore"
)

func writeRepoFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
}

func TestSearchCodeTool(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "pkg/a.go", "package pkg\n\nfunc UseEngine() {\n\tengine.Add(1, 2)\n}\n")
	writeRepoFile(t, root, "pkg/b.go", "package pkg\n\nvar unrelated = 1\n")
	writeRepoFile(t, root, "notes.txt", "engine.Add mentioned in prose\n")

	tool := SearchCodeTool(root, 10)

	out := tool.Run(context.Background(), map[string]interface{}{"query": "engine.Add"})
	assert.Contains(t, out, "pkg/a.go:4:")
	assert.Contains(t, out, "engine.Add(1, 2)")
	assert.NotContains(t, out, "notes.txt")

	out = tool.Run(context.Background(), map[string]interface{}{"query": "nothing matches this"})
	assert.Equal(t, NoMatchesFound, out)

	out = tool.Run(context.Background(), map[string]interface{}{})
	assert.Contains(t, out, "Error:")
}

func TestSearchCodeToolRespectsLimit(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "a.go", "package a\n\n// target\n// target\n// target\n// target\n")

	tool := SearchCodeTool(root, 2)
	out := tool.Run(context.Background(), map[string]interface{}{"query": "target"})

	assert.Len(t, strings.Split(out, "\n"), 2)
}

func TestDocLookupTool(t *testing.T) {
	docs := docstore.New(t.TempDir())
	require.NoError(t, docs.WriteSection("m.md", "m.Add", "add docs"))

	tool := DocLookupTool(docs)

	out := tool.Run(context.Background(), map[string]interface{}{"symbol_id": "m.Add"})
	assert.Contains(t, out, "add docs")
	assert.Contains(t, out, docstore.BeginMarker("m.Add"))

	out = tool.Run(context.Background(), map[string]interface{}{"symbol_id": "m.Missing"})
	assert.Equal(t, "No documentation found for symbol: m.Missing", out)

	out = tool.Run(context.Background(), map[string]interface{}{})
	assert.Contains(t, out, "Error:")
}

func TestListDirectoryTool(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "pkg/a.go", "package pkg\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "sub"), 0755))

	tool := ListDirectoryTool(root)

	out := tool.Run(context.Background(), map[string]interface{}{"path": "pkg"})
	assert.Contains(t, out, "[file] a.go")
	assert.Contains(t, out, "[dir]  sub")

	out = tool.Run(context.Background(), map[string]interface{}{"path": "pkg/sub"})
	assert.Equal(t, "(empty directory)", out)

	out = tool.Run(context.Background(), map[string]interface{}{"path": "does/not/exist"})
	assert.Contains(t, out, "Error:")
}

func TestRegistryDescribeAndExecute(t *testing.T) {
	reg := NewRegistry()
	reg.Register(SearchCodeTool(t.TempDir(), 5))

	desc := reg.Describe()
	assert.Contains(t, desc, "Available Tools:")
	assert.Contains(t, desc, "search_code")

	out := reg.Execute(context.Background(), "no_such_tool", nil)
	assert.Equal(t, "Error: Tool no_such_tool not found.", out)
}
