package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docweave/docweave/internal/docstore"
)

// NoMatchesFound is returned by search_code when nothing matched
const NoMatchesFound = "No direct usages found."

// SearchCodeTool performs a recursive substring search over the repository's
// Go files, bounded to maxMatches results. I/O errors on individual files
// are swallowed and skipped; the tool never fails.
func SearchCodeTool(repoRoot string, maxMatches int) Tool {
	return Tool{
		Name:        "search_code",
		Description: "Search for a string in all Go files of the repository. Args: {\"query\": \"text to search for\"}. Returns \"path:line: content\" lines.",
		Run: func(ctx context.Context, args map[string]interface{}) string {
			query := StringArg(args, "query")
			if query == "" {
				return "Error: query argument is required and must not be empty."
			}

			var matches []string
			_ = filepath.Walk(repoRoot, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // unreadable entries are skipped
				}
				if info.IsDir() {
					if strings.HasPrefix(info.Name(), ".") && path != repoRoot {
						return filepath.SkipDir
					}
					if info.Name() == "vendor" {
						return filepath.SkipDir
					}
					return nil
				}
				if !strings.HasSuffix(path, ".go") || len(matches) >= maxMatches {
					return nil
				}

				content, err := os.ReadFile(path)
				if err != nil {
					return nil
				}
				rel, err := filepath.Rel(repoRoot, path)
				if err != nil {
					rel = info.Name()
				}
				for i, line := range strings.Split(string(content), "\n") {
					if strings.Contains(line, query) {
						matches = append(matches, fmt.Sprintf("%s:%d: %s",
							filepath.ToSlash(rel), i+1, strings.TrimSpace(line)))
						if len(matches) >= maxMatches {
							break
						}
					}
				}
				return nil
			})

			if len(matches) == 0 {
				return NoMatchesFound
			}
			return strings.Join(matches, "\n")
		},
	}
}

// DocLookupTool retrieves the existing documentation block for a symbol,
// markers included, or a not-found sentinel.
func DocLookupTool(docs *docstore.Store) Tool {
	return Tool{
		Name:        "get_doc_for_symbol",
		Description: "Retrieve the existing Markdown documentation block for a symbol. Args: {\"symbol_id\": \"pkg.mod.Name\"}.",
		Run: func(ctx context.Context, args map[string]interface{}) string {
			symbolID := StringArg(args, "symbol_id")
			if symbolID == "" {
				return "Error: symbol_id argument is required and must not be empty."
			}
			if block, ok := docs.DocForSymbol(symbolID); ok {
				return block
			}
			return fmt.Sprintf("No documentation found for symbol: %s", symbolID)
		},
	}
}

// ListDirectoryTool performs a shallow listing of a directory relative to
// the repository root, directories and files tagged distinctly.
func ListDirectoryTool(repoRoot string) Tool {
	return Tool{
		Name:        "list_directory",
		Description: "List the contents of a directory relative to the repository root. Args: {\"path\": \"relative/dir\"}.",
		Run: func(ctx context.Context, args map[string]interface{}) string {
			rel := StringArg(args, "path")
			target := filepath.Join(repoRoot, filepath.FromSlash(rel))

			entries, err := os.ReadDir(target)
			if err != nil {
				return fmt.Sprintf("Error: cannot list directory %q: %v", rel, err)
			}

			lines := make([]string, 0, len(entries))
			for _, entry := range entries {
				if entry.IsDir() {
					lines = append(lines, "[dir]  "+entry.Name())
				} else {
					lines = append(lines, "[file] "+entry.Name())
				}
			}
			sort.Strings(lines)
			if len(lines) == 0 {
				return "(empty directory)"
			}
			return strings.Join(lines, "\n")
		},
	}
}
