// Package gitdiff is the change source: it asks git which files were added
// or modified since the previous commit. Whole-file deletions are not
// reported here; the indexer infers them from symbol absence.
package gitdiff

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ChangeSource resolves the set of changed files for a repository
type ChangeSource struct {
	repoRoot string
}

// New creates a ChangeSource for the given repository root
func New(repoRoot string) *ChangeSource {
	return &ChangeSource{repoRoot: repoRoot}
}

// ChangedFiles returns the .go files changed between HEAD~1 and HEAD,
// relative to the repository root, keeping only files that still exist.
// Any git failure (shallow clone, first commit, not a repository) degrades
// to an empty set so the caller can fall back to a full pass.
func (c *ChangeSource) ChangedFiles() []string {
	cmd := exec.Command("git", "-C", c.repoRoot, "diff", "--name-only", "HEAD~1", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		log.Printf("gitdiff: could not diff against HEAD~1: %v", err)
		return nil
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasSuffix(line, ".go") {
			continue
		}
		abs := filepath.Join(c.repoRoot, filepath.FromSlash(line))
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		files = append(files, filepath.ToSlash(line))
	}
	return files
}

// CurrentBranch returns the checked-out branch name, falling back to "main"
func (c *ChangeSource) CurrentBranch() string {
	cmd := exec.Command("git", "-C", c.repoRoot, "rev-parse", "--abbrev-ref", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return "main"
	}
	return strings.TrimSpace(string(out))
}
