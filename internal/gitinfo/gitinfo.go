package gitinfo

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

type DiffKind int

const (
	DiffContext DiffKind = iota
	DiffHeader
	DiffHunk
	DiffAdded
	DiffRemoved
)

type DiffLine struct {
	Kind DiffKind
	Text string
}

// Commit is the read-only view of a commit shown next to the todo list.
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	When        time.Time
	Message     string
	Diff        []DiffLine
}

// Repo resolves commit ids of a single repository. Lookups are memoized,
// misses included, since the same id is queried on every frame.
type Repo struct {
	root  string
	repo  *git.Repository
	cache map[string]*Commit
}

// Open finds the repository containing path, walking up like git does, so a
// todo file under .git/rebase-merge resolves to its repository.
func Open(path string) (*Repo, error) {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	repo, err := openRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", dir, err)
	}
	root := ""
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &Repo{root: root, repo: repo, cache: make(map[string]*Commit)}, nil
}

// openRepository opens the first gitdir found walking up from dir, so a
// submodule rebase under .git/modules/<name> opens the submodule and not
// the superproject. Inside a worktree it falls back to .git detection.
func openRepository(dir string) (*git.Repository, error) {
	if gitDir, ok := findGitDir(dir); ok {
		return git.PlainOpen(gitDir)
	}
	return git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

func findGitDir(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		// a .git directory or a worktree is left to DetectDotGit so the
		// repository keeps its worktree
		if filepath.Base(dir) == ".git" || exists(filepath.Join(dir, ".git")) {
			return "", false
		}
		if isGitDir(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isGitDir(dir string) bool {
	head, err := os.Stat(filepath.Join(dir, "HEAD"))
	if err != nil || !head.Mode().IsRegular() {
		return false
	}
	for _, sub := range []string{"objects", "refs"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Root returns the worktree root, or "" for bare repositories.
func (r *Repo) Root() string {
	return r.root
}

// Lookup resolves id and diffs the commit against its first parent. It
// reports false for unknown ids, root commits and unreadable objects.
func (r *Repo) Lookup(id string) (*Commit, bool) {
	if c, ok := r.cache[id]; ok {
		return c, c != nil
	}
	c, err := r.resolve(id)
	if err != nil {
		c = nil
	}
	r.cache[id] = c
	return c, c != nil
}

func (r *Repo) resolve(id string) (*Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(id))
	if err != nil {
		return nil, err
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, err
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, err
	}
	patch, err := parent.Patch(commit)
	if err != nil {
		return nil, err
	}
	return &Commit{
		Hash:        commit.Hash.String(),
		AuthorName:  commit.Author.Name,
		AuthorEmail: commit.Author.Email,
		When:        commit.Author.When,
		Message:     commit.Message,
		Diff:        SplitDiff(patch.String()),
	}, nil
}

// SplitDiff breaks unified diff text into classified lines.
func SplitDiff(text string) []DiffLine {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]DiffLine, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, DiffLine{Kind: classifyDiffLine(line), Text: line})
	}
	return lines
}

func classifyDiffLine(line string) DiffKind {
	switch {
	case strings.HasPrefix(line, "diff --git"),
		strings.HasPrefix(line, "index "),
		strings.HasPrefix(line, "+++ "),
		strings.HasPrefix(line, "--- "),
		strings.HasPrefix(line, "new file mode"),
		strings.HasPrefix(line, "deleted file mode"),
		strings.HasPrefix(line, "old mode"),
		strings.HasPrefix(line, "new mode"),
		strings.HasPrefix(line, "rename "),
		strings.HasPrefix(line, "similarity index"),
		strings.HasPrefix(line, "Binary files"):
		return DiffHeader
	case strings.HasPrefix(line, "@@"):
		return DiffHunk
	case strings.HasPrefix(line, "+"):
		return DiffAdded
	case strings.HasPrefix(line, "-"):
		return DiffRemoved
	}
	return DiffContext
}

// RebaseBranch returns the short name of the branch being rebased, read
// from the head-name file next to the todo file. It returns "" when the
// file is missing.
func RebaseBranch(todoPath string) string {
	f, err := os.Open(filepath.Join(filepath.Dir(todoPath), "head-name"))
	if err != nil {
		return ""
	}
	defer f.Close()

	name, err := readRef(bufio.NewScanner(f))
	if err != nil {
		return ""
	}
	return name
}

func readRef(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		return "", errors.New("empty head-name")
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" || line == "detached HEAD" {
		return "", errors.New("detached")
	}
	return plumbing.ReferenceName(line).Short(), nil
}
