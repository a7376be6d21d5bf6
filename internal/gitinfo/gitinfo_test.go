package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir    string
	root   string
	second string
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, contents, msg string, when time.Time) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: when},
	})
	require.NoError(t, err)
	return hash.String()
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	root := commitFile(t, repo, dir, "file.txt", "one\n", "init\n", when)
	second := commitFile(t, repo, dir, "file.txt", "one\ntwo\n", "add two\n", when.Add(time.Hour))
	return fixture{dir: dir, root: root, second: second}
}

func TestOpenFromTodoDirectory(t *testing.T) {
	fx := newFixture(t)
	todoDir := filepath.Join(fx.dir, ".git", "rebase-merge")
	require.NoError(t, os.MkdirAll(todoDir, 0o755))
	todoPath := filepath.Join(todoDir, "git-rebase-todo")
	require.NoError(t, os.WriteFile(todoPath, []byte("pick "+fx.second[:7]+"\n"), 0o644))

	repo, err := Open(todoPath)
	require.NoError(t, err)

	// t.TempDir may sit behind a symlink (macOS /var -> /private/var)
	want, err := filepath.EvalSymlinks(fx.dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(repo.Root())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpenSubmoduleGitDir(t *testing.T) {
	super := newFixture(t)

	subDir := t.TempDir()
	subRepo, err := git.PlainInit(subDir, false)
	require.NoError(t, err)
	when := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	commitFile(t, subRepo, subDir, "sub.txt", "sub\n", "sub init\n", when)
	subHead := commitFile(t, subRepo, subDir, "sub.txt", "sub\nmore\n", "sub more\n", when.Add(time.Hour))

	modDir := filepath.Join(super.dir, ".git", "modules", "sub")
	require.NoError(t, os.MkdirAll(filepath.Dir(modDir), 0o755))
	require.NoError(t, os.CopyFS(modDir, os.DirFS(filepath.Join(subDir, ".git"))))

	todoDir := filepath.Join(modDir, "rebase-merge")
	require.NoError(t, os.MkdirAll(todoDir, 0o755))
	todoPath := filepath.Join(todoDir, "git-rebase-todo")
	require.NoError(t, os.WriteFile(todoPath, []byte("pick "+subHead[:7]+"\n"), 0o644))

	repo, err := Open(todoPath)
	require.NoError(t, err)

	c, ok := repo.Lookup(subHead[:7])
	require.True(t, ok, "submodule commit not found")
	assert.Equal(t, subHead, c.Hash)
	assert.Equal(t, "sub more\n", c.Message)

	_, ok = repo.Lookup(super.second)
	assert.False(t, ok, "superproject commit resolved in the submodule")
}

func TestOpenNotRepo(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	fx := newFixture(t)
	repo, err := Open(fx.dir)
	require.NoError(t, err)

	c, ok := repo.Lookup(fx.second[:7])
	require.True(t, ok)
	assert.Equal(t, fx.second, c.Hash)
	assert.Equal(t, "Test", c.AuthorName)
	assert.Equal(t, "test@example.com", c.AuthorEmail)
	assert.Equal(t, "add two\n", c.Message)
	assert.True(t, c.When.Equal(time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)))

	var added []string
	for _, l := range c.Diff {
		if l.Kind == DiffAdded {
			added = append(added, l.Text)
		}
	}
	assert.Equal(t, []string{"+two"}, added)
}

func TestLookupMisses(t *testing.T) {
	fx := newFixture(t)
	repo, err := Open(fx.dir)
	require.NoError(t, err)

	_, ok := repo.Lookup("0000000000000000000000000000000000000000")
	assert.False(t, ok, "unknown id")

	_, ok = repo.Lookup("not-a-revision")
	assert.False(t, ok, "unresolvable revision")

	_, ok = repo.Lookup(fx.root)
	assert.False(t, ok, "root commit has no parent to diff against")

	// cached misses stay misses
	_, ok = repo.Lookup(fx.root)
	assert.False(t, ok)
}

func TestSplitDiff(t *testing.T) {
	text := "diff --git a/f b/f\n" +
		"index 5626abf..814f4a4 100644\n" +
		"--- a/f\n" +
		"+++ b/f\n" +
		"@@ -1 +1,2 @@\n" +
		" one\n" +
		"-old\n" +
		"+two\n"
	want := []DiffKind{DiffHeader, DiffHeader, DiffHeader, DiffHeader, DiffHunk, DiffContext, DiffRemoved, DiffAdded}
	lines := SplitDiff(text)
	require.Len(t, lines, len(want))
	for i, l := range lines {
		assert.Equal(t, want[i], l.Kind, "line %d %q", i, l.Text)
	}
	assert.Nil(t, SplitDiff(""))
}

func TestRebaseBranch(t *testing.T) {
	dir := t.TempDir()
	todoPath := filepath.Join(dir, "git-rebase-todo")
	assert.Equal(t, "", RebaseBranch(todoPath))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "head-name"), []byte("refs/heads/feature/x\n"), 0o644))
	assert.Equal(t, "feature/x", RebaseBranch(todoPath))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "head-name"), []byte("detached HEAD\n"), 0o644))
	assert.Equal(t, "", RebaseBranch(todoPath))
}
