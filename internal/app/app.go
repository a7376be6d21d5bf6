package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qrebase/internal/config"
	"github.com/kobzarvs/qrebase/internal/editor"
	"github.com/kobzarvs/qrebase/internal/gitinfo"
	"github.com/kobzarvs/qrebase/internal/logger"
)

// CommandRebase forces the rebase editor regardless of the file name.
const CommandRebase = "rebase"

const defaultFallbackEditor = "vi"

// Options are the command line inputs of a run.
type Options struct {
	Path       string
	Command    string
	Editor     string
	ConfigPath string
	LogLevel   string
	LogFile    string
}

// App is the top-level runtime for qrebase.
type App struct {
	opts Options

	newScreen   func() (tcell.Screen, error)
	runFallback func(ctx context.Context, argv []string) error
}

func New(opts Options) *App {
	return &App{
		opts:        opts,
		newScreen:   newTerminalScreen,
		runFallback: runInteractive,
	}
}

func (a *App) Run(ctx context.Context) error {
	if a.opts.Command != "" && a.opts.Command != CommandRebase {
		return fmt.Errorf("unknown command %q", a.opts.Command)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(logger.Options{Level: a.opts.LogLevel, Path: a.opts.LogFile}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	if err := a.dispatch(ctx, cfg); err != nil {
		logger.Error("qrebase failed", "path", a.opts.Path, "error", err)
		return err
	}
	return nil
}

func (a *App) dispatch(ctx context.Context, cfg config.Config) error {
	path, err := ResolvePath(a.opts.Path)
	if err != nil {
		return err
	}

	if a.opts.Command == CommandRebase || IsTodoFile(path, cfg.Editor.TodoPatterns) {
		return a.runRebase(path, cfg)
	}
	argv := FallbackCommand(a.opts.Editor, cfg)
	logger.Info("handing file to fallback editor", "path", path, "editor", argv[0])
	return a.runFallback(ctx, append(argv, path))
}

func (a *App) loadConfig() (config.Config, error) {
	if a.opts.ConfigPath != "" {
		return config.LoadFile(a.opts.ConfigPath)
	}
	return config.Load()
}

func (a *App) runRebase(path string, cfg config.Config) error {
	ed := editor.New(cfg)
	if err := ed.OpenFile(path); err != nil {
		return err
	}

	repo, err := gitinfo.Open(path)
	if err != nil {
		return err
	}
	logger.Debug("repository opened", "root", repo.Root())
	ed.SetCommitLookupFunc(commitLookup(repo))
	ed.SetGitBranch(gitinfo.RebaseBranch(path))

	s, err := a.newScreen()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.Fini()

	return ed.Run(s)
}

// commitLookup adapts repository commits to what the commit pane draws.
func commitLookup(repo *gitinfo.Repo) editor.CommitLookupFunc {
	return func(id string) (*editor.CommitInfo, bool) {
		c, ok := repo.Lookup(id)
		if !ok {
			return nil, false
		}
		diff := make([]editor.DiffLine, len(c.Diff))
		for i, d := range c.Diff {
			diff[i] = editor.DiffLine{Kind: diffKind(d.Kind), Text: d.Text}
		}
		return &editor.CommitInfo{
			Hash:        c.Hash,
			AuthorName:  c.AuthorName,
			AuthorEmail: c.AuthorEmail,
			When:        c.When,
			Message:     c.Message,
			Diff:        diff,
		}, true
	}
}

func diffKind(k gitinfo.DiffKind) editor.DiffKind {
	switch k {
	case gitinfo.DiffHeader:
		return editor.DiffHeader
	case gitinfo.DiffHunk:
		return editor.DiffHunk
	case gitinfo.DiffAdded:
		return editor.DiffAdded
	case gitinfo.DiffRemoved:
		return editor.DiffRemoved
	}
	return editor.DiffContext
}

// ResolvePath makes path absolute against the working directory and
// evaluates symlinks.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("no file given")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}
	return resolved, nil
}

// IsTodoFile reports whether path names a rebase todo file. The file stem,
// the base name without its last extension, is matched against patterns so
// that git-rebase-todo.backup is accepted as well.
func IsTodoFile(path string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = []string{config.DefaultTodoPattern}
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, pattern := range patterns {
		for _, name := range []string{stem, base} {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				logger.Warn("bad todo pattern", "pattern", pattern, "error", err)
				break
			}
			if ok {
				return true
			}
		}
	}
	return false
}

// FallbackCommand picks the editor for files that are not todo lists and
// splits it into argv.
func FallbackCommand(flag string, cfg config.Config) []string {
	candidates := []string{
		flag,
		os.Getenv("QREBASE_EDITOR"),
		cfg.Editor.Fallback,
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
	}
	for _, c := range candidates {
		if fields := strings.Fields(c); len(fields) > 0 {
			return fields
		}
	}
	return []string{defaultFallbackEditor}
}

func runInteractive(ctx context.Context, argv []string) error {
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("exec %s: %w", argv[0], err)
	}
	return nil
}

func newTerminalScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}
