package editor

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qrebase/internal/config"
	"github.com/kobzarvs/qrebase/internal/logger"
	"github.com/kobzarvs/qrebase/internal/todo"
)

// State of an editing session. Terminated is final.
type State int

const (
	StateEditing State = iota
	StateTerminated
)

const (
	actionMoveUp   = "move_up"
	actionMoveDown = "move_down"
	actionSwapUp   = "swap_up"
	actionSwapDown = "swap_down"
	actionPick     = "pick"
	actionEdit     = "edit"
	actionReword   = "reword"
	actionSquash   = "squash"
	actionFixup    = "fixup"
	actionDrop     = "drop"
	actionSaveQuit = "save_quit"
	actionAbort    = "abort"
	actionDiffUp   = "diff_up"
	actionDiffDown = "diff_down"
)

// commit actions rebuild the current line with another command
var commitActions = map[string]todo.Kind{
	actionPick:   todo.KindPick,
	actionEdit:   todo.KindEdit,
	actionReword: todo.KindReword,
	actionSquash: todo.KindSquash,
	actionFixup:  todo.KindFixup,
	actionDrop:   todo.KindDrop,
}

var errScreenClosed = errors.New("screen closed before the todo list was written")

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

// CommitInfo is what the commit pane shows for the line under the cursor.
type CommitInfo struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	When        time.Time
	Message     string
	Diff        []DiffLine
}

// CommitLookupFunc resolves a commit id. Any failure is reported as false.
type CommitLookupFunc func(id string) (*CommitInfo, bool)

// Editor is an interactive session over one todo file.
type Editor struct {
	doc      *todo.Document
	path     string
	original string
	state    State
	keymap   map[string]string

	lookup          CommitLookupFunc
	gitBranch       string
	gitBranchSymbol string
	statusMessage   string

	listWidth    int
	showHelp     bool
	listScroll   int
	commitScroll int
	commitLine   int // cursor index commitScroll belongs to
	viewHeight   int

	styles styles

	// test hooks
	actionHook func(action string)
	writeFile  func(path string, data []byte) error
}

func New(cfg config.Config) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[k] = v
	}
	listWidth := cfg.Editor.ListWidth
	if listWidth < 1 {
		listWidth = config.Default().Editor.ListWidth
	}
	return &Editor{
		doc:             todo.NewDocument(nil),
		keymap:          keymap,
		gitBranchSymbol: cfg.Editor.GitBranchSymbol,
		listWidth:       listWidth,
		showHelp:        cfg.Editor.HelpVisible(),
		commitLine:      -1,
		styles:          newStyles(cfg.Theme),
		writeFile: func(path string, data []byte) error {
			return os.WriteFile(path, data, 0o644)
		},
	}
}

// OpenFile reads and parses the todo file. This is the only read of the
// file during a session.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read todo file %s: %w", path, err)
	}
	e.Load(path, string(data))
	logger.Info("todo file opened", "path", path, "lines", e.doc.Len(), "actionable", e.doc.Actionable())
	return nil
}

// Load installs already read content as the session document.
func (e *Editor) Load(path, content string) {
	e.path = path
	e.doc = todo.ParseDocument(content)
	e.original = e.doc.String()
	e.state = StateEditing
	e.listScroll = 0
	e.commitScroll = 0
	e.commitLine = -1
	e.statusMessage = ""
}

func (e *Editor) Document() *todo.Document {
	return e.doc
}

func (e *Editor) State() State {
	return e.state
}

func (e *Editor) SetCommitLookupFunc(fn CommitLookupFunc) {
	e.lookup = fn
}

func (e *Editor) SetGitBranch(name string) {
	e.gitBranch = name
}

// Dirty reports whether saving would change the file.
func (e *Editor) Dirty() bool {
	return e.doc.String() != e.original
}

// Run renders and dispatches events until the session terminates. Polling
// for the next event is the only place the session blocks.
func (e *Editor) Run(s tcell.Screen) error {
	for e.state == StateEditing {
		e.Render(s)
		switch ev := s.PollEvent().(type) {
		case nil:
			return errScreenClosed
		case *tcell.EventKey:
			if _, err := e.HandleKey(ev); err != nil {
				return err
			}
		case *tcell.EventResize:
			s.Sync()
		}
	}
	return nil
}

// HandleKey dispatches one key event. It returns true once the session has
// terminated; keys without a binding are ignored.
func (e *Editor) HandleKey(ev *tcell.EventKey) (bool, error) {
	if e.state == StateTerminated {
		return true, nil
	}
	key := keyString(ev)
	action, ok := e.keymap[key]
	if !ok {
		return false, nil
	}
	logger.Debug("key", "key", key, "action", action)
	return e.execAction(action)
}

func (e *Editor) execAction(action string) (bool, error) {
	if e.actionHook != nil {
		e.actionHook(action)
	}
	e.statusMessage = ""
	if kind, ok := commitActions[action]; ok {
		e.convertCurrent(kind)
		return false, nil
	}
	switch action {
	case actionMoveUp:
		e.doc.Move(todo.Previous)
	case actionMoveDown:
		e.doc.Move(todo.Next)
	case actionSwapUp:
		e.doc.Swap(todo.Previous)
	case actionSwapDown:
		e.doc.Swap(todo.Next)
	case actionDiffUp:
		e.scrollCommit(-e.pageSize())
	case actionDiffDown:
		e.scrollCommit(e.pageSize())
	case actionSaveQuit:
		return true, e.finish(e.doc.String(), "todo list saved")
	case actionAbort:
		return true, e.finish("", "rebase aborted, todo list cleared")
	default:
		logger.Warn("unknown action in keymap", "action", action)
		e.statusMessage = fmt.Sprintf("unknown action %q", action)
	}
	e.syncCommitScroll()
	return false, nil
}

// convertCurrent swaps the command of a commit line, keeping its commit id
// and trailing tokens. Lines without a commit are left alone.
func (e *Editor) convertCurrent(kind todo.Kind) {
	cur, ok := e.doc.Current()
	if !ok {
		return
	}
	id, ok := cur.CommitID()
	if !ok {
		return
	}
	e.doc.SetCurrent(todo.WithCommit(kind, id, cur.Trailing()))
}

// finish writes the final content and terminates the session. An empty
// content tells git to abort the rebase.
func (e *Editor) finish(content, msg string) error {
	e.state = StateTerminated
	if err := e.writeFile(e.path, []byte(content)); err != nil {
		logger.Error("write todo file failed", "path", e.path, "error", err)
		return fmt.Errorf("write todo file %s: %w", e.path, err)
	}
	logger.Info(msg, "path", e.path, "bytes", len(content))
	return nil
}

// currentCommit resolves the commit of the line under the cursor.
func (e *Editor) currentCommit() (*CommitInfo, bool) {
	if e.lookup == nil {
		return nil, false
	}
	cur, ok := e.doc.Current()
	if !ok {
		return nil, false
	}
	id, ok := cur.CommitID()
	if !ok {
		return nil, false
	}
	info, ok := e.lookup(id)
	if !ok {
		logger.Debug("commit lookup miss", "commit", id)
	}
	return info, ok
}

func (e *Editor) scrollCommit(delta int) {
	e.syncCommitScroll()
	e.commitScroll += delta
	if e.commitScroll < 0 {
		e.commitScroll = 0
	}
}

// syncCommitScroll resets the commit pane scroll when the cursor moved to
// another line.
func (e *Editor) syncCommitScroll() {
	if e.commitLine != e.doc.Cursor() {
		e.commitLine = e.doc.Cursor()
		e.commitScroll = 0
	}
}

func (e *Editor) pageSize() int {
	if e.viewHeight > 2 {
		return e.viewHeight - 2
	}
	return 1
}
