package todo

import (
	"strings"
)

// Kind identifies the command of a todo line.
type Kind int

const (
	KindComment Kind = iota
	KindPick
	KindReword
	KindEdit
	KindSquash
	KindFixup
	KindDrop
	KindExec
	KindLabel
	KindReset
	KindMerge
	KindUpdateRef
)

const commentMarker = "#"

var keywords = map[Kind]string{
	KindPick:      "pick",
	KindReword:    "reword",
	KindEdit:      "edit",
	KindSquash:    "squash",
	KindFixup:     "fixup",
	KindDrop:      "drop",
	KindExec:      "exec",
	KindLabel:     "label",
	KindReset:     "reset",
	KindMerge:     "merge",
	KindUpdateRef: "update-ref",
}

// lookup table for the first token of a line; aliases map to the same kind
var commands = map[string]Kind{
	"pick":       KindPick,
	"p":          KindPick,
	"reword":     KindReword,
	"edit":       KindEdit,
	"e":          KindEdit,
	"squash":     KindSquash,
	"s":          KindSquash,
	"fixup":      KindFixup,
	"f":          KindFixup,
	"drop":       KindDrop,
	"d":          KindDrop,
	"exec":       KindExec,
	"x":          KindExec,
	"label":      KindLabel,
	"l":          KindLabel,
	"reset":      KindReset,
	"r":          KindReset,
	"merge":      KindMerge,
	"m":          KindMerge,
	"update-ref": KindUpdateRef,
	"u":          KindUpdateRef,
}

// Keyword returns the canonical command word, or "" for comments.
func (k Kind) Keyword() string {
	return keywords[k]
}

func (k Kind) String() string {
	if k == KindComment {
		return "comment"
	}
	if kw, ok := keywords[k]; ok {
		return kw
	}
	return "unknown"
}

// Line is a single entry of a rebase todo list. Kind selects which of the
// fields are meaningful:
//
//	Comment                                Message
//	Pick Reword Edit Squash Fixup Drop     Commit, Rest
//	Exec                                   Command
//	Label Reset                            Label, Rest
//	Merge                                  Commit (optional), Label
//	UpdateRef                              Ref
type Line struct {
	Kind    Kind
	Message string
	Commit  string
	Rest    []string
	Command []string
	Label   string
	Ref     string
}

// Comment returns a comment line holding msg verbatim.
func Comment(msg string) Line {
	return Line{Kind: KindComment, Message: msg}
}

// WithCommit builds a commit line (pick, reword, edit, squash, fixup, drop).
func WithCommit(kind Kind, commit string, rest []string) Line {
	return Line{Kind: kind, Commit: commit, Rest: cloneTokens(rest)}
}

// Parse turns one line of a todo file into a Line. It never fails: anything
// that is not a well formed command is kept as a comment with the trimmed
// text.
func Parse(line string) Line {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, commentMarker) {
		return Comment(line)
	}
	parsed, ok := parseCommand(strings.Fields(line))
	if !ok {
		return Comment(line)
	}
	return parsed
}

func parseCommand(tokens []string) (Line, bool) {
	kind, ok := commands[tokens[0]]
	if !ok {
		return Line{}, false
	}
	args := tokens[1:]
	switch kind {
	case KindPick, KindReword, KindEdit, KindSquash, KindFixup, KindDrop:
		if len(args) == 0 {
			return Line{}, false
		}
		return WithCommit(kind, args[0], args[1:]), true
	case KindExec:
		if len(args) == 0 {
			return Line{}, false
		}
		return Line{Kind: KindExec, Command: cloneTokens(args)}, true
	case KindLabel, KindReset:
		if len(args) == 0 {
			return Line{}, false
		}
		return Line{Kind: kind, Label: args[0], Rest: cloneTokens(args[1:])}, true
	case KindMerge:
		return parseMerge(args)
	case KindUpdateRef:
		if len(args) != 1 {
			return Line{}, false
		}
		return Line{Kind: KindUpdateRef, Ref: args[0]}, true
	}
	return Line{}, false
}

// parseMerge accepts "-c <commit>" or "-C <commit>" anywhere among the
// arguments. The remaining tokens form the label.
func parseMerge(args []string) (Line, bool) {
	var (
		commit string
		label  []string
	)
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "-c" || tok == "-C" {
			if commit != "" || i+1 >= len(args) {
				return Line{}, false
			}
			commit = args[i+1]
			i++
			continue
		}
		label = append(label, tok)
	}
	if len(label) == 0 {
		return Line{}, false
	}
	return Line{Kind: KindMerge, Commit: commit, Label: strings.Join(label, " ")}, true
}

// String returns the canonical text of the line.
func (l Line) String() string {
	switch l.Kind {
	case KindComment:
		return l.Message
	case KindPick, KindReword, KindEdit, KindSquash, KindFixup, KindDrop:
		return joinTokens(l.Kind.Keyword(), l.Commit, l.Rest)
	case KindExec:
		return joinTokens(l.Kind.Keyword(), "", l.Command)
	case KindLabel, KindReset:
		return joinTokens(l.Kind.Keyword(), l.Label, l.Rest)
	case KindMerge:
		if l.Commit != "" {
			return "merge -c " + l.Commit + " " + l.Label
		}
		return "merge " + l.Label
	case KindUpdateRef:
		return "update-ref " + l.Ref
	}
	return l.Message
}

// Actionable reports whether the cursor may rest on the line.
func (l Line) Actionable() bool {
	return l.Kind != KindComment
}

// CommitID returns the commit a per-commit line refers to. Merge lines are
// not included: their commit only supplies the merge message.
func (l Line) CommitID() (string, bool) {
	switch l.Kind {
	case KindPick, KindReword, KindEdit, KindSquash, KindFixup, KindDrop:
		return l.Commit, l.Commit != ""
	}
	return "", false
}

// Trailing returns the free tokens following the command arguments.
func (l Line) Trailing() []string {
	switch l.Kind {
	case KindPick, KindReword, KindEdit, KindSquash, KindFixup, KindDrop, KindLabel, KindReset:
		return l.Rest
	}
	return nil
}

func joinTokens(keyword, arg string, rest []string) string {
	var b strings.Builder
	b.WriteString(keyword)
	if arg != "" {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	for _, tok := range rest {
		b.WriteByte(' ')
		b.WriteString(tok)
	}
	return b.String()
}

func cloneTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}
