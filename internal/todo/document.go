package todo

import (
	"strings"
)

// Direction selects the scan direction for Move and Swap.
type Direction int

const (
	Next Direction = iota
	Previous
)

// Document is an ordered todo list with a cursor. The cursor is -1 only when
// the document has no lines.
type Document struct {
	lines  []Line
	cursor int
}

// ParseDocument parses file content line by line. A trailing newline does
// not produce an extra empty line.
func ParseDocument(content string) *Document {
	if content == "" {
		return NewDocument(nil)
	}
	raw := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	lines := make([]Line, len(raw))
	for i, text := range raw {
		lines[i] = Parse(text)
	}
	return NewDocument(lines)
}

// NewDocument wraps already parsed lines. The cursor starts on the first
// actionable line.
func NewDocument(lines []Line) *Document {
	d := &Document{lines: lines, cursor: -1}
	if len(lines) == 0 {
		return d
	}
	d.cursor = 0
	for i, l := range lines {
		if l.Actionable() {
			d.cursor = i
			break
		}
	}
	return d
}

// Lines returns the lines in order. The slice must not be modified.
func (d *Document) Lines() []Line {
	return d.lines
}

func (d *Document) Len() int {
	return len(d.lines)
}

// Cursor returns the selected index, or -1 for an empty document.
func (d *Document) Cursor() int {
	return d.cursor
}

// Actionable counts the non-comment lines.
func (d *Document) Actionable() int {
	n := 0
	for _, l := range d.lines {
		if l.Actionable() {
			n++
		}
	}
	return n
}

// Current returns the line under the cursor.
func (d *Document) Current() (Line, bool) {
	if d.cursor < 0 || d.cursor >= len(d.lines) {
		return Line{}, false
	}
	return d.lines[d.cursor], true
}

// SetCurrent replaces the line under the cursor. Callers carry over whatever
// fields the new line should keep.
func (d *Document) SetCurrent(l Line) {
	if d.cursor < 0 || d.cursor >= len(d.lines) {
		return
	}
	d.lines[d.cursor] = l
}

// Move selects the nearest actionable line in dir, wrapping around.
func (d *Document) Move(dir Direction) {
	d.scan(dir, func(_, to int) {
		d.cursor = to
	})
}

// Swap exchanges the current line with the nearest actionable line in dir
// and keeps the cursor on the moved line.
func (d *Document) Swap(dir Direction) {
	d.scan(dir, func(from, to int) {
		d.lines[from], d.lines[to] = d.lines[to], d.lines[from]
		d.cursor = to
	})
}

// scan walks circularly from the cursor and calls found with the first
// actionable index other than the cursor itself. Nothing happens when no
// such line exists.
func (d *Document) scan(dir Direction, found func(from, to int)) {
	n := len(d.lines)
	if n == 0 || d.cursor < 0 {
		return
	}
	step := 1
	if dir == Previous {
		step = n - 1
	}
	idx := d.cursor
	for i := 1; i < n; i++ {
		idx = (idx + step) % n
		if d.lines[idx].Actionable() {
			found(d.cursor, idx)
			return
		}
	}
}

// String serializes the document: canonical lines joined by newlines, with
// no trailing newline.
func (d *Document) String() string {
	out := make([]string, len(d.lines))
	for i, l := range d.lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}
