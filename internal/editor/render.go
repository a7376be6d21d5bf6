package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/kobzarvs/qrebase/internal/config"
	"github.com/kobzarvs/qrebase/internal/todo"
)

const tabWidth = 4

type styles struct {
	main        tcell.Style
	status      tcell.Style
	help        tcell.Style
	helpKey     tcell.Style
	selection   tcell.Style
	border      tcell.Style
	placeholder tcell.Style
	header      tcell.Style
	category    map[todo.Category]tcell.Color
	diff        map[DiffKind]tcell.Color
}

func newStyles(theme config.Theme) styles {
	def := config.Default().Theme
	fg := parseColor(theme.Foreground, tcell.ColorWhite)
	bg := parseColor(theme.Background, tcell.ColorDefault)
	main := tcell.StyleDefault.Foreground(fg).Background(bg)
	color := func(value, fallback string) tcell.Color {
		return parseColor(value, parseColor(fallback, fg))
	}
	return styles{
		main: main,
		status: tcell.StyleDefault.
			Foreground(color(theme.StatuslineForeground, def.StatuslineForeground)).
			Background(color(theme.StatuslineBackground, def.StatuslineBackground)),
		help:    main.Foreground(color(theme.HelpForeground, def.HelpForeground)),
		helpKey: main.Foreground(color(theme.HelpKeyForeground, def.HelpKeyForeground)).Bold(true),
		selection: tcell.StyleDefault.
			Foreground(color(theme.SelectionForeground, def.SelectionForeground)).
			Background(color(theme.SelectionBackground, def.SelectionBackground)),
		border:      main.Foreground(color(theme.BorderForeground, def.BorderForeground)),
		placeholder: main.Foreground(color(theme.PlaceholderForeground, def.PlaceholderForeground)),
		header:      main.Bold(true),
		category: map[todo.Category]tcell.Color{
			todo.CategoryNeutral: fg,
			todo.CategoryEdit:    color(theme.TodoEdit, def.TodoEdit),
			todo.CategoryReword:  color(theme.TodoReword, def.TodoReword),
			todo.CategorySquash:  color(theme.TodoSquash, def.TodoSquash),
			todo.CategoryFixup:   color(theme.TodoFixup, def.TodoFixup),
			todo.CategoryExec:    color(theme.TodoExec, def.TodoExec),
		},
		diff: map[DiffKind]tcell.Color{
			DiffContext: fg,
			DiffHeader:  color(theme.DiffHeader, def.DiffHeader),
			DiffHunk:    color(theme.DiffHunk, def.DiffHunk),
			DiffAdded:   color(theme.DiffAdded, def.DiffAdded),
			DiffRemoved: color(theme.DiffRemoved, def.DiffRemoved),
		},
	}
}

// lineStyle maps a todo line classification onto the terminal.
func (st styles) lineStyle(s todo.Style, selected bool) tcell.Style {
	style := st.main
	if selected {
		style = st.selection
	}
	if c, ok := st.category[s.Category]; ok && s.Category != todo.CategoryNeutral {
		style = style.Foreground(c)
	}
	switch s.Emphasis {
	case todo.EmphasisDim:
		style = style.Dim(true)
	case todo.EmphasisDimStrike:
		style = style.Dim(true).StrikeThrough(true)
	}
	return style
}

// Render draws the whole session frame: help line, todo pane, commit pane
// and status line.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	s.SetStyle(e.styles.main)
	s.Clear()

	top := 0
	if e.showHelp && h >= 3 {
		e.renderHelpLine(s, w, 0)
		top = 1
	}
	statusY := h - 1
	viewHeight := statusY - top
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewHeight = viewHeight

	listWidth := e.listWidth
	if listWidth > w-1 {
		listWidth = w - 1
	}
	if listWidth < 0 {
		listWidth = 0
	}
	e.renderTodoList(s, 0, top, listWidth, viewHeight)
	if listWidth < w {
		for y := top; y < top+viewHeight; y++ {
			s.SetContent(listWidth, y, '│', nil, e.styles.border)
		}
	}
	e.renderCommitPane(s, listWidth+1, top, w-listWidth-1, viewHeight)

	if statusY >= top {
		e.renderStatusline(s, w, statusY)
	}
	s.HideCursor()
	s.Show()
}

type helpEntry struct {
	action string
	label  string
}

var helpEntries = []helpEntry{
	{actionMoveUp, "up"},
	{actionMoveDown, "down"},
	{actionSwapUp, "move up"},
	{actionSwapDown, "move down"},
	{actionPick, "pick"},
	{actionReword, "reword"},
	{actionEdit, "edit"},
	{actionSquash, "squash"},
	{actionFixup, "fixup"},
	{actionDrop, "drop"},
	{actionDiffUp, "diff up"},
	{actionDiffDown, "diff down"},
	{actionSaveQuit, "save & quit"},
	{actionAbort, "abort"},
}

func (e *Editor) renderHelpLine(s tcell.Screen, w, y int) {
	clearLine(s, y, w, e.styles.help)
	x := 1
	for _, entry := range helpEntries {
		keys := keysFor(e.keymap, entry.action)
		if len(keys) == 0 {
			continue
		}
		display := make([]string, len(keys))
		for i, k := range keys {
			display[i] = keyDisplay(k)
		}
		x = drawText(s, x, y, w, strings.Join(display, "/"), e.styles.helpKey)
		x = drawText(s, x, y, w, " "+entry.label+"  ", e.styles.help)
		if x >= w {
			return
		}
	}
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := filepath.Base(e.path)
	if e.path == "" {
		name = "[No Name]"
	}
	dirty := ""
	if e.Dirty() {
		dirty = "*"
	}
	status := fmt.Sprintf(" %s%s ", name, dirty)
	if e.statusMessage != "" {
		status = fmt.Sprintf(" %s%s | %s ", name, dirty, e.statusMessage)
	}

	right := fmt.Sprintf(" %d/%d", e.actionablePosition(), e.doc.Actionable())
	if cur, ok := e.doc.Current(); ok {
		if id, ok := cur.CommitID(); ok {
			right += " | " + shortHash(id)
		}
	}
	if e.gitBranch != "" {
		right += " | " + formatGitBranch(e.gitBranchSymbol, e.gitBranch)
	}
	right += " "

	line := composeStatusLine(status, right, w)
	for x, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styles.status)
	}
}

// actionablePosition is the 1-based rank of the cursor line among the
// actionable lines, 0 when there is none.
func (e *Editor) actionablePosition() int {
	cursor := e.doc.Cursor()
	if cursor < 0 {
		return 0
	}
	pos := 0
	for i, l := range e.doc.Lines() {
		if l.Actionable() {
			pos++
		}
		if i == cursor {
			if !l.Actionable() {
				return 0
			}
			return pos
		}
	}
	return 0
}

func shortHash(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// fillRect paints a region with spaces.
func fillRect(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}
}

// drawText writes text from x up to (not including) maxX and returns the
// column after the last cell written. Tabs expand to tabWidth stops.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	start := x
	for _, r := range text {
		if x >= maxX {
			break
		}
		if r == '\t' {
			next := x + tabWidth - (x-start)%tabWidth
			for ; x < next && x < maxX; x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		if r < ' ' {
			r = ' '
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := width - len(leftRunes) - len(rightRunes)
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := 0; i < spaceCount; i++ {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") {
		return symbol + branch
	}
	return symbol + " " + branch
}

// parseColor accepts #RGB, #RRGGBB, "default" and tcell color names.
func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") {
		hex := name[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return fallback
		}
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
