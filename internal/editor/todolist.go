package editor

import "github.com/gdamore/tcell/v2"

// renderTodoList draws the pane header and the visible window of todo
// lines, keeping the cursor line in view.
func (e *Editor) renderTodoList(s tcell.Screen, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	fillRect(s, x, y, w, h, e.styles.main)
	drawText(s, x+1, y, x+w, "Todo", e.styles.header)

	rows := h - 1
	e.ensureListVisible(rows)
	lines := e.doc.Lines()
	cursor := e.doc.Cursor()
	for row := 0; row < rows; row++ {
		idx := e.listScroll + row
		if idx >= len(lines) {
			break
		}
		line := lines[idx]
		selected := idx == cursor
		style := e.styles.lineStyle(line.Classify(), selected)
		if selected {
			fillRect(s, x, y+1+row, w, 1, e.styles.selection)
		}
		drawText(s, x+1, y+1+row, x+w, line.String(), style)
	}
}

func (e *Editor) ensureListVisible(rows int) {
	cursor := e.doc.Cursor()
	if rows <= 0 || cursor < 0 {
		e.listScroll = 0
		return
	}
	if cursor < e.listScroll {
		e.listScroll = cursor
	}
	if cursor >= e.listScroll+rows {
		e.listScroll = cursor - rows + 1
	}
	if limit := e.doc.Len() - rows; e.listScroll > limit {
		e.listScroll = limit
	}
	if e.listScroll < 0 {
		e.listScroll = 0
	}
}
