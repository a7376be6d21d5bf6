package editor

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
)

const noCommitPlaceholder = "No commit selected"

type paneLine struct {
	text  string
	style tcell.Style
}

// renderCommitPane shows the commit under the cursor, or a placeholder when
// the line has no commit or the lookup fails.
func (e *Editor) renderCommitPane(s tcell.Screen, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	fillRect(s, x, y, w, h, e.styles.main)
	drawText(s, x+1, y, x+w, "Commit", e.styles.header)
	if h < 2 {
		return
	}

	info, ok := e.currentCommit()
	if !ok || info == nil {
		drawText(s, x+1, y+1, x+w, noCommitPlaceholder, e.styles.placeholder)
		return
	}

	lines := e.commitLines(info)
	rows := h - 1
	e.syncCommitScroll()
	if limit := len(lines) - rows; e.commitScroll > limit {
		e.commitScroll = limit
	}
	if e.commitScroll < 0 {
		e.commitScroll = 0
	}
	for row := 0; row < rows; row++ {
		idx := e.commitScroll + row
		if idx >= len(lines) {
			break
		}
		drawText(s, x+1, y+1+row, x+w, lines[idx].text, lines[idx].style)
	}
}

func (e *Editor) commitLines(info *CommitInfo) []paneLine {
	st := e.styles
	lines := []paneLine{
		{text: "commit " + info.Hash, style: st.main.Foreground(st.diff[DiffHeader])},
		{text: fmt.Sprintf("Author: %s <%s>", info.AuthorName, info.AuthorEmail), style: st.main},
	}
	if !info.When.IsZero() {
		date := fmt.Sprintf("Date:   %s (%s)", info.When.Format("Mon Jan 2 15:04:05 2006 -0700"), humanize.Time(info.When))
		lines = append(lines, paneLine{text: date, style: st.main})
	}
	lines = append(lines, paneLine{style: st.main})
	for _, msg := range strings.Split(strings.TrimRight(info.Message, "\n"), "\n") {
		lines = append(lines, paneLine{text: "    " + msg, style: st.main})
	}
	if len(info.Diff) > 0 {
		lines = append(lines, paneLine{style: st.main})
	}
	for _, d := range info.Diff {
		style := st.main.Foreground(st.diff[d.Kind])
		if d.Kind == DiffHeader {
			style = style.Bold(true)
		}
		lines = append(lines, paneLine{text: d.Text, style: style})
	}
	return lines
}
