package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ghostwriter/internal/search"
)

const (
	// linesPerItem is the number of terminal lines each result occupies.
	linesPerItem = 2
	senderWidth  = 12
)

// renderList renders the left panel: search results list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single search result as two lines:
//
//	line 1: [>] MM-DD  sender  topic
//	line 2:    snippet (dimmed)
//
// In list mode there is no hit message, so the export file name stands in
// for the sender.
func formatResultLine(r search.Result, width int, selected bool) []string {
	who := r.Sender
	if who == "" {
		who = filepath.Base(r.SourcePath)
	}
	who = runewidth.Truncate(strings.ReplaceAll(who, "\n", " "), senderWidth, "…")
	who = styleSender.Render(runewidth.FillRight(who, senderWidth))

	// "2024-12-10" -> "12-10"
	date := r.Date
	if len(date) >= 10 {
		date = date[5:10]
	}

	topic := strings.ReplaceAll(r.Summary, "\n", " ")
	topicMax := max(width-2-6-senderWidth-2, 0) // prefix + date + sender + padding
	if runewidth.StringWidth(topic) > topicMax {
		topic = runewidth.Truncate(topic, topicMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s", date, who, styleTopic.Render(topic))
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippet = strings.ReplaceAll(snippet, ">>>", "")
	snippet = strings.ReplaceAll(snippet, "<<<", "")
	snippetMax := max(width-4, 0) // indent
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + styleDimText.Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
