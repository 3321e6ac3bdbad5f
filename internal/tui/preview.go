package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ghostwriter/internal/index"
	"github.com/Zuo-Peng/ghostwriter/internal/render"
	"github.com/Zuo-Peng/ghostwriter/internal/search"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

// paneView selects what the preview pane shows for the selected result.
type paneView int

const (
	paneChat    paneView = iota // the messages around the hit
	paneSummary                 // the stored daily summary
)

func (p paneView) next() paneView {
	if p == paneChat {
		return paneSummary
	}
	return paneChat
}

func (p paneView) String() string {
	if p == paneSummary {
		return "summary"
	}
	return "chat"
}

type previewRenderedMsg struct {
	key     string
	content string
	hitLine int
	err     error
}

func previewCacheKey(r search.Result, p paneView) string {
	return fmt.Sprintf("%s:%d:%s", r.ConversationID, r.Seq, p)
}

// loadPreviewCmd renders the preview of r in pane p asynchronously.
func loadPreviewCmd(db *index.DB, r search.Result, p paneView, query string, width int) tea.Cmd {
	k := previewCacheKey(r, p)
	return func() tea.Msg {
		msg := previewRenderedMsg{key: k, hitLine: -1}
		if p == paneSummary {
			s, err := db.GetSummary(r.ConversationID)
			msg.content, msg.err = renderSummaryPane(s, width), err
			return msg
		}
		msg.content, msg.hitLine, msg.err = render.RenderConversation(db, r.ConversationID, render.Options{
			HitSeq:  r.Seq,
			Context: -1,
			Width:   width,
			Query:   query,
		})
		return msg
	}
}

// renderSummaryPane lays out the topics, action items and questions of s
// for the preview pane, wrapped to width.
func renderSummaryPane(s *summary.Summary, width int) string {
	if s == nil {
		return styleDimText.Render("No summary stored for this conversation.")
	}

	var b strings.Builder
	b.WriteString(styleSectionTitle.Render("Daily Summary " + s.Date))
	b.WriteString("\n")

	stats := fmt.Sprintf("%d messages", s.TotalMessages())
	if who := s.Result().MostActive(); who != "" {
		stats += ", most active: " + who
	}
	b.WriteString(styleDimText.Render(stats))
	b.WriteString("\n")

	writeSection(&b, "Topics", s.Topics, width)
	writeSection(&b, "Action items", s.ActionItems, width)
	writeSection(&b, "Questions", s.Questions, width)
	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string, width int) {
	b.WriteString("\n")
	b.WriteString(styleSectionTitle.Render(fmt.Sprintf("%s (%d)", title, len(items))))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(styleDimText.Render("  none"))
		b.WriteString("\n")
		return
	}

	textW := max(width-4, 10)
	for _, item := range items {
		for i, line := range wrapWords(item, textW) {
			if i == 0 {
				b.WriteString("  • ")
			} else {
				b.WriteString("    ")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
}

// wrapWords breaks s at spaces so each line fits in width columns. A word
// wider than width gets a line of its own.
func wrapWords(s string, width int) []string {
	var lines []string
	cur := ""
	for _, w := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = w
		case runewidth.StringWidth(cur)+1+runewidth.StringWidth(w) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
