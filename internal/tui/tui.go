package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/ghostwriter/internal/index"
	"github.com/Zuo-Peng/ghostwriter/internal/open"
	"github.com/Zuo-Peng/ghostwriter/internal/search"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeList
)

// exitAction is applied to the selected conversation once the TUI closes.
type exitAction int

const (
	exitNone exitAction = iota
	exitCopySummary
	exitOpenSource
)

type searchResultMsg struct {
	query   string
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

type model struct {
	db          *index.DB
	searchOpts  search.Options
	mode        tuiMode
	pane        paneView
	query       string
	results     []search.Result
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // key of the preview currently shown
	width       int
	height      int
	ready       bool
	quitting    bool
	selected    *search.Result
	exit        exitAction
}

func initialModel(db *index.DB, query string, opts search.Options) model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Focus()
	ti.SetValue(query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		db:          db,
		searchOpts:  opts,
		query:       query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run starts the TUI on the results of query and blocks until it exits.
func Run(db *index.DB, query string, opts search.Options) error {
	return run(db, initialModel(db, query, opts))
}

// RunList starts the TUI listing every conversation, newest first. Typing
// narrows the list with a full-text search.
func RunList(db *index.DB, opts search.Options) error {
	m := initialModel(db, "", opts)
	m.mode = modeList
	m.filterInput.Placeholder = "Filter..."
	return run(db, m)
}

func run(db *index.DB, m model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := final.(model)
	if fm.selected == nil {
		return nil
	}
	switch fm.exit {
	case exitCopySummary:
		return copySummary(db, fm.selected.ConversationID)
	case exitOpenSource:
		return open.OpenConversation(db, fm.selected.ConversationID, fm.selected.Seq)
	}
	return nil
}

// copySummary copies the stored summary text of a conversation to the
// clipboard, printing it instead when no clipboard is available.
func copySummary(db *index.DB, conversationID string) error {
	text, err := summaryText(db, conversationID)
	if err != nil {
		return err
	}

	if err := clipboard.WriteAll(text); err != nil {
		fmt.Print(text)
		return nil
	}

	fmt.Printf("Copied summary of conversation %s to clipboard\n", conversationID)
	return nil
}

func summaryText(db *index.DB, conversationID string) (string, error) {
	s, err := db.GetSummary(conversationID)
	if err != nil {
		return "", fmt.Errorf("get summary: %w", err)
	}
	if s == nil {
		return "", fmt.Errorf("no summary for conversation: %s", conversationID)
	}
	return s.Text, nil
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.mode == modeList || m.query != "" {
		cmds = append(cmds, m.fetch(m.query))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		lay := m.layout()
		m.preview = newViewport(lay.previewW, lay.panelH)
		m.previewKey = ""
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case debounceTickMsg:
		// the query changed again while waiting
		if msg.query != m.query {
			return m, nil
		}
		return m, m.fetch(msg.query)

	case searchResultMsg:
		if msg.query != m.query {
			return m, nil
		}
		m = m.applyResults(msg)
		return m, m.loadCurrentPreview()

	case previewRenderedMsg:
		return m.applyPreview(msg), nil
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Enter):
		return m.exitWith(exitCopySummary)
	case key.Matches(msg, keys.Open):
		return m.exitWith(exitOpenSource)
	case key.Matches(msg, keys.TogglePane):
		m.pane = m.pane.next()
		return m, m.loadCurrentPreview()
	case key.Matches(msg, keys.Up):
		cmd = m.moveCursor(-1)
		return m, cmd
	case key.Matches(msg, keys.Down):
		cmd = m.moveCursor(1)
		return m, cmd
	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(m.layout().panelH / 2)
		return m, nil
	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(m.layout().panelH / 2)
		return m, nil
	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(m.layout().panelH)
		return m, nil
	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(m.layout().panelH)
		return m, nil
	}

	m.filterInput, cmd = m.filterInput.Update(msg)
	if q := m.filterInput.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(cmd, debounce(q))
	}
	return m, cmd
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}

	lay := m.layout()
	region, idx := lay.hitTest(msg.X, msg.Y, m.listOffset)
	switch region {
	case regionList:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.listOffset = max(m.listOffset-1, 0)
		case msg.Button == tea.MouseButtonWheelDown:
			m.listOffset = min(m.listOffset+1, max(len(m.results)-lay.visibleItems(), 0))
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			cmd := m.moveCursor(idx - m.cursor)
			return m, cmd
		}
	case regionPreview:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// exitWith selects the conversation under the cursor and quits.
func (m model) exitWith(a exitAction) (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.results) {
		return m, nil
	}
	r := m.results[m.cursor]
	m.selected, m.exit, m.quitting = &r, a, true
	return m, tea.Quit
}

func (m *model) moveCursor(delta int) tea.Cmd {
	next := m.cursor + delta
	if next < 0 || next >= len(m.results) {
		return nil
	}
	m.cursor = next
	m.adjustListScroll(m.layout().panelH)
	return m.loadCurrentPreview()
}

func (m model) applyResults(msg searchResultMsg) model {
	m.cursor, m.listOffset = 0, 0
	m.previewKey = ""
	if msg.err != nil {
		m.results = nil
		m.preview.SetContent("Error: " + msg.err.Error())
		return m
	}
	m.results = msg.results
	if len(m.results) == 0 {
		m.preview.SetContent("")
	}
	return m
}

func (m model) applyPreview(msg previewRenderedMsg) model {
	// already shown, or the cursor or pane moved on
	if msg.key == m.previewKey || msg.key != m.currentPreviewKey() {
		return m
	}
	if msg.err != nil {
		m.preview.SetContent("Preview error: " + msg.err.Error())
	} else {
		m.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		} else {
			m.preview.GotoTop()
		}
	}
	m.previewKey = msg.key
	return m
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	lay := m.layout()
	list := stylePanelBorder.
		Width(lay.listW).
		Height(lay.panelH).
		Render(m.renderList(lay.listW, lay.panelH))

	m.preview.Width, m.preview.Height = lay.previewW, lay.panelH
	preview := styleActiveBorder.
		Width(lay.previewW).
		Height(lay.panelH).
		Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.filterInput.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, preview),
		m.statusBar(),
	)
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d conversations", len(m.results)),
		"showing " + m.pane.String(),
	}
	for _, b := range []key.Binding{keys.TogglePane, keys.Enter, keys.Open, keys.PreviewDn, keys.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// fetch runs the query off the UI goroutine. In list mode an empty query
// lists every conversation instead.
func (m model) fetch(query string) tea.Cmd {
	db, opts, listing := m.db, m.searchOpts, m.mode == modeList
	opts.Query = query
	return func() tea.Msg {
		var (
			results []search.Result
			err     error
		)
		switch {
		case query != "":
			results, err = search.Search(db, opts)
		case listing:
			results, err = search.ListAll(db, opts.UserID, 0)
		}
		return searchResultMsg{query: query, results: results, err: err}
	}
}

func debounce(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) currentPreviewKey() string {
	if m.cursor >= len(m.results) {
		return ""
	}
	return previewCacheKey(m.results[m.cursor], m.pane)
}

func (m model) loadCurrentPreview() tea.Cmd {
	k := m.currentPreviewKey()
	if k == "" || k == m.previewKey {
		return nil
	}
	return loadPreviewCmd(m.db, m.results[m.cursor], m.pane, m.query, m.layout().previewW)
}
