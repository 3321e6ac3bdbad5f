package tui

// layout holds the panel sizes for the current terminal size.
type layout struct {
	listW    int
	previewW int
	panelH   int
}

// layout splits the width 40/60 between list and preview. Before the first
// WindowSizeMsg it uses fixed defaults.
func (m model) layout() layout {
	l := layout{listW: 40, previewW: 60, panelH: 20}
	if m.width > 0 {
		l.listW = max(m.width*40/100-4, 20)
		l.previewW = max(m.width*60/100-4, 20)
	}
	if m.height > 0 {
		// input row, status bar and two border rows per panel
		l.panelH = max(m.height-6, 5)
	}
	return l
}

func (l layout) visibleItems() int {
	return max(l.panelH/linesPerItem, 1)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps a terminal cell to a panel and, inside the list, to the index
// of the result under it.
func (l layout) hitTest(x, y, listOffset int) (mouseRegion, int) {
	top := 2 // input row + top border
	if y < top || y >= top+l.panelH {
		return regionNone, -1
	}

	switch {
	case x >= 1 && x <= l.listW:
		return regionList, listOffset + (y-top)/linesPerItem
	case x > l.listW+2: // past the list's right border
		return regionPreview, -1
	}
	return regionNone, -1
}
