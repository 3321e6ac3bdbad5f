// Package export renders daily summaries to text, Markdown, HTML and JSON
// files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formatter renders a summary in one output format.
type Formatter interface {
	Format(s *summary.Summary) (string, error)
	Extension() string // including the dot, e.g. ".md"
}

// Names lists the accepted format names in export order.
func Names() []string {
	return []string{"txt", "md", "html", "json"}
}

// ForName resolves "txt"/"text", "md"/"markdown", "html" or "json".
func ForName(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "txt", "text":
		return PlainText{}, nil
	case "md", "markdown":
		return Markdown{}, nil
	case "html":
		return HTML{}, nil
	case "json":
		return JSON{}, nil
	}
	return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Names(), ", "))
}

// FileName returns summary_<date>_<id><ext>, where id is the first 8
// characters of the conversation id. Several conversations can share a
// date, so the date alone is not unique.
func FileName(s *summary.Summary, ext string) string {
	name := "summary_" + s.Date
	if id := s.ConversationID; id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		name += "_" + id
	}
	return name + ext
}

// Export writes s to dir/FileName(s, ext), creating dir when missing, and
// returns the file path.
func Export(s *summary.Summary, f Formatter, dir string) (string, error) {
	if s == nil {
		return "", errors.New("export: summary is nil")
	}
	if f == nil {
		return "", errors.New("export: formatter is nil")
	}
	if dir == "" {
		return "", errors.New("export: output directory is empty")
	}

	content, err := f.Format(s)
	if err != nil {
		return "", fmt.Errorf("format summary %s: %w", s.ID, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, FileName(s, f.Extension()))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ExportAs is Export with the formatter looked up by name.
func ExportAs(s *summary.Summary, name, dir string) (string, error) {
	f, err := ForName(name)
	if err != nil {
		return "", err
	}
	return Export(s, f, dir)
}

// ExportAll writes s in every format and returns the written paths.
func ExportAll(s *summary.Summary, dir string) ([]string, error) {
	var paths []string
	for _, name := range Names() {
		p, err := ExportAs(s, name, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
