package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// MaxFileSize is the largest export accepted for ingestion.
const MaxFileSize = 10 * 1024 * 1024

var ErrInvalidFile = errors.New("invalid export file")

// ValidationError carries the reason a file was rejected. It matches
// ErrInvalidFile with errors.Is.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string        { return e.Reason }
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidFile }

func invalid(path, format string, args ...any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

type FileInfo struct {
	Path  string
	Kind  string // export kind, "whatsapp"
	Mtime int64
	Size  int64
}

func (f FileInfo) Name() string { return filepath.Base(f.Path) }

// ScanExports collects every .txt file under root, skipping hidden
// directories. A missing root yields no files and no error.
func ScanExports(root string) ([]FileInfo, error) {
	if root == "" {
		return nil, nil
	}
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isExport(path) {
			return nil
		}
		files = append(files, fromInfo(path, info))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return files, nil
}

// Validate checks that path is a readable, non-empty .txt file of at most
// MaxFileSize bytes.
func Validate(path string) (FileInfo, error) {
	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, invalid(path, "file does not exist: %s", name)
		}
		return FileInfo{}, invalid(path, "%v", err)
	}
	if !info.Mode().IsRegular() {
		return FileInfo{}, invalid(path, "not a file: %s", name)
	}
	if !isExport(path) {
		return FileInfo{}, invalid(path, "unsupported file type, supported: .txt")
	}
	if info.Size() > MaxFileSize {
		return FileInfo{}, invalid(path, "file too large, maximum size: 10 MB")
	}
	if info.Size() == 0 {
		return FileInfo{}, invalid(path, "file is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		return FileInfo{}, invalid(path, "file is not readable: %s", name)
	}
	f.Close()
	return fromInfo(path, info), nil
}

var fileDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// DateFromFile returns the first real yyyy-MM-dd date in the file name, or
// the modification date when the name carries none.
func DateFromFile(fi FileInfo) string {
	for _, m := range fileDateRe.FindAllString(fi.Name(), -1) {
		if _, err := time.Parse(time.DateOnly, m); err == nil {
			return m
		}
	}
	return time.Unix(fi.Mtime, 0).Format(time.DateOnly)
}

func isExport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

func fromInfo(path string, info os.FileInfo) FileInfo {
	return FileInfo{
		Path:  path,
		Kind:  "whatsapp",
		Mtime: info.ModTime().Unix(),
		Size:  info.Size(),
	}
}
