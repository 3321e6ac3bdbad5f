package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
	"github.com/Zuo-Peng/ghostwriter/internal/parse"
	"github.com/Zuo-Peng/ghostwriter/internal/scan"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

var ErrNoMessages = errors.New("No valid messages found in file")

// Notifier receives every newly generated summary.
type Notifier interface {
	Notify(ctx context.Context, s *summary.Summary) error
}

// Ingester turns export files into stored conversations and summaries.
type Ingester struct {
	DB       *DB
	Analyzer analysis.Analyzer
	UserID   string
	Notifier Notifier // optional
	Force    bool     // re-ingest files even when unchanged
}

// IngestRoot ingests every export under root. With prune set, conversations
// whose source file no longer exists are deleted, wherever that file was.
func (in *Ingester) IngestRoot(ctx context.Context, root string, prune bool) (*BatchResult, error) {
	files, err := scan.ScanExports(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	res := in.IngestFiles(ctx, paths)
	if !prune {
		return res, nil
	}

	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		seen[p] = struct{}{}
	}
	pruned, err := in.prune(seen)
	res.Pruned = pruned
	if err != nil {
		return res, fmt.Errorf("prune: %w", err)
	}
	return res, nil
}

// IngestFiles processes each path in order. A failing file is recorded in
// the result and never stops the batch.
func (in *Ingester) IngestFiles(ctx context.Context, paths []string) *BatchResult {
	res := NewBatchResult(len(paths))
	defer res.MarkComplete()

	for i, path := range paths {
		fi := scan.FileInfo{Path: path}
		if err := ctx.Err(); err != nil {
			res.AddFailure(fi.Name(), "Processing error: "+err.Error())
			continue
		}

		logger := log.With().Str("file", path).Int("n", i+1).Int("of", len(paths)).Logger()

		s, skipped, err := in.ingestFile(ctx, path)
		switch {
		case err != nil:
			reason := failureReason(err)
			res.AddFailure(fi.Name(), reason)
			logger.Warn().Str("reason", reason).Msg("ingest failed")
		case skipped:
			res.AddSkip()
			logger.Debug().Msg("unchanged, skipped")
		default:
			res.AddSuccess(fi.Name(), s)
			logger.Info().Str("conversation", s.ConversationID).Int("messages", s.TotalMessages()).Msg("ingested")
		}
	}
	return res
}

type readError struct{ err error }

func (e readError) Error() string { return e.err.Error() }
func (e readError) Unwrap() error { return e.err }

func failureReason(err error) string {
	var re readError
	switch {
	case errors.Is(err, scan.ErrInvalidFile), errors.Is(err, ErrNoMessages):
		return "Validation failed: " + err.Error()
	case errors.As(err, &re):
		return "Could not read file: " + err.Error()
	default:
		return "Processing error: " + err.Error()
	}
}

func (in *Ingester) ingestFile(ctx context.Context, path string) (*summary.Summary, bool, error) {
	fi, err := scan.Validate(path)
	if err != nil {
		return nil, false, err
	}

	prev, err := in.DB.GetConversationBySource(path)
	if err != nil {
		return nil, false, err
	}
	if prev != nil && !in.Force && prev.Mtime == fi.Mtime && prev.Size == fi.Size {
		return nil, true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, readError{err}
	}

	p, err := parse.ParserFor(fi.Kind)
	if err != nil {
		return nil, false, err
	}
	msgs := p.Parse(string(data))
	if len(msgs) == 0 {
		return nil, false, ErrNoMessages
	}

	conv := parse.NewConversation(in.UserID, scan.DateFromFile(fi), msgs)
	conv.SourcePath = path

	result, err := in.Analyzer.Analyze(conv)
	if err != nil {
		return nil, false, err
	}
	s := summary.Generate(in.UserID, conv.ID, conv.Date, result)

	prevID := ""
	if prev != nil {
		prevID = prev.ID
	}
	if err := in.DB.ReplaceConversation(prevID, conv, fi, s); err != nil {
		return nil, false, err
	}

	if in.Notifier != nil {
		if err := in.Notifier.Notify(ctx, s); err != nil {
			log.Warn().Err(err).Str("summary", s.ID).Msg("notify failed")
		}
	}
	return s, false, nil
}

// prune deletes conversations whose source file no longer exists. Paths in
// seen were just scanned and are kept without a stat.
func (in *Ingester) prune(seen map[string]struct{}) (int, error) {
	all, err := in.DB.AllSourcePaths()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for path, id := range all {
		if _, ok := seen[path]; ok {
			continue
		}
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := in.DB.DeleteConversation(id); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}
