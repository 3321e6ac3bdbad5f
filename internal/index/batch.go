package index

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

type Failure struct {
	File   string
	Reason string
}

// BatchResult records the outcome of one ingestion run.
type BatchResult struct {
	ID          string
	TotalFiles  int
	Processed   []string
	Failures    []Failure
	Summaries   []*summary.Summary
	Skipped     int
	Pruned      int
	StartedAt   time.Time
	CompletedAt time.Time
}

func NewBatchResult(totalFiles int) *BatchResult {
	return &BatchResult{
		ID:         uuid.NewString(),
		TotalFiles: totalFiles,
		StartedAt:  time.Now(),
	}
}

func (b *BatchResult) AddSuccess(file string, s *summary.Summary) {
	b.Processed = append(b.Processed, file)
	b.Summaries = append(b.Summaries, s)
}

func (b *BatchResult) AddFailure(file, reason string) {
	b.Failures = append(b.Failures, Failure{File: file, Reason: reason})
}

func (b *BatchResult) AddSkip() { b.Skipped++ }

func (b *BatchResult) MarkComplete() { b.CompletedAt = time.Now() }

func (b *BatchResult) SuccessCount() int { return len(b.Processed) }
func (b *BatchResult) FailureCount() int { return len(b.Failures) }

// IsSuccess reports whether every file was either ingested or skipped as
// unchanged.
func (b *BatchResult) IsSuccess() bool {
	return len(b.Failures) == 0 && len(b.Processed)+b.Skipped == b.TotalFiles
}

// SuccessRate is the percentage of files ingested, 0 for an empty batch.
func (b *BatchResult) SuccessRate() float64 {
	if b.TotalFiles == 0 {
		return 0
	}
	return float64(len(b.Processed)) * 100 / float64(b.TotalFiles)
}

// Duration is zero until MarkComplete is called.
func (b *BatchResult) Duration() time.Duration {
	if b.CompletedAt.IsZero() {
		return 0
	}
	return b.CompletedAt.Sub(b.StartedAt)
}

func (b *BatchResult) formattedDuration() string {
	if b.CompletedAt.IsZero() {
		return "In progress..."
	}
	d := b.Duration()
	if d < time.Minute {
		return fmt.Sprintf("%.1f seconds", d.Seconds())
	}
	return fmt.Sprintf("%d minute(s) %d seconds", int(d.Minutes()), int(d.Seconds())%60)
}

func (b *BatchResult) String() string {
	return fmt.Sprintf("batch=%s total=%d ok=%d skipped=%d failed=%d pruned=%d",
		shortID(b.ID), b.TotalFiles, len(b.Processed), b.Skipped, len(b.Failures), b.Pruned)
}

func (b *BatchResult) Format() string {
	heavy := strings.Repeat("═", 51) + "\n"
	light := strings.Repeat("─", 49) + "\n"

	var sb strings.Builder
	sb.WriteString(heavy)
	sb.WriteString("   📦 BATCH PROCESSING RESULT\n")
	sb.WriteString(heavy + "\n")

	sb.WriteString("📊 STATISTICS\n")
	sb.WriteString(light)
	fmt.Fprintf(&sb, "Batch ID: %s...\n", shortID(b.ID))
	fmt.Fprintf(&sb, "Total Files: %d\n", b.TotalFiles)
	fmt.Fprintf(&sb, "Successful: %d\n", len(b.Processed))
	if b.Skipped > 0 {
		fmt.Fprintf(&sb, "Unchanged: %d\n", b.Skipped)
	}
	fmt.Fprintf(&sb, "Failed: %d\n", len(b.Failures))
	if b.Pruned > 0 {
		fmt.Fprintf(&sb, "Pruned: %d\n", b.Pruned)
	}
	fmt.Fprintf(&sb, "Success Rate: %.1f%%\n", b.SuccessRate())
	fmt.Fprintf(&sb, "Duration: %s\n\n", b.formattedDuration())

	if len(b.Processed) > 0 {
		sb.WriteString("✅ PROCESSED FILES\n")
		sb.WriteString(light)
		for _, f := range b.Processed {
			sb.WriteString("  • " + f + "\n")
		}
		sb.WriteString("\n")
	}

	if len(b.Failures) > 0 {
		sb.WriteString("❌ FAILED FILES\n")
		sb.WriteString(light)
		for _, f := range b.Failures {
			sb.WriteString("  • " + f.File + ": " + f.Reason + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(heavy)
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
