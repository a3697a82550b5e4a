// Package utils holds small helpers shared by the language model client and
// logging.
package utils

import (
	"context"
	"strings"
	"time"
)

// WaitFor pauses between retries. It returns early with the context error
// when ctx is done first.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TruncateForLog turns s into a single-line preview of at most limit
// characters. Runs of whitespace collapse into one space and an ellipsis
// marks a cut.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
