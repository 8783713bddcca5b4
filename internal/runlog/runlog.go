// Package runlog keeps a small plain-text history of delivery attempts,
// one line per run, bounded to the most recent entries.
package runlog

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const maxEntries = 30

// Append records one run outcome in the log file, trimming the file to
// the newest maxEntries lines. The log is best-effort history; errors
// are returned but callers treat them as non-fatal.
func Append(path, status, subject string) error {
	line := fmt.Sprintf("%s | %s | %s", time.Now().Format("2006-01-02 15:04:05"), status, subject)

	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		for _, l := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			if l != "" {
				lines = append(lines, l)
			}
		}
	}

	lines = append(lines, line)
	if len(lines) > maxEntries {
		lines = lines[len(lines)-maxEntries:]
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write run log %s: %w", path, err)
	}
	return nil
}
