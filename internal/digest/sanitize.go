package digest

import (
	"regexp"
	"strings"
)

// Models sometimes prepend or inline meta-disclaimers ("Note: as an AI
// I cannot...", "[Note: based on provided articles]") that have no
// place in a delivered email.
var (
	inlineNoteRe    = regexp.MustCompile(`(?i)\((note|disclaimer):[^)]*\)`)
	bracketedNoteRe = regexp.MustCompile(`(?i)\[(note|disclaimer):[^\]]*\]`)
	fullLineNoteRe  = regexp.MustCompile(`(?i)^\s*(note|disclaimer)\s*:`)
)

// Sanitize strips model disclaimers while preserving the surrounding
// content.
func Sanitize(text string) string {
	text = inlineNoteRe.ReplaceAllString(text, "")
	text = bracketedNoteRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if fullLineNoteRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}

	out := strings.Join(kept, "\n")
	// Collapse the blank runs left behind by removals.
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}
