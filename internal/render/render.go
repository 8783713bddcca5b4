// Package render turns a parsed digest into the delivery bodies: a
// plain-text version and an HTML version of the same content.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"aidigest/internal/digest"
)

//go:embed template.html
var htmlTemplate string

const (
	quickScanThemes  = 3
	quickScanStories = 5
)

// Email is the rendered pair of bodies sharing one subject.
type Email struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Options controls optional sections of the rendered output.
type Options struct {
	QuickScan bool
}

type templateData struct {
	Date       string
	TopInsight string
	Themes     []string
	Stories    []template.HTML
	BottomLine string
	QuickScan  *quickScan
}

type quickScan struct {
	TLDR       string
	Themes     []string
	Headlines  []string
	StoryCount int
}

// Render produces both bodies for the digest. The subject line gets the
// run date appended so consecutive days never collide in a mailbox.
func Render(d *digest.Digest, now time.Time, opts Options) (*Email, error) {
	date := now.Format("Jan 2, 2006")

	var qs *quickScan
	if opts.QuickScan {
		qs = buildQuickScan(d)
	}

	data := templateData{
		Date:       date,
		TopInsight: d.TopInsight,
		Themes:     d.Themes,
		BottomLine: d.BottomLine,
		QuickScan:  qs,
	}
	for _, s := range d.Stories {
		data.Stories = append(data.Stories, storyHTML(s))
	}

	tmpl, err := template.New("digest").Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse digest template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render digest html: %w", err)
	}

	return &Email{
		Subject:   fmt.Sprintf("%s - %s", d.Subject, date),
		PlainBody: renderPlain(d, date, qs),
		HTMLBody:  buf.String(),
	}, nil
}

func renderPlain(d *digest.Digest, date string, qs *quickScan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "DAILY AI & MEDIA DIGEST\n%s\n\n", date)

	if qs != nil {
		b.WriteString("QUICK SCAN\n")
		fmt.Fprintf(&b, "TL;DR: %s\n", qs.TLDR)
		for _, t := range qs.Themes {
			fmt.Fprintf(&b, "  * %s\n", t)
		}
		for _, h := range qs.Headlines {
			fmt.Fprintf(&b, "  - %s\n", h)
		}
		b.WriteString("\n")
	}

	b.WriteString("TOP INSIGHT\n")
	b.WriteString(d.TopInsight)
	b.WriteString("\n\nKEY THEMES TODAY\n")
	for _, t := range d.Themes {
		fmt.Fprintf(&b, "  - %s\n", t)
	}

	b.WriteString("\nDETAILED STORIES\n")
	for i, s := range d.Stories {
		if i > 0 {
			b.WriteString("\n----------------------------------------\n\n")
		}
		b.WriteString(plainStory(s))
		b.WriteString("\n")
	}

	if d.BottomLine != "" {
		b.WriteString("\nBOTTOM LINE\n")
		b.WriteString(d.BottomLine)
		b.WriteString("\n")
	}

	return b.String()
}

// buildQuickScan condenses the digest into a phone-screen summary: the
// first sentence of the insight, the leading themes, and the story
// headlines.
func buildQuickScan(d *digest.Digest) *quickScan {
	qs := &quickScan{
		TLDR:       firstSentence(d.TopInsight),
		StoryCount: len(d.Stories),
	}
	for i, t := range d.Themes {
		if i == quickScanThemes {
			break
		}
		qs.Themes = append(qs.Themes, t)
	}
	for i, s := range d.Stories {
		if i == quickScanStories {
			break
		}
		if title := storyTitle(s); title != "" {
			qs.Headlines = append(qs.Headlines, title)
		}
	}
	return qs
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			return text[:i+1]
		}
	}
	return text
}

// storyTitle pulls the headline out of a story block, which starts with
// a markdown heading like "## 1. Some title".
func storyTitle(story string) string {
	for _, line := range strings.Split(story, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "## "); ok {
			return strings.TrimSpace(stripOrdinal(rest))
		}
	}
	return ""
}

// stripOrdinal removes a leading "1. " style numbering.
func stripOrdinal(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && s[i] == '.' {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

func plainStory(story string) string {
	var lines []string
	for _, line := range strings.Split(story, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "## "); ok {
			lines = append(lines, strings.ToUpper(stripOrdinal(rest)))
			continue
		}
		lines = append(lines, strings.ReplaceAll(trimmed, "**", ""))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// storyHTML converts a markdown-ish story block to HTML. Only the small
// subset the synthesis format produces is handled: "## " headings,
// "**bold**" runs, and paragraphs split on blank lines.
func storyHTML(story string) template.HTML {
	var b strings.Builder
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		b.WriteString("<p>")
		b.WriteString(inlineHTML(strings.Join(para, " ")))
		b.WriteString("</p>\n")
		para = para[:0]
	}

	for _, line := range strings.Split(story, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "## "); ok {
			flush()
			b.WriteString("<h3>")
			b.WriteString(template.HTMLEscapeString(strings.TrimSpace(stripOrdinal(rest))))
			b.WriteString("</h3>\n")
			continue
		}
		para = append(para, trimmed)
	}
	flush()

	return template.HTML(b.String())
}

func inlineHTML(text string) string {
	escaped := template.HTMLEscapeString(text)
	var b strings.Builder
	bold := false
	for {
		i := strings.Index(escaped, "**")
		if i < 0 {
			b.WriteString(escaped)
			break
		}
		b.WriteString(escaped[:i])
		if bold {
			b.WriteString("</strong>")
		} else {
			b.WriteString("<strong>")
		}
		bold = !bold
		escaped = escaped[i+2:]
	}
	if bold {
		b.WriteString("</strong>")
	}
	return b.String()
}
