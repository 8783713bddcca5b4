// Package digest owns the synthesizer boundary: it builds the analysis
// prompt from the selected articles' metadata, and parses the model's
// sectioned response into a structured digest. The prompt forbids the
// model from asserting anything beyond the supplied metadata, and a
// response missing its required sections is a fatal error for the run.
package digest

import (
	"fmt"
	"strings"
	"time"

	"aidigest/internal/article"
)

// Digest is the structured output of one synthesis call.
type Digest struct {
	Subject    string
	TopInsight string
	Themes     []string
	Stories    []string // one rendered analysis block per story
	BottomLine string
	Raw        string
}

const systemInstruction = "You are an insightful, engaging analyst who writes for " +
	"innovation leaders in the media and entertainment industry. You connect dots, " +
	"spot trends, and provide opinionated analysis grounded strictly in the material " +
	"you are given."

// SystemInstruction is the fixed system prompt sent with every
// synthesis request.
func SystemInstruction() string {
	return systemInstruction
}

// BuildPrompt assembles the synthesis prompt. Per article it includes
// title, source, link, publish time, and summary text. Scoring
// internals never leak across the boundary.
func BuildPrompt(articles []article.Article, now time.Time) string {
	var b strings.Builder

	b.WriteString(`You are writing a daily digest for an innovation team leader in the
media/entertainment industry who tracks AI developments and media industry moves.

YOUR MISSION:
1. Cover the latest AI developments (models, tools, research, companies)
2. Highlight media/streaming industry innovations and competitive moves
3. Connect AI trends to media/entertainment applications
4. Identify innovation opportunities for media companies

WRITING STYLE:
- Be opinionated and analytical; say why something is a big deal
- Highlight what's genuinely new vs. incremental
- Use engaging, conversational language, not corporate speak

FORMAT YOUR OUTPUT EXACTLY AS:

Subject: [engaging subject line capturing the day's biggest theme, max 10 words]

=== TOP INSIGHT ===
[2-3 sentences: the most important pattern or trend today]

=== KEY THEMES TODAY ===
- [Theme 1]: brief insight
- [Theme 2]: brief insight
- [Theme 3]: brief insight

=== DETAILED STORIES ===

## 1. [Engaging title]
**Source**: [source name] | **Link**: [URL]

[2-3 paragraphs: what happened, why it matters, what's interesting]

---

[repeat for each story]

=== BOTTOM LINE ===
[2-3 sentences: what all this means, what to think about next]

`)
	fmt.Fprintf(&b, "Today is %s.\n\nHERE ARE TODAY'S ARTICLES (sorted by relevance):\n", now.Format("2006-01-02"))

	for i, a := range articles {
		published := "unknown"
		if a.HasPublished() {
			published = a.Published.Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "\n[%d] Title: %s\nSource: %s\nPublished: %s\nURL: %s\nDescription: %s\n",
			i+1, a.Title, a.Source, published, a.Link, a.Summary)
	}

	b.WriteString(`
IMPORTANT:
- Only use information provided above. Do not assert any fact that is not
  present in the titles and descriptions: no fabrication, no outside knowledge.
- Connect stories and identify patterns.
- Make it worth the reader's time.

Write the digest now:`)

	return b.String()
}

// Parse splits the model response into the digest sections. Insight,
// themes, and stories are all required; their absence means the model
// ignored the format and the output cannot be trusted.
func Parse(response string) (*Digest, error) {
	response = Sanitize(response)
	d := &Digest{Raw: response, Subject: "Daily AI & Media Digest"}

	lines := strings.Split(response, "\n")
	section := ""
	var insight, bottom []string
	var stories []string
	var story []string

	flushStory := func() {
		if text := strings.TrimSpace(strings.Join(story, "\n")); text != "" {
			stories = append(stories, text)
		}
		story = story[:0]
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(strings.ToLower(line), "subject:"):
			if s := strings.TrimSpace(line[len("subject:"):]); s != "" {
				d.Subject = s
			}
			continue
		case sectionIs(line, "TOP INSIGHT"):
			section = "insight"
			continue
		case sectionIs(line, "KEY THEMES"):
			section = "themes"
			continue
		case sectionIs(line, "DETAILED STORIES"):
			section = "stories"
			continue
		case sectionIs(line, "BOTTOM LINE"):
			flushStory()
			section = "bottom"
			continue
		}

		switch section {
		case "insight":
			if line != "" {
				insight = append(insight, line)
			}
		case "themes":
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
				theme := strings.TrimSpace(strings.TrimLeft(line, "-•* "))
				if theme != "" {
					d.Themes = append(d.Themes, theme)
				}
			}
		case "stories":
			if strings.HasPrefix(line, "## ") {
				flushStory()
			}
			if line == "---" {
				flushStory()
				continue
			}
			story = append(story, raw)
		case "bottom":
			if line != "" {
				bottom = append(bottom, line)
			}
		}
	}
	flushStory()

	d.TopInsight = strings.Join(insight, " ")
	d.Stories = stories
	d.BottomLine = strings.Join(bottom, " ")

	if d.TopInsight == "" {
		return nil, fmt.Errorf("digest response missing TOP INSIGHT section")
	}
	if len(d.Themes) == 0 {
		return nil, fmt.Errorf("digest response missing KEY THEMES section")
	}
	if len(d.Stories) == 0 {
		return nil, fmt.Errorf("digest response missing DETAILED STORIES section")
	}

	return d, nil
}

// sectionIs matches a "=== NAME ===" header line, tolerating varying
// amounts of decoration around the name.
func sectionIs(line, name string) bool {
	if !strings.Contains(strings.ToUpper(line), name) {
		return false
	}
	trimmed := strings.Trim(line, "=# ")
	return strings.EqualFold(trimmed, name) ||
		strings.EqualFold(trimmed, name+" TODAY") ||
		strings.HasPrefix(strings.ToUpper(trimmed), name)
}
