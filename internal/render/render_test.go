package render

import (
	"strings"
	"testing"
	"time"

	"aidigest/internal/digest"
)

func sampleDigest() *digest.Digest {
	return &digest.Digest{
		Subject:    "AI eats the editing bay",
		TopInsight: "Video generation crossed a quality threshold. Studios are budgeting for it.",
		Themes: []string{
			"Generative video: production-ready tools shipping",
			"Consolidation: two mid-size labs acquired",
			"Streaming economics: churn pressure",
			"Hardware: inference costs falling",
		},
		Stories: []string{
			"## 1. Runway ships editing suite\n**Source**: The Verge | **Link**: https://example.com/runway\n\nThe new suite targets trailer houses directly.",
			"## 2. Netflix personalization patent\n**Source**: Variety | **Link**: https://example.com/netflix\n\nA patent filing hints at per-viewer trailers.",
		},
		BottomLine: "Production pipelines are the next battleground.",
	}
}

func TestRenderBodies(t *testing.T) {
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)
	email, err := Render(sampleDigest(), now, Options{QuickScan: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if email.Subject != "AI eats the editing bay - Jun 10, 2025" {
		t.Errorf("Subject = %q", email.Subject)
	}

	for _, want := range []string{
		"TOP INSIGHT",
		"Video generation crossed a quality threshold.",
		"Generative video: production-ready tools shipping",
		"RUNWAY SHIPS EDITING SUITE",
		"BOTTOM LINE",
	} {
		if !strings.Contains(email.PlainBody, want) {
			t.Errorf("plain body missing %q", want)
		}
	}

	for _, want := range []string{
		"<h3>Runway ships editing suite</h3>",
		"<strong>Source</strong>",
		"Production pipelines are the next battleground.",
		"Jun 10, 2025",
	} {
		if !strings.Contains(email.HTMLBody, want) {
			t.Errorf("html body missing %q", want)
		}
	}
}

func TestRenderQuickScanCaps(t *testing.T) {
	d := sampleDigest()
	qs := buildQuickScan(d)

	if qs.TLDR != "Video generation crossed a quality threshold." {
		t.Errorf("TLDR = %q", qs.TLDR)
	}
	if len(qs.Themes) != quickScanThemes {
		t.Errorf("got %d quick-scan themes, want %d", len(qs.Themes), quickScanThemes)
	}
	wantHeadlines := []string{"Runway ships editing suite", "Netflix personalization patent"}
	if len(qs.Headlines) != len(wantHeadlines) {
		t.Fatalf("got %d headlines, want %d", len(qs.Headlines), len(wantHeadlines))
	}
	for i, h := range wantHeadlines {
		if qs.Headlines[i] != h {
			t.Errorf("Headlines[%d] = %q, want %q", i, qs.Headlines[i], h)
		}
	}
}

func TestRenderQuickScanDisabled(t *testing.T) {
	email, err := Render(sampleDigest(), time.Now(), Options{QuickScan: false})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(email.PlainBody, "QUICK SCAN") {
		t.Error("quick scan present in plain body despite being disabled")
	}
	if strings.Contains(email.HTMLBody, "Quick Scan") {
		t.Error("quick scan present in html body despite being disabled")
	}
}

func TestStoryHTMLEscapes(t *testing.T) {
	html := string(storyHTML("## 1. Title <script>\n\nBody with <tags> & ampersands."))
	if strings.Contains(html, "<script>") {
		t.Error("heading not escaped")
	}
	if !strings.Contains(html, "&lt;tags&gt;") {
		t.Errorf("body not escaped: %q", html)
	}
}

func TestInlineHTMLBold(t *testing.T) {
	got := inlineHTML("**Source**: The Verge")
	if got != "<strong>Source</strong>: The Verge" {
		t.Errorf("inlineHTML = %q", got)
	}
}
