package mail

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aidigest/internal/render"
)

func sampleEmail() *render.Email {
	return &render.Email{
		Subject:   "AI eats the editing bay - Jun 10, 2025",
		PlainBody: "TOP INSIGHT\nVideo generation crossed a threshold.\n",
		HTMLBody:  "<html><body><p>Video generation crossed a threshold.</p></body></html>",
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("bot@example.com", "reader@example.com", sampleEmail()))

	for _, want := range []string{
		"From: bot@example.com\r\n",
		"To: reader@example.com\r\n",
		"MIME-Version: 1.0\r\n",
		"multipart/alternative",
		"Content-Type: text/plain",
		"Content-Type: text/html",
		"Video generation crossed a threshold.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if !strings.Contains(msg, "Subject: ") {
		t.Error("message missing subject header")
	}
	// The HTML part must come after the plain part so clients prefer it.
	if strings.Index(msg, "text/plain") > strings.Index(msg, "text/html") {
		t.Error("plain part should precede html part")
	}
}

func TestDryRunWritesPreviewFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewSender(Options{
		To:        "reader@example.com",
		DryRun:    true,
		OutputDir: dir,
	})

	if err := s.Send(sampleEmail()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var txt, html string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".txt":
			txt = filepath.Join(dir, e.Name())
		case ".html":
			html = filepath.Join(dir, e.Name())
		}
	}
	if txt == "" || html == "" {
		t.Fatalf("expected .txt and .html previews, got %v", entries)
	}

	body, err := os.ReadFile(txt)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "Subject: AI eats the editing bay") {
		t.Errorf("preview missing subject: %q", body)
	}
	if !strings.Contains(string(body), "TOP INSIGHT") {
		t.Errorf("preview missing body: %q", body)
	}
}
