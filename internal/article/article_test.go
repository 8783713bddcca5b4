package article

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValid(t *testing.T) {
	a := Article{Title: "OpenAI ships a new model", Link: "https://example.com/a"}
	if err := a.Valid(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := (Article{Link: "https://example.com/a"}).Valid(); err == nil {
		t.Error("expected error for empty title")
	}
	if err := (Article{Title: "no link"}).Valid(); err == nil {
		t.Error("expected error for empty link")
	}
}

func TestNormalizeLink(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://Example.com/Story/", "https://example.com/story"},
		{"https://example.com/story?utm_source=rss&id=3", "https://example.com/story"},
		{"https://example.com/story#section", "https://example.com/story"},
		{"  https://example.com/story  ", "https://example.com/story"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeLink(c.in); got != c.want {
			t.Errorf("NormalizeLink(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTitleTokens(t *testing.T) {
	got := TitleTokens("The Rise of the AI-Powered Newsroom: What It Means", 5)
	want := []string{"rise", "powered", "newsroom", "what", "means"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TitleTokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTitleTokensStopWordsOnly(t *testing.T) {
	got := TitleTokens("It Is On", 5)
	if len(got) == 0 {
		t.Error("expected fallback tokens for stop-word-only title")
	}
}

func TestTitleTokensLimit(t *testing.T) {
	got := TitleTokens("netflix disney spotify youtube amazon apple google", 5)
	if len(got) != 5 {
		t.Errorf("expected 5 tokens, got %d: %v", len(got), got)
	}
}
