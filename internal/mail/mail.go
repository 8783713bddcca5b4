// Package mail delivers the rendered digest over SMTP as a
// multipart/alternative message, or writes preview files instead when
// running dry.
package mail

import (
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aidigest/internal/render"
)

// Sender delivers one rendered email per run.
type Sender struct {
	host     string
	port     int
	password string
	from     string
	to       string

	dryRun    bool
	outputDir string
}

type Options struct {
	Host      string
	Port      int
	Password  string
	From      string
	To        string
	DryRun    bool
	OutputDir string
}

func NewSender(opts Options) *Sender {
	return &Sender{
		host:      opts.Host,
		port:      opts.Port,
		password:  opts.Password,
		from:      opts.From,
		to:        opts.To,
		dryRun:    opts.DryRun,
		outputDir: opts.OutputDir,
	}
}

// Send delivers the email, or writes it to disk in dry-run mode.
func (s *Sender) Send(email *render.Email) error {
	if s.dryRun {
		return s.writePreview(email)
	}

	msg := BuildMessage(s.from, s.to, email)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.from, []string{s.to}, msg); err != nil {
		return fmt.Errorf("smtp send via %s: %w", addr, err)
	}
	slog.Info("email sent", "to", s.to, "subject", email.Subject)
	return nil
}

// writePreview drops the would-be email into the output directory so a
// dry run is inspectable.
func (s *Sender) writePreview(email *render.Email) error {
	stamp := time.Now().Format("20060102_150405")

	txtPath := filepath.Join(s.outputDir, fmt.Sprintf("digest_%s.txt", stamp))
	txt := fmt.Sprintf("Subject: %s\nTo: %s\n\n%s", email.Subject, s.to, email.PlainBody)
	if err := os.WriteFile(txtPath, []byte(txt), 0o644); err != nil {
		return fmt.Errorf("write dry-run preview: %w", err)
	}

	htmlPath := filepath.Join(s.outputDir, fmt.Sprintf("digest_%s.html", stamp))
	if err := os.WriteFile(htmlPath, []byte(email.HTMLBody), 0o644); err != nil {
		return fmt.Errorf("write dry-run preview: %w", err)
	}

	slog.Info("dry run, email written to disk", "txt", txtPath, "html", htmlPath)
	return nil
}

// BuildMessage assembles the raw RFC 5322 message with plain-text and
// HTML alternatives.
func BuildMessage(from, to string, email *render.Email) []byte {
	const boundary = "digest-boundary-7f3a9c"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(email.PlainBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(email.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
