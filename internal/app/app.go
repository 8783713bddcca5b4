// Package app wires the pipeline stages together and runs them once:
// collect, score, select, synthesize, render, deliver.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aidigest/internal/article"
	"aidigest/internal/config"
	"aidigest/internal/digest"
	"aidigest/internal/fetch"
	"aidigest/internal/llm"
	"aidigest/internal/mail"
	"aidigest/internal/metrics"
	"aidigest/internal/rank"
	"aidigest/internal/render"
	"aidigest/internal/retry"
	"aidigest/internal/runlog"
)

// Sentinel failure classes. The process exit code is derived from
// which of these the run error wraps.
var (
	ErrConfig    = errors.New("configuration error")
	ErrSynthesis = errors.New("synthesis error")
	ErrDelivery  = errors.New("delivery error")
)

type App struct {
	cfg     *config.Config
	metrics *metrics.Metrics
}

func New(cfg *config.Config) *App {
	return &App{cfg: cfg, metrics: metrics.Global}
}

// Run executes one digest cycle. An empty selection is a clean no-op
// run, not an error. Source-level fetch failures are recovered inside
// the collector; everything past selection is fatal to the run.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()

	pool := fetch.NewCollector(a.cfg, a.metrics).Collect(ctx)
	slog.Info("fetch complete", "pool", len(pool))

	now := time.Now()
	rank.ScoreAll(pool, a.cfg.Scoring, now)
	selected := rank.Select(pool, a.cfg.Limits())
	a.metrics.RecordSelection(len(pool), len(selected))
	slog.Info("selection complete", "selected", len(selected), "pool", len(pool))

	if len(selected) == 0 {
		slog.Info("no articles above threshold, skipping digest")
		a.metrics.SetLastRun(time.Since(start))
		return nil
	}

	d, err := a.synthesize(ctx, selected, now)
	if err != nil {
		a.metrics.SetError(err.Error())
		return fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	email, err := render.Render(d, now, render.Options{QuickScan: a.cfg.EnableQuickScan})
	if err != nil {
		a.metrics.SetError(err.Error())
		return fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	if err := a.deliver(ctx, email); err != nil {
		a.metrics.SetError(err.Error())
		a.logRun("FAILED", email.Subject)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	status := "SENT"
	if a.cfg.DryRun {
		status = "DRY_RUN"
	} else {
		a.metrics.IncrementEmailsSent()
	}
	a.logRun(status, email.Subject)

	a.metrics.SetLastRun(time.Since(start))
	slog.Info("run complete", "status", status, "duration", time.Since(start))
	return nil
}

func (a *App) synthesize(ctx context.Context, selected []article.Article, now time.Time) (*digest.Digest, error) {
	client, err := llm.New(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	prompt := digest.BuildPrompt(selected, now)
	a.metrics.IncrementLLMRequests()

	response, err := client.Complete(ctx, digest.SystemInstruction(), prompt)
	if err != nil {
		return nil, err
	}
	return digest.Parse(response)
}

func (a *App) deliver(ctx context.Context, email *render.Email) error {
	sender := mail.NewSender(mail.Options{
		Host:      a.cfg.SMTPHost,
		Port:      a.cfg.SMTPPort,
		Password:  a.cfg.SMTPPassword,
		From:      a.cfg.FromEmail,
		To:        a.cfg.ToEmail,
		DryRun:    a.cfg.DryRun,
		OutputDir: a.cfg.OutputDir,
	})

	return retry.Do(ctx, retry.Config{
		MaxAttempts: a.cfg.RetryAttempts,
		Delay:       a.cfg.RetryDelay,
		Backoff:     true,
	}, func() error {
		return sender.Send(email)
	})
}

func (a *App) logRun(status, subject string) {
	if err := runlog.Append(a.cfg.RunLogPath, status, subject); err != nil {
		slog.Warn("run log append failed", "error", err)
	}
}

// ExitCode maps a run error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfig):
		return 2
	case errors.Is(err, ErrSynthesis):
		return 3
	case errors.Is(err, ErrDelivery):
		return 4
	default:
		return 1
	}
}
