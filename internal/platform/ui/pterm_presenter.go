// internal/platform/ui/pterm_presenter.go
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"oppsync/internal/core/ports"
)

// PTermPresenter renderiza el progreso del sweep en la terminal. Implementa
// ports.Notifier, así el orchestrator lo maneja con eventos de ciclo de vida.
type PTermPresenter struct {
	mu      sync.Mutex
	w       io.Writer
	started map[string]time.Time
}

// NewPTermPresenter escribe en stdout.
func NewPTermPresenter() *PTermPresenter {
	return NewPTermPresenterTo(os.Stdout)
}

// NewPTermPresenterTo escribe en w.
func NewPTermPresenterTo(w io.Writer) *PTermPresenter {
	return &PTermPresenter{
		w:       w,
		started: make(map[string]time.Time),
	}
}

// Notify implementa ports.Notifier.
func (p *PTermPresenter) Notify(_ context.Context, event ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Type {
	case ports.EventTypeSweepStarted:
		data, _ := event.Data.(ports.SweepStartedEvent)
		p.header(data.Sources)

	case ports.EventTypeSourceStarted:
		p.started[event.Source] = event.Timestamp
		p.line(StatusRunning, event.Source, "fetching...")

	case ports.EventTypeSourceCompleted, ports.EventTypeSourceFailed:
		data, _ := event.Data.(ports.SourceEvent)
		delete(p.started, event.Source)
		r := data.Result
		detail := fmt.Sprintf("(%s) %s %d items: %s created, %s updated, %s skipped",
			formatDuration(r.FetchTime+r.ProcessTime),
			IconItems, r.Items,
			StyleSuccess.Sprint(r.Created),
			StylePrimary.Sprint(r.Updated),
			StyleWarning.Sprint(r.Skipped),
		)
		if r.Error != "" {
			detail += " " + StyleError.Sprint(r.Error)
		}
		p.line(StatusFor(r.Status), event.Source, detail)

	case ports.EventTypeSweepAborted:
		pterm.Error.WithWriter(p.w).Println("sweep stopped: source configuration is invalid")

	case ports.EventTypeSweepCompleted:
		data, _ := event.Data.(ports.SweepCompletedEvent)
		if data.Summary != nil {
			s := data.Summary
			pterm.Fprintln(p.w, pterm.Gray(SeparatorLight))
			pterm.Fprintln(p.w, fmt.Sprintf("%s %s  created %s  updated %s  skipped %s  errors %s",
				IconTime, formatDuration(s.Duration),
				StyleSuccess.Sprint(s.TotalCreated),
				StylePrimary.Sprint(s.TotalUpdated),
				StyleWarning.Sprint(s.TotalSkipped),
				StyleError.Sprint(s.TotalErrors),
			))
		}

	case ports.EventTypeLinkCheckStarted:
		pterm.Info.WithWriter(p.w).Println("checking application links")

	case ports.EventTypeLinkCheckDone:
		data, _ := event.Data.(ports.LinkCheckEvent)
		pterm.Fprintln(p.w, fmt.Sprintf("%s %d checked: %s valid, %s broken, %s skipped",
			IconLinks, data.Report.Checked,
			StyleSuccess.Sprint(data.Report.Valid),
			StyleError.Sprint(data.Report.Broken),
			StyleSecondary.Sprint(data.Report.Skipped),
		))
	}
	return nil
}

// Close implementa ports.Notifier.
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = make(map[string]time.Time)
	return nil
}

func (p *PTermPresenter) header(sources int) {
	pterm.DefaultHeader.
		WithWriter(p.w).
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("oppsync - opportunity sweep")
	pterm.Fprintln(p.w, fmt.Sprintf("%s %d sources", IconSources, sources))
	pterm.Fprintln(p.w, pterm.LightBlue(SeparatorHeavy))
}

func (p *PTermPresenter) line(status Status, name, detail string) {
	pterm.Fprintln(p.w, fmt.Sprintf("  %s %s %s", status.Symbol(), status.Style().Sprint(name), detail))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

var _ ports.Notifier = (*PTermPresenter)(nil)
