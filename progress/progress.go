package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"github.com/fyjgreatlion/usenet-miner/stats"
)

// Bar manages a progress bar for tracking message processing.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	total   int
	mu      sync.Mutex
	enabled bool
}

// New creates a new progress bar. The bar is only shown at info level and
// when not explicitly disabled.
func New(total int, logLevel string, disabled bool) *Bar {
	enabled := logLevel == "info" && !disabled && total > 0

	bar := &Bar{
		total:   total,
		enabled: enabled,
	}

	if enabled {
		pb, _ := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Scanning messages").
			Start()
		bar.pb = pb

		pterm.Info.Printf("Messages in corpus: %d\n", total)
		pterm.Println()
	}

	return bar
}

// Update advances the progress bar based on the event type.
func (b *Bar) Update(evt stats.Event) {
	if !b.enabled || b.pb == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch evt.Type {
	case stats.EventTypeScanned:
		b.pb.Increment()

		if evt.Board != "" && evt.MessageID != "" {
			title := evt.Board + "/" + evt.MessageID
			if len(title) > 40 {
				title = title[:37] + "..."
			}
			b.pb.UpdateTitle("Scanning: " + title)
		}
	case stats.EventTypeError:
		if evt.Err != nil {
			pterm.Error.Printf("Error: %v\n", evt.Err)
		}
	}
}

// Enabled reports whether the bar renders at all.
func (b *Bar) Enabled() bool {
	return b.enabled
}

// Stop finalizes the progress bar.
func (b *Bar) Stop() {
	if !b.enabled || b.pb == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pb.Current < b.total {
		b.pb.Current = b.total
	}

	b.pb.Stop()
}

// Reporter combines the progress bar with a stats collector and prints a
// final summary once the event stream drains.
type Reporter struct {
	bar       *Bar
	collector *stats.Collector
	logger    *slog.Logger
	started   time.Time
}

// NewReporter subscribes a single consumer that both advances the bar and
// feeds the summary collector. The runner's event channel hands each event
// to exactly one receiver, so the bar and the collector must not subscribe
// separately or each would see only part of the stream.
func NewReporter(stream stats.EventStream, bar *Bar, logger *slog.Logger) *Reporter {
	reporter := &Reporter{
		bar:       bar,
		collector: stats.NewCollector(),
		logger:    logger,
		started:   time.Now(),
	}
	stream.SubscribeStats("progress", reporter.consume)
	return reporter
}

// Summary returns the current stats snapshot.
func (r *Reporter) Summary() stats.Summary {
	return r.collector.Snapshot()
}

func (r *Reporter) consume(ctx context.Context, events <-chan stats.Event) error {
	for {
		select {
		case <-ctx.Done():
			if r.logger != nil {
				r.logger.Debug("progress collection stopped", "err", ctx.Err())
			}
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				r.finish()
				return nil
			}
			if r.bar != nil {
				r.bar.Update(evt)
			}
			r.collector.Apply(evt)
		}
	}
}

func (r *Reporter) finish() {
	if r.bar == nil || !r.bar.enabled {
		return
	}
	r.bar.Stop()

	summary := r.collector.Snapshot()
	pterm.Println()
	pterm.DefaultSection.Println("Corpus Statistics")
	pterm.Info.Printf("Duration: %v\n", time.Since(r.started))
	pterm.Info.Printf("Scanned: %d\n", summary.Scanned)
	pterm.Info.Printf("Excluded (known-bad ids): %d\n", summary.Excluded)
	pterm.Info.Printf("Duplicates (cross-posts): %d\n", summary.Duplicates)
	pterm.Info.Printf("Empty after cleaning: %d\n", summary.Emptied)
	pterm.Info.Printf("Aggregated: %d (%d words)\n", summary.Cleaned, summary.Words)
	pterm.Info.Printf("Errors: %d\n", summary.Errors)
	if summary.LastError != nil {
		pterm.Error.Printf("Last error: %v\n", summary.LastError)
	}
}
