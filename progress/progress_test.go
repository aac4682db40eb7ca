package progress

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/fyjgreatlion/usenet-miner/stats"
)

type fakeStream struct {
	subs []func(context.Context, <-chan stats.Event) error
}

func (f *fakeStream) SubscribeStats(name string, fn func(context.Context, <-chan stats.Event) error) {
	f.subs = append(f.subs, fn)
}

// The event channel delivers each event to exactly one receiver. Every
// subscriber the reporter registers competes for the same stream, so the
// summary is only complete when a single consumer sees all events.
func TestReporter_SingleSubscriberSeesAllEvents(t *testing.T) {
	stream := &fakeStream{}
	bar := New(100, "info", true)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reporter := NewReporter(stream, bar, logger)

	if len(stream.subs) != 1 {
		t.Fatalf("registered %d subscribers, want 1", len(stream.subs))
	}

	events := make(chan stats.Event)
	var wg sync.WaitGroup
	for _, fn := range stream.subs {
		wg.Add(1)
		go func(fn func(context.Context, <-chan stats.Event) error) {
			defer wg.Done()
			_ = fn(context.Background(), events)
		}(fn)
	}

	for i := 0; i < 100; i++ {
		events <- stats.Event{Stage: stats.StageNews, Type: stats.EventTypeScanned, Board: "sci.space"}
	}
	close(events)
	wg.Wait()

	if got := reporter.Summary().Scanned; got != 100 {
		t.Errorf("Summary().Scanned = %d, want 100", got)
	}
}

func TestReporter_SummaryAggregatesEventTypes(t *testing.T) {
	stream := &fakeStream{}
	bar := New(10, "info", true)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reporter := NewReporter(stream, bar, logger)

	events := make(chan stats.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = stream.subs[0](context.Background(), events)
	}()

	events <- stats.Event{Stage: stats.StageNews, Type: stats.EventTypeScanned}
	events <- stats.Event{Stage: stats.StageClean, Type: stats.EventTypeExcluded, MessageID: "9704"}
	events <- stats.Event{Stage: stats.StageClean, Type: stats.EventTypeDuplicate}
	events <- stats.Event{Stage: stats.StageClean, Type: stats.EventTypeEmptied}
	events <- stats.Event{Stage: stats.StageCorpus, Type: stats.EventTypeCleaned, Words: 42}
	close(events)
	<-done

	summary := reporter.Summary()
	if summary.Scanned != 1 || summary.Excluded != 1 || summary.Duplicates != 1 || summary.Emptied != 1 {
		t.Errorf("summary counts = %+v, want one of each", summary)
	}
	if summary.Cleaned != 1 || summary.Words != 42 {
		t.Errorf("Cleaned = %d, Words = %d, want 1 and 42", summary.Cleaned, summary.Words)
	}
}

func TestBar_DisabledNeverRenders(t *testing.T) {
	cases := []struct {
		name     string
		total    int
		logLevel string
		disabled bool
	}{
		{"flag off", 10, "info", true},
		{"debug level", 10, "debug", false},
		{"empty corpus", 0, "info", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bar := New(tc.total, tc.logLevel, tc.disabled)
			if bar.Enabled() {
				t.Errorf("New(%d, %q, %v).Enabled() = true, want false", tc.total, tc.logLevel, tc.disabled)
			}
			bar.Update(stats.Event{Type: stats.EventTypeScanned})
			bar.Stop()
		})
	}
}
