package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Stage string

const (
	StageNews   Stage = "news"
	StageClean  Stage = "clean"
	StageCorpus Stage = "corpus"
)

type EventType string

const (
	EventTypeScanned   EventType = "scanned"
	EventTypeExcluded  EventType = "excluded"
	EventTypeDuplicate EventType = "duplicate"
	EventTypeEmptied   EventType = "emptied"
	EventTypeCleaned   EventType = "cleaned"
	EventTypeError     EventType = "error"
)

type Event struct {
	Stage     Stage
	Type      EventType
	Board     string
	MessageID string
	Words     int
	Err       error
}

type Summary struct {
	Scanned    int
	Excluded   int
	Duplicates int
	Emptied    int
	Cleaned    int
	Words      int
	Errors     int
	LastError  error
}

func (s Summary) LogAttrs() []any {
	attrs := []any{
		"scanned", s.Scanned,
		"excluded", s.Excluded,
		"duplicates", s.Duplicates,
		"emptied", s.Emptied,
		"cleaned", s.Cleaned,
		"words", s.Words,
		"errors", s.Errors,
	}
	if s.LastError != nil {
		attrs = append(attrs, "lastError", s.LastError.Error())
	}
	return attrs
}

type Collector struct {
	mu      sync.Mutex
	summary Summary
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			c.Apply(evt)
		}
	}
}

func (c *Collector) Snapshot() Summary {
	c.mu.Lock()
	summary := c.summary
	c.mu.Unlock()
	return summary
}

// Apply folds one event into the summary.
func (c *Collector) Apply(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch evt.Type {
	case EventTypeScanned:
		c.summary.Scanned++
	case EventTypeExcluded:
		c.summary.Excluded++
	case EventTypeDuplicate:
		c.summary.Duplicates++
	case EventTypeEmptied:
		c.summary.Emptied++
	case EventTypeCleaned:
		c.summary.Cleaned++
		c.summary.Words += evt.Words
	case EventTypeError:
		c.summary.Errors++
		if evt.Err != nil {
			c.summary.LastError = evt.Err
		}
	}
}

type EventStream interface {
	SubscribeStats(name string, fn func(context.Context, <-chan Event) error)
}

// Reporter consumes the event stream and logs a final summary once the
// pipeline drains.
type Reporter struct {
	collector *Collector
	logger    *slog.Logger
	started   time.Time
}

func NewReporter(stream EventStream, logger *slog.Logger) *Reporter {
	reporter := &Reporter{
		collector: NewCollector(),
		logger:    logger,
		started:   time.Now(),
	}
	stream.SubscribeStats("stats-reporter", reporter.consume)
	return reporter
}

func (r *Reporter) consume(ctx context.Context, events <-chan Event) error {
	r.collector.Run(ctx, events)
	summary := r.collector.Snapshot()
	attrs := append(summary.LogAttrs(), "duration", time.Since(r.started))
	if ctx.Err() != nil {
		if r.logger != nil {
			r.logger.Debug("stats collection stopped", append(attrs, "err", ctx.Err())...)
		}
		return ctx.Err()
	}
	if r.logger != nil {
		r.logger.Info("stats summary", attrs...)
	}
	return nil
}

func (r *Reporter) Summary() Summary {
	return r.collector.Snapshot()
}
