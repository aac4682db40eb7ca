package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fyjgreatlion/usenet-miner/clean"
	"github.com/fyjgreatlion/usenet-miner/config"
	"github.com/fyjgreatlion/usenet-miner/dedup"
	"github.com/fyjgreatlion/usenet-miner/model"
	"github.com/fyjgreatlion/usenet-miner/stats"
)

var ErrMessageIDMissing = errors.New("message missing id")

type StageFunc func(context.Context) error

// Runner wires the pipeline stages together: a producer feeds raw message
// envelopes in, the bridge cleans and deduplicates them, and a downstream
// consumer aggregates the surviving bodies. Stats subscribers observe the
// event stream on the side.
type Runner struct {
	cfg    config.Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	messages chan model.Envelope
	cleaned  chan model.Message
	events   chan stats.Event

	cleaner *clean.Cleaner
	tracker *dedup.Tracker

	workWG  sync.WaitGroup
	statsWG sync.WaitGroup

	errMu sync.Mutex
	err   error

	closeMessagesOnce sync.Once
	closeCleanedOnce  sync.Once
	closeEventsOnce   sync.Once
	since             time.Time
}

func New(cfg config.Config, logger *slog.Logger) (*Runner, error) {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		cfg:      cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		messages: make(chan model.Envelope, 32),
		cleaned:  make(chan model.Message, 32),
		events:   make(chan stats.Event, 128),
		cleaner:  clean.New(clean.Options{ExcludeIDs: excludeIDs(cfg)}),
		tracker:  dedup.NewTracker(),
	}

	r.AddStage("bridge", r.bridge)
	return r, nil
}

func excludeIDs(cfg config.Config) []string {
	if len(cfg.ExcludeIDs) == 0 {
		return nil
	}
	return cfg.ExcludeIDs
}

func (r *Runner) Config() config.Config {
	return r.cfg
}

func (r *Runner) Logger() *slog.Logger {
	return r.logger
}

func (r *Runner) Context() context.Context {
	return r.ctx
}

func (r *Runner) MessageWriter() chan<- model.Envelope {
	return r.messages
}

func (r *Runner) CloseMessages() {
	r.closeMessagesOnce.Do(func() {
		close(r.messages)
	})
}

func (r *Runner) Cleaned() <-chan model.Message {
	return r.cleaned
}

func (r *Runner) EmitEvent(evt stats.Event) {
	select {
	case <-r.ctx.Done():
	case r.events <- evt:
	}
}

func (r *Runner) SubscribeStats(name string, fn func(context.Context, <-chan stats.Event) error) {
	r.statsWG.Add(1)
	go func() {
		defer r.statsWG.Done()
		if err := fn(r.ctx, r.events); err != nil && !errors.Is(err, context.Canceled) {
			r.fail(fmt.Errorf("%s stats: %w", name, err))
		}
	}()
}

func (r *Runner) AddStage(name string, fn StageFunc) {
	r.workWG.Add(1)
	go func() {
		defer r.workWG.Done()
		if err := fn(r.ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.fail(fmt.Errorf("%s stage: %w", name, err))
		}
	}()
}

func (r *Runner) Start() error {
	r.since = time.Now()

	r.workWG.Wait()
	r.closeEvents()
	r.statsWG.Wait()

	r.cancel()

	err := r.err
	duration := time.Since(r.since)
	if err != nil {
		r.logger.Error("pipeline failed", "duration", duration, "err", err)
		return err
	}

	r.logger.Info("pipeline completed", "duration", duration)
	return nil
}

// bridge turns raw envelopes into cleaned messages: it drops excluded ids,
// cross-post duplicates and messages whose cleaned body is empty, counting
// each outcome. Unreadable messages are counted and skipped rather than
// failing the run; the cleaning step is best effort by design of the
// heuristics it applies.
func (r *Runner) bridge(ctx context.Context) error {
	defer r.closeCleaned()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case envelope, ok := <-r.messages:
			if !ok {
				return nil
			}

			if envelope.Err != nil {
				r.EmitEvent(stats.Event{Stage: stats.StageNews, Type: stats.EventTypeError, Err: envelope.Err})
				if r.logger != nil {
					r.logger.Warn("skipping unreadable message", "err", envelope.Err)
				}
				continue
			}

			msg := envelope.Message
			r.EmitEvent(stats.Event{Stage: stats.StageNews, Type: stats.EventTypeScanned, Board: msg.Board, MessageID: msg.ID})

			if msg.ID == "" {
				r.EmitEvent(stats.Event{Stage: stats.StageNews, Type: stats.EventTypeError, Err: ErrMessageIDMissing})
				continue
			}

			if r.cleaner.Excluded(msg.ID) {
				r.EmitEvent(stats.Event{Stage: stats.StageClean, Type: stats.EventTypeExcluded, Board: msg.Board, MessageID: msg.ID})
				continue
			}

			if msg.Hash != "" && r.tracker.Seen(msg.Hash) {
				r.EmitEvent(stats.Event{Stage: stats.StageClean, Type: stats.EventTypeDuplicate, Board: msg.Board, MessageID: msg.ID})
				continue
			}
			r.tracker.Mark(msg.Hash, msg.ID)

			body := r.cleaner.Body(msg.ID, msg.Lines)
			if len(body) == 0 {
				r.EmitEvent(stats.Event{Stage: stats.StageClean, Type: stats.EventTypeEmptied, Board: msg.Board, MessageID: msg.ID})
				continue
			}
			msg.Lines = body

			select {
			case <-ctx.Done():
				return ctx.Err()
			case r.cleaned <- msg:
			}
		}
	}
}

func (r *Runner) closeCleaned() {
	r.closeCleanedOnce.Do(func() {
		close(r.cleaned)
	})
}

func (r *Runner) closeEvents() {
	r.closeEventsOnce.Do(func() {
		close(r.events)
	})
}

func (r *Runner) fail(err error) {
	if err == nil {
		return
	}
	r.errMu.Lock()
	if r.err == nil {
		r.err = err
		r.cancel()
	}
	r.errMu.Unlock()
}
