package corpus

import (
	"context"
	"log/slog"

	"github.com/fyjgreatlion/usenet-miner/runner"
	"github.com/fyjgreatlion/usenet-miner/stats"
)

// Aggregator is the terminal pipeline stage: it drains cleaned messages
// from the runner into a Corpus.
type Aggregator struct {
	corpus *Corpus
	runner *runner.Runner
	logger *slog.Logger
}

func NewAggregator(c *Corpus, r *runner.Runner, logger *slog.Logger) *Aggregator {
	a := &Aggregator{corpus: c, runner: r, logger: logger}
	r.AddStage("corpus", a.run)
	return a
}

func (a *Aggregator) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-a.runner.Cleaned():
			if !ok {
				return nil
			}

			words := a.corpus.Add(msg.Board, msg.ID, msg.Lines)
			a.runner.EmitEvent(stats.Event{
				Stage:     stats.StageCorpus,
				Type:      stats.EventTypeCleaned,
				Board:     msg.Board,
				MessageID: msg.ID,
				Words:     words,
			})

			if a.logger != nil {
				a.logger.Debug("aggregated message", "board", msg.Board, "id", msg.ID, "lines", len(msg.Lines), "words", words)
			}
		}
	}
}
