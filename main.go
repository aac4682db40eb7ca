package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyjgreatlion/usenet-miner/config"
	"github.com/fyjgreatlion/usenet-miner/corpus"
	"github.com/fyjgreatlion/usenet-miner/lexicon"
	"github.com/fyjgreatlion/usenet-miner/news"
	"github.com/fyjgreatlion/usenet-miner/progress"
	"github.com/fyjgreatlion/usenet-miner/report"
	"github.com/fyjgreatlion/usenet-miner/runner"
	"github.com/fyjgreatlion/usenet-miner/stats"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "usenet-miner",
		Short: "Clean and analyze a Usenet message corpus",
		Long: `usenet-miner reads a corpus of Usenet articles, strips headers,
signatures and quoted replies from each message, and runs word-frequency,
tf-idf, sentiment and bigram-negation analyses over the surviving text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd)
			if err != nil {
				return err
			}

			logger, cleanup, err := setupLogger(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = cleanup()
			}()

			slog.SetDefault(logger)
			logger.Info("starting usenet-miner", "corpus", cfg.CorpusDir, "boards", cfg.Boards, "analyses", cfg.Analyses)

			return run(cfg, logger)
		},
	}

	if err := config.RegisterFlags(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register CLI flags: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	sent, err := loadSentiment(cfg)
	if err != nil {
		return err
	}
	stop, err := loadStopwords(cfg)
	if err != nil {
		return err
	}

	mboxes, err := cfg.MboxInputs()
	if err != nil {
		return err
	}
	readerOpts := news.Options{
		CorpusDir: cfg.CorpusDir,
		Boards:    cfg.Boards,
		Mboxes:    mboxes,
	}

	total, err := news.Count(readerOpts)
	if err != nil {
		return fmt.Errorf("news.Count: %w", err)
	}
	if total == 0 {
		return fmt.Errorf("no messages found in corpus")
	}

	r, err := runner.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("runner.New: %w", err)
	}

	bar := progress.New(total, cfg.LogLevel, cfg.NoProgress)
	if bar.Enabled() {
		progress.NewReporter(r, bar, logger)
	} else {
		stats.NewReporter(r, logger)
	}

	if _, err := news.NewProducer(readerOpts, r, logger); err != nil {
		return fmt.Errorf("news.NewProducer: %w", err)
	}

	c := corpus.New(stop)
	corpus.NewAggregator(c, r, logger)

	if err := r.Start(); err != nil {
		return err
	}

	reports := report.Build(c, sent, cfg)
	for _, rep := range reports {
		fmt.Println(report.Render(rep))
		fmt.Println()
	}

	if cfg.ReportDir != "" {
		if err := report.SaveAll(cfg.ReportDir, reports); err != nil {
			return fmt.Errorf("save reports: %w", err)
		}
		logger.Info("reports saved", "dir", cfg.ReportDir, "count", len(reports))
	}

	return nil
}

func loadSentiment(cfg config.Config) (*lexicon.Sentiment, error) {
	if cfg.AFINNPath != "" {
		return lexicon.SentimentFromFile(cfg.AFINNPath)
	}
	return lexicon.DefaultSentiment(), nil
}

func loadStopwords(cfg config.Config) (*lexicon.Stopwords, error) {
	if cfg.StopwordsPath != "" {
		return lexicon.StopwordsFromFile(cfg.StopwordsPath)
	}
	return lexicon.DefaultStopwords(), nil
}

func setupLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	switch cfg.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}

	opts := &slog.HandlerOptions{Level: level}
	cleanup := func() error { return nil }

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, cleanup, err
		}

		logFilePath := filepath.Join(cfg.LogDir, fmt.Sprintf("usenet-miner-%s.log", time.Now().Format("20060102T150405")))
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, cleanup, err
		}

		handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, file), opts)
		cleanup = func() error {
			return file.Close()
		}
		return slog.New(handler), cleanup, nil
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler), cleanup, nil
}
