package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// Analysis names accepted by --analyses.
const (
	AnalysisWords     = "words"
	AnalysisTFIDF     = "tfidf"
	AnalysisSentiment = "sentiment"
	AnalysisBigrams   = "bigrams"
)

// AllAnalyses lists every analysis in the order reports are rendered.
var AllAnalyses = []string{AnalysisWords, AnalysisTFIDF, AnalysisSentiment, AnalysisBigrams}

// Config captures all command-line options required to run an analysis.
type Config struct {
	CorpusDir     string
	Mboxes        []string
	Boards        []string
	ExcludeIDs    []string
	Analyses      []string
	Top           int
	ReportDir     string
	AFINNPath     string
	StopwordsPath string
	LogLevel      string
	LogDir        string
	NoProgress    bool
}

// RegisterFlags attaches all CLI flags to the provided command.
func RegisterFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	flags.String("corpus", "", "Root directory of the corpus: one subdirectory per board, one file per message")
	flags.StringArray("mbox", nil, "Ingest a board from an mbox archive, as board=path (repeatable)")
	flags.StringArray("boards", nil, "Restrict the analysis to the named boards (repeatable)")
	flags.StringArray("exclude-id", nil, "Message ids dropped unconditionally (default: the known-bad ids 9704 and 9985)")
	flags.StringArray("analyses", nil, "Analyses to run: words, tfidf, sentiment, bigrams (default: all)")
	flags.IntP("top", "t", 12, "Number of rows per rendered result table")
	flags.StringP("report-dir", "o", "", "Directory for CSV reports; no CSVs are written when empty")
	flags.String("afinn", "", "Path to an AFINN-format sentiment lexicon (default: embedded lexicon)")
	flags.String("stopwords", "", "Path to a stop-word list, one word per line (default: embedded list)")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error")
	flags.String("log-dir", "", "Directory for log files; logs go to stdout only when empty")
	flags.Bool("no-progress", false, "Disable the progress bar")

	return nil
}

// LoadConfig converts the parsed Cobra flags into a Config struct with validation.
func LoadConfig(cmd *cobra.Command) (Config, error) {
	flags := cmd.Flags()

	corpusDir, err := flags.GetString("corpus")
	if err != nil {
		return Config{}, err
	}
	mboxes, err := flags.GetStringArray("mbox")
	if err != nil {
		return Config{}, err
	}
	boards, err := flags.GetStringArray("boards")
	if err != nil {
		return Config{}, err
	}
	excludeIDs, err := flags.GetStringArray("exclude-id")
	if err != nil {
		return Config{}, err
	}
	analyses, err := flags.GetStringArray("analyses")
	if err != nil {
		return Config{}, err
	}
	top, err := flags.GetInt("top")
	if err != nil {
		return Config{}, err
	}
	reportDir, err := flags.GetString("report-dir")
	if err != nil {
		return Config{}, err
	}
	afinnPath, err := flags.GetString("afinn")
	if err != nil {
		return Config{}, err
	}
	stopwordsPath, err := flags.GetString("stopwords")
	if err != nil {
		return Config{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return Config{}, err
	}
	logDir, err := flags.GetString("log-dir")
	if err != nil {
		return Config{}, err
	}
	noProgress, err := flags.GetBool("no-progress")
	if err != nil {
		return Config{}, err
	}

	if len(analyses) == 0 {
		analyses = AllAnalyses
	}

	logLevel = strings.ToLower(logLevel)
	if logLevel == "warning" {
		logLevel = "warn"
	}

	if corpusDir != "" {
		corpusDir = filepath.Clean(corpusDir)
	}

	cfg := Config{
		CorpusDir:     corpusDir,
		Mboxes:        mboxes,
		Boards:        boards,
		ExcludeIDs:    excludeIDs,
		Analyses:      normalizeAnalyses(analyses),
		Top:           top,
		ReportDir:     reportDir,
		AFINNPath:     afinnPath,
		StopwordsPath: stopwordsPath,
		LogLevel:      logLevel,
		LogDir:        logDir,
		NoProgress:    noProgress,
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// MboxInputs parses the repeatable --mbox board=path flags into a map.
func (c Config) MboxInputs() (map[string]string, error) {
	if len(c.Mboxes) == 0 {
		return nil, nil
	}

	inputs := make(map[string]string, len(c.Mboxes))
	for _, spec := range c.Mboxes {
		board, path, ok := strings.Cut(spec, "=")
		board = strings.TrimSpace(board)
		path = strings.TrimSpace(path)
		if !ok || board == "" || path == "" {
			return nil, fmt.Errorf("invalid --mbox value %q, expected board=path", spec)
		}
		if _, dup := inputs[board]; dup {
			return nil, fmt.Errorf("duplicate --mbox board %q", board)
		}
		inputs[board] = path
	}
	return inputs, nil
}

// RunAnalysis reports whether the named analysis was requested.
func (c Config) RunAnalysis(name string) bool {
	for _, a := range c.Analyses {
		if a == name {
			return true
		}
	}
	return false
}

func normalizeAnalyses(analyses []string) []string {
	seen := make(map[string]struct{}, len(analyses))
	out := make([]string, 0, len(analyses))
	for _, a := range analyses {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func validateConfig(cfg Config) error {
	if cfg.CorpusDir == "" && len(cfg.Mboxes) == 0 {
		return fmt.Errorf("either --corpus or --mbox is required")
	}
	if cfg.Top <= 0 {
		return fmt.Errorf("--top must be positive")
	}

	if _, err := cfg.MboxInputs(); err != nil {
		return err
	}

	known := make(map[string]struct{}, len(AllAnalyses))
	for _, a := range AllAnalyses {
		known[a] = struct{}{}
	}
	for _, a := range cfg.Analyses {
		if _, ok := known[a]; !ok {
			return fmt.Errorf("unknown analysis %q, valid: %s", a, strings.Join(AllAnalyses, ", "))
		}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}

	return nil
}
