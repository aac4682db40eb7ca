// Package report renders analysis results as terminal tables and CSV files.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/fyjgreatlion/usenet-miner/config"
	"github.com/fyjgreatlion/usenet-miner/corpus"
	"github.com/fyjgreatlion/usenet-miner/lexicon"
)

// messageScoreFloor is the minimum number of scored words a message needs
// before its mean sentiment is ranked.
const messageScoreFloor = 5

// Report is one rendered analysis result. Rows holds the full result set;
// Display, when set, is a trimmed view used for the terminal table while
// CSV output keeps every row.
type Report struct {
	Title   string
	File    string
	Header  []string
	Rows    [][]string
	Display [][]string
	Numeric []int
}

// DisplayRows returns the rows shown in the terminal table.
func (r Report) DisplayRows() [][]string {
	if r.Display != nil {
		return r.Display
	}
	return r.Rows
}

// Build runs the analyses selected in cfg over the corpus and returns the
// resulting reports in rendering order.
func Build(c *corpus.Corpus, sent *lexicon.Sentiment, cfg config.Config) []Report {
	var reports []Report

	if cfg.RunAnalysis(config.AnalysisWords) {
		reports = append(reports, buildBoards(c), buildWords(c, cfg.Top))
	}
	if cfg.RunAnalysis(config.AnalysisTFIDF) {
		reports = append(reports, buildTFIDF(c, cfg.Top))
	}
	if cfg.RunAnalysis(config.AnalysisSentiment) {
		reports = append(reports,
			buildBoardSentiment(c, sent),
			buildContributions(c, sent, cfg.Top),
			buildMessageSentiment(c, sent, cfg.Top),
		)
	}
	if cfg.RunAnalysis(config.AnalysisBigrams) {
		reports = append(reports, buildNegations(c, sent, cfg.Top))
	}

	return reports
}

func buildBoards(c *corpus.Corpus) Report {
	rows := make([][]string, 0)
	for _, board := range c.Boards() {
		rows = append(rows, []string{
			board,
			strconv.Itoa(c.Messages(board)),
			strconv.Itoa(c.TotalWords(board)),
		})
	}
	return Report{
		Title:   "Boards",
		File:    "boards",
		Header:  []string{"Board", "Messages", "Words"},
		Rows:    rows,
		Numeric: []int{1, 2},
	}
}

func buildWords(c *corpus.Corpus, top int) Report {
	rows := make([][]string, 0, top)
	for _, row := range c.TopWords("", top) {
		rows = append(rows, []string{row.Word, strconv.Itoa(row.N)})
	}
	return Report{
		Title:   "Top Words",
		File:    "words",
		Header:  []string{"Word", "N"},
		Rows:    rows,
		Numeric: []int{1},
	}
}

func buildTFIDF(c *corpus.Corpus, top int) Report {
	rows := tfidfRows(c, top)

	// Keep the terminal table readable when many boards are loaded; the
	// CSV still carries the full top-N rows per board.
	var display [][]string
	if len(c.Boards()) > 4 && top > 3 {
		display = tfidfRows(c, 3)
	}

	return Report{
		Title:   "Characteristic Words by Board (tf-idf)",
		File:    "tfidf",
		Header:  []string{"Board", "Word", "N", "TF-IDF"},
		Rows:    rows,
		Display: display,
		Numeric: []int{2, 3},
	}
}

func tfidfRows(c *corpus.Corpus, perBoard int) [][]string {
	rows := make([][]string, 0)
	for _, row := range c.TopTFIDF(perBoard) {
		rows = append(rows, []string{
			row.Board,
			row.Word,
			strconv.Itoa(row.N),
			formatFloat(row.TFIDF),
		})
	}
	return rows
}

func buildBoardSentiment(c *corpus.Corpus, sent *lexicon.Sentiment) Report {
	rows := make([][]string, 0)
	for _, row := range c.SentimentByBoard(sent) {
		rows = append(rows, []string{
			row.Board,
			formatFloat(row.Score),
			strconv.Itoa(row.Words),
		})
	}
	return Report{
		Title:   "Sentiment by Board",
		File:    "sentiment_boards",
		Header:  []string{"Board", "Score", "Scored Words"},
		Rows:    rows,
		Numeric: []int{1, 2},
	}
}

func buildContributions(c *corpus.Corpus, sent *lexicon.Sentiment, top int) Report {
	rows := make([][]string, 0, top)
	for _, row := range c.WordContributions(sent, top) {
		rows = append(rows, []string{
			row.Word,
			strconv.Itoa(row.Value),
			strconv.Itoa(row.N),
			strconv.Itoa(row.Contribution),
		})
	}
	return Report{
		Title:   "Top Sentiment Contributions",
		File:    "sentiment_words",
		Header:  []string{"Word", "Value", "N", "Contribution"},
		Rows:    rows,
		Numeric: []int{1, 2, 3},
	}
}

func buildMessageSentiment(c *corpus.Corpus, sent *lexicon.Sentiment, top int) Report {
	scored := c.MessageSentiments(sent, messageScoreFloor)

	// Most positive messages first, then most negative.
	half := top / 2
	if half < 1 {
		half = 1
	}
	var picked []corpus.MessageSentiment
	if len(scored) <= 2*half {
		picked = scored
	} else {
		picked = append(picked, scored[:half]...)
		picked = append(picked, scored[len(scored)-half:]...)
	}

	rows := make([][]string, 0, len(picked))
	for _, row := range picked {
		rows = append(rows, []string{
			row.Board,
			row.ID,
			formatFloat(row.Score),
			strconv.Itoa(row.Words),
		})
	}
	return Report{
		Title:   "Most Positive and Negative Messages",
		File:    "sentiment_messages",
		Header:  []string{"Board", "ID", "Score", "Scored Words"},
		Rows:    rows,
		Numeric: []int{2, 3},
	}
}

func buildNegations(c *corpus.Corpus, sent *lexicon.Sentiment, top int) Report {
	rows := make([][]string, 0, top)
	for _, row := range c.NegatedContributions(sent, top) {
		rows = append(rows, []string{
			row.Negator,
			row.Word,
			strconv.Itoa(row.Value),
			strconv.Itoa(row.N),
			strconv.Itoa(row.Contribution),
		})
	}
	return Report{
		Title:   "Words Preceded by Negations",
		File:    "bigrams_negated",
		Header:  []string{"Negator", "Word", "Value", "N", "Contribution"},
		Rows:    rows,
		Numeric: []int{2, 3, 4},
	}
}

// Render formats a report as a terminal table.
func Render(r Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(r.Title)

	header := make(table.Row, len(r.Header))
	for i, h := range r.Header {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range r.DisplayRows() {
		tr := make(table.Row, len(r.Header))
		for i := range r.Header {
			if i < len(row) {
				tr[i] = row[i]
			}
		}
		tw.AppendRow(tr)
	}

	numeric := make(map[int]struct{}, len(r.Numeric))
	for _, i := range r.Numeric {
		numeric[i] = struct{}{}
	}
	configs := make([]table.ColumnConfig, 0, len(r.Header))
	for i := range r.Header {
		align := text.AlignLeft
		if _, ok := numeric[i]; ok {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// SaveCSV writes one report to dir as report_<name>.csv.
func SaveCSV(dir string, r Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, fmt.Sprintf("report_%s.csv", normalizeFileName(r.File)))
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(r.Header); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()

	return writer.Error()
}

// SaveAll writes every report to dir.
func SaveAll(dir string, reports []Report) error {
	for _, r := range reports {
		if err := SaveCSV(dir, r); err != nil {
			return fmt.Errorf("save %s: %w", r.File, err)
		}
	}
	return nil
}

func normalizeFileName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
