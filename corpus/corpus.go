// Package corpus holds the in-memory tidy tables produced by one analysis
// run: term counts per board, per message, and bigram counts. Everything is
// transient; nothing is persisted between runs.
package corpus

import (
	"math"
	"sort"

	"github.com/fyjgreatlion/usenet-miner/lexicon"
	"github.com/fyjgreatlion/usenet-miner/tokenize"
)

// NegateWords are the leading bigram words treated as negators in the
// negation analysis.
var NegateWords = []string{"not", "without", "no", "can't", "don't", "won't"}

// Key identifies one message.
type Key struct {
	Board string
	ID    string
}

// Corpus accumulates token tables from cleaned messages.
//
// Add is called from a single aggregator goroutine; Corpus does no locking
// of its own and must not be read before the pipeline drains.
type Corpus struct {
	stop *lexicon.Stopwords

	boardWords   map[string]map[string]int
	boardTotals  map[string]int
	messageWords map[Key]map[string]int
	bigrams      map[tokenize.Bigram]int
	messages     map[string]int
}

func New(stop *lexicon.Stopwords) *Corpus {
	return &Corpus{
		stop:         stop,
		boardWords:   make(map[string]map[string]int),
		boardTotals:  make(map[string]int),
		messageWords: make(map[Key]map[string]int),
		bigrams:      make(map[tokenize.Bigram]int),
		messages:     make(map[string]int),
	}
}

// Add tokenizes the cleaned body lines of one message into the corpus
// tables and returns the number of analysis words counted.
//
// Word tables apply the analysis filter (no bare numbers, no stop words);
// the bigram table keeps every token pair so negators like "not" survive
// for the negation analysis.
func (c *Corpus) Add(board, id string, lines []string) int {
	key := Key{Board: board, ID: id}
	c.messages[board]++

	counted := 0
	for _, line := range lines {
		for _, word := range tokenize.Words(line) {
			if !tokenize.Keep(word) || c.stop.Contains(word) {
				continue
			}

			words := c.boardWords[board]
			if words == nil {
				words = make(map[string]int)
				c.boardWords[board] = words
			}
			words[word]++
			c.boardTotals[board]++

			perMessage := c.messageWords[key]
			if perMessage == nil {
				perMessage = make(map[string]int)
				c.messageWords[key] = perMessage
			}
			perMessage[word]++

			counted++
		}

		for _, bigram := range tokenize.Bigrams(line) {
			c.bigrams[bigram]++
		}
	}

	return counted
}

// Boards returns the board names present in the corpus, sorted.
func (c *Corpus) Boards() []string {
	boards := make([]string, 0, len(c.messages))
	for board := range c.messages {
		boards = append(boards, board)
	}
	sort.Strings(boards)
	return boards
}

// Messages returns the number of messages aggregated for a board.
func (c *Corpus) Messages(board string) int {
	return c.messages[board]
}

// TotalWords returns the number of analysis words counted for a board.
func (c *Corpus) TotalWords(board string) int {
	return c.boardTotals[board]
}

// WordCount is one row of a word-frequency table.
type WordCount struct {
	Board string
	Word  string
	N     int
}

// TopWords returns the n most frequent analysis words for a board, or
// across all boards when board is empty. Ties break alphabetically.
func (c *Corpus) TopWords(board string, n int) []WordCount {
	counts := make(map[string]int)
	if board == "" {
		for _, words := range c.boardWords {
			for word, count := range words {
				counts[word] += count
			}
		}
	} else {
		for word, count := range c.boardWords[board] {
			counts[word] = count
		}
	}

	rows := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		rows = append(rows, WordCount{Board: board, Word: word, N: count})
	}
	sortWordCounts(rows)

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func sortWordCounts(rows []WordCount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].N != rows[j].N {
			return rows[i].N > rows[j].N
		}
		return rows[i].Word < rows[j].Word
	})
}

// TFIDF is one row of a tf-idf table: term frequency within the board,
// inverse document frequency across boards, and their product.
type TFIDF struct {
	Board string
	Word  string
	N     int
	TF    float64
	IDF   float64
	TFIDF float64
}

// TopTFIDF returns, per board, the n terms most characteristic of that
// board. Boards are the "documents" of the weighting: idf is
// ln(#boards / #boards containing the term).
func (c *Corpus) TopTFIDF(n int) []TFIDF {
	boards := c.Boards()
	if len(boards) == 0 {
		return nil
	}

	df := make(map[string]int)
	for _, words := range c.boardWords {
		for word := range words {
			df[word]++
		}
	}

	var rows []TFIDF
	for _, board := range boards {
		total := c.boardTotals[board]
		if total == 0 {
			continue
		}

		boardRows := make([]TFIDF, 0, len(c.boardWords[board]))
		for word, count := range c.boardWords[board] {
			tf := float64(count) / float64(total)
			idf := math.Log(float64(len(boards)) / float64(df[word]))
			boardRows = append(boardRows, TFIDF{
				Board: board,
				Word:  word,
				N:     count,
				TF:    tf,
				IDF:   idf,
				TFIDF: tf * idf,
			})
		}

		sort.Slice(boardRows, func(i, j int) bool {
			if boardRows[i].TFIDF != boardRows[j].TFIDF {
				return boardRows[i].TFIDF > boardRows[j].TFIDF
			}
			return boardRows[i].Word < boardRows[j].Word
		})
		if n > 0 && len(boardRows) > n {
			boardRows = boardRows[:n]
		}
		rows = append(rows, boardRows...)
	}

	return rows
}

// BoardSentiment is the mean valence per scored word occurrence in a board.
type BoardSentiment struct {
	Board string
	Score float64
	Words int
}

// SentimentByBoard scores each board against the sentiment lexicon,
// sorted most positive first.
func (c *Corpus) SentimentByBoard(sent *lexicon.Sentiment) []BoardSentiment {
	rows := make([]BoardSentiment, 0, len(c.boardWords))
	for _, board := range c.Boards() {
		sum, words := 0, 0
		for word, count := range c.boardWords[board] {
			if value, ok := sent.Score(word); ok {
				sum += value * count
				words += count
			}
		}
		if words == 0 {
			continue
		}
		rows = append(rows, BoardSentiment{
			Board: board,
			Score: float64(sum) / float64(words),
			Words: words,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Board < rows[j].Board
	})
	return rows
}

// Contribution is the total valence a single word contributes across the
// whole corpus: its lexicon value times its occurrence count.
type Contribution struct {
	Word         string
	Value        int
	N            int
	Contribution int
}

// WordContributions returns the n words contributing the most sentiment in
// either direction, largest absolute contribution first.
func (c *Corpus) WordContributions(sent *lexicon.Sentiment, n int) []Contribution {
	counts := make(map[string]int)
	for _, words := range c.boardWords {
		for word, count := range words {
			counts[word] += count
		}
	}

	rows := make([]Contribution, 0, len(counts))
	for word, count := range counts {
		value, ok := sent.Score(word)
		if !ok {
			continue
		}
		rows = append(rows, Contribution{
			Word:         word,
			Value:        value,
			N:            count,
			Contribution: value * count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		ci := abs(rows[i].Contribution)
		cj := abs(rows[j].Contribution)
		if ci != cj {
			return ci > cj
		}
		return rows[i].Word < rows[j].Word
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// MessageSentiment is the mean valence per scored word of one message.
type MessageSentiment struct {
	Board string
	ID    string
	Score float64
	Words int
}

// MessageSentiments scores every message with at least minWords scored
// words, sorted most positive first. Short messages are skipped because a
// single strong word would dominate their mean.
func (c *Corpus) MessageSentiments(sent *lexicon.Sentiment, minWords int) []MessageSentiment {
	rows := make([]MessageSentiment, 0, len(c.messageWords))
	for key, words := range c.messageWords {
		sum, scored := 0, 0
		for word, count := range words {
			if value, ok := sent.Score(word); ok {
				sum += value * count
				scored += count
			}
		}
		if scored < minWords {
			continue
		}
		rows = append(rows, MessageSentiment{
			Board: key.Board,
			ID:    key.ID,
			Score: float64(sum) / float64(scored),
			Words: scored,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].Board != rows[j].Board {
			return rows[i].Board < rows[j].Board
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

// NegatedBigram is a "negator + scored word" pair: sentiment the plain
// word-level analysis attributes with the wrong sign.
type NegatedBigram struct {
	Negator      string
	Word         string
	Value        int
	N            int
	Contribution int
}

// NegatedContributions returns the n scored words most often preceded by a
// negator, largest absolute misattributed contribution first.
func (c *Corpus) NegatedContributions(sent *lexicon.Sentiment, n int) []NegatedBigram {
	negators := make(map[string]struct{}, len(NegateWords))
	for _, w := range NegateWords {
		negators[w] = struct{}{}
	}

	rows := make([]NegatedBigram, 0)
	for bigram, count := range c.bigrams {
		if _, ok := negators[bigram.First]; !ok {
			continue
		}
		value, ok := sent.Score(bigram.Second)
		if !ok {
			continue
		}
		rows = append(rows, NegatedBigram{
			Negator:      bigram.First,
			Word:         bigram.Second,
			Value:        value,
			N:            count,
			Contribution: value * count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		ci := abs(rows[i].Contribution)
		cj := abs(rows[j].Contribution)
		if ci != cj {
			return ci > cj
		}
		if rows[i].Negator != rows[j].Negator {
			return rows[i].Negator < rows[j].Negator
		}
		return rows[i].Word < rows[j].Word
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
