// Package lexicon provides the word lists the analyses join against: an
// AFINN-style sentiment lexicon and an English stop-word list. Both ship
// embedded in the binary and can be overridden from files on disk.
package lexicon

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed afinn.txt
var afinnData string

//go:embed stopwords.txt
var stopwordsData string

// Sentiment maps words to integer valence scores in [-5, 5].
type Sentiment struct {
	scores map[string]int
}

// Score returns the valence of a word and whether the word is scored at all.
func (s *Sentiment) Score(word string) (int, bool) {
	v, ok := s.scores[word]
	return v, ok
}

// Len returns the number of scored words.
func (s *Sentiment) Len() int {
	return len(s.scores)
}

// DefaultSentiment returns the embedded AFINN lexicon.
func DefaultSentiment() *Sentiment {
	s, err := parseSentiment(strings.NewReader(afinnData))
	if err != nil {
		// The embedded lexicon is validated by tests; a parse failure
		// here means a broken build, not bad user input.
		panic(fmt.Sprintf("lexicon: embedded afinn.txt: %v", err))
	}
	return s
}

// SentimentFromFile loads a sentiment lexicon from a tab-separated
// word/score file in the same format as the embedded one.
func SentimentFromFile(path string) (*Sentiment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sentiment lexicon: %w", err)
	}
	defer file.Close()

	s, err := parseSentiment(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseSentiment(r io.Reader) (*Sentiment, error) {
	scores := make(map[string]int)

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		word, value, ok := strings.Cut(text, "\t")
		if !ok {
			// Some published copies of the lexicon are space separated.
			if idx := strings.LastIndexByte(text, ' '); idx >= 0 {
				word, value = text[:idx], text[idx+1:]
			} else {
				return nil, fmt.Errorf("parse lexicon line %d: no separator", line)
			}
		}

		score, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("parse lexicon line %d: %w", line, err)
		}
		if score < -5 || score > 5 {
			return nil, fmt.Errorf("parse lexicon line %d: score %d out of range", line, score)
		}

		scores[strings.ToLower(strings.TrimSpace(word))] = score
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("lexicon is empty")
	}

	return &Sentiment{scores: scores}, nil
}

// Stopwords is a set of words excluded from word-level analyses.
type Stopwords struct {
	words map[string]struct{}
}

// Contains reports whether a word is a stop word.
func (s *Stopwords) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Len returns the number of stop words.
func (s *Stopwords) Len() int {
	return len(s.words)
}

// DefaultStopwords returns the embedded English stop-word list.
func DefaultStopwords() *Stopwords {
	s, err := parseStopwords(strings.NewReader(stopwordsData))
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded stopwords.txt: %v", err))
	}
	return s
}

// StopwordsFromFile loads a stop-word list from a file with one word per line.
func StopwordsFromFile(path string) (*Stopwords, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stop-word list: %w", err)
	}
	defer file.Close()

	s, err := parseStopwords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseStopwords(r io.Reader) (*Stopwords, error) {
	words := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		words[strings.ToLower(text)] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stop-word list: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("stop-word list is empty")
	}

	return &Stopwords{words: words}, nil
}
