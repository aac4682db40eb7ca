package tokenize

import (
	"regexp"
	"strings"
)

var (
	wordPattern = regexp.MustCompile(`[a-z0-9]+(?:'[a-z0-9]+)*`)
	wordKeep    = regexp.MustCompile(`[a-z']$`)
)

// Bigram is a pair of consecutive words within one line.
type Bigram struct {
	First  string
	Second string
}

// Words splits a line into lowercase word tokens. A token is a run of
// letters and digits, optionally joined by internal apostrophes ("don't",
// "o'clock"); all other punctuation separates tokens.
func Words(line string) []string {
	return wordPattern.FindAllString(strings.ToLower(line), -1)
}

// Keep reports whether a token counts as an analysis word: it must end in
// a letter or apostrophe, which drops bare numbers and message-id noise.
func Keep(word string) bool {
	return wordKeep.MatchString(word)
}

// Bigrams returns every pair of consecutive word tokens in a line. Pairs
// never span lines.
func Bigrams(line string) []Bigram {
	words := Words(line)
	if len(words) < 2 {
		return nil
	}

	bigrams := make([]Bigram, 0, len(words)-1)
	for i := 0; i+1 < len(words); i++ {
		bigrams = append(bigrams, Bigram{First: words[i], Second: words[i+1]})
	}
	return bigrams
}
