package clean

import (
	"fmt"
	"testing"
)

// BenchmarkCleaner_Body benchmarks cleaning a typical message.
func BenchmarkCleaner_Body(b *testing.B) {
	c := New(Options{})

	lines := []string{
		"From: someone@example.com (Someone)",
		"Newsgroups: sci.space",
		"Subject: Re: Shuttle roadside assistance",
		"Message-ID: <1993Apr1.123456@example.com>",
		"",
		"someone.else@example.com (Someone Else) writes:",
		"> the shuttle program costs too much",
		"I think the numbers tell a different story,",
		"and here is a paragraph explaining why that is the case",
		"with enough text to look like a real message body.",
		"",
		"More body content on a second paragraph.",
		"-- ",
		"Someone | someone@example.com",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Body("1", lines)
	}
}

// BenchmarkCleaner_Body_LongMessage benchmarks cleaning a message with a
// large quoted block.
func BenchmarkCleaner_Body_LongMessage(b *testing.B) {
	c := New(Options{})

	lines := []string{"From: a@example.com", ""}
	for i := 0; i < 200; i++ {
		lines = append(lines, fmt.Sprintf("> quoted line number %d", i))
		lines = append(lines, fmt.Sprintf("reply line number %d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Body("1", lines)
	}
}
