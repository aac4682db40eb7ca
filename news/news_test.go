package news

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fyjgreatlion/usenet-miner/model"
)

func writeCorpus(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	messages := map[string]string{
		"sci.space/101":     "From: a@example.com\nSubject: orbits\n\nrockets are neat\n",
		"sci.space/102":     "From: b@example.com\nSubject: re: orbits\n\n> rockets are neat\nagreed\n",
		"talk.politics/201": "From: c@example.com\nSubject: taxes\n\nno comment\n",
	}
	for path, content := range messages {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func collect(t *testing.T, r Reader) []model.Envelope {
	t.Helper()

	out := make(chan model.Envelope, 64)
	done := make(chan error, 1)
	go func() {
		done <- r.Stream(context.Background(), out)
		close(out)
	}()

	var envelopes []model.Envelope
	for env := range out {
		envelopes = append(envelopes, env)
	}
	if err := <-done; err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	return envelopes
}

func TestDirReader_Stream(t *testing.T) {
	dir := writeCorpus(t)

	reader, err := NewReader(Options{CorpusDir: dir}, nil)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	envelopes := collect(t, reader)
	if len(envelopes) != 3 {
		t.Fatalf("got %d envelopes, want 3", len(envelopes))
	}

	byID := make(map[string]model.Message)
	for _, env := range envelopes {
		if env.Err != nil {
			t.Fatalf("unexpected envelope error: %v", env.Err)
		}
		byID[env.Message.ID] = env.Message
	}

	msg, ok := byID["101"]
	if !ok {
		t.Fatal("message 101 missing")
	}
	if msg.Board != "sci.space" {
		t.Errorf("Board = %q, want sci.space", msg.Board)
	}
	if len(msg.Lines) != 4 {
		t.Errorf("Lines = %q, want 4 lines", msg.Lines)
	}
	if msg.Lines[3] != "rockets are neat" {
		t.Errorf("Lines[3] = %q", msg.Lines[3])
	}
	if msg.Hash == "" {
		t.Error("Hash is empty")
	}
	if byID["201"].Board != "talk.politics" {
		t.Errorf("message 201 board = %q", byID["201"].Board)
	}
}

func TestDirReader_BoardFilter(t *testing.T) {
	dir := writeCorpus(t)

	reader, err := NewReader(Options{CorpusDir: dir, Boards: []string{"sci.space"}}, nil)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	envelopes := collect(t, reader)
	if len(envelopes) != 2 {
		t.Fatalf("got %d envelopes, want 2", len(envelopes))
	}
	for _, env := range envelopes {
		if env.Message.Board != "sci.space" {
			t.Errorf("unexpected board %q", env.Message.Board)
		}
	}
}

const testMbox = `From bob@example.com Thu Apr  1 12:00:00 1993
From: bob@example.com
Message-Id: <100@host.example.com>
Subject: first

body one

From alice@example.com Thu Apr  1 13:00:00 1993
From: alice@example.com
Subject: second

body two
`

func TestMboxReader_Stream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sci.crypt.mbox")
	if err := os.WriteFile(path, []byte(testMbox), 0o644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(Options{Mboxes: map[string]string{"sci.crypt": path}}, nil)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	envelopes := collect(t, reader)
	if len(envelopes) != 2 {
		t.Fatalf("got %d envelopes, want 2", len(envelopes))
	}

	first := envelopes[0].Message
	if first.Board != "sci.crypt" {
		t.Errorf("Board = %q, want sci.crypt", first.Board)
	}
	if first.ID != "100@host.example.com" {
		t.Errorf("ID = %q, want Message-Id without brackets", first.ID)
	}

	// The second message has no Message-Id; the stream index stands in.
	if envelopes[1].Message.ID != "1" {
		t.Errorf("second ID = %q, want 1", envelopes[1].Message.ID)
	}
}

func TestCount(t *testing.T) {
	dir := writeCorpus(t)

	mboxPath := filepath.Join(t.TempDir(), "a.mbox")
	if err := os.WriteFile(mboxPath, []byte(testMbox), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := Count(Options{CorpusDir: dir, Mboxes: map[string]string{"sci.crypt": mboxPath}})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Count() = %d, want 5", n)
	}
}

func TestNewReader_NoInput(t *testing.T) {
	if _, err := NewReader(Options{}, nil); err == nil {
		t.Error("NewReader() error = nil, want error")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"trailing newline dropped", "a\nb\n", 2},
		{"no trailing newline", "a\nb", 2},
		{"crlf normalized", "a\r\nb\r\n", 2},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines([]byte(tt.raw))
			if len(got) != tt.want {
				t.Errorf("splitLines(%q) = %q, want %d lines", tt.raw, got, tt.want)
			}
		})
	}
}
