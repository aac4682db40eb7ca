// Package news reads raw Usenet articles into the pipeline. Two input
// shapes are supported: a 20-newsgroups style directory tree (one
// subdirectory per board, one file per message, the file name being the
// message id) and mbox archives mapped to a board each.
package news

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mboxlib "github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"

	"github.com/fyjgreatlion/usenet-miner/model"
	"github.com/fyjgreatlion/usenet-miner/runner"
)

type Options struct {
	// CorpusDir is the root of the directory corpus; empty disables it.
	CorpusDir string
	// Boards restricts ingestion to the named boards when non-empty.
	Boards []string
	// Mboxes maps board names to mbox archive paths.
	Mboxes map[string]string
}

type Reader interface {
	Stream(ctx context.Context, out chan<- model.Envelope) error
}

func NewReader(opts Options, logger *slog.Logger) (Reader, error) {
	dir := strings.TrimSpace(opts.CorpusDir)
	if dir == "" && len(opts.Mboxes) == 0 {
		return nil, fmt.Errorf("no corpus input configured")
	}

	var boards map[string]struct{}
	if len(opts.Boards) > 0 {
		boards = make(map[string]struct{}, len(opts.Boards))
		for _, b := range opts.Boards {
			b = strings.TrimSpace(b)
			if b != "" {
				boards[b] = struct{}{}
			}
		}
	}

	return &corpusReader{
		dir:    dir,
		mboxes: opts.Mboxes,
		boards: boards,
		logger: logger,
	}, nil
}

type corpusReader struct {
	dir    string
	mboxes map[string]string
	boards map[string]struct{}
	logger *slog.Logger
}

func (c *corpusReader) wantBoard(name string) bool {
	if c.boards == nil {
		return true
	}
	_, ok := c.boards[name]
	return ok
}

func (c *corpusReader) Stream(ctx context.Context, out chan<- model.Envelope) error {
	if c.dir != "" {
		if err := c.streamDir(ctx, out); err != nil {
			return err
		}
	}

	for _, board := range sortedBoards(c.mboxes) {
		if !c.wantBoard(board) {
			continue
		}
		if err := c.streamMbox(ctx, board, c.mboxes[board], out); err != nil {
			return err
		}
	}

	return nil
}

func (c *corpusReader) streamDir(ctx context.Context, out chan<- model.Envelope) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read corpus directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		board := entry.Name()
		if !c.wantBoard(board) {
			continue
		}

		boardDir := filepath.Join(c.dir, board)
		files, err := os.ReadDir(boardDir)
		if err != nil {
			if err := c.emitError(ctx, out, fmt.Errorf("read board %s: %w", board, err)); err != nil {
				return err
			}
			continue
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if file.IsDir() {
				continue
			}

			raw, err := os.ReadFile(filepath.Join(boardDir, file.Name()))
			if err != nil {
				if err := c.emitError(ctx, out, fmt.Errorf("read message %s/%s: %w", board, file.Name(), err)); err != nil {
					return err
				}
				continue
			}

			msg := newMessage(board, file.Name(), raw)
			if err := c.emitEnvelope(ctx, out, model.Envelope{Message: msg}); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *corpusReader) streamMbox(ctx context.Context, board, path string, out chan<- model.Envelope) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mbox for board %s: %w", board, err)
	}
	defer file.Close()

	reader := mboxlib.NewReader(file)
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("mbox %s message %d: %w", path, idx, err)
		}

		raw, err := io.ReadAll(msgReader)
		if err != nil {
			if err := c.emitError(ctx, out, fmt.Errorf("mbox %s message %d read: %w", path, idx, err)); err != nil {
				return err
			}
			continue
		}

		id := messageID(raw)
		if id == "" {
			id = strconv.Itoa(idx)
		}

		msg := newMessage(board, id, raw)
		if err := c.emitEnvelope(ctx, out, model.Envelope{Message: msg}); err != nil {
			return err
		}
	}
}

func (c *corpusReader) emitError(ctx context.Context, out chan<- model.Envelope, err error) error {
	if c.logger != nil {
		c.logger.Error("news stream error", "err", err)
	}
	return c.emitEnvelope(ctx, out, model.Envelope{Err: err})
}

func (c *corpusReader) emitEnvelope(ctx context.Context, out chan<- model.Envelope, env model.Envelope) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case out <- env:
		return nil
	}
}

func newMessage(board, id string, raw []byte) model.Message {
	sum := sha256.Sum256(raw)
	return model.Message{
		Board: board,
		ID:    id,
		Hash:  base64.StdEncoding.EncodeToString(sum[:]),
		Lines: splitLines(raw),
		Size:  int64(len(raw)),
	}
}

// messageID extracts the Message-Id header of a raw article, without the
// surrounding angle brackets. Malformed headers yield an empty id.
func messageID(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	defer mr.Close()

	if id, err := mr.Header.MessageID(); err == nil && id != "" {
		return id
	}
	return strings.Trim(strings.TrimSpace(mr.Header.Get("Message-Id")), "<>")
}

func splitLines(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	// A trailing newline is a line terminator, not an extra blank line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func sortedBoards(mboxes map[string]string) []string {
	boards := make([]string, 0, len(mboxes))
	for board := range mboxes {
		boards = append(boards, board)
	}
	sort.Strings(boards)
	return boards
}

// Count returns the total number of messages the reader would stream,
// used to size the progress bar before the pipeline starts.
func Count(opts Options) (int, error) {
	reader, err := NewReader(opts, nil)
	if err != nil {
		return 0, err
	}
	c := reader.(*corpusReader)

	total := 0

	if c.dir != "" {
		entries, err := os.ReadDir(c.dir)
		if err != nil {
			return 0, fmt.Errorf("read corpus directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() || !c.wantBoard(entry.Name()) {
				continue
			}
			files, err := os.ReadDir(filepath.Join(c.dir, entry.Name()))
			if err != nil {
				continue
			}
			for _, file := range files {
				if !file.IsDir() {
					total++
				}
			}
		}
	}

	for board, path := range c.mboxes {
		if !c.wantBoard(board) {
			continue
		}
		n, err := countMbox(path)
		if err != nil {
			return 0, err
		}
		total += n
	}

	return total, nil
}

func countMbox(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	reader := mboxlib.NewReader(file)
	count := 0
	for {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return 0, err
		}
		if _, err := io.Copy(io.Discard, msgReader); err != nil {
			count++
			continue
		}
		count++
	}
}

// Producer feeds the runner's message channel from a Reader.
type Producer struct {
	reader Reader
	runner *runner.Runner
}

func NewProducer(opts Options, r *runner.Runner, logger *slog.Logger) (*Producer, error) {
	reader, err := NewReader(opts, logger)
	if err != nil {
		return nil, err
	}
	producer := &Producer{reader: reader, runner: r}
	r.AddStage("news", producer.run)
	return producer, nil
}

func (p *Producer) run(ctx context.Context) error {
	defer p.runner.CloseMessages()
	return p.reader.Stream(ctx, p.runner.MessageWriter())
}
