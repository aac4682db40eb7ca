package clean

import (
	"regexp"
	"strings"
)

// DefaultExcludeIDs lists message ids that are malformed in the 20-newsgroups
// corpus and are always dropped whole.
var DefaultExcludeIDs = []string{"9704", "9985"}

// scanState tracks where the line scanner is within one message.
type scanState int

const (
	stateHeader scanState = iota
	stateBody
	stateSignature
)

var (
	headerLine      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*:\s`)
	bodyContent     = regexp.MustCompile(`^[^>]+[A-Za-z0-9]`)
	attributionLine = regexp.MustCompile(`writes(:|\.\.\.)$`)
)

// Options captures the cleaning configuration.
type Options struct {
	// ExcludeIDs are message ids dropped unconditionally. Nil means
	// DefaultExcludeIDs; pass an empty non-nil slice to exclude nothing.
	ExcludeIDs []string
}

// Cleaner strips header blocks, signature blocks and quoted replies from
// Usenet articles, leaving only body text suitable for tokenization.
//
// The heuristic is lossy on purpose: it occasionally drops real content
// (one-character lines, bodies quoting a signature marker) and occasionally
// keeps quoted text that was reflowed without a ">" prefix. Malformed input
// yields an empty or partial body, never an error.
type Cleaner struct {
	exclude map[string]struct{}
}

// New creates a Cleaner from the provided options.
func New(opts Options) *Cleaner {
	ids := opts.ExcludeIDs
	if ids == nil {
		ids = DefaultExcludeIDs
	}

	exclude := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		exclude[id] = struct{}{}
	}

	return &Cleaner{exclude: exclude}
}

// Excluded reports whether the message id is in the known-bad set.
func (c *Cleaner) Excluded(id string) bool {
	_, ok := c.exclude[id]
	return ok
}

// Body returns the body lines of a message, in original order.
//
// The scan runs a small state machine: the header block (everything up to
// and including the first blank line) is dropped, and everything from the
// first line starting with "--" onward is dropped as a signature. Lines in
// between are kept unless they look like quoted-reply material: a leading
// ">", an attribution ending in "writes:" or "writes...", or an
// "In article <...>" reference. Blank body lines are kept.
//
// A message whose first line does not look like a header field is treated
// as having no header block, so cleaning already-cleaned text is a no-op.
func (c *Cleaner) Body(id string, lines []string) []string {
	if c.Excluded(id) {
		return nil
	}

	state := stateBody
	if len(lines) > 0 && looksLikeHeader(lines[0]) {
		state = stateHeader
	}

	var body []string
	for _, line := range lines {
		if strings.HasPrefix(line, "--") {
			state = stateSignature
		}
		if state == stateSignature {
			break
		}

		if state == stateHeader {
			if line == "" {
				state = stateBody
			}
			continue
		}

		if line == "" {
			body = append(body, line)
			continue
		}
		if !bodyContent.MatchString(line) {
			continue
		}
		if attributionLine.MatchString(line) {
			continue
		}
		if strings.HasPrefix(line, "In article <") {
			continue
		}
		body = append(body, line)
	}

	return body
}

// looksLikeHeader reports whether a line opens an RFC822-style header block,
// either a "Key: value" field or an mbox "From " envelope line.
func looksLikeHeader(line string) bool {
	return headerLine.MatchString(line) || strings.HasPrefix(line, "From ")
}
