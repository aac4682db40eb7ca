package model

// Message represents a single Usenet article read from the corpus.
// Lines holds the message text one entry per line, in original order.
// Before cleaning that includes the header block; after cleaning only
// body content remains.
type Message struct {
	Board string
	ID    string
	Hash  string
	Lines []string
	Size  int64
}

// Envelope wraps a message alongside an optional error encountered while reading.
type Envelope struct {
	Message Message
	Err     error
}
