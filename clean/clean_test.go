package clean

import (
	"reflect"
	"testing"
)

func TestCleaner_Body_HeaderAndSignature(t *testing.T) {
	c := New(Options{})

	lines := []string{
		"From: a",
		"Subject: x",
		"",
		"hello world",
		"-- ",
		"John",
	}

	got := c.Body("1", lines)
	want := []string{"hello world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Body() = %q, want %q", got, want)
	}
}

func TestCleaner_Body_QuotedReplies(t *testing.T) {
	c := New(Options{})

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name: "leading quote marker dropped",
			lines: []string{
				"From: a@example.com",
				"",
				"> I disagree with everything here",
				"well I do not",
			},
			want: []string{"well I do not"},
		},
		{
			name: "attribution line dropped",
			lines: []string{
				"From: a@example.com",
				"",
				"bob@example.com (Bob) writes:",
				"> the sky is green",
				"no it is blue",
			},
			want: []string{"no it is blue"},
		},
		{
			name: "attribution with ellipsis dropped",
			lines: []string{
				"From: a@example.com",
				"",
				"As Bob writes...",
				"something else",
			},
			want: []string{"something else"},
		},
		{
			name: "in-article reference dropped",
			lines: []string{
				"From: a@example.com",
				"",
				"In article <123@host> bob said",
				"actual reply text",
			},
			want: []string{"actual reply text"},
		},
		{
			name: "blank body lines kept",
			lines: []string{
				"From: a@example.com",
				"",
				"first paragraph",
				"",
				"second paragraph",
			},
			want: []string{"first paragraph", "", "second paragraph"},
		},
		{
			name: "non-alphanumeric line dropped",
			lines: []string{
				"From: a@example.com",
				"",
				"*** ---- ***",
				"real content",
			},
			want: []string{"real content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Body("1", tt.lines)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Body() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleaner_Body_SignatureInsideHeader(t *testing.T) {
	c := New(Options{})

	// A "--" line before the header/body separator kills the whole message,
	// matching the single-pass scan over all lines.
	lines := []string{
		"From: a@example.com",
		"--",
		"",
		"body text",
	}

	if got := c.Body("1", lines); len(got) != 0 {
		t.Errorf("Body() = %q, want empty", got)
	}
}

func TestCleaner_Body_ExcludedIDs(t *testing.T) {
	c := New(Options{})

	lines := []string{
		"From: a@example.com",
		"",
		"perfectly fine content",
	}

	for _, id := range DefaultExcludeIDs {
		if got := c.Body(id, lines); got != nil {
			t.Errorf("Body(%q) = %q, want nil", id, got)
		}
	}

	if got := c.Body("42", lines); len(got) != 1 {
		t.Errorf("Body(42) = %q, want one line", got)
	}
}

func TestCleaner_Body_CustomExcludeIDs(t *testing.T) {
	c := New(Options{ExcludeIDs: []string{"7"}})

	lines := []string{"From: a", "", "content here"}

	if got := c.Body("7", lines); got != nil {
		t.Errorf("Body(7) = %q, want nil", got)
	}
	// Defaults are replaced, not extended.
	if got := c.Body("9704", lines); len(got) != 1 {
		t.Errorf("Body(9704) = %q, want one line", got)
	}

	none := New(Options{ExcludeIDs: []string{}})
	if got := none.Body("9704", lines); len(got) != 1 {
		t.Errorf("Body(9704) with empty exclude set = %q, want one line", got)
	}
}

func TestCleaner_Body_Idempotent(t *testing.T) {
	c := New(Options{})

	lines := []string{
		"From: bob@example.com (Bob)",
		"Subject: re: socks",
		"",
		"alice@example.com (Alice) writes:",
		"> wool socks are the best",
		"I prefer cotton myself,",
		"",
		"on most days anyway.",
		"-- ",
		"Bob | bob@example.com",
	}

	once := c.Body("100", lines)
	twice := c.Body("100", once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Body() not idempotent: first %q, second %q", once, twice)
	}
}

func TestCleaner_Body_NoHeaderBlock(t *testing.T) {
	c := New(Options{})

	// Already-cleaned text has no header block and no blank separator; it
	// must survive a second pass untouched.
	lines := []string{"just some body text", "and a second line"}
	got := c.Body("1", lines)
	if !reflect.DeepEqual(got, lines) {
		t.Errorf("Body() = %q, want %q", got, lines)
	}
}

func TestCleaner_Body_EmptyAndMalformed(t *testing.T) {
	c := New(Options{})

	if got := c.Body("1", nil); got != nil {
		t.Errorf("Body(nil) = %q, want nil", got)
	}

	// Header block with no blank separator: everything is header.
	lines := []string{"From: a@example.com", "Subject: no body here"}
	if got := c.Body("1", lines); got != nil {
		t.Errorf("Body() = %q, want nil", got)
	}
}
