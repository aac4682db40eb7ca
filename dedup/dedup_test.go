package dedup

import (
	"fmt"
	"testing"
)

func TestTracker(t *testing.T) {
	tr := NewTracker()

	if tr.Seen("abc") {
		t.Error("Seen(abc) = true before Mark")
	}

	tr.Mark("abc", "msg-1")
	if !tr.Seen("abc") {
		t.Error("Seen(abc) = false after Mark")
	}
	if tr.Seen("def") {
		t.Error("Seen(def) = true, want false")
	}
	if tr.Count() != 1 {
		t.Errorf("Count() = %d, want 1", tr.Count())
	}

	// Empty hashes are never tracked.
	tr.Mark("", "msg-2")
	if tr.Seen("") {
		t.Error("Seen(\"\") = true, want false")
	}
	if tr.Count() != 1 {
		t.Errorf("Count() = %d after empty Mark, want 1", tr.Count())
	}
}

// BenchmarkTracker_Mark benchmarks tracker write performance.
func BenchmarkTracker_Mark(b *testing.B) {
	tr := NewTracker()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Mark(fmt.Sprintf("hash-%d", i), fmt.Sprintf("msg-%d", i))
	}
}
