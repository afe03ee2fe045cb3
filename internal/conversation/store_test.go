package conversation

import (
	"fmt"
	"sync"
	"testing"
)

func TestStoreAppendPreservesOrder(t *testing.T) {
	s := NewStore()
	s.Append(RoleUser, "first")
	s.Append(RoleAssistant, "second")
	s.Append(RoleUser, "third")

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(all))
	}
	for i, want := range []string{"first", "second", "third"} {
		if all[i].Content != want {
			t.Fatalf("message %d out of order: got %q", i, all[i].Content)
		}
		if all[i].Seq != int64(i+1) {
			t.Fatalf("expected seq %d, got %d", i+1, all[i].Seq)
		}
	}
}

func TestStoreLengthAdditive(t *testing.T) {
	s := NewStore()
	const n = 50
	for i := 0; i < n; i++ {
		s.Append(RoleUser, fmt.Sprintf("msg %d", i))
	}
	if s.Len() != n {
		t.Fatalf("expected %d messages after %d appends, got %d", n, n, s.Len())
	}
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.Append(RoleUser, "original")

	snap := s.All()
	snap[0].Content = "mutated"

	if s.All()[0].Content != "original" {
		t.Fatal("snapshot mutation leaked into store")
	}
}

func TestStoreConcurrentAppends(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	const writers = 8
	const perWriter = 25

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Append(RoleUser, "m")
			}
		}()
	}
	wg.Wait()

	all := s.All()
	if len(all) != writers*perWriter {
		t.Fatalf("expected %d messages, got %d", writers*perWriter, len(all))
	}
	seen := make(map[int64]bool, len(all))
	for _, m := range all {
		if seen[m.Seq] {
			t.Fatalf("duplicate sequence number %d", m.Seq)
		}
		seen[m.Seq] = true
	}
}
