package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to empty string, got %q ok=%v", s, ok)
	}

	id1 := in.Intern("Participant")
	if id1 == NoStringID {
		t.Fatalf("Intern returned NoStringID for non-empty string")
	}
	if id2 := in.Intern("Participant"); id1 != id2 {
		t.Fatalf("same string interned twice: %d != %d", id1, id2)
	}
	if s := in.MustLookup(id1); s != "Participant" {
		t.Fatalf("lookup returned %q", s)
	}
	if id3 := in.Intern("Message"); id3 == id1 {
		t.Fatalf("different strings share an id")
	}
	if in.Len() != 3 {
		t.Fatalf("expected Len 3, got %d", in.Len())
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("lookup of unknown id must fail")
	}
}

func TestInternerNormalizesToNFC(t *testing.T) {
	in := NewInterner()
	composed := in.Intern("caf\u00e9")
	decomposed := in.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC-equivalent identifiers got different ids: %d vs %d", composed, decomposed)
	}
	if id, ok := in.Find("cafe\u0301"); !ok || id != composed {
		t.Fatalf("Find must normalize as well, got %d ok=%v", id, ok)
	}
}

func TestInternerFindDoesNotInsert(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Find("ghost"); ok {
		t.Fatalf("unexpected hit")
	}
	if in.Len() != 1 {
		t.Fatalf("Find must not grow the interner")
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	ids := make([][]StringID, 8)
	for g := range ids {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 100 {
				ids[g] = append(ids[g], in.Intern(fmt.Sprintf("name%d", i)))
			}
		}(g)
	}
	wg.Wait()

	for g := 1; g < len(ids); g++ {
		for i := range ids[g] {
			if ids[g][i] != ids[0][i] {
				t.Fatalf("goroutine %d got id %d for name%d, want %d", g, ids[g][i], i, ids[0][i])
			}
		}
	}
	if in.Len() != 101 {
		t.Fatalf("expected 101 entries, got %d", in.Len())
	}
}
