package scopedstring

import (
	"fmt"
	"sync"
	"testing"
)

func TestPoolCanonicalViews(t *testing.T) {
	p := NewStringPool()
	a1 := p.Intern([]byte("alpha"))
	a2 := p.Intern([]byte("alpha"))
	if a1 != a2 {
		t.Fatalf("same content should intern to the same view")
	}
	b := p.Intern([]byte("beta"))
	if a1 == b {
		t.Fatalf("distinct contents should not share a view")
	}
	if p.Len() != 2 {
		t.Errorf("pool holds %d entries, want 2", p.Len())
	}

	st := p.Stats()
	if st.Hits != 1 || st.Misses != 2 || st.Entries != 2 {
		t.Errorf("stats = %+v, want 1 hit, 2 misses, 2 entries", st)
	}
}

func TestPoolCopiesContent(t *testing.T) {
	p := NewStringPool()
	src := []byte("gamma")
	v := p.Intern(src)
	src[0] = 'X'
	if v.AsString() != "gamma" {
		t.Errorf("canonical view = %q after caller write, want gamma", v.AsString())
	}
	// The mutated buffer is new content now.
	if p.Intern(src) == v {
		t.Errorf("mutated buffer should intern separately")
	}
}

func TestPoolInternString(t *testing.T) {
	p := NewStringPool()
	v1 := p.InternString("delta")
	v2 := p.Intern([]byte("delta"))
	if v1 != v2 {
		t.Errorf("string and byte interning should share the canonical view")
	}
	if v1.Hash() != sv("delta").Hash() {
		t.Errorf("canonical view hash does not match content")
	}
}

func TestPoolLookup(t *testing.T) {
	p := NewStringPool()
	if _, ok := p.Lookup([]byte("nothing")); ok {
		t.Fatalf("lookup in an empty pool should miss")
	}
	want := p.Intern([]byte("present"))
	got, ok := p.Lookup([]byte("present"))
	if !ok || got != want {
		t.Errorf("lookup should find the interned view")
	}
	st := p.Stats()
	if st.Hits != 0 {
		t.Errorf("lookup must not count as a hit, stats = %+v", st)
	}
}

func TestPoolConcurrentIntern(t *testing.T) {
	p := NewStringPool()
	words := make([]string, 8)
	for i := range words {
		words[i] = fmt.Sprintf("word-%d", i)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := 0; round < 100; round++ {
				for _, w := range words {
					p.InternString(w)
				}
			}
		}()
	}
	wg.Wait()

	if p.Len() != len(words) {
		t.Fatalf("pool holds %d entries, want %d", p.Len(), len(words))
	}
	for _, w := range words {
		v, ok := p.Lookup([]byte(w))
		if !ok || v.AsString() != w {
			t.Errorf("canonical view for %q missing or wrong", w)
		}
	}
}
