package scopedstring

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/segmentio/fasthash/fnv1a"
)

// / StringPool interns byte content behind canonical ScopedString views.
// / Views handed out by Intern stay valid for the life of the pool, so a
// / transient parse buffer can be dropped while its interesting slices live
// / on.  Interning is the one place in this package that copies: the pool
// / owns a private copy of every distinct content it has seen.
// /
// / Buckets are keyed by 64-bit fnv1a; contents colliding on the key share
// / a bucket and are told apart bytewise.  Safe for concurrent use.  Intern
// / computes the canonical view's hash before publishing it, so a shared
// / canonical view never sees a first-use cache write from two goroutines.
type StringPool struct {
	mu      sync.RWMutex
	buckets map[uint64][]*ScopedString
	count   int

	hits   int64
	misses int64
}

type PoolStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

func NewStringPool() *StringPool {
	ret := StringPool{}
	ret.buckets = make(map[uint64][]*ScopedString)
	return &ret
}

// / Intern returns the canonical view for the content of b, copying b into
// / pool-owned storage the first time the content shows up.  Later writes
// / to b do not affect the canonical view.
func (p *StringPool) Intern(b []byte) *ScopedString {
	key := fnv1a.AddBytes64(fnv1a.Init64, b)

	p.mu.RLock()
	for _, v := range p.buckets[key] {
		if bytes.Equal(v.Data(), b) {
			p.mu.RUnlock()
			atomic.AddInt64(&p.hits, 1)
			return v
		}
	}
	p.mu.RUnlock()
	atomic.AddInt64(&p.misses, 1)

	owned := append([]byte(nil), b...)
	v := NewScopedStringFromBytes(owned)
	v.Hash()

	p.mu.Lock()
	for _, have := range p.buckets[key] {
		if bytes.Equal(have.Data(), b) {
			// Another goroutine got here first; hand out its view.
			p.mu.Unlock()
			return have
		}
	}
	p.buckets[key] = append(p.buckets[key], v)
	p.count++
	p.mu.Unlock()
	return v
}

// / InternString interns the content of s without an up-front copy; bytes
// / are only copied when the content is new to the pool.
func (p *StringPool) InternString(s string) *ScopedString {
	return p.Intern(NewScopedStringFromString(s).Data())
}

// / Lookup returns the canonical view for b if one exists, without
// / inserting or touching the hit counters.
func (p *StringPool) Lookup(b []byte) (*ScopedString, bool) {
	key := fnv1a.AddBytes64(fnv1a.Init64, b)
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, v := range p.buckets[key] {
		if bytes.Equal(v.Data(), b) {
			return v, true
		}
	}
	return nil, false
}

// / Len reports how many distinct contents the pool holds.
func (p *StringPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.count
}

func (p *StringPool) Stats() PoolStats {
	p.mu.RLock()
	entries := p.count
	p.mu.RUnlock()
	return PoolStats{
		Entries: entries,
		Hits:    atomic.LoadInt64(&p.hits),
		Misses:  atomic.LoadInt64(&p.misses),
	}
}
