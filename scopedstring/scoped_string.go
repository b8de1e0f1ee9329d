package scopedstring

import (
	"bytes"
	"unsafe"
)

// / Seed for the incremental string hash.  Keeping the golden-ratio constant
// / of the original engine keeps hashes comparable across tools and stores.
const StringHashingStartValue uint32 = 0x9E3779B9

// Display rendering bounds for CStr.
const (
	cstrMaxCopy  = 250
	cstrEllipsis = "..."
)

// / ScopedString is a non-owning view over bytes somebody else keeps alive.
// / Slicing, trimming and searching never copy or allocate; the only mutable
// / state besides the window itself is a lazily computed 32-bit hash of the
// / viewed bytes.
// /
// / The caller owns the backing array and must keep it alive for as long as
// / any view derived from it is in use.  A view is not safe for concurrent
// / use without a lock: Hash writes the cache, Trim and Reset move the
// / window.
type ScopedString struct {
	data_ []byte
	hash_ uint32
}

// / NewScopedString returns the null view: no data, nothing cached.
func NewScopedString() *ScopedString {
	ret := ScopedString{}
	return &ret
}

// / NewScopedStringFromBytes views b as-is.  The caller keeps ownership of b.
func NewScopedStringFromBytes(b []byte) *ScopedString {
	ret := ScopedString{}
	ret.data_ = b
	return &ret
}

// / NewScopedStringFromCStr views b up to but not including its first NUL
// / byte, the way strlen would size it.  Without a NUL the whole of b is
// / viewed.
func NewScopedStringFromCStr(b []byte) *ScopedString {
	ret := ScopedString{}
	if b != nil {
		if i := bytes.IndexByte(b, 0); i >= 0 {
			ret.data_ = b[:i]
		} else {
			ret.data_ = b
		}
	}
	return &ret
}

// / NewScopedStringFromString views the bytes of s without copying.  The
// / string immutability rules carry over: the view must never be written
// / through.  Trim and Reset only move the window, they never touch bytes.
func NewScopedStringFromString(s string) *ScopedString {
	ret := ScopedString{}
	if len(s) > 0 {
		ret.data_ = unsafe.Slice(unsafe.StringData(s), len(s))
	}
	return &ret
}

// / Clone returns a second view of the same bytes, cached hash included.
func (this *ScopedString) Clone() *ScopedString {
	ret := ScopedString{}
	ret.data_ = this.data_
	ret.hash_ = this.hash_
	return &ret
}

// / IsNull reports whether there is nothing to look at: zero length or no
// / data at all.
func (this *ScopedString) IsNull() bool {
	return len(this.data_) == 0 || this.data_ == nil
}

func (this *ScopedString) Size() int { return len(this.data_) }

// / Data exposes the viewed bytes.  The slice is the live window, not a copy.
func (this *ScopedString) Data() []byte { return this.data_ }

// / Tail returns the last byte of the view.  An empty or null view panics on
// / the bounds check; callers guard with IsNull or Size first.
func (this *ScopedString) Tail() byte {
	return this.data_[len(this.data_)-1]
}

// / Reset repoints the view at b and clears the cached hash.
func (this *ScopedString) Reset(b []byte) {
	this.data_ = b
	this.hash_ = 0
}

// / Hash lazily computes and caches a 32-bit hash of the viewed bytes.  The
// / bytes are mixed two at a time from the golden-ratio seed, with a final
// / half-step for an odd tail.  A zero cache means "not computed yet", so a
// / content whose true hash is zero is recomputed on every call.  Null and
// / empty views hash to zero without populating the cache.
func (this *ScopedString) Hash() uint32 {
	if this.hash_ == 0 && len(this.data_) > 0 {
		data := this.data_
		length := len(this.data_)
		remainder := length&1 == 1
		length >>= 1

		hash := StringHashingStartValue
		for ; length > 0; length-- {
			hash += uint32(data[0])
			hash = (hash << 16) ^ ((uint32(data[1]) << 11) ^ hash)
			hash += hash >> 11
			data = data[2:]
		}
		if remainder {
			hash += uint32(data[0])
			hash = (hash << 16) ^ ((uint32(data[0]) << 11) ^ hash)
			hash += hash >> 11
		}
		this.hash_ = hash
	}
	return this.hash_
}

// / Trim shrinks the view past leading and trailing whitespace (space, tab,
// / CR, LF).  The right end is stripped first, then the left, and neither
// / pass shrinks the view below one byte, so an all-whitespace view keeps a
// / single byte.  The backing bytes are untouched; the cached hash is
// / cleared.
func (this *ScopedString) Trim() {
	if this.IsNull() {
		return
	}
	data := this.data_
	for len(data) > 1 && isWhitespace(data[len(data)-1]) {
		data = data[:len(data)-1]
	}
	for len(data) > 1 && isWhitespace(data[0]) {
		data = data[1:]
	}
	this.data_ = data
	this.hash_ = 0
}

// / TrimChar is Trim for one specific byte value.
func (this *ScopedString) TrimChar(c byte) {
	if this.IsNull() {
		return
	}
	data := this.data_
	for len(data) > 1 && data[len(data)-1] == c {
		data = data[:len(data)-1]
	}
	for len(data) > 1 && data[0] == c {
		data = data[1:]
	}
	this.data_ = data
	this.hash_ = 0
}

// / StartWith reports whether the view begins with str.  An empty str
// / matches any view.
func (this *ScopedString) StartWith(str *ScopedString) bool {
	if str.Size() > this.Size() {
		return false
	}
	for x := 0; x < str.Size(); x++ {
		if this.data_[x] != str.data_[x] {
			return false
		}
	}
	return true
}

// / EndWith reports whether the view ends with str.  An empty str matches
// / any view.
func (this *ScopedString) EndWith(str *ScopedString) bool {
	if str.Size() > this.Size() {
		return false
	}
	y := 0
	for x := this.Size() - str.Size(); x < this.Size(); x++ {
		if this.data_[x] != str.data_[y] {
			return false
		}
		y++
	}
	return true
}

func (this *ScopedString) StartWithChar(c byte) bool {
	return len(this.data_) > 0 && this.data_[0] == c
}

func (this *ScopedString) EndWithChar(c byte) bool {
	return len(this.data_) > 0 && this.data_[len(this.data_)-1] == c
}

// / Find returns the offset of the first occurrence of c in the view, or -1
// / when c does not occur.
func (this *ScopedString) Find(c byte) int {
	if this.data_ == nil {
		return -1
	}
	return bytes.IndexByte(this.data_, c)
}

// / Substr returns the suffix view beginning at start.  A negative start
// / counts back from the end.  When the normalized start lands at or before
// / the first byte the receiver itself is returned, cached hash intact; a
// / start at or past the end yields a null view.
func (this *ScopedString) Substr(start int) *ScopedString {
	s := start
	if start < 0 {
		s = len(this.data_) + start
	}
	if s <= 0 {
		return this
	}
	if s < len(this.data_) {
		return NewScopedStringFromBytes(this.data_[s:])
	}
	return NewScopedString()
}

// / SubstrLen returns the sub-view selected by start and size:
// /
// /	hello  1:3  => ell
// /	hello -1:3  => llo
// /	hello  1:-1 => ello
// /
// / A non-negative start is an offset from the front and a positive size a
// / byte count.  A negative argument instead names the final byte of the
// / selection, counted from the end of the view (-1 is the last byte).  A
// / size of zero selects through the end.  An inverted range is swapped and
// / both ends clamp to the view, so a degenerate input yields an empty
// / view, never an out-of-range one.  The result is always a fresh view
// / with no cached hash.
func (this *ScopedString) SubstrLen(start, size int) *ScopedString {
	length := len(this.data_)
	s := 0
	e := 0
	if start >= 0 {
		s = start
		if size > 0 {
			e = s + size
		} else {
			e = length + size + 1
		}
	} else {
		if size > 0 {
			e = length + start + 1
			s = e - size
		} else {
			s = length + start
			e = length + size + 1
		}
	}
	if s > e {
		s, e = e, s
	}
	if s < 0 {
		s = 0
	}
	if e < 0 {
		e = 0
	}
	if s > length {
		s = length
	}
	if e > length {
		e = length
	}
	return NewScopedStringFromBytes(this.data_[s:e])
}

// / CStr renders the view as an owned string for display.  At most 250
// / bytes are copied; a view of 250 bytes or more is cut there and "..."
// / appended, so the result never exceeds 253 bytes.  A null view renders
// / as "".
func (this *ScopedString) CStr() string {
	if this.data_ == nil {
		return ""
	}
	if len(this.data_) < cstrMaxCopy {
		return string(this.data_)
	}
	out := make([]byte, 0, cstrMaxCopy+len(cstrEllipsis))
	out = append(out, this.data_[:cstrMaxCopy]...)
	out = append(out, cstrEllipsis...)
	return string(out)
}

// / String implements fmt.Stringer with the truncating CStr rendering.
func (this *ScopedString) String() string {
	return this.CStr()
}

// / AsString copies the whole view into an owned string, however long.
func (this *ScopedString) AsString() string {
	return string(this.data_)
}

// / Equal reports structural equality: equal lengths and equal bytes.  Two
// / empty views are equal no matter where their data points, and two views
// / of the same length starting at the same byte are equal without looking
// / at the bytes.
func Equal(a, b *ScopedString) bool {
	if a.Size() != b.Size() {
		return false
	}
	if a.Size() == 0 {
		return true
	}
	if &a.data_[0] == &b.data_[0] {
		return true
	}
	return bytes.Equal(a.data_, b.data_)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
