package scopedstring

import (
	"bytes"

	"github.com/edwingeng/deque"
)

// / LineScanner walks a buffer of newline-separated text and hands out
// / ScopedString views of the lines, newline excluded.  No line is ever
// / copied; every view aliases the scanned buffer.  A consumer that reads
// / ahead can push views back and will see them again, oldest first,
// / before the buffer advances.
type LineScanner struct {
	buf    []byte
	pos    int
	lineno int

	pushed deque.Deque

	comment   byte
	skipBlank bool
	trimLines bool
}

func NewLineScanner(buf []byte) *LineScanner {
	ret := LineScanner{}
	ret.buf = buf
	ret.pushed = deque.NewDeque()
	return &ret
}

// / SetCommentChar makes the scanner drop lines whose first byte is c.
// / A zero byte disables the check.  When trimming is on, the comment
// / byte is matched after the trim.
func (s *LineScanner) SetCommentChar(c byte) { s.comment = c }

// / SetSkipBlank makes the scanner drop empty and all-whitespace lines.
func (s *LineScanner) SetSkipBlank(on bool) { s.skipBlank = on }

// / SetTrimLines trims whitespace off both ends of every line handed out.
func (s *LineScanner) SetTrimLines(on bool) { s.trimLines = on }

// / LineNo reports the 1-based buffer position of the line most recently
// / cut from the buffer.  Replayed pushed-back views do not move it.
func (s *LineScanner) LineNo() int { return s.lineno }

// / PushBack returns v to the scanner.  The following Next calls replay
// / pushed views first-in first-out before cutting new lines.
func (s *LineScanner) PushBack(v *ScopedString) {
	s.pushed.PushBack(v)
}

// / Next returns the next line view, or nil once the buffer is exhausted
// / and nothing is pushed back.  With the skip options off an empty line
// / comes back as an empty, non-nil view.
func (s *LineScanner) Next() *ScopedString {
	if !s.pushed.Empty() {
		return s.pushed.PopFront().(*ScopedString)
	}
	for s.pos < len(s.buf) {
		line := s.cutLine()
		if s.trimLines {
			line.Trim()
		}
		if s.skipBlank && isBlank(line) {
			continue
		}
		if s.comment != 0 && line.StartWithChar(s.comment) {
			continue
		}
		return line
	}
	return nil
}

func (s *LineScanner) cutLine() *ScopedString {
	start := s.pos
	end := len(s.buf)
	if i := bytes.IndexByte(s.buf[start:], '\n'); i >= 0 {
		end = start + i
		s.pos = end + 1
	} else {
		s.pos = end
	}
	// 去掉行尾的 \r
	if end > start && s.buf[end-1] == '\r' {
		end--
	}
	s.lineno++
	return NewScopedStringFromBytes(s.buf[start:end])
}

func isBlank(v *ScopedString) bool {
	for _, c := range v.Data() {
		if !isWhitespace(c) {
			return false
		}
	}
	return true
}
