package scopedstring

import "testing"

func collectLines(s *LineScanner) []string {
	var out []string
	for v := s.Next(); v != nil; v = s.Next() {
		out = append(out, v.AsString())
	}
	return out
}

func TestScannerSplitsLines(t *testing.T) {
	s := NewLineScanner([]byte("one\ntwo\r\n\nthree"))
	got := collectLines(s)
	want := []string{"one", "two", "", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if s.LineNo() != 4 {
		t.Errorf("LineNo = %d, want 4", s.LineNo())
	}
	if s.Next() != nil {
		t.Errorf("exhausted scanner should keep returning nil")
	}
}

func TestScannerEmptyBuffer(t *testing.T) {
	if NewLineScanner(nil).Next() != nil {
		t.Errorf("nil buffer should scan as empty")
	}
	if NewLineScanner([]byte{}).Next() != nil {
		t.Errorf("empty buffer should scan as empty")
	}
}

func TestScannerSkipsCommentsAndBlanks(t *testing.T) {
	buf := []byte("# leading comment\n\nvalue one\n   \n  # indented comment\nvalue two\n")
	s := NewLineScanner(buf)
	s.SetCommentChar('#')
	s.SetSkipBlank(true)
	s.SetTrimLines(true)

	got := collectLines(s)
	want := []string{"value one", "value two"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScannerPushBackReplaysInOrder(t *testing.T) {
	s := NewLineScanner([]byte("a\nb\nc"))
	first := s.Next()
	second := s.Next()
	if first.AsString() != "a" || second.AsString() != "b" {
		t.Fatalf("setup read %q, %q", first.AsString(), second.AsString())
	}

	s.PushBack(first)
	s.PushBack(second)
	if got := s.Next(); got != first {
		t.Errorf("first replay = %q, want the pushed-back a", got.AsString())
	}
	if got := s.Next(); got != second {
		t.Errorf("second replay = %q, want the pushed-back b", got.AsString())
	}
	if got := s.Next(); got == nil || got.AsString() != "c" {
		t.Errorf("after replay the buffer should continue with c")
	}
	if s.LineNo() != 3 {
		t.Errorf("LineNo = %d, want 3", s.LineNo())
	}
}

func TestScannerViewsAliasBuffer(t *testing.T) {
	buf := []byte("abc\ndef")
	s := NewLineScanner(buf)
	v := s.Next()
	buf[0] = 'x'
	if v.AsString() != "xbc" {
		t.Errorf("line view = %q after buffer write, want xbc", v.AsString())
	}
}
