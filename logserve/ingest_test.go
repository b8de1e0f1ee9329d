package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"scopedstring-go/scopedstring"
)

func TestDigestBuffer(t *testing.T) {
	a := DigestBuffer([]byte("alpha\nbeta\n"))
	b := DigestBuffer([]byte("alpha\nbeta\n"))
	if a != b {
		t.Fatalf("digest not deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(a))
	}
	if c := DigestBuffer([]byte("alpha\nbeta")); c == a {
		t.Fatalf("different buffers share digest %s", a)
	}
}

func TestProcessBuffer(t *testing.T) {
	buf := []byte("alpha\nbeta\r\n\ngamma")
	entry := ProcessBuffer("/var/log/app.log", "ci", buf, time.Hour)
	if entry.Digest != DigestBuffer(buf) {
		t.Fatalf("entry digest %s does not match buffer digest", entry.Digest)
	}
	if entry.Path != "/var/log/app.log" || entry.Instance != "ci" {
		t.Fatalf("entry metadata = %q/%q", entry.Path, entry.Instance)
	}
	if entry.ByteCount != int64(len(buf)) {
		t.Fatalf("ByteCount = %d, want %d", entry.ByteCount, len(buf))
	}
	if entry.ExpiredDuration != 3600 {
		t.Fatalf("ExpiredDuration = %d, want 3600", entry.ExpiredDuration)
	}
	want := []string{"alpha", "beta", "", "gamma"}
	if entry.LineCount != int64(len(want)) || len(entry.Lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(entry.Lines), len(want))
	}
	for i, line := range entry.Lines {
		if line.Content != want[i] {
			t.Errorf("line %d content = %q, want %q", i, line.Content, want[i])
		}
		if line.LineNo != int64(i+1) {
			t.Errorf("line %d LineNo = %d, want %d", i, line.LineNo, i+1)
		}
		if len(line.Hash) != 8 || len(line.Hash64) != 16 {
			t.Errorf("line %d hash widths = %d/%d, want 8/16", i, len(line.Hash), len(line.Hash64))
		}
	}
	sv := scopedstring.NewScopedStringFromString("alpha")
	if entry.Lines[0].Hash != fmt.Sprintf("%08x", sv.Hash()) {
		t.Errorf("line hash %s does not match view hash", entry.Lines[0].Hash)
	}
	if entry.Lines[0].Hash64 != fmt.Sprintf("%016x", scopedstring.Rapidhash64([]byte("alpha"))) {
		t.Errorf("line fingerprint %s does not match rapidhash", entry.Lines[0].Hash64)
	}
}

func TestProcessBufferTruncatesLongLines(t *testing.T) {
	long := strings.Repeat("x", 300)
	entry := ProcessBuffer("big.log", "", []byte(long+"\n"), time.Hour)
	if len(entry.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(entry.Lines))
	}
	content := entry.Lines[0].Content
	if len(content) != 253 || !strings.HasSuffix(content, "...") {
		t.Fatalf("long line stored as %d bytes ending %q", len(content), content[len(content)-3:])
	}
	// The fingerprint still covers the whole line, not the preview.
	if entry.Lines[0].Hash64 != fmt.Sprintf("%016x", scopedstring.Rapidhash64([]byte(long))) {
		t.Errorf("fingerprint computed over truncated content")
	}
}

func TestParseExpiredDuration(t *testing.T) {
	if d := ParseExpiredDuration(""); d != kDefaultExpiredDuration {
		t.Fatalf("default duration = %s", d)
	}
	if d := ParseExpiredDuration("5m"); d != 5*time.Minute {
		t.Fatalf("parsed duration = %s", d)
	}
}
