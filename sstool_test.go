package main

import "testing"

func TestEditDistance(t *testing.T) {
	tests := []struct {
		s1, s2            string
		allowReplacements bool
		max               int
		want              int
	}{
		{"stats", "stats", true, 0, 0},
		{"stats", "stts", true, 0, 1},
		{"trim", "trmi", true, 0, 2},
		{"freq", "uniq", true, 0, 3},
		{"", "abc", true, 0, 3},
		{"abc", "", true, 0, 3},
		{"ab", "ba", false, 0, 2},
		{"hash", "hashing", true, 3, 3},
		{"abcdef", "xyzxyz", true, 2, 3}, // cut short at max+1
	}
	for _, tt := range tests {
		got := EditDistance(tt.s1, tt.s2, tt.allowReplacements, tt.max)
		if got != tt.want {
			t.Errorf("EditDistance(%q, %q, %v, %d) = %d, want %d",
				tt.s1, tt.s2, tt.allowReplacements, tt.max, got, tt.want)
		}
	}
}

func TestSpellcheckString(t *testing.T) {
	words := []string{"trim", "find", "substr", "hash", "uniq", "freq", "stats"}
	if got := SpellcheckString("stts", words...); got != "stats" {
		t.Errorf("suggestion for stts = %q, want stats", got)
	}
	if got := SpellcheckString("zzz", words...); got != "" {
		t.Errorf("suggestion for zzz = %q, want none", got)
	}
}

func TestElideMiddle(t *testing.T) {
	if got := ElideMiddle("short", 80); got != "short" {
		t.Errorf("short line should pass through, got %q", got)
	}
	got := ElideMiddle("0123456789abcdefghij", 10)
	if got != "012...hij" {
		t.Errorf("elided = %q, want 012...hij", got)
	}
	if got := ElideMiddle("0123456789", 2); got != "01" {
		t.Errorf("tiny width elide = %q, want 01", got)
	}
}

func TestParseVersion(t *testing.T) {
	var major, minor int
	ParseVersion("1.2.3", &major, &minor)
	if major != 1 || minor != 2 {
		t.Errorf("1.2.3 parsed as %d.%d", major, minor)
	}
	ParseVersion("10", &major, &minor)
	if major != 10 || minor != 0 {
		t.Errorf("10 parsed as %d.%d", major, minor)
	}
}
