package rope

import (
	"strings"
	"testing"
)

func TestEmptyRope(t *testing.T) {
	var r Rope
	if r.LenChars() != 0 || !r.IsEmpty() {
		t.Errorf("zero rope: len=%d empty=%v", r.LenChars(), r.IsEmpty())
	}
	if r.LineCount() != 1 {
		t.Errorf("empty rope has %d lines, want 1", r.LineCount())
	}
	if r.String() != "" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestFromStringRoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"hello",
		"hello\nworld\n",
		"日本語のテキスト\nsecond line",
		strings.Repeat("long line of text\n", 200), // multiple chunks
	} {
		if got := FromString(s).String(); got != s {
			t.Errorf("round trip mismatch for %d-byte input", len(s))
		}
	}
}

func TestLenCharsCountsRunes(t *testing.T) {
	r := FromString("日本𐍈x")
	if got := r.LenChars(); got != 4 {
		t.Errorf("LenChars = %d, want 4", got)
	}
}

func TestSliceChars(t *testing.T) {
	r := FromString("hello\nworld")
	tests := []struct {
		start, end CharIdx
		want       string
	}{
		{0, 5, "hello"},
		{4, 7, "o\nw"},
		{3, 3, ""},    // empty slice
		{7, 4, ""},    // inverted clamps to empty
		{9, 99, "ld"}, // end clamps
	}
	for _, tt := range tests {
		if got := r.SliceChars(tt.start, tt.end); got != tt.want {
			t.Errorf("SliceChars(%d,%d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSliceCharsAcrossChunks(t *testing.T) {
	s := strings.Repeat("abcdefghij", 200) // 2000 bytes, several chunks
	r := FromString(s)
	if got := r.SliceChars(995, 1005); got != s[995:1005] {
		t.Errorf("cross-chunk slice = %q, want %q", got, s[995:1005])
	}
}

func TestLineIndexing(t *testing.T) {
	r := FromString("ab\ncd\nef")
	if r.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", r.LineCount())
	}
	for ci, wantLine := range map[CharIdx]uint32{
		0: 0, 2: 0, 3: 1, 5: 1, 6: 2, 7: 2, 8: 2,
	} {
		if got := r.CharToLine(ci); got != wantLine {
			t.Errorf("CharToLine(%d) = %d, want %d", ci, got, wantLine)
		}
	}
	for line, wantChar := range map[uint32]CharIdx{
		0: 0, 1: 3, 2: 6,
	} {
		if got := r.LineToChar(line); got != wantChar {
			t.Errorf("LineToChar(%d) = %d, want %d", line, got, wantChar)
		}
	}
	// One past the last line starts one past the last character.
	if got := r.LineToChar(r.LineCount()); got != r.LenChars() {
		t.Errorf("LineToChar(LineCount()) = %d, want %d", got, r.LenChars())
	}
	// The position one past the end belongs to the last logical line.
	if got := r.CharToLine(r.LenChars()); got != r.LineCount()-1 {
		t.Errorf("CharToLine(LenChars()) = %d, want %d", got, r.LineCount()-1)
	}
}

func TestTrailingNewlineMakesEmptyLastLine(t *testing.T) {
	r := FromString("ab\n")
	if r.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2 (the last line is empty)", r.LineCount())
	}
	if got := r.LineToChar(1); got != 3 {
		t.Errorf("LineToChar(1) = %d, want 3", got)
	}
	if got := r.CharToLine(3); got != 1 {
		t.Errorf("CharToLine(3) = %d, want 1", got)
	}
}

func TestInsertChars(t *testing.T) {
	r := FromString("hello world")
	tests := []struct {
		at   CharIdx
		text string
		want string
	}{
		{0, ">> ", ">> hello world"},
		{5, ",", "hello, world"},
		{11, "!", "hello world!"},
		{99, "?", "hello world?"}, // clamps to end
	}
	for _, tt := range tests {
		if got := r.InsertChars(tt.at, tt.text).String(); got != tt.want {
			t.Errorf("InsertChars(%d, %q) = %q, want %q", tt.at, tt.text, got, tt.want)
		}
	}
	if got := r.String(); got != "hello world" {
		t.Errorf("insert mutated the receiver: %q", got)
	}
}

func TestInsertCharsUnicode(t *testing.T) {
	r := FromString("日本語")
	if got := r.InsertChars(1, "x").String(); got != "日x本語" {
		t.Errorf("got %q", got)
	}
}

func TestDeleteChars(t *testing.T) {
	r := FromString("hello\nworld")
	tests := []struct {
		start, end CharIdx
		want       string
	}{
		{4, 7, "hellorld"}, // across the newline
		{0, 6, "world"},
		{5, 5, "hello\nworld"}, // empty range no-op
		{6, 99, "hello\n"},     // end clamps
	}
	for _, tt := range tests {
		if got := r.DeleteChars(tt.start, tt.end).String(); got != tt.want {
			t.Errorf("DeleteChars(%d,%d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestDeleteAcrossChunks(t *testing.T) {
	s := strings.Repeat("0123456789", 300)
	r := FromString(s)
	got := r.DeleteChars(100, 2900).String()
	want := s[:100] + s[2900:]
	if got != want {
		t.Errorf("cross-chunk delete: len %d, want %d", len(got), len(want))
	}
	if r.String() != s {
		t.Error("delete mutated the receiver")
	}
}

func TestEditsKeepLineIndexConsistent(t *testing.T) {
	r := FromString("one\ntwo\nthree")
	r = r.InsertChars(4, "1.5\n") // "one\n1.5\ntwo\nthree"
	if r.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4", r.LineCount())
	}
	if got := r.LineToChar(2); got != 8 {
		t.Errorf("LineToChar(2) = %d, want 8", got)
	}
	r = r.DeleteChars(4, 8) // back to "one\ntwo\nthree"
	if r.LineCount() != 3 || r.String() != "one\ntwo\nthree" {
		t.Errorf("after delete: %q (%d lines)", r.String(), r.LineCount())
	}
}

func TestEqual(t *testing.T) {
	a := FromString("same text")
	// Same text arrived at through different chunkings.
	b := FromString("same").InsertChars(4, " text")
	if !a.Equal(b) {
		t.Error("equal text compared unequal")
	}
	if a.Equal(FromString("other")) {
		t.Error("different text compared equal")
	}
}
