package editor

import (
	"reflect"
	"testing"
)

func TestNewCursorAtEnd(t *testing.T) {
	b := New(".items")
	if b.Text() != ".items" {
		t.Fatalf("Text() = %q", b.Text())
	}
	if b.Cursor() != 6 {
		t.Fatalf("Cursor() = %d, want 6", b.Cursor())
	}
}

func TestInsertAtCursor(t *testing.T) {
	b := New(".id")
	b.SetCursor(1)
	b.InsertString("user_")
	if b.Text() != ".user_id" {
		t.Fatalf("Text() = %q", b.Text())
	}
	if b.Cursor() != 6 {
		t.Fatalf("Cursor() = %d, want 6", b.Cursor())
	}
}

func TestCursorMotionClamps(t *testing.T) {
	b := New("ab")
	b.ForwardChar()
	if b.Cursor() != 2 {
		t.Fatalf("cursor ran past end: %d", b.Cursor())
	}
	b.Home()
	b.BackwardChar()
	if b.Cursor() != 0 {
		t.Fatalf("cursor ran past start: %d", b.Cursor())
	}
}

func TestWordMotion(t *testing.T) {
	b := New(`.items[0].display-name`)
	b.Home()
	b.ForwardWord()
	if b.Cursor() != 6 { // past "items"
		t.Fatalf("ForwardWord cursor = %d, want 6", b.Cursor())
	}
	b.ForwardWord()
	if b.Cursor() != 8 { // past "0"
		t.Fatalf("second ForwardWord cursor = %d, want 8", b.Cursor())
	}

	b.End()
	b.BackwardWord()
	if b.Cursor() != 10 { // "-" counts as a word char, so the whole name
		t.Fatalf("BackwardWord cursor = %d, want 10", b.Cursor())
	}
	b.BackwardWord()
	if b.Cursor() != 7 { // start of "0"
		t.Fatalf("second BackwardWord cursor = %d, want 7", b.Cursor())
	}
	b.BackwardWord()
	if b.Cursor() != 1 { // start of "items"
		t.Fatalf("third BackwardWord cursor = %d, want 1", b.Cursor())
	}
}

func TestBackwardWordOnSingleWordFilter(t *testing.T) {
	// ".foo" holds one word; two backward-word motions from end-of-line
	// land on offset 0, with the leading separator consumed by the second.
	b := New(".foo")
	b.BackwardWord()
	if b.Cursor() != 1 {
		t.Fatalf("BackwardWord cursor = %d, want 1", b.Cursor())
	}
	b.BackwardWord()
	if b.Cursor() != 0 {
		t.Fatalf("second BackwardWord cursor = %d, want 0", b.Cursor())
	}
}

func TestDeleteCharsDoNotKill(t *testing.T) {
	b := New("abc")
	b.SetCursor(1)
	b.DeleteNextChar()
	if b.Text() != "ac" || b.Cursor() != 1 {
		t.Fatalf("after DeleteNextChar: %q cursor %d", b.Text(), b.Cursor())
	}
	b.DeletePrevChar()
	if b.Text() != "c" || b.Cursor() != 0 {
		t.Fatalf("after DeletePrevChar: %q cursor %d", b.Text(), b.Cursor())
	}
	if len(b.KillRing()) != 0 {
		t.Fatalf("char deletes must not touch the kill ring: %v", b.KillRing())
	}
}

func TestKillLineAndYank(t *testing.T) {
	b := New(".items | length")
	b.SetCursor(7)
	b.KillLine()
	if b.Text() != ".items " {
		t.Fatalf("after KillLine: %q", b.Text())
	}
	if got := b.KillRing(); !reflect.DeepEqual(got, []string{"| length"}) {
		t.Fatalf("kill ring = %v", got)
	}

	b.Yank()
	if b.Text() != ".items | length" {
		t.Fatalf("after Yank: %q", b.Text())
	}
	if b.Cursor() != 15 {
		t.Fatalf("cursor after Yank = %d", b.Cursor())
	}
}

func TestDeleteWordPushesFront(t *testing.T) {
	b := New("foo bar")
	b.End()
	b.DeletePrevWord()
	b.DeletePrevWord()
	if b.Text() != "" {
		t.Fatalf("Text() = %q", b.Text())
	}
	// Most recent kill first.
	if got := b.KillRing(); !reflect.DeepEqual(got, []string{"foo ", "bar"}) {
		t.Fatalf("kill ring = %v", got)
	}
}

func TestYankPopRotatesAndWraps(t *testing.T) {
	b := New("one two three")
	b.End()
	b.DeletePrevWord() // kills "three"
	b.DeletePrevWord() // kills "two "
	b.DeletePrevWord() // kills "one "

	b.Yank()
	if b.Text() != "one " {
		t.Fatalf("after Yank: %q", b.Text())
	}
	b.YankPop()
	if b.Text() != "two " {
		t.Fatalf("after first YankPop: %q", b.Text())
	}
	b.YankPop()
	if b.Text() != "three" {
		t.Fatalf("after second YankPop: %q", b.Text())
	}
	// Wraps back to the most recent kill.
	b.YankPop()
	if b.Text() != "one " {
		t.Fatalf("after wrapping YankPop: %q", b.Text())
	}
}

func TestYankPopOnlyAfterYank(t *testing.T) {
	b := New("x y")
	b.End()
	b.DeletePrevWord()
	b.Yank()
	b.InsertRune('!')
	before := b.Text()
	b.YankPop()
	if b.Text() != before {
		t.Fatalf("YankPop after unrelated edit changed text: %q -> %q", before, b.Text())
	}
}

func TestYankEmptyRingIsNoop(t *testing.T) {
	b := New("abc")
	b.Yank()
	if b.Text() != "abc" {
		t.Fatalf("Yank on empty ring changed text: %q", b.Text())
	}
}

func TestRestoreClampsCursor(t *testing.T) {
	b := New("")
	b.Restore(".x", 99)
	if b.Cursor() != 2 {
		t.Fatalf("Restore cursor = %d, want 2", b.Cursor())
	}
	b.Restore(".x", -5)
	if b.Cursor() != 0 {
		t.Fatalf("Restore cursor = %d, want 0", b.Cursor())
	}
}

func TestFreshKillResetsRotation(t *testing.T) {
	b := New("a b c")
	b.End()
	b.DeletePrevWord()
	b.DeletePrevWord()
	b.Yank()
	b.YankPop() // now pointing at the older kill
	b.DeletePrevWord()
	b.Yank()
	// A new kill must yank itself, not continue the old rotation.
	if got := b.KillRing()[0]; b.Text()[len(b.Text())-len(got):] != got {
		t.Fatalf("fresh kill did not yank most recent entry: text %q ring %v", b.Text(), b.KillRing())
	}
}
