// Package editor implements the single-line prompt buffer: emacs-style
// point motions, word operations and a kill ring. All operations clamp at
// the buffer boundaries instead of failing, and the buffer is rune-based so
// the cursor never lands inside a multi-byte character.
package editor

// wordChar matches the original tool's word class: alphanumerics plus '_'
// and '-'. Everything else is a separator.
func wordChar(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

// Buffer is a mutable line of text with a cursor and a kill ring. The zero
// value is not usable; construct with New.
type Buffer struct {
	runes  []rune
	cursor int

	kills  []string // most recent first
	rotate int      // kill-ring index of the next yank

	// span of the most recent yank, or yankEnd < 0 when the last
	// mutation was not a yank (YankPop is only legal right after one)
	yankStart int
	yankEnd   int
}

// New returns a buffer holding text with the cursor at the end.
func New(text string) *Buffer {
	b := &Buffer{runes: []rune(text), yankEnd: -1}
	b.cursor = len(b.runes)
	return b
}

// Text returns the buffer contents.
func (b *Buffer) Text() string { return string(b.runes) }

// Cursor returns the cursor offset in characters, 0..Len.
func (b *Buffer) Cursor() int { return b.cursor }

// Len returns the buffer length in characters.
func (b *Buffer) Len() int { return len(b.runes) }

// SetText replaces the contents and moves the cursor to the end.
func (b *Buffer) SetText(text string) {
	b.runes = []rune(text)
	b.cursor = len(b.runes)
	b.yankEnd = -1
}

// Restore replaces contents and cursor, clamping the cursor into range.
// Used when stepping through history snapshots.
func (b *Buffer) Restore(text string, cursor int) {
	b.runes = []rune(text)
	b.cursor = clamp(cursor, 0, len(b.runes))
	b.yankEnd = -1
}

// SetCursor moves the cursor, clamped to [0, Len].
func (b *Buffer) SetCursor(c int) { b.cursor = clamp(c, 0, len(b.runes)) }

// InsertRune inserts r at the cursor and advances past it.
func (b *Buffer) InsertRune(r rune) {
	b.insert(string(r))
}

// InsertString inserts s at the cursor and advances past it.
func (b *Buffer) InsertString(s string) {
	b.insert(s)
}

func (b *Buffer) insert(s string) {
	ins := []rune(s)
	b.runes = append(b.runes[:b.cursor], append(ins, b.runes[b.cursor:]...)...)
	b.cursor += len(ins)
	b.yankEnd = -1
}

// ForwardChar moves the cursor one character right.
func (b *Buffer) ForwardChar() { b.SetCursor(b.cursor + 1) }

// BackwardChar moves the cursor one character left.
func (b *Buffer) BackwardChar() { b.SetCursor(b.cursor - 1) }

// Home moves the cursor to offset 0.
func (b *Buffer) Home() { b.cursor = 0 }

// End moves the cursor past the last character.
func (b *Buffer) End() { b.cursor = len(b.runes) }

// nextWord returns the offset just past the end of the word at or after
// the cursor: skip separators, then skip word characters.
func (b *Buffer) nextWord() int {
	i := b.cursor
	for i < len(b.runes) && !wordChar(b.runes[i]) {
		i++
	}
	for i < len(b.runes) && wordChar(b.runes[i]) {
		i++
	}
	return i
}

// prevWord returns the offset of the start of the word at or before the
// cursor.
func (b *Buffer) prevWord() int {
	i := b.cursor - 1
	for i >= 0 && !wordChar(b.runes[i]) {
		i--
	}
	for i >= 0 && wordChar(b.runes[i]) {
		i--
	}
	return i + 1
}

// ForwardWord moves the cursor past the end of the next word.
func (b *Buffer) ForwardWord() { b.cursor = b.nextWord() }

// BackwardWord moves the cursor to the start of the previous word.
func (b *Buffer) BackwardWord() { b.cursor = b.prevWord() }

// DeleteNextChar removes the character under the cursor.
func (b *Buffer) DeleteNextChar() { b.deleteRange(b.cursor+1, false) }

// DeletePrevChar removes the character before the cursor.
func (b *Buffer) DeletePrevChar() { b.deleteRange(b.cursor-1, false) }

// DeleteNextWord kills forward to the end of the next word.
func (b *Buffer) DeleteNextWord() { b.deleteRange(b.nextWord(), true) }

// DeletePrevWord kills backward to the start of the previous word.
func (b *Buffer) DeletePrevWord() { b.deleteRange(b.prevWord(), true) }

// KillLine kills everything from the cursor to the end of the line.
func (b *Buffer) KillLine() { b.deleteRange(len(b.runes), true) }

// deleteRange removes the text between the cursor and until (either side),
// moving the cursor to the left edge of the removed span. When kill is set
// and the span is non-empty, the removed text is pushed onto the kill ring.
func (b *Buffer) deleteRange(until int, kill bool) {
	until = clamp(until, 0, len(b.runes))
	lo, hi := b.cursor, until
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return
	}
	removed := string(b.runes[lo:hi])
	b.runes = append(b.runes[:lo], b.runes[hi:]...)
	b.cursor = lo
	b.yankEnd = -1
	if kill {
		b.kills = append([]string{removed}, b.kills...)
		b.rotate = 0
	}
}

// Yank inserts the current kill-ring entry at the cursor. No-op when the
// ring is empty.
func (b *Buffer) Yank() {
	if len(b.kills) == 0 {
		return
	}
	start := b.cursor
	b.insert(b.kills[b.rotate])
	b.yankStart, b.yankEnd = start, b.cursor
}

// YankPop replaces the text of an immediately preceding Yank (or YankPop)
// with the next older kill-ring entry, wrapping around the ring. After any
// other operation it is a no-op.
func (b *Buffer) YankPop() {
	if b.yankEnd < 0 || len(b.kills) == 0 {
		return
	}
	start, end := b.yankStart, b.yankEnd
	b.runes = append(b.runes[:start], b.runes[end:]...)
	b.cursor = start
	b.rotate = (b.rotate + 1) % len(b.kills)
	b.insert(b.kills[b.rotate])
	b.yankStart, b.yankEnd = start, b.cursor
}

// KillRing returns the ring contents, most recent first. For tests and the
// status surface; the returned slice must not be mutated.
func (b *Buffer) KillRing() []string { return b.kills }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
