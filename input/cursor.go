package input

// Cursor is a position in a mutable line buffer.
type Cursor struct {
	Line []rune
	Pos  int
}

// Reset points the cursor at the start of line.
func (c *Cursor) Reset(line []rune) {
	c.Line = line
	c.Pos = 0
}

// More reports whether characters remain at or after Pos.
func (c *Cursor) More() bool {
	return c.Pos < len(c.Line)
}

// Peek returns the character at Pos, or -1 past the end.
func (c *Cursor) Peek() rune {
	return c.PeekAt(0)
}

// PeekAt returns the character i positions after Pos, or -1 past the end.
func (c *Cursor) PeekAt(i int) rune {
	if p := c.Pos + i; p >= 0 && p < len(c.Line) {
		return c.Line[p]
	}
	return -1
}

// Advance moves past the current character and returns it, or -1 at the
// end of the line.
func (c *Cursor) Advance() rune {
	r := c.Peek()
	if r >= 0 {
		c.Pos++
	}
	return r
}

// Rest returns the characters from Pos to the end of the line.
func (c *Cursor) Rest() []rune {
	if c.Pos >= len(c.Line) {
		return nil
	}
	return c.Line[c.Pos:]
}

// Splice replaces Line[start:end] with text and leaves Pos at start, so the
// replacement is scanned next.
func (c *Cursor) Splice(start, end int, text []rune) {
	line := make([]rune, 0, len(c.Line)-(end-start)+len(text))
	line = append(line, c.Line[:start]...)
	line = append(line, text...)
	line = append(line, c.Line[end:]...)
	c.Line = line
	c.Pos = start
}
