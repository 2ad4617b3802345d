// Package cursor provides a byte-at-a-time consuming view over a mangled
// symbol's bytes, with lookahead and length-prefix reading.
package cursor

import "errors"

// Errors returned by Cursor.
var (
	ErrUnexpectedEnd  = errors.New("cursor: unexpected end of input")
	ErrExpectedDigits = errors.New("cursor: expected digits")
)

// Cursor is a single-threaded, non-restartable, forward-only view over a
// byte string. It carries no lookahead buffer beyond Peek.
type Cursor struct {
	data []byte
	pos  int
}

// New creates a Cursor over data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Position returns the current byte offset, for error reporting.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.data) {
		return 0
	}
	return len(c.data) - c.pos
}

// EOF reports whether the cursor has no more bytes to read.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.data)
}

// Peek returns the next byte without consuming it, and false at end of input.
func (c *Cursor) Peek() (byte, bool) {
	if c.EOF() {
		return 0, false
	}
	return c.data[c.pos], true
}

// PeekAt returns the byte offset bytes ahead of the current position without
// consuming anything, and false if that position is out of range.
func (c *Cursor) PeekAt(offset int) (byte, bool) {
	idx := c.pos + offset
	if idx < 0 || idx >= len(c.data) {
		return 0, false
	}
	return c.data[idx], true
}

// PeekString reports whether the next len(s) bytes equal s, without consuming
// them.
func (c *Cursor) PeekString(s string) bool {
	if len(c.data)-c.pos < len(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c.data[c.pos+i] != s[i] {
			return false
		}
	}
	return true
}

// Take consumes and returns the next byte, or ErrUnexpectedEnd at end.
func (c *Cursor) Take() (byte, error) {
	if c.EOF() {
		return 0, ErrUnexpectedEnd
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// TakeIf consumes and returns the next byte if it equals b, reporting true.
// Otherwise the cursor is left untouched and false is returned.
func (c *Cursor) TakeIf(b byte) bool {
	if next, ok := c.Peek(); ok && next == b {
		c.pos++
		return true
	}
	return false
}

// TakeN consumes and returns exactly k bytes, or ErrUnexpectedEnd if fewer
// than k remain.
func (c *Cursor) TakeN(k int) ([]byte, error) {
	if k < 0 || c.pos+k > len(c.data) {
		return nil, ErrUnexpectedEnd
	}
	b := c.data[c.pos : c.pos+k]
	c.pos += k
	return b, nil
}

// TakeDigits consumes the maximal run of ASCII digits and returns their value
// as a non-negative integer. Fails with ErrExpectedDigits if the next byte is
// not a digit.
func (c *Cursor) TakeDigits() (int, error) {
	start := c.pos
	n := 0
	for !c.EOF() && isDigit(c.data[c.pos]) {
		n = n*10 + int(c.data[c.pos]-'0')
		c.pos++
	}
	if c.pos == start {
		return 0, ErrExpectedDigits
	}
	return n, nil
}

// TakeLengthPrefixedIdentifier reads digits as N, then exactly N bytes.
func (c *Cursor) TakeLengthPrefixedIdentifier() ([]byte, error) {
	n, err := c.TakeDigits()
	if err != nil {
		return nil, err
	}
	return c.TakeN(n)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
