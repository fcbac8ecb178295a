// Package input supplies specification text to the parser one logical line
// at a time.
//
// A Reader yields lines with their terminators and a 1-based line counter,
// and can push back the tail of the current line. A Cursor walks a single
// line buffer and supports splicing text into it, which is how macro
// references are expanded in place.
package input

import (
	"bufio"
	"io"
	"unicode"

	"github.com/pingcap/errors"
	"github.com/spkg/bom"
)

// Reader reads a specification line by line.
type Reader struct {
	br *bufio.Reader

	// Line is the current line including its terminator, if any.
	Line []rune
	// LineNo is the 1-based number of the current line.
	LineNo int

	pushback []rune
	eof      bool
	err      error
}

// NewReader returns a Reader over r. A leading UTF-8 byte order mark is
// dropped.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(bom.NewReader(r))}
}

// Next advances to the next line and reports whether one was read. After
// Pushback it yields the pushed-back text as the current line number again.
func (r *Reader) Next() bool {
	if r.pushback != nil {
		r.Line, r.pushback = r.pushback, nil
		return true
	}
	if r.eof {
		r.Line = nil
		return false
	}
	s, err := r.br.ReadString('\n')
	if err != nil {
		r.eof = true
		if err != io.EOF {
			r.err = errors.Trace(err)
			r.Line = nil
			return false
		}
		if s == "" {
			r.Line = nil
			return false
		}
	}
	r.Line = []rune(s)
	r.LineNo++
	return true
}

// Pushback makes rest the line returned by the next call to Next. Text that
// is entirely whitespace is dropped.
func (r *Reader) Pushback(rest []rune) {
	for _, c := range rest {
		if !unicode.IsSpace(c) {
			r.pushback = append([]rune(nil), rest...)
			return
		}
	}
}

// EOF reports whether the underlying input is exhausted and no pushed-back
// text remains.
func (r *Reader) EOF() bool {
	return r.eof && r.pushback == nil
}

// Err returns the first read error other than io.EOF.
func (r *Reader) Err() error {
	return r.err
}
