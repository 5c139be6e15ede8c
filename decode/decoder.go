package decode

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// ErrShortBuffer is returned by Read when the destination cannot hold at
// least two characters. The two-slot minimum lets a pending markup rewrite
// flush together with the character that ended it.
var ErrShortBuffer = fmt.Errorf("decode: destination buffer needs at least 2 free slots")

// Source tracks the identity and running decode state of one scan target.
// It is mutated only by its Decoder during a single forward pass.
type Source struct {
	Name     string
	SizeHint int64

	charCount int
	// lineOffsets[i] is the character offset immediately after the i-th
	// line terminator. Append-only, non-decreasing.
	lineOffsets []int

	badBytes      int
	badByteOffset int
}

// CharCount returns the number of characters decoded so far.
func (s *Source) CharCount() int { return s.charCount }

// LineCount returns the number of lines seen so far (terminators + 1).
func (s *Source) LineCount() int { return len(s.lineOffsets) + 1 }

// BadBytes returns the total count of malformed bytes substituted and the
// character offset of the first malformed run (-1 when the input decoded
// cleanly).
func (s *Source) BadBytes() (count, firstOffset int) {
	if s.badBytes == 0 {
		return 0, -1
	}
	return s.badBytes, s.badByteOffset
}

// LineNumber returns the 1-based line containing the given character
// offset. Binary search over the line index, O(log n).
func (s *Source) LineNumber(offset int) int {
	return sort.SearchInts(s.lineOffsets, offset+1) + 1
}

// column returns the 1-based column of a character offset on its line.
func (s *Source) column(offset int) int {
	line := s.LineNumber(offset)
	if line == 1 {
		return offset + 1
	}
	return offset - s.lineOffsets[line-2] + 1
}

// PositionError wraps an I/O error from the underlying byte source with
// the decode position reached when it occurred.
type PositionError struct {
	Name   string
	Offset int
	Line   int
	Column int
	Err    error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("decode %s at line %d col %d (offset %d): %v",
		e.Name, e.Line, e.Column, e.Offset, e.Err)
}

func (e *PositionError) Unwrap() error { return e.Err }

const readBufSize = 4096

// Decoder converts a raw byte stream into characters, decoding strict
// UTF-8 where possible and substituting legacy single-byte codes
// elsewhere, while indexing line boundaries on its Source.
//
// A Decoder is single-pass and single-goroutine. Closing it closes the
// underlying byte source.
type Decoder struct {
	src    *Source
	r      io.Reader
	closer io.Closer

	buf    []byte // raw bytes; buf[bufPos:bufLen] not yet decoded
	bufPos int
	bufLen int

	rw rewriter // markup-rewrite state machine, owns the pending buffer

	// ready holds rewritten characters not yet delivered to the caller.
	ready []rune

	inBadRun bool
	srcEOF   bool
	err      error
}

// NewDecoder wraps a byte source. sizeHint may be negative when unknown.
// If r implements io.Closer it is closed when the decoder is closed.
func NewDecoder(name string, r io.Reader, sizeHint int64) *Decoder {
	d := &Decoder{
		src: &Source{Name: name, SizeHint: sizeHint, badByteOffset: -1},
		r:   r,
		buf: make([]byte, readBufSize),
	}
	if c, ok := r.(io.Closer); ok {
		d.closer = c
	}
	return d
}

// Source exposes the per-target decode state (counters, line index).
func (d *Decoder) Source() *Source { return d.src }

// Close closes the underlying byte source, if it is closable.
func (d *Decoder) Close() error {
	if d.closer == nil {
		return nil
	}
	c := d.closer
	d.closer = nil
	return c.Close()
}

// Read fills dst with as many decoded characters as are available and
// returns the count, or io.EOF once the stream is exhausted. dst must
// have room for at least two characters.
func (d *Decoder) Read(dst []rune) (int, error) {
	if len(dst) < 2 {
		return 0, ErrShortBuffer
	}

	n := 0
	for n < len(dst) {
		r, err := d.next()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}
		dst[n] = r
		n++
	}
	return n, nil
}

// ReadDelimited reads characters up to, not including, the next occurrence
// of delim (or end-of-input), appending them to acc. It returns the count
// consumed including the delimiter, or io.EOF on immediate end-of-input.
func (d *Decoder) ReadDelimited(delim rune, acc *[]rune) (int, error) {
	consumed := 0
	for {
		r, err := d.next()
		if err != nil {
			if err == io.EOF && consumed > 0 {
				return consumed, nil
			}
			return consumed, err
		}
		consumed++
		if r == delim {
			return consumed, nil
		}
		*acc = append(*acc, r)
	}
}

// next yields one rewritten character, refilling internal buffers as
// needed. All bookkeeping (line index, char count) happens here so every
// delivery path counts characters exactly once.
func (d *Decoder) next() (rune, error) {
	for len(d.ready) == 0 {
		if d.err != nil {
			return 0, d.err
		}
		if err := d.fill(); err != nil {
			d.err = err
			if err != io.EOF {
				d.err = &PositionError{
					Name:   d.src.Name,
					Offset: d.src.charCount,
					Line:   d.src.LineNumber(d.src.charCount),
					Column: d.src.column(d.src.charCount),
					Err:    err,
				}
			}
			if len(d.ready) == 0 {
				return 0, d.err
			}
		}
	}

	r := d.ready[0]
	d.ready = d.ready[1:]
	if r == '\n' {
		d.src.lineOffsets = append(d.src.lineOffsets, d.src.charCount+1)
	}
	d.src.charCount++
	return r, nil
}

// fill decodes one buffer's worth of raw bytes through the rewriter into
// the ready queue. Returns io.EOF only after the rewriter has flushed its
// pending buffer.
func (d *Decoder) fill() error {
	if d.bufPos == d.bufLen && !d.srcEOF {
		d.bufPos, d.bufLen = 0, 0
		n, err := d.r.Read(d.buf)
		d.bufLen = n
		if err == io.EOF {
			d.srcEOF = true
		} else if err != nil {
			return err
		}
	}

	if d.bufPos == d.bufLen && d.srcEOF {
		// Whatever prefix the rewriter held back was not a markup
		// sequence after all; emit it literally.
		d.ready = d.rw.flush(d.ready)
		if len(d.ready) == 0 {
			return io.EOF
		}
		return nil
	}

	for d.bufPos < d.bufLen {
		b := d.buf[d.bufPos]
		var r rune
		var size int

		switch {
		case b < utf8.RuneSelf:
			r, size = rune(b), 1
			d.inBadRun = false
		default:
			r, size = utf8.DecodeRune(d.buf[d.bufPos:d.bufLen])
			if r == utf8.RuneError && size <= 1 {
				if !d.srcEOF && d.bufLen-d.bufPos < utf8.UTFMax {
					// Possibly a valid sequence cut by the buffer
					// boundary; stash the tail and read more.
					tail := copy(d.buf, d.buf[d.bufPos:d.bufLen])
					d.bufPos, d.bufLen = 0, tail
					n, err := d.r.Read(d.buf[tail:])
					d.bufLen += n
					if err == io.EOF {
						d.srcEOF = true
						continue
					}
					if err != nil {
						return err
					}
					continue
				}
				// Genuinely malformed: one substitute per byte.
				r, size = substitute(b), 1
				if !d.inBadRun {
					d.inBadRun = true
					if d.src.badBytes == 0 {
						d.src.badByteOffset = d.src.charCount + len(d.ready) + d.rw.pendingLen()
					}
				}
				d.src.badBytes++
			} else {
				d.inBadRun = false
			}
		}

		d.bufPos += size
		d.ready = d.rw.push(r, d.ready)
	}
	return nil
}
