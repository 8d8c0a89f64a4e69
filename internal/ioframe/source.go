// Package ioframe implements the streaming I/O model: a LIFO stack of
// push-backable input sources and a LIFO stack of output sinks (one of
// which may be "blocked"). See spec sections 3 and 4.1-4.3.
package ioframe

import (
	"io"

	"github.com/tisannai/mucgly/internal/hook"
)

// macroMark records the location used for error messages when an error is
// reported from inside a macro body.
type macroMark struct {
	active bool
	line   int
	col    int
}

// InputSource is one logical input (file or standard input).
type InputSource struct {
	Name string

	r      io.Reader
	closer io.Closer // nil for stdin: never closed by us

	pushback []byte // LIFO; pushback[len-1] is the next byte Read returns

	lineno    int
	column    int
	oldColumn int

	marker  macroMark
	eatTail bool

	Cfg *hook.Config

	curhook []hook.Pair // stack of currently-matched hook pairs
}

// NewInputSource wraps r (and, if non-nil, closer) as a named input source
// configured with cfg. Pass a nil closer for standard input.
func NewInputSource(name string, r io.Reader, closer io.Closer, cfg *hook.Config) *InputSource {
	return &InputSource{Name: name, r: r, closer: closer, Cfg: cfg}
}

// Line returns the current 1-based line number.
func (s *InputSource) Line() int { return s.lineno + 1 }

// Col returns the current 1-based column number.
func (s *InputSource) Col() int { return s.column + 1 }

// MarkMacro records the current location as the start of a macro, used for
// error messages reported from inside it.
func (s *InputSource) MarkMacro() {
	s.marker = macroMark{active: true, line: s.lineno, col: s.column}
}

// UnmarkMacro clears the recorded macro-start location.
func (s *InputSource) UnmarkMacro() {
	s.marker = macroMark{}
}

// ErrorLine and ErrorCol return the 1-based location that should be
// reported in a diagnostic: the macro-start location if a macro is
// currently open, else the current location.
func (s *InputSource) ErrorLine() int {
	if s.marker.active {
		return s.marker.line + 1
	}
	return s.Line()
}

func (s *InputSource) ErrorCol() int {
	if s.marker.active {
		return s.marker.col + 1
	}
	return s.Col()
}

// SetEatTail arms the one-shot "eat next byte" flag (the `+` macro-body
// prefix).
func (s *InputSource) SetEatTail(v bool) { s.eatTail = v }

// PushHook pushes p onto the currently-matched hook stack, entered on a
// hook-begin match.
func (s *InputSource) PushHook(p hook.Pair) {
	s.curhook = append(s.curhook, p)
}

// PopHook pops the currently-matched hook stack, on a hook-end match.
func (s *InputSource) PopHook() (hook.Pair, bool) {
	n := len(s.curhook)
	if n == 0 {
		return hook.Pair{}, false
	}
	p := s.curhook[n-1]
	s.curhook = s.curhook[:n-1]
	return p, true
}

// TopHook returns the innermost currently-matched hook pair, if any.
func (s *InputSource) TopHook() (hook.Pair, bool) {
	n := len(s.curhook)
	if n == 0 {
		return hook.Pair{}, false
	}
	return s.curhook[n-1], true
}

// HookDepth returns the current nesting depth of matched hooks.
func (s *InputSource) HookDepth() int { return len(s.curhook) }

// ReadByte implements spec section 4.1's read-one-byte algorithm.
func (s *InputSource) ReadByte() (b byte, eof bool, err error) {
	for {
		var ok bool
		b, ok, eof, err = s.next()
		if err != nil {
			return 0, false, err
		}
		if eof {
			return 0, true, nil
		}
		if !ok {
			continue // spurious zero-byte, zero-error read; try again
		}

		if b == '\n' {
			s.oldColumn = s.column
			s.lineno++
			s.column = 0
		} else {
			s.column++
		}

		if s.eatTail {
			s.eatTail = false
			continue
		}
		return b, false, nil
	}
}

// next pops the pushback stack or reads one byte from the handle, without
// touching position or eat_tail bookkeeping.
func (s *InputSource) next() (b byte, ok bool, eof bool, err error) {
	if n := len(s.pushback); n > 0 {
		b = s.pushback[n-1]
		s.pushback = s.pushback[:n-1]
		return b, true, false, nil
	}

	var buf [1]byte
	n, rerr := s.r.Read(buf[:])
	if n > 0 {
		return buf[0], true, false, nil
	}
	if rerr == io.EOF {
		return 0, false, true, nil
	}
	if rerr != nil {
		return 0, false, false, rerr
	}
	return 0, false, false, nil
}

// PushBack pushes back a single byte; the caller must only ever push back
// the byte it just read.
func (s *InputSource) PushBack(b byte) {
	if b == '\n' {
		s.lineno--
		s.column = s.oldColumn
		s.oldColumn = 0
	} else {
		s.column--
	}
	s.pushback = append(s.pushback, b)
}

// GetN reads up to n bytes, stopping early on end-of-source. The returned
// slice may be shorter than n.
func (s *InputSource) GetN(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b, eof, err := s.ReadByte()
		if err != nil {
			return out, err
		}
		if eof {
			break
		}
		out = append(out, b)
	}
	return out, nil
}

// PutBackN pushes bs back in reverse order, so bs[0] is the next byte read.
func (s *InputSource) PutBackN(bs []byte) {
	for i := len(bs) - 1; i >= 0; i-- {
		s.PushBack(bs[i])
	}
}

// Close closes the underlying handle, unless this source is standard
// input (no closer was given).
func (s *InputSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
