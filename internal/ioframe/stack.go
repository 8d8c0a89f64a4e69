package ioframe

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/tisannai/mucgly/internal/hook"
)

// ErrIncludeCycle is returned by Push when path is already open somewhere
// on the current input stack (spec section 4.2, "cycle detection").
type ErrIncludeCycle struct {
	Path string
}

func (e *ErrIncludeCycle) Error() string {
	return fmt.Sprintf("ioframe: include cycle: %q is already open", e.Path)
}

// InputStack is the LIFO stack of currently-open input sources (spec
// section 4.2). The bottom of the stack is always the run's initial
// source; every push above it is a `:include` or equivalent.
type InputStack struct {
	sources []*InputSource
	guard   map[uint64]string // digest -> path, currently-open include ancestry
}

// NewInputStack returns an empty stack.
func NewInputStack() *InputStack {
	return &InputStack{guard: make(map[uint64]string)}
}

// NewChildConfig returns the hook.Config a newly pushed source should
// start from: a clone of the current top source's config, or a clone of
// fallback if the stack is empty (spec section 3, "Ownership").
func (s *InputStack) NewChildConfig(fallback *hook.Config) (*hook.Config, error) {
	if top, ok := s.Top(); ok {
		return top.Cfg.Clone()
	}
	return fallback.Clone()
}

// EnterInclude registers path as open on the current include ancestry
// chain, failing with *ErrIncludeCycle if it is already open. Callers
// must pair a successful EnterInclude with a LeaveInclude once the
// corresponding source is popped.
func (s *InputStack) EnterInclude(path string) error {
	digest := xxhash.Sum64String(path)
	if prev, ok := s.guard[digest]; ok {
		return &ErrIncludeCycle{Path: prev}
	}
	s.guard[digest] = path
	return nil
}

// LeaveInclude releases path from the include ancestry chain.
func (s *InputStack) LeaveInclude(path string) {
	delete(s.guard, xxhash.Sum64String(path))
}

// Push makes src the new top of the stack.
func (s *InputStack) Push(src *InputSource) {
	s.sources = append(s.sources, src)
}

// Top returns the current top source, if any.
func (s *InputStack) Top() (*InputSource, bool) {
	n := len(s.sources)
	if n == 0 {
		return nil, false
	}
	return s.sources[n-1], true
}

// Pop removes and closes the top source.
func (s *InputStack) Pop() (*InputSource, error) {
	n := len(s.sources)
	if n == 0 {
		return nil, nil
	}
	top := s.sources[n-1]
	s.sources = s.sources[:n-1]
	s.LeaveInclude(top.Name)
	return top, top.Close()
}

// Len reports the current stack depth.
func (s *InputStack) Len() int { return len(s.sources) }

// Get reads one byte from the top source without popping on end-of-source;
// eof is true and err is nil when the top source (and only it) is
// exhausted.
func (s *InputStack) Get() (b byte, eof bool, err error) {
	top, ok := s.Top()
	if !ok {
		return 0, true, nil
	}
	return top.ReadByte()
}

// GetOne behaves like Get, but transparently pops exhausted sources and
// retries on the next one down, returning eof only once the whole stack is
// drained (spec section 4.2).
func (s *InputStack) GetOne() (b byte, eof bool, err error) {
	for {
		top, ok := s.Top()
		if !ok {
			return 0, true, nil
		}
		b, eof, err = top.ReadByte()
		if err != nil {
			return 0, false, err
		}
		if !eof {
			return b, false, nil
		}
		if _, err := s.Pop(); err != nil {
			return 0, false, err
		}
	}
}

// PutBack pushes b back onto the top source.
func (s *InputStack) PutBack(b byte) {
	if top, ok := s.Top(); ok {
		top.PushBack(b)
	}
}

// GetN reads up to n bytes from the top source only, per spec section 4.3:
// a delimiter probe never crosses a source boundary.
func (s *InputStack) GetN(n int) ([]byte, error) {
	top, ok := s.Top()
	if !ok {
		return nil, nil
	}
	return top.GetN(n)
}

// PutBackN pushes bs back onto the top source, in reverse, so bs[0] is the
// next byte read.
func (s *InputStack) PutBackN(bs []byte) {
	if top, ok := s.Top(); ok {
		top.PutBackN(bs)
	}
}

// Close pops and closes every remaining source, top to bottom, returning
// the first error encountered (if any), after attempting to close them all.
func (s *InputStack) Close() error {
	var first error
	for len(s.sources) > 0 {
		if _, err := s.Pop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
