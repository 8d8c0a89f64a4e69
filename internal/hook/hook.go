// Package hook implements the per-source hook delimiter configuration
// described by HookConfig: either a single (beg, end, susp?) pair, or an
// ordered vector of up to MaxPairs such pairs ("multi-hook mode"), plus an
// escape string and an optional eater string.
//
// Every mutation recomputes a 256-entry first-byte bitmap (via
// github.com/tisannai/mucgly/byteset) used by the parser to cheaply screen
// bytes that can't possibly start a hook, and, in multi-hook mode, a
// compiled github.com/tisannai/mucgly/delimvm program used to resolve which
// begin-delimiter (if any) matches a given lookahead window.
package hook

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tiendc/go-deepcopy"

	"github.com/tisannai/mucgly/byteset"
	"github.com/tisannai/mucgly/delimvm"
)

// MaxPairs is the maximum number of entries a multi-hook vector may hold.
const MaxPairs = 127

// Kind identifies which delimiter field a mutation targets.
type Kind uint8

const (
	KindBeg Kind = iota
	KindEnd
	KindEsc
)

func (k Kind) String() string {
	switch k {
	case KindBeg:
		return "hookbeg"
	case KindEnd:
		return "hookend"
	case KindEsc:
		return "hookesc"
	default:
		return "unknown"
	}
}

var (
	// ErrEscEqualsDelimiter is fatal: esc must never equal a multi-hook beg or end.
	ErrEscEqualsDelimiter = errors.New("hook: esc equals a multi-hook beg or end")

	// ErrTooManyPairs is fatal: multi-hook vectors are capped at MaxPairs.
	ErrTooManyPairs = fmt.Errorf("hook: multi-hook vector already has %d entries", MaxPairs)

	// ErrEmptyDelimiter rejects an empty beg or end value.
	ErrEmptyDelimiter = errors.New("hook: beg and end delimiters must be non-empty")
)

// Pair is one (beg, end, susp?) hook triple.
type Pair struct {
	Beg  []byte
	End  []byte
	Susp []byte // nil if this pair has no suspension marker
}

// Config is the per-source hook delimiter configuration. The zero value is
// not usable; construct one with Default().
type Config struct {
	multi  bool
	single Pair   // valid iff !multi
	pairs  []Pair // valid iff multi

	esc   []byte
	eater []byte // nil iff no eater is configured

	escEqBeg bool // valid only in single mode
	escEqEnd bool // valid only in single mode

	bitmap byteset.Matcher
	prog   *delimvm.Program // compiled alternation over pairs[*].Beg; nil means stale/uncompiled
}

// Default returns the baked-in default configuration: hookbeg="-<",
// hookend=">-", hookesc="\", no eater, single mode.
func Default() *Config {
	c := &Config{
		single: Pair{Beg: []byte("-<"), End: []byte(">-")},
		esc:    []byte(`\`),
	}
	c.recompute()
	return c
}

// Clone deep-copies c so a pushed InputSource never shares mutable state
// (bitmap, compiled program, pair slices) with the source it was copied
// from. See spec section 3, "Ownership".
func (c *Config) Clone() (*Config, error) {
	// bitmap and prog are derived caches, not independent state: we strip
	// them before the deep copy (deep-copying a byteset.Matcher or a
	// compiled delimvm.Program would just be wasted work, since they are
	// rebuilt from the copied delimiters below) and rebuild them fresh on
	// the clone.
	tmp := *c
	tmp.bitmap = nil
	tmp.prog = nil

	var dst Config
	if err := deepcopy.Copy(&dst, &tmp); err != nil {
		return nil, fmt.Errorf("hook: clone: %w", err)
	}
	dst.recomputeBitmap()
	return &dst, nil
}

// IsMulti reports whether c is in multi-hook mode.
func (c *Config) IsMulti() bool { return c.multi }

// Single returns the active (beg, end) pair in single mode. Panics if c is
// in multi mode; callers must check IsMulti first.
func (c *Config) Single() Pair {
	if c.multi {
		panic("hook: Single called while in multi mode")
	}
	return c.single
}

// Pairs returns the active multi-hook vector. The returned slice must not
// be mutated; callers must check IsMulti first.
func (c *Config) Pairs() []Pair {
	if !c.multi {
		panic("hook: Pairs called while in single mode")
	}
	return c.pairs
}

// Esc returns the escape byte string.
func (c *Config) Esc() []byte { return c.esc }

// Eater returns the eater byte string, or nil if none is configured.
func (c *Config) Eater() []byte { return c.eater }

// EscEqBeg reports whether esc equals the single-mode beg delimiter.
// Only meaningful in single mode.
func (c *Config) EscEqBeg() bool { return c.escEqBeg }

// EscEqEnd reports whether esc equals the single-mode end delimiter.
// Only meaningful in single mode.
func (c *Config) EscEqEnd() bool { return c.escEqEnd }

// Bitmap returns the 256-entry first-byte screening matcher.
func (c *Config) Bitmap() byteset.Matcher { return c.bitmap }

// SetHook replaces one of beg/end/esc. If c is in multi mode and kind is
// not KindEsc, the multi-hook vector is cleared first (spec section 4.4).
func (c *Config) SetHook(kind Kind, value []byte) error {
	if kind != KindEsc && len(value) == 0 {
		return ErrEmptyDelimiter
	}
	if c.multi && kind != KindEsc {
		c.multi = false
		c.pairs = nil
		c.prog = nil
	}
	switch kind {
	case KindBeg:
		c.single.Beg = value
	case KindEnd:
		c.single.End = value
	case KindEsc:
		if c.multi {
			for _, p := range c.pairs {
				if bytes.Equal(value, p.Beg) || bytes.Equal(value, p.End) {
					return ErrEscEqualsDelimiter
				}
			}
		}
		c.esc = value
	default:
		panic(fmt.Sprintf("hook: unknown Kind %d", kind))
	}
	c.recompute()
	return nil
}

// SetHookAll sets beg, end, and esc all to the same value (the `:hookall`
// directive).
func (c *Config) SetHookAll(value []byte) error {
	if err := c.SetHook(KindBeg, value); err != nil {
		return err
	}
	if err := c.SetHook(KindEnd, value); err != nil {
		return err
	}
	return c.SetHook(KindEsc, value)
}

// SetEater sets the eater string, or clears it if value is empty.
func (c *Config) SetEater(value []byte) {
	if len(value) == 0 {
		c.eater = nil
	} else {
		c.eater = value
	}
	c.recomputeBitmap()
}

// AddMulti appends one (beg, end, susp?) entry to the multi-hook vector,
// switching c into multi mode on the first call. Fatal per spec section
// 4.4: esc must not equal beg or end, and the vector is capped at
// MaxPairs entries.
func (c *Config) AddMulti(beg, end, susp []byte) error {
	if len(beg) == 0 || len(end) == 0 {
		return ErrEmptyDelimiter
	}
	if bytes.Equal(c.esc, beg) || bytes.Equal(c.esc, end) {
		return ErrEscEqualsDelimiter
	}
	if !c.multi {
		c.multi = true
		c.pairs = nil
	}
	if len(c.pairs) >= MaxPairs {
		return ErrTooManyPairs
	}
	c.pairs = append(c.pairs, Pair{Beg: beg, End: end, Susp: susp})
	c.prog = nil
	c.recomputeBitmap()
	return nil
}

// CompiledBegins lazily compiles (or returns the cached compilation of) the
// multi-hook begin alternation. Only valid in multi mode.
func (c *Config) compiledBegins() (*delimvm.Program, error) {
	if c.prog != nil {
		return c.prog, nil
	}
	lits := make([][]byte, len(c.pairs))
	for i, p := range c.pairs {
		lits[i] = p.Beg
	}
	prog, err := delimvm.CompileAlternation(lits)
	if err != nil {
		return nil, err
	}
	c.prog = prog
	return prog, nil
}

// MatchBegin probes window against the multi-hook begin vector in
// registration order, returning the index of the first pair whose begin
// delimiter matches the front of window. Only valid in multi mode.
func (c *Config) MatchBegin(window []byte) (idx int, n int, ok bool, err error) {
	prog, err := c.compiledBegins()
	if err != nil {
		return 0, 0, false, err
	}
	idx, n, ok = delimvm.MatchAlternation(prog, window)
	return idx, n, ok, nil
}

// MaxDelimiterLen returns the length of the longest active delimiter
// (beg/end/esc/eater, plus every susp in multi mode), i.e. the largest
// lookahead window a probe could ever need.
func (c *Config) MaxDelimiterLen() int {
	max := len(c.esc)
	if len(c.eater) > max {
		max = len(c.eater)
	}
	if c.multi {
		for _, p := range c.pairs {
			max = maxInt(max, len(p.Beg), len(p.End), len(p.Susp))
		}
	} else {
		max = maxInt(max, len(c.single.Beg), len(c.single.End))
	}
	return max
}

func maxInt(vs ...int) int {
	m := 0
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}

func (c *Config) recompute() {
	if !c.multi {
		c.escEqBeg = bytes.Equal(c.esc, c.single.Beg)
		c.escEqEnd = bytes.Equal(c.esc, c.single.End)
	} else {
		c.escEqBeg = false
		c.escEqEnd = false
	}
	c.recomputeBitmap()
}

// recomputeBitmap rebuilds the 256-entry first-byte bitmap from every
// currently active delimiter. Per spec section 9 (open questions), the
// bitmap only tracks first bytes: a multi-byte delimiter sharing a first
// byte with an unrelated one is a false-positive-safe screen, not a final
// answer — Config.MatchBegin and the literal probes in package parser
// resolve the ambiguity.
func (c *Config) recomputeBitmap() {
	var firstBytes []byte
	add := func(b []byte) {
		if len(b) > 0 {
			firstBytes = append(firstBytes, b[0])
		}
	}

	add(c.esc)
	add(c.eater)
	if c.multi {
		for _, p := range c.pairs {
			add(p.Beg)
			add(p.End)
			add(p.Susp)
		}
	} else {
		add(c.single.Beg)
		add(c.single.End)
	}

	c.bitmap = byteset.DenseSet(firstBytes...).Optimize()
}
