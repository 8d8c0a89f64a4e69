package delimvm

import (
	"bytes"
	"errors"
)

// ErrNoAlternatives is returned by CompileAlternation when given an empty
// literal list.
var ErrNoAlternatives = errors.New("delimvm: CompileAlternation requires at least one literal")

// ErrEmptyLiteral is returned by CompileAlternation when any literal is
// empty: an empty alternative would match everything, at every position.
var ErrEmptyLiteral = errors.New("delimvm: CompileAlternation literals must be non-empty")

// CompileAlternation builds a Program that matches ordered choice over the
// given literals: try literals[0], then literals[1], and so on, stopping at
// the first one that prefixes the input.
//
// This is the standard PEG encoding for `lit0 / lit1 / ... / litN` — since
// every alternative here is a flat literal rather than a sub-grammar, the
// ordered choice reduces to a plain prefix scan and needs no backtracking
// machinery beyond that.
func CompileAlternation(literals [][]byte) (*Program, error) {
	if len(literals) == 0 {
		return nil, ErrNoAlternatives
	}
	lits := make([][]byte, len(literals))
	for i, lit := range literals {
		if len(lit) == 0 {
			return nil, ErrEmptyLiteral
		}
		lits[i] = append([]byte(nil), lit...)
	}
	return &Program{literals: lits}, nil
}

// MatchAlternation reports which alternative (if any) prefixes window,
// trying each in registration order and stopping at the first match.
func MatchAlternation(p *Program, window []byte) (index int, n int, ok bool) {
	for i, lit := range p.literals {
		if bytes.HasPrefix(window, lit) {
			return i, len(lit), true
		}
	}
	return 0, 0, false
}
