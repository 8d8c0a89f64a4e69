// Package parser implements the core streaming state machine: it consumes
// bytes from an ioframe.InputStack, recognizes hook delimiters configured
// per-source by package hook, accumulates and dispatches macro bodies, and
// writes literal bytes through to an ioframe.OutputStack.
package parser

import (
	"bytes"
	"fmt"

	"github.com/tisannai/mucgly/internal/hook"
	"github.com/tisannai/mucgly/internal/ioframe"
)

// Parser is the central state machine. It implements Callbacks directly,
// since the script host's callback vtable is just the parser's own I/O and
// configuration surface.
type Parser struct {
	*ParseState
	warnings []*Diagnostic
}

// NewParser wraps ps as a runnable Parser.
func NewParser(ps *ParseState) *Parser {
	return &Parser{ParseState: ps}
}

// Warnings returns every warning-severity Diagnostic collected during Run,
// in the order they occurred.
func (p *Parser) Warnings() []*Diagnostic { return p.warnings }

// Run drives the main loop until the top-level input is exhausted outside
// a macro, an `:exit` directive fires, or a terminating Diagnostic (error
// or fatal error severity) occurs. A nil Diagnostic with a nil error means
// clean termination.
func (p *Parser) Run() (*Diagnostic, error) {
	for !p.terminate {
		c, eof, err := p.Inputs.GetOne()
		if err != nil {
			return p.fatalNoSource(fmt.Sprintf("read error: %v", err)), err
		}
		if eof {
			if p.InMacro > 0 {
				d := p.fatalNoSource("end-of-source within macro")
				return d, d
			}
			return nil, nil
		}

		top, _ := p.Inputs.Top()
		d, err := p.step(top, c)
		if err != nil {
			return d, err
		}
		if d != nil {
			if d.Fatal() {
				return d, nil
			}
			p.warnings = append(p.warnings, d)
		}
	}
	return nil, nil
}

// step implements spec Step A: screen c against the top source's first-byte
// bitmap and dispatch to the bitmap-hit or non-hook path.
func (p *Parser) step(top *ioframe.InputSource, c byte) (*Diagnostic, error) {
	if !top.Cfg.Bitmap().Match(c) {
		return p.nonHook(top, c)
	}
	return p.bitmapHit(top, c)
}

// bitmapHit implements Step B: push c back, then probe escape, suspension,
// hook-end, and hook-begin in that fixed priority order.
func (p *Parser) bitmapHit(top *ioframe.InputSource, c byte) (*Diagnostic, error) {
	top.PushBack(c)

	matched, empty, err := p.probe(top, top.Cfg.Esc())
	if err != nil {
		return nil, err
	}
	if empty {
		p.Inputs.Pop()
		return nil, nil
	}
	if matched {
		return p.handleEscape(top)
	}

	if p.InMacro > 0 {
		if hp, ok := top.TopHook(); ok && len(hp.Susp) > 0 {
			matched, empty, err := p.probe(top, hp.Susp)
			if err != nil {
				return nil, err
			}
			if empty {
				p.Inputs.Pop()
				return nil, nil
			}
			if matched {
				p.Suspension++
				p.macroBuf = append(p.macroBuf, hp.Susp...)
				return nil, nil
			}
		}

		hp, _ := top.TopHook()
		matched, empty, err = p.probe(top, hp.End)
		if err != nil {
			return nil, err
		}
		if empty {
			p.Inputs.Pop()
			return nil, nil
		}
		if matched {
			if p.Suspension > 0 {
				p.Suspension--
				p.macroBuf = append(p.macroBuf, hp.End...)
				return nil, nil
			}
			return p.hookEndSequence(top, hp)
		}
	}

	matchedBeg, begBytes, hp, err := p.probeHookBegin(top)
	if err != nil {
		return nil, err
	}
	if matchedBeg {
		top.PushHook(hp)
		if p.InMacro > 0 {
			p.InMacro++
			if err := p.emit(top, begBytes); err != nil {
				return nil, err
			}
			return nil, nil
		}
		p.enterMacro(top)
		return nil, nil
	}

	b, eof, err := top.ReadByte()
	if err != nil {
		return nil, err
	}
	if eof {
		return nil, nil
	}
	return p.nonHook(top, b)
}

// probe implements the match probe of spec section 4.3 for a single
// literal candidate m against the top source.
func (p *Parser) probe(top *ioframe.InputSource, m []byte) (matched bool, empty bool, err error) {
	if len(m) == 0 {
		return false, false, nil
	}
	window, err := top.GetN(len(m))
	if err != nil {
		return false, false, err
	}
	if len(window) == 0 {
		return false, true, nil
	}
	if bytes.Equal(window, m) {
		return true, false, nil
	}
	top.PutBackN(window)
	return false, false, nil
}

// probeHookBegin probes the active hook-begin candidate(s): a direct
// literal compare in single mode, or the compiled delimvm alternation in
// multi mode (first-registered match wins; see SPEC_FULL.md section 4).
func (p *Parser) probeHookBegin(top *ioframe.InputSource) (matched bool, consumed []byte, hp hook.Pair, err error) {
	cfg := top.Cfg
	if !cfg.IsMulti() {
		single := cfg.Single()
		ok, empty, err := p.probe(top, single.Beg)
		if err != nil {
			return false, nil, hook.Pair{}, err
		}
		if empty {
			p.Inputs.Pop()
			return false, nil, hook.Pair{}, nil
		}
		if !ok {
			return false, nil, hook.Pair{}, nil
		}
		return true, single.Beg, single, nil
	}

	window, err := top.GetN(cfg.MaxDelimiterLen())
	if err != nil {
		return false, nil, hook.Pair{}, err
	}
	if len(window) == 0 {
		p.Inputs.Pop()
		return false, nil, hook.Pair{}, nil
	}
	idx, n, ok, err := cfg.MatchBegin(window)
	top.PutBackN(window)
	if err != nil {
		return false, nil, hook.Pair{}, err
	}
	if !ok {
		return false, nil, hook.Pair{}, nil
	}
	consumed, err = top.GetN(n)
	if err != nil {
		return false, nil, hook.Pair{}, err
	}
	return true, consumed, cfg.Pairs()[idx], nil
}

// handleEscape implements spec section 4.5 item 1: the escape probe
// already matched; c2 is the byte immediately following it.
func (p *Parser) handleEscape(top *ioframe.InputSource) (*Diagnostic, error) {
	c2, eof, err := top.ReadByte()
	if err != nil {
		return nil, err
	}
	if eof {
		if p.InMacro > 0 {
			d := p.fatal(top, "end-of-source within macro")
			return d, d
		}
		p.terminate = true
		return nil, nil
	}

	cfg := top.Cfg
	if p.InMacro > 0 {
		if (c2 == ' ' || c2 == '\n') && cfg.EscEqEnd() {
			top.PushBack(c2)
			hp, _ := top.TopHook()
			if p.Suspension > 0 {
				p.Suspension--
				p.macroBuf = append(p.macroBuf, hp.End...)
				return nil, nil
			}
			return p.hookEndSequence(top, hp)
		}
		if len(cfg.Eater()) > 0 && c2 == cfg.Eater()[0] {
			return p.probeEaterThenCollectOrDrop(top, c2)
		}
		p.macroBuf = append(p.macroBuf, c2)
		return nil, nil
	}

	if len(cfg.Eater()) > 0 && c2 == cfg.Eater()[0] {
		return p.probeEaterThenEmitOrDrop(top, c2)
	}
	if c2 == '\n' || c2 == ' ' {
		return nil, nil
	}
	if cfg.EscEqBeg() {
		if len(cfg.Esc()) == 1 && c2 == cfg.Esc()[0] {
			return nil, p.emit(top, []byte{c2})
		}
		top.PushBack(c2)
		top.PushHook(cfg.Single())
		p.enterMacro(top)
		return nil, nil
	}
	return nil, p.emit(top, []byte{c2})
}

func (p *Parser) probeEaterThenCollectOrDrop(top *ioframe.InputSource, c2 byte) (*Diagnostic, error) {
	top.PushBack(c2)
	matched, empty, err := p.probe(top, top.Cfg.Eater())
	if err != nil {
		return nil, err
	}
	if empty {
		p.Inputs.Pop()
		return nil, nil
	}
	if matched {
		return nil, nil
	}
	b, eof, err := top.ReadByte()
	if err != nil {
		return nil, err
	}
	if !eof {
		p.macroBuf = append(p.macroBuf, b)
	}
	return nil, nil
}

func (p *Parser) probeEaterThenEmitOrDrop(top *ioframe.InputSource, c2 byte) (*Diagnostic, error) {
	top.PushBack(c2)
	matched, empty, err := p.probe(top, top.Cfg.Eater())
	if err != nil {
		return nil, err
	}
	if empty {
		p.Inputs.Pop()
		return nil, nil
	}
	if matched {
		return nil, nil
	}
	b, eof, err := top.ReadByte()
	if err != nil {
		return nil, err
	}
	if !eof {
		return nil, p.emit(top, []byte{b})
	}
	return nil, nil
}

// enterMacro implements Step C.
func (p *Parser) enterMacro(top *ioframe.InputSource) {
	p.InMacro++
	top.MarkMacro()
	p.macroBuf = p.macroBuf[:0]
}

// hookEndSequence implements Step D.
func (p *Parser) hookEndSequence(top *ioframe.InputSource, hp hook.Pair) (*Diagnostic, error) {
	p.InMacro--
	if p.InMacro < 0 {
		d := p.fatal(top, "internal macro state")
		return d, d
	}
	if p.InMacro > 0 {
		top.PopHook()
		return nil, p.emit(top, hp.End)
	}

	body := p.macroBuf
	p.macroBuf = nil
	d, err := p.dispatch(top, body)
	top.UnmarkMacro()
	top.PopHook()
	if err != nil {
		return d, err
	}
	if d != nil && d.Fatal() {
		return d, nil
	}

	if p.postPush != nil {
		for _, src := range p.postPush.sources {
			p.Inputs.Push(src)
		}
		p.postPush = nil
	}
	if p.postPop {
		p.postPop = false
		if _, err := p.Inputs.Pop(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// emit appends b to the macro body while a macro is open, else writes it
// straight through to the current output sink (Step F's routing rule,
// reused everywhere a byte must go "to output").
func (p *Parser) emit(top *ioframe.InputSource, b []byte) error {
	if p.InMacro > 0 {
		p.macroBuf = append(p.macroBuf, b...)
		return nil
	}
	_, err := p.Outputs.Write(b)
	return err
}

// nonHook implements Step F for a byte that never reached a probe.
func (p *Parser) nonHook(top *ioframe.InputSource, c byte) (*Diagnostic, error) {
	return nil, p.emit(top, []byte{c})
}

func (p *Parser) fatal(top *ioframe.InputSource, msg string) *Diagnostic {
	return &Diagnostic{
		Severity:    SeverityFatal,
		HasLocation: true,
		File:        top.Name,
		Line:        top.ErrorLine(),
		Col:         top.ErrorCol(),
		Message:     msg,
	}
}

func (p *Parser) fatalNoSource(msg string) *Diagnostic {
	return &Diagnostic{Severity: SeverityFatal, Message: msg}
}

func (p *Parser) errorDiagnostic(top *ioframe.InputSource, msg string) *Diagnostic {
	return &Diagnostic{
		Severity:    SeverityError,
		HasLocation: true,
		File:        top.Name,
		Line:        top.ErrorLine(),
		Col:         top.ErrorCol(),
		Message:     msg,
	}
}
