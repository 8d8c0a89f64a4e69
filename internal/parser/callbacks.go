package parser

import (
	"fmt"
	"os"

	"github.com/tisannai/mucgly/internal/hook"
	"github.com/tisannai/mucgly/internal/ioframe"
)

// This file implements Callbacks (spec section 4.7): the fixed vtable a
// ScriptHost may call back into while evaluating a macro body. By the time
// any of these run, InMacro has already been decremented to zero (Step D
// dispatches only once the enclosing macro has fully closed), so writes go
// straight to the output stack rather than through the macro-body buffer.

func (p *Parser) Write(s []byte) {
	p.Outputs.Write(s)
}

func (p *Parser) Puts(s []byte) {
	p.Outputs.Write(s)
	p.Outputs.Write([]byte{'\n'})
}

func (p *Parser) currentConfig() *hook.Config {
	top, ok := p.Inputs.Top()
	if !ok {
		return nil
	}
	return top.Cfg
}

func (p *Parser) HookBeg() []byte {
	cfg := p.currentConfig()
	if cfg == nil || cfg.IsMulti() {
		return nil
	}
	return cfg.Single().Beg
}

func (p *Parser) HookEnd() []byte {
	cfg := p.currentConfig()
	if cfg == nil || cfg.IsMulti() {
		return nil
	}
	return cfg.Single().End
}

func (p *Parser) HookEsc() []byte {
	cfg := p.currentConfig()
	if cfg == nil {
		return nil
	}
	return cfg.Esc()
}

func (p *Parser) SetHook(kind hook.Kind, value []byte) error {
	cfg := p.currentConfig()
	if cfg == nil {
		return fmt.Errorf("parser: set_hook with no active input source")
	}
	return cfg.SetHook(kind, value)
}

func (p *Parser) SetHookBeg(s []byte) error { return p.SetHook(hook.KindBeg, s) }
func (p *Parser) SetHookEnd(s []byte) error { return p.SetHook(hook.KindEnd, s) }
func (p *Parser) SetHookEsc(s []byte) error { return p.SetHook(hook.KindEsc, s) }

func (p *Parser) SetEater(s []byte) {
	if cfg := p.currentConfig(); cfg != nil {
		cfg.SetEater(s)
	}
}

// MultiHook adds every pair in pairs to the current source's multi-hook
// vector (the "multihook(pairs...)" callback; the host is responsible for
// normalizing whatever argument shape its own language accepted down to
// []hook.Pair before calling this).
func (p *Parser) MultiHook(pairs []hook.Pair) error {
	cfg := p.currentConfig()
	if cfg == nil {
		return fmt.Errorf("parser: multihook with no active input source")
	}
	for _, pr := range pairs {
		if err := cfg.AddMulti(pr.Beg, pr.End, pr.Susp); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) PushInput(path string) error {
	d, err := p.pushInputPath(path)
	if err != nil {
		return err
	}
	if d != nil {
		return d
	}
	return nil
}

func (p *Parser) CloseInput() {
	p.postPop = true
}

func (p *Parser) PushOutput(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parser: push_output %q: %w", path, err)
	}
	p.Outputs.Push(ioframe.NewOutputSink(path, f, f))
	return nil
}

func (p *Parser) CloseOutput() error {
	_, err := p.Outputs.Pop()
	return err
}

func (p *Parser) Block() {
	if top, ok := p.Outputs.Top(); ok {
		top.Blocked = true
	}
}

func (p *Parser) Unblock() {
	if top, ok := p.Outputs.Top(); ok {
		top.Blocked = false
	}
}

func (p *Parser) IFilename() string {
	if top, ok := p.Inputs.Top(); ok {
		return top.Name
	}
	return ""
}

func (p *Parser) ILineNumber() int {
	if top, ok := p.Inputs.Top(); ok {
		return top.Line()
	}
	return 0
}

func (p *Parser) OFilename() string {
	if top, ok := p.Outputs.Top(); ok {
		return top.Name
	}
	return ""
}

func (p *Parser) OLineNumber() int {
	if top, ok := p.Outputs.Top(); ok {
		return top.Line()
	}
	return 0
}
