package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/tisannai/mucgly/internal/hook"
	"github.com/tisannai/mucgly/internal/ioframe"
)

// knownDirectives is the table probed for "did you mean" suggestions on an
// unrecognized `:xxx` directive.
var knownDirectives = []string{
	"hookbeg", "hookend", "hookesc", "hookall", "hook",
	"eater", "include", "source", "block", "unblock", "comment", "exit",
}

// dispatch implements DirectiveDispatcher (spec section 4.6): inspect the
// effective macro body's first byte and act accordingly. The `+` eat-tail
// prefix is stripped here, per the "macro body lookup" rule in 4.5.
func (p *Parser) dispatch(top *ioframe.InputSource, body []byte) (*Diagnostic, error) {
	if len(body) > 0 && body[0] == '+' {
		top.SetEatTail(true)
		body = body[1:]
	}
	if len(body) == 0 {
		return nil, nil
	}

	switch body[0] {
	case ':':
		return p.dispatchDirective(top, string(body[1:]))
	case '.':
		result, err := p.Script.Eval(p, string(body[1:]))
		if err != nil {
			return p.errorDiagnostic(top, fmt.Sprintf("script evaluation failed: %v", err)), nil
		}
		return nil, p.emit(top, []byte(result))
	case '/':
		return nil, nil
	case '#':
		return p.dispatchDeferred(top, body[1:])
	default:
		if err := p.Script.EvalStatement(p, string(body)); err != nil {
			return p.errorDiagnostic(top, fmt.Sprintf("script evaluation failed: %v", err)), nil
		}
		return nil, nil
	}
}

// dispatchDeferred re-hooks rest for a later pass: `-<#still>-` becomes
// `-<still>-` in the output, to be matched as a hook again on a subsequent
// read of that text.
func (p *Parser) dispatchDeferred(top *ioframe.InputSource, rest []byte) (*Diagnostic, error) {
	var beg, end []byte
	if top.Cfg.IsMulti() {
		pairs := top.Cfg.Pairs()
		if len(pairs) == 0 {
			return p.errorDiagnostic(top, "deferred evaluation requires at least one active hook pair"), nil
		}
		beg, end = pairs[0].Beg, pairs[0].End
	} else {
		single := top.Cfg.Single()
		beg, end = single.Beg, single.End
	}
	out := make([]byte, 0, len(beg)+len(rest)+len(end))
	out = append(out, beg...)
	out = append(out, rest...)
	out = append(out, end...)
	return nil, p.emit(top, out)
}

func splitDirective(body string) (keyword, arg string) {
	i := strings.IndexAny(body, " \t\n")
	if i < 0 {
		return body, ""
	}
	return body[:i], body[i+1:]
}

func (p *Parser) dispatchDirective(top *ioframe.InputSource, body string) (*Diagnostic, error) {
	keyword, arg := splitDirective(body)
	switch keyword {
	case "hookbeg":
		return p.setHookDirective(top, hook.KindBeg, arg)
	case "hookend":
		return p.setHookDirective(top, hook.KindEnd, arg)
	case "hookesc":
		return p.setHookDirective(top, hook.KindEsc, arg)
	case "hookall":
		if err := top.Cfg.SetHookAll([]byte(arg)); err != nil {
			d := p.fatal(top, err.Error())
			return d, nil
		}
		return nil, nil
	case "hook":
		toks := strings.SplitN(arg, " ", 2)
		begv := toks[0]
		endv := begv
		if len(toks) == 2 {
			endv = toks[1]
		}
		if err := top.Cfg.SetHook(hook.KindBeg, []byte(begv)); err != nil {
			return p.fatal(top, err.Error()), nil
		}
		if err := top.Cfg.SetHook(hook.KindEnd, []byte(endv)); err != nil {
			return p.fatal(top, err.Error()), nil
		}
		return nil, nil
	case "eater":
		top.Cfg.SetEater([]byte(arg))
		return nil, nil
	case "include":
		return p.pushInputPath(arg)
	case "source":
		if err := p.Script.Load(p, arg); err != nil {
			return p.errorDiagnostic(top, fmt.Sprintf("script load failed: %v", err)), nil
		}
		return nil, nil
	case "block":
		p.Block()
		return nil, nil
	case "unblock":
		p.Unblock()
		return nil, nil
	case "comment":
		return nil, nil
	case "exit":
		p.terminate = true
		return nil, nil
	default:
		return p.unknownDirective(top, keyword), nil
	}
}

func (p *Parser) setHookDirective(top *ioframe.InputSource, kind hook.Kind, value string) (*Diagnostic, error) {
	if err := top.Cfg.SetHook(kind, []byte(value)); err != nil {
		return p.fatal(top, err.Error()), nil
	}
	return nil, nil
}

func (p *Parser) unknownDirective(top *ioframe.InputSource, keyword string) *Diagnostic {
	msg := fmt.Sprintf("unknown directive %q", keyword)
	if suggestion := closestDirective(keyword); suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return p.errorDiagnostic(top, msg)
}

// closestDirective returns the known directive with the smallest
// Levenshtein distance to keyword, or "" if none is close enough to be a
// plausible typo.
func closestDirective(keyword string) string {
	best := ""
	bestDist := 1000
	for _, k := range knownDirectives {
		d := edlib.LevenshteinDistance(keyword, k)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	if bestDist <= 2 {
		return best
	}
	return ""
}

// sortedCopy returns a sorted copy of paths, used so glob-expanded
// `:include` arguments push their matches in a deterministic order.
func sortedCopy(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}
