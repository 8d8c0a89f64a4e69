package parser

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tisannai/mucgly/internal/ioframe"
)

// expandIncludePath glob-expands rawPath when it contains wildcard
// metacharacters (an enrichment of `:include`/push_input; see
// SPEC_FULL.md section 11). A plain path, or an ssh:// source URI, is
// returned unexpanded.
func expandIncludePath(rawPath string) ([]string, error) {
	if strings.HasPrefix(rawPath, "ssh://") || !strings.ContainsAny(rawPath, "*?[{") {
		return []string{rawPath}, nil
	}
	matches, err := doublestar.FilepathGlob(rawPath)
	if err != nil {
		return nil, fmt.Errorf("ioframe: glob %q: %w", rawPath, err)
	}
	return matches, nil
}

// pushInputPath resolves rawPath (a plain path, glob, or ssh:// URI) to one
// or more sources, each cloning its HookConfig from the current top (or
// the process default template), and stages them as a deferred push
// (spec section 4.6: "defer its activation until the current macro
// finishes"). Matches are staged in sorted order: the first match is the
// first one read.
func (p *Parser) pushInputPath(rawPath string) (*Diagnostic, error) {
	top, _ := p.Inputs.Top()

	matches, err := expandIncludePath(rawPath)
	if err != nil {
		return p.fatal(top, err.Error()), nil
	}
	if len(matches) == 0 {
		return p.fatal(top, fmt.Sprintf("include %q matched no files", rawPath)), nil
	}
	matches = sortedCopy(matches)

	sources := make([]*ioframe.InputSource, 0, len(matches))
	for _, path := range matches {
		if err := p.Inputs.EnterInclude(path); err != nil {
			return p.fatal(top, err.Error()), nil
		}
		r, name, err := ioframe.Open(path)
		if err != nil {
			p.Inputs.LeaveInclude(path)
			return p.fatal(top, fmt.Sprintf("cannot open include %q: %v", path, err)), nil
		}
		cfg, err := p.Inputs.NewChildConfig(p.DefaultTemplate)
		if err != nil {
			p.Inputs.LeaveInclude(path)
			return nil, err
		}
		sources = append(sources, ioframe.NewInputSource(name, r, r, cfg))
	}

	// Reverse so that, after sequential Push calls, matches[0] ends up on
	// top of the stack and is therefore the next byte read.
	reversed := make([]*ioframe.InputSource, len(sources))
	for i, s := range sources {
		reversed[len(sources)-1-i] = s
	}

	if p.postPush == nil {
		p.postPush = &pendingPush{}
	}
	p.postPush.sources = append(reversed, p.postPush.sources...)
	return nil, nil
}
