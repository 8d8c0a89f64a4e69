package parser

import (
	"github.com/tisannai/mucgly/internal/hook"
	"github.com/tisannai/mucgly/internal/ioframe"
	"github.com/tisannai/mucgly/script"
)

// pendingPush is a deferred `:include`/push_input, staged during macro
// dispatch and only made visible to the main loop once the enclosing
// macro's hook-end sequence completes (spec section 4.6, "defer its
// activation until the current macro finishes").
type pendingPush struct {
	sources []*ioframe.InputSource
}

// ParseState holds everything the parser's main loop threads through one
// run: the I/O stacks, nesting counters, scratch buffers, the deferred
// input-stack flags, and the script host (spec section 3).
type ParseState struct {
	Inputs  *ioframe.InputStack
	Outputs *ioframe.OutputStack

	InMacro    int
	Suspension int

	previewBuf []byte
	macroBuf   []byte

	postPush *pendingPush
	postPop  bool

	Script script.ScriptHost

	// DefaultTemplate seeds the HookConfig for the very first source
	// pushed, and any source pushed while the input stack is empty (spec
	// section 3, "Ownership").
	DefaultTemplate *hook.Config

	terminate bool
}

// NewParseState constructs an empty ParseState ready to have its first
// input and output sources pushed.
func NewParseState(host script.ScriptHost, template *hook.Config) *ParseState {
	if host == nil {
		host = script.Noop{}
	}
	return &ParseState{
		Inputs:          ioframe.NewInputStack(),
		Outputs:         ioframe.NewOutputStack(),
		Script:          host,
		DefaultTemplate: template,
	}
}

// Close tears down every remaining input source and output sink.
func (ps *ParseState) Close() error {
	ierr := ps.Inputs.Close()
	oerr := ps.Outputs.Close()
	if ierr != nil {
		return ierr
	}
	return oerr
}
