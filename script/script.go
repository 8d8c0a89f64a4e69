// Package script defines the boundary between the preprocessor core and an
// embedded scripting language: the ScriptHost interface a caller implements,
// and the Callbacks vtable the parser exposes back to it. No concrete
// interpreter lives here — spec section 1 treats the script language itself
// as a pluggable collaborator, never part of this module.
package script

import "github.com/tisannai/mucgly/internal/hook"

// ScriptHost evaluates macro bodies as script source. Callers supply their
// own implementation; Noop is provided for a preprocessor run that treats
// every non-directive macro body as inert.
type ScriptHost interface {
	// Eval evaluates expr (the body of a `.`-prefixed macro) and returns
	// its stringified result, which the parser writes to the current
	// output sink.
	Eval(cb Callbacks, expr string) (string, error)

	// EvalStatement evaluates stmt for effect only; any result value is
	// discarded (the body of a macro with no recognized prefix).
	EvalStatement(cb Callbacks, stmt string) error

	// Load loads and runs path as a script file (the `:source` directive;
	// spec section 9 treats this as "equivalent to a host-internal
	// load(path)").
	Load(cb Callbacks, path string) error
}

// Callbacks is the fixed vtable a ScriptHost may call back into while
// evaluating, per spec section 4.7. *parser.Parser implements this
// directly.
type Callbacks interface {
	Write(s []byte)
	Puts(s []byte)

	HookBeg() []byte
	HookEnd() []byte
	HookEsc() []byte
	SetHook(kind hook.Kind, value []byte) error
	SetHookBeg(s []byte) error
	SetHookEnd(s []byte) error
	SetHookEsc(s []byte) error
	SetEater(s []byte)
	MultiHook(pairs []hook.Pair) error

	PushInput(path string) error
	CloseInput()
	PushOutput(path string) error
	CloseOutput() error

	Block()
	Unblock()

	IFilename() string
	ILineNumber() int
	OFilename() string
	OLineNumber() int
}

// Noop treats every expression as the empty string and every
// statement/load as a no-op. Useful for exercising the directive and I/O
// machinery without a real embedded interpreter.
type Noop struct{}

func (Noop) Eval(Callbacks, string) (string, error) { return "", nil }
func (Noop) EvalStatement(Callbacks, string) error  { return nil }
func (Noop) Load(Callbacks, string) error           { return nil }
