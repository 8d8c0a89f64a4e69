package parser

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisannai/mucgly/internal/hook"
	"github.com/tisannai/mucgly/internal/ioframe"
	"github.com/tisannai/mucgly/script"
)

// arithHost is a minimal ScriptHost used only to exercise the parser's
// dispatch machinery: it understands a quoted string literal, "a+b" where
// a and b are integers, or else echoes the expression verbatim.
type arithHost struct{}

func (arithHost) Eval(cb script.Callbacks, expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if len(expr) >= 2 && expr[0] == '"' && expr[len(expr)-1] == '"' {
		return expr[1 : len(expr)-1], nil
	}
	if idx := strings.IndexByte(expr, '+'); idx >= 0 {
		a, err1 := strconv.Atoi(strings.TrimSpace(expr[:idx]))
		b, err2 := strconv.Atoi(strings.TrimSpace(expr[idx+1:]))
		if err1 == nil && err2 == nil {
			return strconv.Itoa(a + b), nil
		}
	}
	return expr, nil
}

func (arithHost) EvalStatement(cb script.Callbacks, stmt string) error { return nil }
func (arithHost) Load(cb script.Callbacks, path string) error          { return nil }

// runSource runs input through a fresh Parser with default hook
// configuration and an arithHost, returning the full output.
func runSource(t *testing.T, input string) string {
	t.Helper()
	ps := NewParseState(arithHost{}, hook.Default())
	cfg, err := ps.Inputs.NewChildConfig(ps.DefaultTemplate)
	require.NoError(t, err)
	ps.Inputs.Push(ioframe.NewInputSource("test.txt", strings.NewReader(input), nil, cfg))

	var out bytes.Buffer
	ps.Outputs.Push(ioframe.NewOutputSink("<stdout>", &out, nil))

	p := NewParser(ps)
	d, err := p.Run()
	require.NoError(t, err)
	require.Nil(t, d, "unexpected diagnostic: %v", d)
	return out.String()
}

func TestScenario_ScriptEval(t *testing.T) {
	assert.Equal(t, "Hello 3 world\n", runSource(t, "Hello -<.1+2>- world\n"))
}

func TestScenario_EscapedDelimiters(t *testing.T) {
	assert.Equal(t, "A-<B>-C", runSource(t, "A\\-<B\\>-C"))
}

func TestScenario_HookbegDirectiveChangesOnlyBeg(t *testing.T) {
	out := runSource(t, "-<:hookbeg {{>-Before {{.42>- After\n")
	assert.Equal(t, "Before 42 After\n", out)
}

func TestScenario_BlockUnblock(t *testing.T) {
	assert.Equal(t, "SHOWN", runSource(t, "-<:block>-HIDDEN-<:unblock>-SHOWN"))
}

func TestScenario_EatTailSwallowsOneByte(t *testing.T) {
	assert.Equal(t, "xY", runSource(t, `-<+. "x">- Y`))
}

func TestScenario_DeferredEvaluationStripsOneHash(t *testing.T) {
	assert.Equal(t, "-<still>-", runSource(t, "-<#still>-"))
}

func TestInvariant_MacroBalanceAndSuspension(t *testing.T) {
	ps := NewParseState(arithHost{}, hook.Default())
	cfg, err := ps.Inputs.NewChildConfig(ps.DefaultTemplate)
	require.NoError(t, err)
	require.NoError(t, cfg.AddMulti([]byte("<<"), []byte(">>"), []byte("~~")))
	ps.Inputs.Push(ioframe.NewInputSource("t", strings.NewReader("<<a~~b>>c>>d"), nil, cfg))

	var out bytes.Buffer
	ps.Outputs.Push(ioframe.NewOutputSink("o", &out, nil))

	p := NewParser(ps)
	_, err = p.Run()
	require.NoError(t, err)

	assert.Equal(t, 0, p.InMacro)
	assert.Equal(t, 0, p.Suspension)
	top, ok := p.Inputs.Top()
	require.True(t, ok)
	assert.Equal(t, 0, top.HookDepth())
}

func TestPushOutputAndCloseOutput_isolateWrites(t *testing.T) {
	dir := t.TempDir()
	ps := NewParseState(arithHost{}, hook.Default())
	var outer bytes.Buffer
	ps.Outputs.Push(ioframe.NewOutputSink("outer", &outer, nil))
	p := NewParser(ps)

	innerPath := dir + "/inner.txt"
	require.NoError(t, p.PushOutput(innerPath))
	p.Write([]byte("into-inner"))
	require.NoError(t, p.CloseOutput())
	p.Write([]byte("into-outer"))

	assert.Equal(t, "into-outer", outer.String(), "closing the inner sink must not leak its writes into the outer one")

	data, err := os.ReadFile(innerPath)
	require.NoError(t, err)
	assert.Equal(t, "into-inner", string(data))
}

func TestUnknownDirective_suggestsClosestMatch(t *testing.T) {
	ps := NewParseState(arithHost{}, hook.Default())
	cfg, err := ps.Inputs.NewChildConfig(ps.DefaultTemplate)
	require.NoError(t, err)
	ps.Inputs.Push(ioframe.NewInputSource("t", strings.NewReader("-<:hokbeg {{>-"), nil, cfg))
	var out bytes.Buffer
	ps.Outputs.Push(ioframe.NewOutputSink("o", &out, nil))

	p := NewParser(ps)
	d, err := p.Run()
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Contains(t, d.Message, `did you mean "hookbeg"?`)
}

func TestExitDirective_terminatesCleanly(t *testing.T) {
	assert.Equal(t, "before ", runSource(t, "before -<:exit>- after"))
}
