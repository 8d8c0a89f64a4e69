package ioframe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisannai/mucgly/internal/hook"
)

func newTestSource(s string) *InputSource {
	return NewInputSource("test", strings.NewReader(s), nil, hook.Default())
}

func TestInputSource_ReadByte_tracksLineAndCol(t *testing.T) {
	s := newTestSource("ab\ncd")

	for _, want := range []byte("ab\ncd") {
		b, eof, err := s.ReadByte()
		require.NoError(t, err)
		require.False(t, eof)
		assert.Equal(t, want, b)
	}
	_, eof, err := s.ReadByte()
	require.NoError(t, err)
	assert.True(t, eof)

	assert.Equal(t, 2, s.Line())
	assert.Equal(t, 3, s.Col())
}

func TestInputSource_PushBack_rereadsSameByte(t *testing.T) {
	s := newTestSource("xy")

	b, _, err := s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('x'), b)

	s.PushBack(b)
	b2, _, err := s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), b2)
	assert.Equal(t, 1, s.Col(), "pushing back 'x' must undo the column advance")
}

func TestInputSource_PushBack_acrossNewline(t *testing.T) {
	s := newTestSource("a\nb")

	s.ReadByte() // 'a'
	nl, _, err := s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('\n'), nl)
	require.Equal(t, 2, s.Line())

	s.PushBack(nl)
	assert.Equal(t, 1, s.Line(), "pushing back the newline must undo the line advance")

	again, _, err := s.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), again)
	assert.Equal(t, 2, s.Line())
}

func TestInputSource_EatTail_discardsExactlyOneByte(t *testing.T) {
	s := newTestSource("+abc")

	first, _, _ := s.ReadByte()
	require.Equal(t, byte('+'), first)

	s.SetEatTail(true)
	b, eof, err := s.ReadByte()
	require.NoError(t, err)
	require.False(t, eof)
	assert.Equal(t, byte('b'), b, "the byte right after eat_tail was armed must be swallowed")
}

func TestInputSource_EatTail_doesNotSwallowAcrossEOF(t *testing.T) {
	s := newTestSource("a")
	s.ReadByte() // 'a'

	s.SetEatTail(true)
	_, eof, err := s.ReadByte()
	require.NoError(t, err)
	assert.True(t, eof)
}

func TestInputSource_MacroMark_reportsMacroStart(t *testing.T) {
	s := newTestSource("ab-<cd")
	s.ReadByte()
	s.ReadByte()
	assert.Equal(t, 1, s.ErrorLine())
	assert.Equal(t, 3, s.ErrorCol())

	s.MarkMacro()
	s.ReadByte()
	s.ReadByte()

	assert.Equal(t, 3, s.ErrorCol(), "while a macro is open, errors report its start, not the current position")

	s.UnmarkMacro()
	assert.Equal(t, 5, s.ErrorCol())
}

func TestInputSource_HookStack(t *testing.T) {
	s := newTestSource("")
	_, ok := s.TopHook()
	assert.False(t, ok)

	s.PushHook(hook.Pair{Beg: []byte("<<"), End: []byte(">>")})
	assert.Equal(t, 1, s.HookDepth())

	top, ok := s.TopHook()
	require.True(t, ok)
	assert.Equal(t, []byte("<<"), top.Beg)

	popped, ok := s.PopHook()
	require.True(t, ok)
	assert.Equal(t, top.Beg, popped.Beg)
	assert.Equal(t, 0, s.HookDepth())
}

func TestInputSource_GetNAndPutBackN_roundTrip(t *testing.T) {
	s := newTestSource("hello world")

	window, err := s.GetN(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), window)

	s.PutBackN(window)
	again, err := s.GetN(11)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), again)
}

func TestInputSource_GetN_stopsEarlyAtEOF(t *testing.T) {
	s := newTestSource("ab")
	window, err := s.GetN(10)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), window)
}
