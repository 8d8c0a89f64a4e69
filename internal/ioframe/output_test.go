package ioframe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputSink_Blocked_discardsWrites(t *testing.T) {
	var buf bytes.Buffer
	sink := NewOutputSink("out", &buf, nil)

	n, err := sink.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())

	sink.Blocked = true
	n, err = sink.Write([]byte(" world\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, n, "a blocked sink still reports the full length written")
	assert.Equal(t, "hello", buf.String(), "a blocked sink must not reach the underlying writer")
	assert.Equal(t, 2, sink.Line(), "line tracking continues even while blocked")
}

func TestOutputStack_Write_targetsTopOnly(t *testing.T) {
	var a, b bytes.Buffer
	s := NewOutputStack()
	s.Push(NewOutputSink("a", &a, nil))
	s.Push(NewOutputSink("b", &b, nil))

	_, err := s.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", b.String())
	assert.Equal(t, "", a.String())

	_, err = s.Pop()
	require.NoError(t, err)
	_, err = s.Write([]byte("y"))
	require.NoError(t, err)
	assert.Equal(t, "y", a.String())
}

func TestOutputStack_Write_withEmptyStackIsNoop(t *testing.T) {
	s := NewOutputStack()
	n, err := s.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
