package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.False(t, c.IsMulti())
	assert.Equal(t, []byte("-<"), c.Single().Beg)
	assert.Equal(t, []byte(">-"), c.Single().End)
	assert.Equal(t, []byte(`\`), c.Esc())
	assert.Nil(t, c.Eater())
	assert.True(t, c.Bitmap().Match('-'))
	assert.True(t, c.Bitmap().Match('\\'))
	assert.False(t, c.Bitmap().Match('Q'))
}

func TestSetHook_clearsMultiMode(t *testing.T) {
	c := Default()
	require.NoError(t, c.AddMulti([]byte("{{"), []byte("}}"), nil))
	require.True(t, c.IsMulti())

	require.NoError(t, c.SetHook(KindBeg, []byte("<%")))
	assert.False(t, c.IsMulti())
	assert.Equal(t, []byte("<%"), c.Single().Beg)
}

func TestSetHookAll(t *testing.T) {
	c := Default()
	require.NoError(t, c.SetHookAll([]byte("@@")))
	assert.Equal(t, []byte("@@"), c.Single().Beg)
	assert.Equal(t, []byte("@@"), c.Single().End)
	assert.Equal(t, []byte("@@"), c.Esc())
	assert.True(t, c.EscEqBeg())
	assert.True(t, c.EscEqEnd())
}

func TestAddMulti_escCollisionIsFatal(t *testing.T) {
	c := Default() // esc == `\`
	err := c.AddMulti([]byte(`\`), []byte(">>"), nil)
	assert.ErrorIs(t, err, ErrEscEqualsDelimiter)
}

func TestSetHook_escCollisionWithMultiPairIsFatal(t *testing.T) {
	c := Default()
	require.NoError(t, c.AddMulti([]byte("<<"), []byte(">>"), nil))

	err := c.SetHook(KindEsc, []byte("<<"))
	assert.ErrorIs(t, err, ErrEscEqualsDelimiter)

	err = c.SetHook(KindEsc, []byte(">>"))
	assert.ErrorIs(t, err, ErrEscEqualsDelimiter)
}

func TestAddMulti_capAt127(t *testing.T) {
	c := Default()
	for i := 0; i < MaxPairs; i++ {
		require.NoError(t, c.AddMulti([]byte{'a', byte(i)}, []byte{'b', byte(i)}, nil))
	}
	err := c.AddMulti([]byte("one-too-many"), []byte("end"), nil)
	assert.ErrorIs(t, err, ErrTooManyPairs)
}

func TestMatchBegin_firstByVectorOrderWins(t *testing.T) {
	c := Default()
	require.NoError(t, c.AddMulti([]byte("<<"), []byte(">>"), nil))
	require.NoError(t, c.AddMulti([]byte("<<<"), []byte(">>>"), nil))

	idx, n, ok, err := c.MatchBegin([]byte("<<<x"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, idx, "vector order wins even though a longer alternative also matches")
	assert.Equal(t, 2, n)
}

func TestClone_independentDelimiters(t *testing.T) {
	c := Default()
	require.NoError(t, c.AddMulti([]byte("<<"), []byte(">>"), []byte("~")))

	clone, err := c.Clone()
	require.NoError(t, err)

	require.NoError(t, clone.SetHook(KindBeg, []byte("NEW")))
	assert.True(t, c.IsMulti(), "mutating the clone must not affect the original")
	assert.False(t, clone.IsMulti())

	idx, n, ok, err := c.MatchBegin([]byte("<<x"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 2, n)
}

func TestClone_mutatingPairSliceDoesNotAliasOriginal(t *testing.T) {
	c := Default()
	require.NoError(t, c.AddMulti([]byte("<<"), []byte(">>"), nil))

	clone, err := c.Clone()
	require.NoError(t, err)
	require.NoError(t, clone.AddMulti([]byte("$$"), []byte("%%"), nil))

	assert.Len(t, c.Pairs(), 1, "appending to the clone's vector must not grow the original's")
	assert.Len(t, clone.Pairs(), 2)
}
