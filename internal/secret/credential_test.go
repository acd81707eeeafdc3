package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CopiesPlaintext(t *testing.T) {
	c := New("hunter2")
	require.False(t, c.IsEmpty())
	require.Equal(t, 7, c.Len())
	require.Equal(t, "hunter2", c.Reveal())
}

func TestNew_Empty(t *testing.T) {
	c := New("")
	require.True(t, c.IsEmpty())
	require.Equal(t, "", c.Reveal())
}

func TestFromBytes_TakesOwnership(t *testing.T) {
	b := []byte("s3cret")
	c := FromBytes(b)
	require.Equal(t, "s3cret", c.Reveal())

	c.Clear()
	// the original buffer must have been wiped too
	for i, v := range b {
		require.Zerof(t, v, "byte %d not wiped", i)
	}
}

func TestClear_EmptiesAndIsIdempotent(t *testing.T) {
	c := New("topsecret")
	c.Clear()
	require.True(t, c.IsEmpty())
	require.Equal(t, "", c.Reveal())

	// second clear must not panic
	c.Clear()
	require.True(t, c.IsEmpty())
}

func TestString_NeverContainsSecret(t *testing.T) {
	c := New("opensesame")
	assert.NotContains(t, c.String(), "opensesame")
	assert.Equal(t, "Credential(10 bytes)", c.String())

	c.Clear()
	assert.Equal(t, "Credential(empty)", c.String())
}

func TestNilCredential_IsEmpty(t *testing.T) {
	var c *Credential
	require.True(t, c.IsEmpty())
	require.Equal(t, 0, c.Len())
}

func TestNilCredential_ClearIsSafe(t *testing.T) {
	// Server records carry a nil credential when no password is stored,
	// and callers clear records unconditionally after display.
	var c *Credential
	require.NotPanics(t, func() { c.Clear() })
	require.True(t, c.IsEmpty())
}

func TestWipe_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	Wipe(buf)
	for i, v := range buf {
		require.Zerof(t, v, "expected buf[%d]==0", i)
	}
}

func TestWipe_NilSafe(t *testing.T) {
	Wipe(nil)
}
