package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-d", "/tmp/data", "-x", "ignored"}
	got := FilterArgs(args, []string{"-d"})
	require.Equal(t, []string{"-d", "/tmp/data"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--data=/tmp/data", "--other=1"}
	got := FilterArgs(args, []string{"--data"})
	require.Equal(t, []string{"--data=/tmp/data"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	args := []string{"-v", "-d", "/tmp"}
	got := FilterArgs(args, []string{"-v"})
	require.Equal(t, []string{"-v"}, got)
}

func TestFilterArgs_NothingAllowed(t *testing.T) {
	got := FilterArgs([]string{"-a", "1", "-b"}, nil)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestFilterArgs_ValueLookingLikeFlagIsNotConsumed(t *testing.T) {
	args := []string{"-d", "-x"}
	got := FilterArgs(args, []string{"-d"})
	require.Equal(t, []string{"-d"}, got)
}
