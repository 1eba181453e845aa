package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute parses args against the root command without running the
// install itself; every case below fails or finishes during flag parsing.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return buf.String(), err
}

func TestUnknownFlagIsTerminal(t *testing.T) {
	_, err := execute(t, "--foo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--foo")
}

func TestVersionFlagRequiresValue(t *testing.T) {
	_, err := execute(t, "--version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs an argument")
}

func TestPositionalArgsAreRejected(t *testing.T) {
	_, err := execute(t, "v1.2.3")
	require.Error(t, err)
}

func TestHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--system")
	assert.Contains(t, out, "--pre")
	assert.Contains(t, out, "--version")
}
