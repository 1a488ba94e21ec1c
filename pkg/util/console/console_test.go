package console

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Level: WarnLevel, Err: &buf}

	c.Info("hidden")
	c.Warnf("shown %d", 1)
	c.Errorf("also %s", "shown")

	require.Equal(t, "shown 1\nalso shown\n", buf.String())
}

func TestLogMultiline(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Level: DebugLevel, Err: &buf}

	c.Debug("one\ntwo")

	require.Equal(t, "one\ntwo\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("WARNING")
	require.NoError(t, err)
	require.Equal(t, WarnLevel, l)
	require.Equal(t, "warn", l.String())

	_, err = ParseLevel("loud")
	require.ErrorIs(t, err, ErrInvalidLevel)
}

func TestInteractiveReadRepeatsUntilRequiredValue(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("\n  \n moss \n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	stdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = stdin })

	value, err := Interactive{Prompt: "Username", Required: true}.Read()
	require.NoError(t, err)
	require.Equal(t, "moss", value)
}

func TestInteractiveReadClosedStdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	stdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = stdin })

	_, err = Interactive{Prompt: "Username"}.Read()
	require.ErrorContains(t, err, "stdin is closed")
}
