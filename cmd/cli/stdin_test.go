package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("x")))
	assert.False(t, isTerminal(nil))

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}

func TestHasStdinInput(t *testing.T) {
	assert.True(t, hasStdinInput(strings.NewReader("data")))
	assert.False(t, hasStdinInput(nil))
}

func TestReadStdinInput(t *testing.T) {
	got, err := readStdinInput(strings.NewReader("line one\nline two\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", got)

	big := strings.Repeat("a", maxStdinBytes+100)
	got, err = readStdinInput(strings.NewReader(big))
	require.NoError(t, err)
	assert.Len(t, got, maxStdinBytes)
}
