package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSort(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := NewSortCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestSortCommand_Strings(t *testing.T) {
	t.Parallel()

	out, err := runSort(t, "pear\napple\n\n  fig  \napple\n")
	require.NoError(t, err)
	assert.Equal(t, "apple\napple\nfig\npear\n", out)
}

func TestSortCommand_NumericOrdering(t *testing.T) {
	t.Parallel()

	out, err := runSort(t, "10\n9\n-3\n100\n", "--numeric")
	require.NoError(t, err)
	assert.Equal(t, "-3\n9\n10\n100\n", out)

	// Lexicographic without --numeric.
	out, err = runSort(t, "10\n9\n-3\n100\n")
	require.NoError(t, err)
	assert.Equal(t, "-3\n10\n100\n9\n", out)
}

func TestSortCommand_UniqueReverse(t *testing.T) {
	t.Parallel()

	out, err := runSort(t, "3\n1\n3\n2\n1\n", "-n", "-u", "-r")
	require.NoError(t, err)
	assert.Equal(t, "3\n2\n1\n", out)
}

func TestSortCommand_BadNumber(t *testing.T) {
	t.Parallel()

	_, err := runSort(t, "1\ntwo\n", "--numeric")
	require.ErrorIs(t, err, ErrBadNumber)
	assert.Contains(t, err.Error(), `value 2 "two"`)
}

func TestSortCommand_EmptyInput(t *testing.T) {
	t.Parallel()

	out, err := runSort(t, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSortCommand_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("b\nc\na\n"), 0o600))

	out, err := runSort(t, "ignored\n", path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", out)
}

func TestSortCommand_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := runSort(t, "", filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
