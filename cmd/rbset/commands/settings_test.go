package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsCommand(t *testing.T, errOut *bytes.Buffer, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "probe"}
	cmd.Flags().String(FlagConfig, "", "")
	cmd.Flags().Bool(FlagVerbose, false, "")
	cmd.Flags().Bool(FlagQuiet, false, "")
	cmd.SetErr(errOut)
	require.NoError(t, cmd.Flags().Parse(args))

	return cmd
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rbset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  max_nodes: 5\nlogging:\n  format: json\n"), 0o600))

	var errOut bytes.Buffer

	st, err := loadSettings(newSettingsCommand(t, &errOut, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, 5, st.cfg.Render.MaxNodes)

	st.logger.Info("hello")
	assert.Contains(t, errOut.String(), `"command":"probe"`)
}

func TestLoadSettings_VerboseAndQuiet(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer

	st, err := loadSettings(newSettingsCommand(t, &errOut, "--verbose"))
	require.NoError(t, err)
	assert.Equal(t, "debug", st.cfg.Logging.Level)

	st, err = loadSettings(newSettingsCommand(t, &errOut, "--verbose", "--quiet"))
	require.NoError(t, err)
	assert.True(t, st.quiet)
	assert.Equal(t, "error", st.cfg.Logging.Level)
}

func TestLoadSettings_BadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rbset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workload:\n  operations: -1\n"), 0o600))

	_, err := loadSettings(newSettingsCommand(t, &bytes.Buffer{}, "--config", path))
	require.Error(t, err)
}
