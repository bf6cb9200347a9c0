package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)

	assert.Equal(t, "lawsuit-monitor", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Use] = true
	}
	for _, want := range []string{"run", "render", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	pf := cmd.PersistentFlags()

	cfg := pf.Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "c", cfg.Shorthand)

	env := pf.Lookup("env-file")
	require.NotNil(t, env)
	assert.Equal(t, ".env", env.DefValue)

	require.NotNil(t, pf.Lookup("log-level"))
	require.NotNil(t, pf.Lookup("log-format"))

	timeout := pf.Lookup("timeout")
	require.NotNil(t, timeout)
	assert.Equal(t, "0s", timeout.DefValue)
}

func TestVersionCommand(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	Version, GitCommit = "1.2.3", "abc123"
	t.Cleanup(func() { Version, GitCommit = oldVersion, oldCommit })

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--config", "/does/not/exist.yaml"})

	// version skips config loading, so a missing file is not an error.
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "lawsuit-monitor 1.2.3")
	assert.Contains(t, out.String(), "commit: abc123")
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)

	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestPersistentPreRun_BadConfigFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"render", "--config", "/does/not/exist.yaml", "--env-file", "/does/not/exist.env"})
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestPrintHelpers(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	PrintSuccess(cmd, "done")
	PrintError(cmd, assert.AnError)
	PrintError(cmd, nil)

	assert.Equal(t, "OK: done\n", out.String())
	assert.Equal(t, "Error: "+assert.AnError.Error()+"\n", errOut.String())
}

//Personal.AI order the ending
