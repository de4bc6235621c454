// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/svgscope-cli/internal/config"
)

// executeCommandNoPreRun runs the command tree with config loading and logger
// setup replaced by a bare viper instance, for testing argument and flag
// validation without touching config files or the global logger.
func executeCommandNoPreRun(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// A fresh root command per run keeps flag state isolated.
	testRootCmd, state := newRootCmd()

	testRootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		config.SetDefaults(v)
		state.v = v
		return nil
	}

	buf := new(bytes.Buffer)
	testRootCmd.SetOut(buf)
	testRootCmd.SetErr(buf)
	testRootCmd.SetArgs(args)
	err := testRootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// interceptRunE swaps out the RunE of the named subcommand so tests can
// exercise the config pipeline without launching a browser.
func interceptRunE(t *testing.T, root *cobra.Command, use string, runE func(cmd *cobra.Command, args []string) error) {
	t.Helper()
	for _, sub := range root.Commands() {
		if sub.Use == use {
			sub.RunE = runE
			return
		}
	}
	t.Fatalf("no subcommand with Use %q", use)
}

func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "svgscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigFlagOverride(t *testing.T) {
	configFile := createTempConfig(t, `
browser:
  concurrency: 7
overlay:
  theme: dark
`)

	// A changed flag wins over the config file.
	testRootCmd, state := newRootCmd()
	var captured *config.Config
	interceptRunE(t, testRootCmd, "measure [inputs...]", func(cmd *cobra.Command, args []string) error {
		cfg, err := state.reload()
		captured = cfg
		return err
	})
	testRootCmd.SetArgs([]string{"--config", configFile, "measure", "--concurrency", "2", "icon.svg"})
	require.NoError(t, testRootCmd.ExecuteContext(context.Background()))
	require.NotNil(t, captured)
	assert.Equal(t, 2, captured.Browser.Concurrency)
	assert.Equal(t, "dark", captured.Overlay.Theme, "config file values should override defaults")

	// Without the flag, the config file value holds.
	testRootCmd, state = newRootCmd()
	interceptRunE(t, testRootCmd, "measure [inputs...]", func(cmd *cobra.Command, args []string) error {
		cfg, err := state.reload()
		captured = cfg
		return err
	})
	testRootCmd.SetArgs([]string{"--config", configFile, "measure", "icon.svg"})
	require.NoError(t, testRootCmd.ExecuteContext(context.Background()))
	require.NotNil(t, captured)
	assert.Equal(t, 7, captured.Browser.Concurrency)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SVGSCOPE_BROWSER_CONCURRENCY", "9")

	testRootCmd, state := newRootCmd()
	var captured *config.Config
	interceptRunE(t, testRootCmd, "measure [inputs...]", func(cmd *cobra.Command, args []string) error {
		cfg, err := state.reload()
		captured = cfg
		return err
	})
	testRootCmd.SetArgs([]string{"measure", "icon.svg"})
	require.NoError(t, testRootCmd.ExecuteContext(context.Background()))
	require.NotNil(t, captured)
	assert.Equal(t, 9, captured.Browser.Concurrency)
}

func TestMeasureCmd_RequiresInput(t *testing.T) {
	_, err := executeCommandNoPreRun(t, "measure")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestMeasureCmd_JSONAndPrettyAreExclusive(t *testing.T) {
	_, err := executeCommandNoPreRun(t, "measure", "--json", "--pretty", "icon.svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json pretty")
}

func TestFitCmd_ApplyRejectsRemoteInputs(t *testing.T) {
	_, err := executeCommandNoPreRun(t, "fit", "--apply", "https://example.com/icon.svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--apply requires a local .svg input")
}

func TestFitCmd_ApplyRejectsNonSVGFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0644))

	_, err := executeCommandNoPreRun(t, "fit", "--apply", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--apply requires a local .svg input")
}

func TestTargetsCmd_ListsSVGIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	require.NoError(t, os.WriteFile(path, []byte(
		`<svg id="stage" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
  <g id="layer"><rect id="frame" width="4" height="4"/></g>
</svg>`), 0644))

	output, err := executeCommandNoPreRun(t, "targets", path)
	require.NoError(t, err)
	assert.Contains(t, output, "#stage\t<svg>")
	assert.Contains(t, output, "#layer\t<g>")
	assert.Contains(t, output, "#frame\t<rect>")
}

func TestTargetsCmd_GroupsInlineSVGs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(
		`<html><body>
<p>intro</p>
<svg id="logo" xmlns="http://www.w3.org/2000/svg"><circle id="dot" r="2"/></svg>
<svg xmlns="http://www.w3.org/2000/svg"><rect id="bar" width="1" height="1"/></svg>
</body></html>`), 0644))

	output, err := executeCommandNoPreRun(t, "targets", path)
	require.NoError(t, err)
	assert.Contains(t, output, "svg #logo\n")
	assert.Contains(t, output, "  #dot\t<circle>")
	assert.Contains(t, output, "svg [1]\n")
	assert.Contains(t, output, "  #bar\t<rect>")
}

func TestTargetsCmd_RejectsRemoteInputs(t *testing.T) {
	_, err := executeCommandNoPreRun(t, "targets", "https://example.com/icon.svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inspects local files")
}

func TestTargetsCmd_RejectsUnsupportedFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	_, err := executeCommandNoPreRun(t, "targets", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input type")
}

func TestVersionCmd(t *testing.T) {
	output, err := executeCommandNoPreRun(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "svgscope "+Version+"\n", output)
}

func TestVersionFlag(t *testing.T) {
	output, err := executeCommandNoPreRun(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", output)
}
