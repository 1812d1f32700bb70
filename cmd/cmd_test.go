package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claw-manager/internal/channel"
	"claw-manager/internal/logger"
)

// execute runs the root command against a config file in a temp dir whose
// env file lives next to it.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "claw-manager.yaml")
	envFile := filepath.ToSlash(filepath.Join(dir, "openclaw", "env"))
	runtimeRoot := filepath.ToSlash(filepath.Join(dir, "runtime"))
	yaml := "cli:\n  env_file: " + envFile + "\nruntime:\n  root: " + runtimeRoot + "\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(yaml), 0644))

	var out bytes.Buffer
	prev := logger.Output
	logger.Output = &bytes.Buffer{}
	t.Cleanup(func() { logger.Output = prev })

	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgFile, "--json=false"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseStrip(t *testing.T) {
	out, err := execute(t, "\x1b[32m✔ ok\x1b[0m\n", "parse", "strip")
	require.NoError(t, err)
	assert.Equal(t, "✔ ok\n", out)
}

func TestParseJSON(t *testing.T) {
	out, err := execute(t, "[plugins] loaded\n{\n  \"ok\": true\n}\n", "parse", "json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"ok\": true\n}\n", out)

	_, err = execute(t, "no json here\n", "parse", "json")
	assert.Error(t, err)
}

func TestParseStatusJSONOutput(t *testing.T) {
	raw := "Channels:\n- Telegram default: enabled, configured, running\n"
	out, err := execute(t, raw, "parse", "status", "telegram", "--json")
	require.NoError(t, err)

	var st channel.Status
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.True(t, st.OK)
	assert.True(t, st.Configured)
	assert.Equal(t, "enabled, configured, running", st.Message)
	assert.Equal(t, channel.SourceStatusText, st.Source)
}

func TestParseSend(t *testing.T) {
	out, err := execute(t, "{\n  \"payload\": {\"messageId\": \"42\"}\n}\n", "parse", "send", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sent": true, "json": true}`, out)
}

func TestEnvCommands(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "env")
	cfgFile := filepath.Join(dir, "claw-manager.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("cli:\n  env_file: "+filepath.ToSlash(envFile)+"\n"), 0644))

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetIn(strings.NewReader(""))
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(append([]string{"--config", cfgFile, "--json=false"}, args...))
		err := rootCmd.ExecuteContext(context.Background())
		return out.String(), err
	}
	prev := logger.Output
	logger.Output = &bytes.Buffer{}
	t.Cleanup(func() { logger.Output = prev })

	_, err := run("env", "set", "OPENCLAW_TELEGRAM_USERID", "12345")
	require.NoError(t, err)

	out, err := run("env", "get", "OPENCLAW_TELEGRAM_USERID")
	require.NoError(t, err)
	assert.Equal(t, "12345\n", out)

	_, err = run("env", "unset", "OPENCLAW_TELEGRAM_USERID")
	require.NoError(t, err)

	_, err = run("env", "get", "OPENCLAW_TELEGRAM_USERID")
	assert.ErrorIs(t, err, errFailed)
}

func TestPortRejectsInvalidNumber(t *testing.T) {
	_, err := execute(t, "", "port", "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestRuntimeStatusWithoutBundle(t *testing.T) {
	out, err := execute(t, "", "runtime", "status", "--json")
	require.NoError(t, err)

	var v struct {
		Ready   bool   `json:"ready"`
		NodeDir string `json:"nodeDir"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.False(t, v.Ready)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(v.NodeDir), "runtime/node"))
}
