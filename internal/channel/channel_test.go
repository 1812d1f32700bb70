package channel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claw-manager/internal/shell"
)

type fakeCLI struct {
	status shell.Result
	send   shell.Result
	err    error
	calls  [][]string
}

func (f *fakeCLI) Run(_ context.Context, args ...string) (shell.Result, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return shell.Result{}, f.err
	}
	if len(args) > 1 && args[0] == "message" {
		return f.send, nil
	}
	return f.status, nil
}

type mapTargets map[string]string

func (m mapTargets) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok && v != ""
}

var defaultKeys = map[string]string{
	"telegram": "OPENCLAW_TELEGRAM_USERID",
	"discord":  "OPENCLAW_DISCORD_TESTCHANNELID",
}

const statusText = "\x1b[1mChannels\x1b[0m\n" +
	"- Telegram default: enabled, configured, mode:polling, token:config\n" +
	"- Discord main: enabled, not configured\n" +
	"- WhatsApp default: enabled, configured, linked\n"

func TestReconcileTextLine(t *testing.T) {
	st := Reconcile(statusText, "Telegram", nil)
	assert.True(t, st.OK)
	assert.Equal(t, SourceStatusText, st.Source)
	assert.Equal(t, "enabled, configured, mode:polling, token:config", st.Message)

	st = Reconcile(statusText, "whatsapp", nil)
	assert.True(t, st.OK)
	assert.Equal(t, "linked", st.Message)

	st = Reconcile("- Slack main: configured", "slack", nil)
	assert.True(t, st.OK)
	assert.Equal(t, "configured", st.Message)
}

func TestReconcileUnconfiguredLineShortCircuits(t *testing.T) {
	lookups := 0
	lookup := func(string) (string, bool) { lookups++; return "from file", true }

	raw := statusText + "{\"channels\": {\"discord\": {\"configured\": true}}}\n"
	st := Reconcile(raw, "Discord", lookup)

	assert.False(t, st.OK)
	assert.False(t, st.Configured)
	assert.Equal(t, SourceStatusText, st.Source)
	assert.Equal(t, "openclaw channels add --channel discord", st.Suggestion)
	assert.Zero(t, lookups)
}

func TestReconcileJSONFallback(t *testing.T) {
	raw := "[plugins] loaded 2\n{\n  \"channels\": {\n    \"slack\": {\"configured\": true, \"linked\": true},\n    \"signal\": {\"configured\": false}\n  }\n}\n"

	st := Reconcile(raw, "Slack", nil)
	assert.True(t, st.OK)
	assert.True(t, st.Linked)
	assert.Equal(t, SourceStatusJSON, st.Source)
	assert.Equal(t, "linked", st.Message)

	st = Reconcile(raw, "signal", nil)
	assert.False(t, st.OK)
	assert.Equal(t, "unable to parse the status of signal", st.Detail)
}

func TestReconcileConfigFileFallback(t *testing.T) {
	var asked []string
	lookup := func(id string) (string, bool) {
		asked = append(asked, id)
		return "configured on file", id == "qqbot"
	}

	st := Reconcile("Gateway: running\n", "QQBot", lookup)
	assert.True(t, st.OK)
	assert.Equal(t, SourceConfigFile, st.Source)
	assert.Equal(t, "configured on file", st.Message)

	st = Reconcile("{\"channels\": {\"feishu\": {\"configured\": false}}}", "feishu", lookup)
	assert.False(t, st.OK)
	assert.Equal(t, []string{"qqbot", "feishu"}, asked)
}

func TestPluginConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "channels": {
    "qqbot": {"appId": "1024", "clientSecret": "s3cret"},
    "feishu": {"appId": "cli_a", "appSecret": ""},
    "telegram": {"botToken": "x"}
  }
}`), 0600))

	msg, ok := PluginConfigured(path, "qqbot")
	assert.True(t, ok)
	assert.NotEmpty(t, msg)

	_, ok = PluginConfigured(path, "feishu")
	assert.False(t, ok, "empty secret")

	_, ok = PluginConfigured(path, "telegram")
	assert.False(t, ok, "not a plugin channel")

	_, ok = PluginConfigured(filepath.Join(t.TempDir(), "missing.json"), "qqbot")
	assert.False(t, ok)
}

func TestCheckerStatusCommandFailure(t *testing.T) {
	c := &Checker{CLI: &fakeCLI{status: shell.Result{Stderr: "gateway not running"}}}
	st := c.Status(context.Background(), "telegram")
	assert.False(t, st.OK)
	assert.Contains(t, st.Detail, "gateway not running")

	c = &Checker{CLI: &fakeCLI{err: shell.ErrCLINotFound}}
	st = c.Status(context.Background(), "telegram")
	assert.False(t, st.OK)
	assert.Contains(t, st.Detail, "not found")
}

func TestCheckerStatusUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"channels": {"feishu": {"appId": "a", "appSecret": "b"}}}`), 0600))

	c := &Checker{CLI: &fakeCLI{status: shell.Result{Success: true, Stdout: statusText}}, ConfigFile: path}
	st := c.Status(context.Background(), "Feishu")
	assert.True(t, st.OK)
	assert.Equal(t, SourceConfigFile, st.Source)
}

func TestTestUnconfigured(t *testing.T) {
	cli := &fakeCLI{status: shell.Result{Success: true, Stdout: statusText}}
	c := &Checker{CLI: cli, TargetKeys: defaultKeys}

	res := c.Test(context.Background(), "Discord")
	assert.False(t, res.Success)
	assert.Equal(t, "Discord is not configured", res.Message)
	assert.Equal(t, "run: openclaw channels add --channel discord", res.Error)
	assert.Len(t, cli.calls, 1, "no message is sent")
}

func TestTestNotConnected(t *testing.T) {
	c := &Checker{CLI: &fakeCLI{status: shell.Result{Success: true, Stdout: "nothing useful"}}}

	res := c.Test(context.Background(), "slack")
	assert.False(t, res.Success)
	assert.Equal(t, "slack is not connected", res.Message)
	assert.Equal(t, "unable to parse the status of slack", res.Error)
}

func TestTestStatusOnlyChannel(t *testing.T) {
	cli := &fakeCLI{status: shell.Result{Success: true, Stdout: statusText}}
	c := &Checker{CLI: cli, TargetKeys: defaultKeys, Targets: mapTargets{}}

	res := c.Test(context.Background(), "WhatsApp")
	assert.True(t, res.Success)
	assert.Equal(t, "WhatsApp is healthy (linked)", res.Message)
	assert.Len(t, cli.calls, 1)
}

func TestTestWithoutTarget(t *testing.T) {
	cli := &fakeCLI{status: shell.Result{Success: true, Stdout: statusText}}
	c := &Checker{CLI: cli, TargetKeys: defaultKeys, Targets: mapTargets{}}

	res := c.Test(context.Background(), "telegram")
	assert.True(t, res.Success)
	assert.True(t, strings.HasSuffix(res.Message, "set OPENCLAW_TELEGRAM_USERID"), res.Message)
	assert.Len(t, cli.calls, 1)
}

func TestTestSendsMessage(t *testing.T) {
	cli := &fakeCLI{
		status: shell.Result{Success: true, Stdout: statusText},
		send:   shell.Result{Success: true, Stdout: "[telegram] sending\n{\"payload\": {\"result\": {\"messageId\": 77}}}\n"},
	}
	c := &Checker{CLI: cli, TargetKeys: defaultKeys, Targets: mapTargets{"OPENCLAW_TELEGRAM_USERID": "12345"}}

	res := c.Test(context.Background(), "Telegram")
	assert.True(t, res.Success)
	assert.Equal(t, "Telegram", res.Channel)
	assert.Equal(t, "Telegram test message sent (enabled, configured, mode:polling, token:config)", res.Message)

	require.Len(t, cli.calls, 2)
	send := cli.calls[1]
	assert.Equal(t, []string{"message", "send", "--channel", "telegram", "--target", "12345", "--message"}, send[:7])
	assert.Contains(t, send[7], "OpenClaw test message")
	assert.Equal(t, "--json", send[8])
}

func TestSendFailures(t *testing.T) {
	tests := []struct {
		name string
		cli  *fakeCLI
	}{
		{name: "json says no", cli: &fakeCLI{send: shell.Result{Success: true, Stdout: `{"ok": false}`}}},
		{name: "text failure", cli: &fakeCLI{send: shell.Result{Success: true, Stdout: "Error: chat not found"}}},
		{name: "non-zero exit", cli: &fakeCLI{send: shell.Result{Stderr: "unknown channel"}}},
		{name: "cannot run", cli: &fakeCLI{err: errors.New("boom")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Checker{CLI: tt.cli}
			res := c.Send(context.Background(), "slack", "C1")
			assert.False(t, res.Success)
			assert.Equal(t, "slack message send failed", res.Message)
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestSendSuccess(t *testing.T) {
	c := &Checker{CLI: &fakeCLI{send: shell.Result{Success: true, Stdout: "Message delivered"}}}
	res := c.Send(context.Background(), "discord", "42")
	assert.True(t, res.Success)
	assert.Equal(t, "message sent", res.Message)
}

func TestNeedsSendTest(t *testing.T) {
	assert.True(t, NeedsSendTest("Telegram"))
	assert.True(t, NeedsSendTest("feishu"))
	assert.False(t, NeedsSendTest("whatsapp"))
	assert.False(t, NeedsSendTest("qqbot"))
	assert.False(t, NeedsSendTest("unknown"))
}
