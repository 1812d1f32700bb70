package channel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"claw-manager/internal/logger"
	"claw-manager/internal/output"
)

// TargetSource resolves test message targets, normally the CLI env file.
type TargetSource interface {
	Get(key string) (string, bool)
}

// TestResult is what a channel test reports to the user.
type TestResult struct {
	Success bool   `json:"success"`
	Channel string `json:"channel"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// needsSendTest lists channels verified by actually sending a message.
// The others (whatsapp, imessage, qqbot) are checked through status only.
var needsSendTest = map[string]bool{
	"telegram": true,
	"discord":  true,
	"slack":    true,
	"feishu":   true,
}

// NeedsSendTest reports whether channel is verified by sending a message.
func NeedsSendTest(channel string) bool {
	return needsSendTest[strings.ToLower(channel)]
}

// TestMessage is the text sent by channel tests.
func TestMessage(now time.Time) string {
	return fmt.Sprintf("🤖 OpenClaw test message\n\n✅ Connection works!\n⏰ %s", now.Format("2006-01-02 15:04:05"))
}

// Test checks the channel status and, for channels that support it, sends a
// test message to the target configured in the env file.
func (c *Checker) Test(ctx context.Context, channel string) TestResult {
	logger.Info("[INFO] Testing channel %s\n", channel)
	id := strings.ToLower(channel)

	st := c.Status(ctx, channel)
	logger.Debug("[DEBUG] %s status: ok=%t source=%s detail=%s\n", channel, st.OK, st.Source, st.Detail)

	if !st.OK {
		if st.Source == SourceStatusText && !st.Configured {
			return TestResult{
				Channel: channel,
				Message: st.Message,
				Error:   "run: " + st.Suggestion,
			}
		}
		reason := st.Detail
		if reason == "" {
			reason = "channel is not running or not configured"
		}
		return TestResult{
			Channel: channel,
			Message: channel + " is not connected",
			Error:   reason,
		}
	}

	if !NeedsSendTest(id) {
		return TestResult{
			Success: true,
			Channel: channel,
			Message: fmt.Sprintf("%s is healthy (%s)", channel, st.Message),
		}
	}

	key := c.TargetKeys[id]
	var target string
	if c.Targets != nil && key != "" {
		target, _ = c.Targets.Get(key)
	}
	if target == "" {
		hint := "configure a test target"
		if key != "" {
			hint = "set " + key
		}
		logger.Info("[INFO] %s has no test target, skipping send (%s)\n", channel, hint)
		return TestResult{
			Success: true,
			Channel: channel,
			Message: fmt.Sprintf("%s is healthy (%s) - %s", channel, st.Message, hint),
		}
	}

	res := c.Send(ctx, id, target)
	if res.Success {
		res.Message = fmt.Sprintf("%s test message sent (%s)", channel, st.Message)
	}
	res.Channel = channel
	return res
}

// Send sends a test message to target through channel and decides from the
// CLI output whether it was delivered.
func (c *Checker) Send(ctx context.Context, channel, target string) TestResult {
	logger.Info("[INFO] Sending test message through %s to %s\n", channel, target)
	res, err := c.CLI.Run(ctx,
		"message", "send",
		"--channel", channel,
		"--target", target,
		"--message", TestMessage(time.Now()),
		"--json",
	)
	if err != nil {
		return TestResult{Channel: channel, Message: channel + " message send failed", Error: err.Error()}
	}
	if !res.Success {
		return TestResult{Channel: channel, Message: channel + " message send failed", Error: res.Combined()}
	}

	report := output.EvaluateSend(res.Stdout)
	logger.Debug("[DEBUG] send output: json=%t sent=%t\n", report.JSON, report.Sent)
	if !report.Sent {
		return TestResult{Channel: channel, Message: channel + " message send failed", Error: res.Stdout}
	}
	return TestResult{Success: true, Channel: channel, Message: "message sent"}
}
