// Package channel checks and tests openclaw messaging channels.
package channel

import (
	"context"
	"fmt"
	"strings"

	"claw-manager/internal/output"
	"claw-manager/internal/shell"
)

// CLI is the part of shell.CLI the checker needs.
type CLI interface {
	Run(ctx context.Context, args ...string) (shell.Result, error)
}

// Source names the evidence a Status was decided from.
type Source string

const (
	SourceNone       Source = ""
	SourceStatusText Source = "status-text"
	SourceStatusJSON Source = "status-json"
	SourceConfigFile Source = "config-file"
)

// Status is the reconciled state of one channel.
type Status struct {
	Channel    string `json:"channel"`
	OK         bool   `json:"ok"`
	Enabled    bool   `json:"enabled"`
	Configured bool   `json:"configured"`
	Linked     bool   `json:"linked"`
	Message    string `json:"message,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Source     Source `json:"source,omitempty"`
}

// ConfigLookup decides from the CLI configuration file whether a channel
// that "channels status" did not report is configured. It returns a status
// message when it is.
type ConfigLookup func(channel string) (string, bool)

// Reconcile turns the text of "openclaw channels status" into a Status.
//
// A matching "- <Name> ...: ..." line is authoritative: when it says the
// channel is not configured, nothing else is consulted. Without such a line
// the embedded JSON document is searched for channels.<channel>, and when that
// does not confirm the channel either, lookup (if any) gets the last word.
func Reconcile(raw, channel string, lookup ConfigLookup) Status {
	id := strings.ToLower(channel)
	clean := output.StripANSI(raw)
	st := Status{Channel: channel}

	if line, ok := output.ParseChannelStatus(clean, id); ok {
		st.Source = SourceStatusText
		st.Enabled, st.Configured, st.Linked = line.Enabled, line.Configured, line.Linked
		st.Detail = fmt.Sprintf("enabled=%t, configured=%t, linked=%t", line.Enabled, line.Configured, line.Linked)
		if !line.Configured {
			st.Message = channel + " is not configured"
			st.Suggestion = "openclaw channels add --channel " + id
			return st
		}
		st.OK = true
		switch {
		case line.Linked:
			st.Message = "linked"
		case line.StatusMessage != "":
			st.Message = line.StatusMessage
		default:
			st.Message = "configured"
		}
		return st
	}

	if entry, ok := output.LookupChannelJSON(clean, id); ok {
		st.Source = SourceStatusJSON
		st.Configured, st.Linked = entry.Configured, entry.Linked
		st.OK = entry.Configured
		if entry.Linked {
			st.Message = "linked"
		} else {
			st.Message = "configured"
		}
	}

	if !st.OK {
		if lookup != nil {
			if msg, ok := lookup(id); ok {
				st.OK, st.Configured = true, true
				st.Source = SourceConfigFile
				st.Message = msg
				return st
			}
		}
		st.Detail = "unable to parse the status of " + channel
	}
	return st
}

// Checker runs channel checks through the CLI.
type Checker struct {
	CLI        CLI
	ConfigFile string            // openclaw.json, for plugin channels missing from the status output
	Targets    TargetSource      // where test message targets come from; nil disables sending
	TargetKeys map[string]string // channel -> env key naming its test target
}

// Status runs "openclaw channels status" and reconciles the result for channel.
// Failures to run the CLI are reported in Status.Detail.
func (c *Checker) Status(ctx context.Context, channel string) Status {
	// plain text output: --json is not supported by every CLI release
	res, err := c.CLI.Run(ctx, "channels", "status")
	if err != nil {
		return Status{Channel: channel, Detail: "status command failed: " + err.Error()}
	}
	if !res.Success {
		return Status{Channel: channel, Detail: "status command failed: " + res.Combined()}
	}

	var lookup ConfigLookup
	if c.ConfigFile != "" {
		lookup = func(id string) (string, bool) { return PluginConfigured(c.ConfigFile, id) }
	}
	return Reconcile(res.Stdout, channel, lookup)
}
