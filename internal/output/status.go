package output

import "strings"

// ChannelStatus is the state of one messaging channel as reported by
// "openclaw channels status".
type ChannelStatus struct {
	Enabled       bool   `json:"enabled"`
	Configured    bool   `json:"configured"`
	Linked        bool   `json:"linked"`
	StatusMessage string `json:"statusMessage"`
}

// ParseChannelStatus finds the status line for channel in the text output of
// "openclaw channels status", for example:
//
//	- Telegram default: enabled, configured, mode:polling, token:config
//
// The first trimmed line that starts with "- " and contains the channel name
// (case-insensitive) wins. Keyword checks are plain substring tests, with
// "not configured" overriding "configured". The status message is everything
// after the first colon.
func ParseChannelStatus(text, channel string) (ChannelStatus, bool) {
	channel = strings.ToLower(channel)

	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") || !strings.Contains(strings.ToLower(line), channel) {
			continue
		}

		st := ChannelStatus{
			Enabled:    strings.Contains(line, "enabled"),
			Configured: strings.Contains(line, "configured") && !strings.Contains(line, "not configured"),
			Linked:     strings.Contains(line, "linked"),
		}
		if _, rest, ok := strings.Cut(line, ":"); ok {
			st.StatusMessage = strings.TrimSpace(rest)
		}
		return st, true
	}
	return ChannelStatus{}, false
}

// ChannelEntry is the per-channel object of the JSON form of "channels status".
type ChannelEntry struct {
	Configured bool
	Linked     bool
}

// LookupChannelJSON reads channels.<channel> from the JSON document embedded in
// raw. Fields that are missing or not booleans count as false. It reports false
// when there is no JSON, no "channels" object or no entry for the channel.
func LookupChannelJSON(raw, channel string) (ChannelEntry, bool) {
	var doc map[string]any
	if !DecodeJSON(raw, &doc) {
		return ChannelEntry{}, false
	}
	channels, ok := doc["channels"].(map[string]any)
	if !ok {
		return ChannelEntry{}, false
	}
	entry, ok := channels[strings.ToLower(channel)].(map[string]any)
	if !ok {
		return ChannelEntry{}, false
	}
	return ChannelEntry{
		Configured: boolField(entry, "configured"),
		Linked:     boolField(entry, "linked"),
	}, true
}

func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}
