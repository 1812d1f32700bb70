package channel

import (
	"encoding/json"
	"os"
)

// pluginCredentials lists, for plugin channels, the fields of
// channels.<id> in openclaw.json that must all be non-empty strings.
var pluginCredentials = map[string][]string{
	"qqbot":  {"appId", "clientSecret"},
	"feishu": {"appId", "appSecret"},
}

// pluginMessages is shown when a plugin channel is configured on file only.
var pluginMessages = map[string]string{
	"qqbot":  "configured (start the gateway and message the QQ bot to verify)",
	"feishu": "configured (start the gateway to verify)",
}

// PluginConfigured reports whether plugin channel id has its credentials in
// the CLI configuration file. Plugin channels are not always listed by
// "channels status", so the file is the fallback evidence.
func PluginConfigured(configFile, id string) (string, bool) {
	fields, ok := pluginCredentials[id]
	if !ok {
		return "", false
	}

	raw, err := os.ReadFile(configFile)
	if err != nil {
		return "", false
	}
	var doc struct {
		Channels map[string]map[string]any `json:"channels"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", false
	}
	entry, ok := doc.Channels[id]
	if !ok {
		return "", false
	}
	for _, f := range fields {
		if s, _ := entry[f].(string); s == "" {
			return "", false
		}
	}
	return pluginMessages[id], true
}
