package output

import "strings"

// DropLines removes every line containing any of the given substrings.
func DropLines(text string, substrings ...string) string {
	lines := splitLines(text)
	kept := lines[:0]
	for _, line := range lines {
		if !containsAny(line, substrings) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// AgentReply prepares the output of "openclaw agent" for display: Node's
// ExperimentalWarning noise is removed.
func AgentReply(text string) string {
	return DropLines(text, "ExperimentalWarning")
}

// LooksSuccessful applies the keyword policy used for agent replies: the
// filtered reply must not mention "error" in any case, nor an HTTP 401 or 403.
func LooksSuccessful(text string) bool {
	filtered := AgentReply(text)
	return !strings.Contains(strings.ToLower(filtered), "error") &&
		!strings.Contains(filtered, "401") &&
		!strings.Contains(filtered, "403")
}

// LooksSent is the fallback policy for "message send" output without JSON:
// no "error" and no "failed", case-insensitive.
func LooksSent(text string) bool {
	lower := strings.ToLower(text)
	return !strings.Contains(lower, "error") && !strings.Contains(lower, "failed")
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
