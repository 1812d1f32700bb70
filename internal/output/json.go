package output

import (
	"encoding/json"
	"strings"
)

// ExtractJSON locates a single JSON document embedded in mixed log output.
//
// The start is the first line that opens an object ("{...") or a real array
// ("[" followed by a quote, brace, bracket or digit, so "[INFO]" and "[plugins]"
// are skipped). The end is the last line that closes an object (ends with "}")
// or an array ("]", "]," or a whole array on one line such as ["a","b"]).
// The lines from start to end are joined with "\n".
//
// Only boundaries are found, nothing is validated. When several JSON looking
// fragments appear, the candidate spans from the first start to the last end,
// including whatever lies between them.
func ExtractJSON(raw string) (string, bool) {
	lines := splitLines(StripANSI(raw))

	start := -1
	for i, line := range lines {
		if opensJSON(strings.TrimSpace(line)) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if closesJSON(strings.TrimSpace(lines[i])) {
			end = i
			break
		}
	}
	if end < start {
		return "", false
	}

	return strings.Join(lines[start:end+1], "\n"), true
}

// DecodeJSON extracts the embedded JSON document from raw and unmarshals it into v.
// It reports false when no candidate was found or the candidate is not valid JSON;
// both cases mean "no JSON" to callers.
func DecodeJSON(raw string, v any) bool {
	candidate, ok := ExtractJSON(raw)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(candidate), v) == nil
}

func opensJSON(line string) bool {
	if strings.HasPrefix(line, "{") {
		return true
	}
	if len(line) > 1 && line[0] == '[' {
		switch c := line[1]; {
		case c == '"', c == '{', c == '[', '0' <= c && c <= '9':
			return true
		}
	}
	return false
}

func closesJSON(line string) bool {
	if line == "}" || line == "}," || strings.HasSuffix(line, "}") {
		return true
	}
	if line == "]" || line == "]," {
		return true
	}
	// a one-line array closes itself; "[INFO] ...]" fails opensJSON
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") && opensJSON(line)
}

// splitLines splits s into lines the way a line reader would: "\n" and "\r\n"
// both end a line and a trailing newline does not produce an empty last line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
