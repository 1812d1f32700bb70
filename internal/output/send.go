package output

import "encoding/json"

// SendReport is the decision taken on the output of "openclaw message send --json".
type SendReport struct {
	Sent bool `json:"sent"`
	// JSON is true when a JSON document was found in the output, even if it
	// failed to parse.
	JSON bool `json:"json"`
}

// EvaluateSend decides whether a "message send" invocation delivered its message.
//
// With a JSON document, any of these count as delivered: ok or success set to
// true, a messageId, payload.ok true, payload.messageId or
// payload.result.messageId. A JSON candidate that does not parse counts as not
// delivered. Without JSON the LooksSent keyword policy applies.
func EvaluateSend(raw string) SendReport {
	candidate, ok := ExtractJSON(raw)
	if !ok {
		return SendReport{Sent: LooksSent(raw)}
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return SendReport{JSON: true}
	}

	payload, _ := doc["payload"].(map[string]any)
	result, _ := payload["result"].(map[string]any)

	sent := boolField(doc, "ok") ||
		boolField(doc, "success") ||
		hasField(doc, "messageId") ||
		boolField(payload, "ok") ||
		hasField(payload, "messageId") ||
		hasField(result, "messageId")
	return SendReport{Sent: sent, JSON: true}
}

func hasField(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}
