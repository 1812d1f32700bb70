package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksSuccessful(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "plain reply", text: "OK", want: true},
		{name: "warning lines ignored", text: "(node:1) ExperimentalWarning: error-prone API\nOK", want: true},
		{name: "error any case", text: "Error: model not found", want: false},
		{name: "unauthorized", text: "HTTP 401 from provider", want: false},
		{name: "forbidden", text: "status=403", want: false},
		{name: "empty", text: "", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksSuccessful(tt.text))
		})
	}
}

func TestLooksSent(t *testing.T) {
	assert.True(t, LooksSent("Message queued"))
	assert.False(t, LooksSent("send FAILED: chat not found"))
	assert.False(t, LooksSent("ERROR 400"))
}

func TestDropLines(t *testing.T) {
	assert.Equal(t, "a\nc", DropLines("a\nb-x\nc\n", "-x"))
	assert.Equal(t, "", DropLines("", "x"))
	assert.Equal(t, "keep", AgentReply("(node:12) ExperimentalWarning: fetch\nkeep"))
}
