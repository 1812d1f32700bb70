package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{
			name:  "single line object between logs",
			in:    "log line\n{\"a\":1}\nmore log\n",
			want:  `{"a":1}`,
			found: true,
		},
		{
			name:  "multi line object",
			in:    "[plugins] loaded 3\n{\n  \"ok\": true,\n  \"messageId\": \"42\"\n}\n",
			want:  "{\n  \"ok\": true,\n  \"messageId\": \"42\"\n}",
			found: true,
		},
		{
			name:  "string array",
			in:    `["a","b"]`,
			want:  `["a","b"]`,
			found: true,
		},
		{
			name:  "string array between logs",
			in:    "[INFO] listing\n[\"telegram\",\"discord\"]\ndone\n",
			want:  `["telegram","discord"]`,
			found: true,
		},
		{
			name:  "multi line number array",
			in:    "info\n[1,\n2\n]\n",
			want:  "[1,\n2\n]",
			found: true,
		},
		{
			name: "array of objects with closing bracket on a data line has no end",
			in:   "[{\"id\": 1},\n {\"id\": 2}]\ntrailer",
		},
		{
			name:  "ansi colored json",
			in:    "\x1b[36m[INFO]\x1b[0m sending\n\x1b[32m{\"ok\":true}\x1b[0m\n",
			want:  `{"ok":true}`,
			found: true,
		},
		{
			name:  "indented lines are trimmed only for detection",
			in:    "  {\n  \"a\": 1\n  }",
			want:  "  {\n  \"a\": 1\n  }",
			found: true,
		},
		{
			name:  "crlf line endings",
			in:    "log\r\n{\"a\":1}\r\n",
			want:  `{"a":1}`,
			found: true,
		},
		{name: "log tags are not arrays", in: "[plugins] loaded\n[INFO] something\n"},
		{name: "bracket alone is not a start", in: "[\n1\n]"},
		{name: "unterminated object", in: "log\n{\n  \"a\": 1,\n"},
		{name: "end before start", in: "}\nlog\n{\"a\":"},
		{name: "empty", in: ""},
		{name: "whitespace", in: "   \n\t\n  "},
		{name: "no json", in: "Gateway running on port 18789\nall good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.in)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONSpansFirstStartToLastEnd(t *testing.T) {
	in := "{\"first\": 1}\nunrelated log\n{\"second\": 2}\n"

	got, ok := ExtractJSON(in)
	require.True(t, ok)
	assert.Equal(t, "{\"first\": 1}\nunrelated log\n{\"second\": 2}", got)

	var v map[string]any
	assert.False(t, DecodeJSON(in, &v), "over-spanned candidate must not decode")
}

func TestExtractJSONSpansToLaterOneLineArray(t *testing.T) {
	in := "{\"a\": [1]}\n[2]\n"

	got, ok := ExtractJSON(in)
	require.True(t, ok)
	assert.Equal(t, "{\"a\": [1]}\n[2]", got)

	var v any
	assert.False(t, DecodeJSON(in, &v))
}

func TestClosesJSON(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`["a","b"]`, true},
		{`[1, 2]`, true},
		{`[[1], [2]]`, true},
		{`[{"id": 1}]`, true},
		{"]", true},
		{"],", true},
		{"}", true},
		{`[INFO] done [ok]`, false},
		{`[plugins] loaded [3]`, false},
		{`{"id": 2}]`, false},
		{"[]", false},
		{"text", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, closesJSON(tt.line), tt.line)
	}
}

func TestDecodeJSON(t *testing.T) {
	var doc struct {
		OK        bool   `json:"ok"`
		MessageID string `json:"messageId"`
	}
	require.True(t, DecodeJSON("sending...\n{\"ok\": true, \"messageId\": \"m-1\"}\ndone", &doc))
	assert.True(t, doc.OK)
	assert.Equal(t, "m-1", doc.MessageID)

	var v any
	assert.False(t, DecodeJSON("{ not json }", &v))
	assert.False(t, DecodeJSON("nothing here", &v))
}
