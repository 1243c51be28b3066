package llm

import (
	"encoding/json"
	"testing"
)

func choiceWithMessage(t *testing.T, message string) *Choice {
	t.Helper()
	return &Choice{Message: json.RawMessage(message)}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "plain string content",
			message: `{"role":"assistant","content":"hi"}`,
			want:    "hi",
		},
		{
			name:    "text segments are concatenated",
			message: `{"role":"assistant","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}`,
			want:    "ab",
		},
		{
			name:    "null content",
			message: `{"role":"assistant","content":null}`,
			want:    "",
		},
		{
			name:    "surrounding whitespace is trimmed",
			message: `{"role":"assistant","content":"  hi there  "}`,
			want:    "hi there",
		},
		{
			name:    "refusal text",
			message: `{"role":"assistant","content":null,"refusal":"I cannot help with that."}`,
			want:    "I cannot help with that.",
		},
		{
			name:    "reasoning text",
			message: `{"role":"assistant","content":null,"reasoning":"the answer is 4"}`,
			want:    "the answer is 4",
		},
		{
			name:    "tool result contributes only its output",
			message: `{"role":"assistant","content":[{"type":"tool_result","text":"ignored","output":"42"}]}`,
			want:    "42",
		},
		{
			name:    "tool result with nested output segments",
			message: `{"role":"assistant","content":[{"type":"tool_result","output":[{"type":"text","text":"fuel: "},{"type":"text","text":"full"}]}]}`,
			want:    "fuel: full",
		},
		{
			name:    "audio transcript",
			message: `{"role":"assistant","content":null,"audio":{"id":"a1","transcript":"hello cadet"}}`,
			want:    "hello cadet",
		},
		{
			name:    "numbers and booleans take their string form",
			message: `{"role":"assistant","content":[{"type":"text","text":7},true]}`,
			want:    "7true",
		},
		{
			name:    "nested response and message containers",
			message: `{"role":"assistant","content":{"response":{"message":{"text":"deep"}}}}`,
			want:    "deep",
		},
		{
			name:    "output_text segment",
			message: `{"role":"assistant","content":[{"type":"output_text","output_text":"generated"}]}`,
			want:    "generated",
		},
		{
			name:    "tool call arguments are appended verbatim",
			message: `{"role":"assistant","content":null,"tool_calls":[{"id":"t1","type":"function","function":{"name":"lookup","arguments":"{\"planet\":\"mars\"}"}}]}`,
			want:    `{"planet":"mars"}`,
		},
		{
			name:    "object tool call arguments are serialized",
			message: `{"role":"assistant","content":null,"tool_calls":[{"function":{"name":"lookup","arguments":{"planet":"mars"}}}]}`,
			want:    `{"planet":"mars"}`,
		},
		{
			name:    "parsed structured output",
			message: `{"role":"assistant","content":null,"parsed":{"text":"structured"}}`,
			want:    "structured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(choiceWithMessage(t, tt.message))
			if got != tt.want {
				t.Fatalf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractEmptyChoice(t *testing.T) {
	if got := Extract(&Choice{}); got != "" {
		t.Fatalf("Extract() = %q, want empty", got)
	}
	if got := Extract(&Choice{Message: json.RawMessage(`"not an object"`)}); got != "" {
		t.Fatalf("Extract() = %q, want empty", got)
	}
}

func TestExtractDeltaPreservesWhitespace(t *testing.T) {
	tests := []struct {
		delta string
		want  string
	}{
		{`{"role":"assistant","content":"Hel"}`, "Hel"},
		{`{"content":"lo "}`, "lo "},
		{`{"content":null}`, ""},
		{`{"content":[{"type":"text","text":" and "}]}`, " and "},
	}

	for _, tt := range tests {
		got := ExtractDelta(&Choice{Delta: json.RawMessage(tt.delta)})
		if got != tt.want {
			t.Fatalf("ExtractDelta(%s) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}
