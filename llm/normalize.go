package llm

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Response normalization. Providers return heterogeneous message shapes
// depending on model and feature flags: plain string content, typed segment
// arrays, tool results, refusals, reasoning text, audio transcripts. A naive
// message.content read silently drops text in several of these shapes, so
// extraction walks the whole structure.

// fragmentFields are the textual fields collected from an object node, in
// priority order.
var fragmentFields = []string{
	"text",
	"content",
	"output_text",
	"transcript",
	"refusal",
	"reasoning",
}

// containerFields are the nested structures descended into after the textual
// fields, in priority order.
var containerFields = []string{
	"response",
	"message",
	"parsed",
	"annotations",
	"messages",
	"parts",
}

// Extract returns the plain assistant text for a single completion choice.
// Fragments are joined with no separator and surrounding whitespace is
// trimmed. An empty result means the choice carried no extractable text.
func Extract(choice *Choice) string {
	msg := decodeObject(choice.Message)
	if msg == nil {
		return ""
	}

	var b strings.Builder
	collect(msg, &b)

	if audio, ok := msg["audio"].(map[string]any); ok {
		if transcript, ok := audio["transcript"].(string); ok {
			b.WriteString(transcript)
		}
	}

	return strings.TrimSpace(b.String())
}

// ExtractDelta returns the incremental text of a streaming choice. Fragments
// are not trimmed: whitespace at fragment boundaries is significant.
func ExtractDelta(choice *Choice) string {
	delta := decodeObject(choice.Delta)
	if delta == nil {
		return ""
	}

	var b strings.Builder
	collect(delta["content"], &b)
	return b.String()
}

func decodeObject(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

// collect walks a decoded payload depth-first, appending every text fragment
// it finds to b. Nulls are ignored; numbers and booleans contribute their
// string form.
func collect(v any, b *strings.Builder) {
	switch val := v.(type) {
	case nil:
	case string:
		b.WriteString(val)
	case float64:
		b.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case []any:
		for _, item := range val {
			collect(item, b)
		}
	case map[string]any:
		collectObject(val, b)
	}
}

func collectObject(m map[string]any, b *strings.Builder) {
	// A tool-result segment contributes only its output.
	if t, _ := m["type"].(string); t == "tool_result" {
		if out, ok := m["output"]; ok {
			collect(out, b)
		}
		return
	}

	for _, field := range fragmentFields {
		if v, ok := m[field]; ok {
			collect(v, b)
		}
	}

	for _, field := range containerFields {
		if v, ok := m[field]; ok {
			collect(v, b)
		}
	}

	if calls, ok := m["tool_calls"].([]any); ok {
		for _, call := range calls {
			collectToolCall(call, b)
		}
	}
}

// collectToolCall appends the serialized arguments of one tool call.
func collectToolCall(call any, b *strings.Builder) {
	m, ok := call.(map[string]any)
	if !ok {
		return
	}
	fn, ok := m["function"].(map[string]any)
	if !ok {
		return
	}
	switch args := fn["arguments"].(type) {
	case string:
		b.WriteString(args)
	case nil:
	default:
		if data, err := json.Marshal(args); err == nil {
			b.Write(data)
		}
	}
}
