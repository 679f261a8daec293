package exposure

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractReply recovers a structured Reply from a raw model response, with a
// small amount of robustness for cases where the model wraps the JSON in a
// code fence or extra prose. It never fails: unparsable input degrades to
// the raw text with emotion "unknown" and no plan.
func ExtractReply(raw string) Reply {
	fallback := Reply{Text: raw, Emotion: "unknown"}

	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}
	s = stripFence(s)

	// Attempt to slice out the outermost JSON object. No repair beyond this:
	// if the braces don't delimit valid JSON the whole reply is opaque text.
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start != -1 && end != -1 && end > start {
		s = s[start : end+1]
	}

	var parsed struct {
		Text    *string         `json:"text"`
		Emotion *string         `json:"emotion"`
		Plan    json.RawMessage `json:"plan"`
	}
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return fallback
	}

	out := fallback
	if parsed.Text != nil {
		out.Text = *parsed.Text
	}
	if parsed.Emotion != nil && strings.TrimSpace(*parsed.Emotion) != "" {
		out.Emotion = *parsed.Emotion
	}
	out.Plan = decodePlan(parsed.Plan)
	return out
}

// decodePlan accepts a plan value only when it is a JSON object with at least
// one scenario. Strings, lists, null, and empty scenario lists all mean "no
// plan this turn".
func decodePlan(raw json.RawMessage) *Plan {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	var p Plan
	if err := json.Unmarshal(b, &p); err != nil {
		return nil
	}
	if len(p.Scenarios) == 0 {
		return nil
	}
	return &p
}

// stripFence removes a surrounding markdown code fence (``` or ```json),
// keeping only the enclosed content.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl == -1 {
		return s
	}
	s = strings.TrimSpace(s[nl+1:])
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
