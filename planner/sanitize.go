package planner

import (
	"strings"
)

// Sanitize coerces raw model text into a string likely to be a valid JSON
// object. It never fails; worst case it returns unparseable text and the
// failure surfaces at the parse stage.
func Sanitize(text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return "{}"
	}

	// Remove code fences if present.
	if strings.HasPrefix(t, "```") {
		first := strings.IndexByte(t, '\n')
		lastFence := strings.LastIndex(t, "```")
		if first >= 0 && lastFence > first {
			t = strings.TrimSpace(t[first+1 : lastFence])
		}
	}

	// Extract the largest {...} block.
	start := strings.IndexByte(t, '{')
	end := strings.LastIndexByte(t, '}')
	if start >= 0 && end > start {
		t = t[start : end+1]
	}

	// Auto-close missing brackets/braces in truncated output.
	t = balanceBrackets(t)

	// Replace smart quotes.
	replacer := strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)
	return replacer.Replace(t)
}

// balanceBrackets appends expected closing characters for every unclosed
// '{' or '['. Closers pop the stack without type validation; this is a
// best-effort recovery for output cut off mid-array, and may still yield
// shallow garbage the parser has to tolerate.
func balanceBrackets(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}

	var stack []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteByte(stack[i])
	}
	return sb.String()
}
