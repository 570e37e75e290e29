package llm

import "strings"

// maxFenceTagLen bounds the info string after an opening fence. Anything longer
// is treated as content, not a language tag.
const maxFenceTagLen = 20

// CleanJSONBlock strips a surrounding markdown fence from a model reply.
// Gemini wraps JSON-mode output in ```json fences often enough that the
// opening question and feedback payloads are always passed through here.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isFenceTag(body[:nl]) {
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// isFenceTag reports whether s looks like a language tag such as "json".
func isFenceTag(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) < maxFenceTagLen && !strings.ContainsAny(s, " {[")
}
