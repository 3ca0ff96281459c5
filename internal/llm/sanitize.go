package llm

import "strings"

// NormalizeResponseBody trims a model response down to the JSON object it
// should contain. Models occasionally wrap output in markdown code fences
// despite the json_object response format; strip them before decoding.
func NormalizeResponseBody(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
