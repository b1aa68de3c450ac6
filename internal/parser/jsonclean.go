package parser

import "strings"

// CleanJSONResponse strips markdown fences and surrounding commentary from a
// model response, keeping the outermost JSON object. Models occasionally wrap
// the payload in ```json blocks or add a preamble despite instructions.
func CleanJSONResponse(raw string) string {
	clean := strings.TrimSpace(raw)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	clean = strings.TrimSpace(clean)

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start != -1 && end != -1 && end > start {
		clean = clean[start : end+1]
	}
	return clean
}
