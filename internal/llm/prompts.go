package llm

import _ "embed"

//go:embed prompts/extract_v1.txt
var extractPromptV1 string

// BuildExtractionPrompt renders the extraction instruction for one resume.
func BuildExtractionPrompt(resumeText string) string {
	return extractPromptV1 + resumeText
}
