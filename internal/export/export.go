package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"resume-parser/internal/batch"
	"resume-parser/internal/parser"
)

// JSON renders any export payload as indented JSON.
func JSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// Markdown renders one parsed result as a downloadable document.
func Markdown(fileName string, result parser.ParsedResult) string {
	var b strings.Builder

	b.WriteString("# Resume Parsing Results\n\n")
	if fileName != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", fileName)
	}

	b.WriteString("## Personal Information\n\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", orNotFound(result.Name))
	fmt.Fprintf(&b, "- **Email:** %s\n", orNotFound(result.Email))
	fmt.Fprintf(&b, "- **Phone:** %s\n", orNotFound(result.Phone))
	fmt.Fprintf(&b, "- **Position:** %s\n", orNotFound(result.Position))
	fmt.Fprintf(&b, "- **Experience:** %s\n", orNotFound(result.Experience))
	fmt.Fprintf(&b, "- **Education:** %s\n", orNotFound(result.Education))

	if result.Summary != "" {
		b.WriteString("\n## Professional Summary\n\n")
		b.WriteString(result.Summary)
		b.WriteString("\n")
	}

	b.WriteString("\n## Skills\n\n")
	b.WriteString("### Primary Skills\n\n")
	writeSkillList(&b, result.PrimarySkills)
	b.WriteString("\n### Secondary Skills\n\n")
	writeSkillList(&b, result.SecondarySkills)

	if result.SkillsSource != "" {
		b.WriteString("\n## How Skills Were Determined\n\n")
		b.WriteString(result.SkillsSource)
		b.WriteString("\n")
	}

	return b.String()
}

// Text renders one parsed result for console display.
func Text(result parser.ParsedResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)

	b.WriteString(rule + "\n")
	b.WriteString("RESUME PARSING RESULTS\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("PERSONAL INFORMATION\n" + thin + "\n")
	fmt.Fprintf(&b, "Name:        %s\n", orNotFound(result.Name))
	fmt.Fprintf(&b, "Email:       %s\n", orNotFound(result.Email))
	fmt.Fprintf(&b, "Phone:       %s\n", orNotFound(result.Phone))
	fmt.Fprintf(&b, "Position:    %s\n", orNotFound(result.Position))
	fmt.Fprintf(&b, "Experience:  %s\n", orNotFound(result.Experience))
	fmt.Fprintf(&b, "Education:   %s\n", orNotFound(result.Education))

	if result.Summary != "" {
		b.WriteString("\nPROFESSIONAL SUMMARY\n" + thin + "\n")
		b.WriteString(result.Summary + "\n")
	}

	b.WriteString("\nSKILLS\n" + thin + "\n")
	b.WriteString("Primary:\n")
	for _, s := range result.PrimarySkills {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	b.WriteString("Secondary:\n")
	for _, s := range result.SecondarySkills {
		fmt.Fprintf(&b, "  - %s\n", s)
	}

	if result.SkillsSource != "" {
		b.WriteString("\nSKILLS DETERMINATION\n" + thin + "\n")
		b.WriteString(result.SkillsSource + "\n")
	}

	return b.String()
}

// BatchSummary renders a one-line summary plus per-file failures.
func BatchSummary(outcome batch.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d | Success: %d | Failed: %d\n",
		len(outcome.Items), outcome.Succeeded, outcome.Failed)
	for _, item := range outcome.Items {
		if !item.Success {
			fmt.Fprintf(&b, "  - %s: %s\n", item.FileName, item.Error)
		}
	}
	return b.String()
}

func writeSkillList(b *strings.Builder, skills []string) {
	if len(skills) == 0 {
		b.WriteString("_None found_\n")
		return
	}
	for _, s := range skills {
		fmt.Fprintf(b, "- %s\n", s)
	}
}

func orNotFound(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not found"
	}
	return s
}
