package parser

import (
	"encoding/json"
	"fmt"
)

// ParsedResult is the structured shape extracted from one resume. Values are
// copied verbatim from the model's JSON; local code only validates shape.
type ParsedResult struct {
	Name            string   `json:"name"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	Position        string   `json:"position"`
	Summary         string   `json:"summary"`
	PrimarySkills   []string `json:"primarySkills"`
	SecondarySkills []string `json:"secondarySkills"`
	Experience      string   `json:"experience"`
	Education       string   `json:"education"`
	SkillsSource    string   `json:"skillsSource"`
}

// requiredKeys must be present in the model's JSON for the response to count
// as the expected structured shape. The remaining fields default when absent.
var requiredKeys = []string{"name"}

func decodeResult(cleaned string) (ParsedResult, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &keys); err != nil {
		return ParsedResult{}, fmt.Errorf("not a JSON object: %v", err)
	}
	for _, key := range requiredKeys {
		if _, ok := keys[key]; !ok {
			return ParsedResult{}, fmt.Errorf("missing required key %q", key)
		}
	}

	var result ParsedResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return ParsedResult{}, fmt.Errorf("unexpected field types: %v", err)
	}
	return result.withDefaults(), nil
}

// withDefaults fills documented defaults for optional fields: skill lists are
// empty slices, never nil, so they serialize as [] rather than null.
func (r ParsedResult) withDefaults() ParsedResult {
	if r.PrimarySkills == nil {
		r.PrimarySkills = []string{}
	}
	if r.SecondarySkills == nil {
		r.SecondarySkills = []string{}
	}
	return r
}
