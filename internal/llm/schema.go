package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaSkeleton returns the target field structure embedded in the prompt
// as an example for the model to populate. Values are type hints, not data.
func SchemaSkeleton() map[string]any {
	return map[string]any{
		"insurance_provider": "string",
		"plan_name":          "string",
		"plan_type":          "string",
		"document_type":      "string",
		"effective_date":     "string",
		"state_specific":     "string",
		"coverage_details": map[string]any{
			"deductible":        "string",
			"copay":             "string",
			"coinsurance":       "string",
			"out_of_pocket_max": "string",
			"covered_services":  []string{"list"},
		},
		"prior_authorization": map[string]any{
			"required_for":      []string{"list"},
			"submission_method": "string",
			"turnaround_time":   "string",
		},
		"timely_filing": map[string]any{
			"deadline":           "string",
			"calculation_method": "string",
		},
		"appeals_process": map[string]any{
			"timeline":          "string",
			"levels":            []string{"list"},
			"submission_method": "string",
		},
		"key_requirements": []string{"list of important requirements"},
		"contact_information": map[string]any{
			"phone":  "string",
			"fax":    "string",
			"email":  "string",
			"portal": "string",
		},
	}
}

// BuildPolicyJSONSchema returns the JSON Schema (draft 2020-12 subset) used
// to validate model output locally before a chunk result is accepted.
// Every field is nullable, since a chunk may legitimately see none of the
// document's metadata. Extra top-level keys are allowed; the merger
// routes them into additional_info.
func BuildPolicyJSONSchema() map[string]any {
	nullable := func(t string) map[string]any {
		return map[string]any{"type": []string{t, "null"}}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"insurance_provider":  nullable("string"),
			"plan_name":           nullable("string"),
			"plan_type":           nullable("string"),
			"document_type":       nullable("string"),
			"effective_date":      nullable("string"),
			"state_specific":      nullable("string"),
			"coverage_details":    nullable("object"),
			"prior_authorization": nullable("object"),
			"timely_filing":       nullable("object"),
			"appeals_process":     nullable("object"),
			"contact_information": nullable("object"),
			"key_requirements":    nullable("array"),
		},
		"additionalProperties": true,
	}
}

// CompilePolicySchema compiles the validation schema once, for reuse across
// every chunk call of a run.
func CompilePolicySchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(BuildPolicyJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("policy.schema.json", strings.NewReader(string(raw))); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	s, err := c.Compile("policy.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// ValidateAgainstSchema checks a decoded response document against the
// compiled policy schema.
func ValidateAgainstSchema(s *jsonschema.Schema, doc []byte) error {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("decode for validation: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
