// Package merge defines the structured policy record produced per chunk and
// the rules for combining per-chunk records into one document-level record.
package merge

import (
	"encoding/json"
	"strings"
)

// scalarKeys are the top-level string fields of the policy schema, in the
// order the merger considers them.
var scalarKeys = []string{
	"insurance_provider",
	"plan_name",
	"plan_type",
	"document_type",
	"effective_date",
	"state_specific",
}

// nestedKeys are the top-level object fields whose sub-keys accumulate
// across chunks.
var nestedKeys = []string{
	"coverage_details",
	"prior_authorization",
	"timely_filing",
	"appeals_process",
	"contact_information",
}

// PartialRecord is the structured-extraction output for one chunk. Every
// field may be absent. A record with Err set carries no usable fields and
// contributes nothing to a merge.
type PartialRecord struct {
	Provider      *string `json:"insurance_provider"`
	PlanName      *string `json:"plan_name"`
	PlanType      *string `json:"plan_type"`
	DocumentType  *string `json:"document_type"`
	EffectiveDate *string `json:"effective_date"`
	State         *string `json:"state_specific"`

	Coverage     map[string]any `json:"coverage_details"`
	PriorAuth    map[string]any `json:"prior_authorization"`
	TimelyFiling map[string]any `json:"timely_filing"`
	Appeals      map[string]any `json:"appeals_process"`
	Contact      map[string]any `json:"contact_information"`

	KeyRequirements []string `json:"key_requirements"`

	// Extra holds top-level keys the extraction service emitted beyond the
	// schema, keyed by their source name. Values keep their decoded JSON
	// shape until the merger folds them into additional_info.
	Extra map[string]any `json:"-"`

	// Chunk is the 1-based chunk index this record was extracted from.
	Chunk int `json:"-"`
	// Err marks a failed extraction for this chunk.
	Err string `json:"-"`
}

// Failed reports whether this record is an error marker.
func (p *PartialRecord) Failed() bool { return p.Err != "" }

// ErrorRecord builds the error-marker record for a failed chunk call.
func ErrorRecord(chunk int, err error) PartialRecord {
	return PartialRecord{Chunk: chunk, Err: err.Error()}
}

// UnmarshalJSON decodes a schema-shaped object, routing unknown top-level
// keys into Extra instead of dropping them.
func (p *PartialRecord) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	p.Provider = takeString(m, "insurance_provider")
	p.PlanName = takeString(m, "plan_name")
	p.PlanType = takeString(m, "plan_type")
	p.DocumentType = takeString(m, "document_type")
	p.EffectiveDate = takeString(m, "effective_date")
	p.State = takeString(m, "state_specific")

	p.Coverage = takeObject(m, "coverage_details")
	p.PriorAuth = takeObject(m, "prior_authorization")
	p.TimelyFiling = takeObject(m, "timely_filing")
	p.Appeals = takeObject(m, "appeals_process")
	p.Contact = takeObject(m, "contact_information")

	p.KeyRequirements = takeRequirements(m, "key_requirements")

	if len(m) > 0 {
		p.Extra = m
	}
	return nil
}

func takeString(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	delete(m, key)
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func takeObject(m map[string]any, key string) map[string]any {
	v, ok := m[key]
	if !ok {
		return nil
	}
	delete(m, key)
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

func takeRequirements(m map[string]any, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	delete(m, key)
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := Normalize(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Normalize renders a requirement entry as its canonical string form: JSON
// strings pass through trimmed, any other value is re-encoded compactly.
// Deduplication compares these canonical strings.
func Normalize(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
