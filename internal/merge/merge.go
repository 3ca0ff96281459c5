package merge

import (
	"fmt"
	"maps"
	"sort"
)

// MergedRecord is the single canonical record for a whole document,
// combined from all of its chunk-level PartialRecords.
type MergedRecord struct {
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

	// AdditionalInfo collects top-level keys the extraction service emitted
	// beyond the schema: "key: value" for string values, flattened elements
	// for list values.
	AdditionalInfo []string `json:"additional_info"`

	Metadata *Metadata `json:"_metadata,omitempty"`
}

// Metadata describes how a merged record was produced.
type Metadata struct {
	SourceFile       string  `json:"source_file"`
	FileSizeMB       float64 `json:"file_size_mb"`
	ModelUsed        string  `json:"model_used"`
	ExtractionMethod string  `json:"extraction_method"`
}

// NewMergedRecord returns an empty record with its collection fields
// initialized, so an all-error merge still serializes with {} and []
// rather than nulls.
func NewMergedRecord() MergedRecord {
	return MergedRecord{
		Coverage:        map[string]any{},
		PriorAuth:       map[string]any{},
		TimelyFiling:    map[string]any{},
		Appeals:         map[string]any{},
		Contact:         map[string]any{},
		KeyRequirements: []string{},
		AdditionalInfo:  []string{},
	}
}

// Merge folds the ordered chunk records into one document record.
//
// Processing order is chunk emission order and must not be changed: scalar
// fields keep the EARLIEST non-empty value seen, while nested-object
// sub-keys keep the LATEST value on collision. The asymmetry is observed
// upstream behavior and is preserved deliberately; do not unify it.
// Error-marker records contribute nothing; merging only error markers
// yields an all-null record, which is a valid result, not a failure.
func Merge(parts []PartialRecord) MergedRecord {
	merged := NewMergedRecord()

	for i := range parts {
		p := &parts[i]
		if p.Failed() {
			continue
		}

		setFirst(&merged.Provider, p.Provider)
		setFirst(&merged.PlanName, p.PlanName)
		setFirst(&merged.PlanType, p.PlanType)
		setFirst(&merged.DocumentType, p.DocumentType)
		setFirst(&merged.EffectiveDate, p.EffectiveDate)
		setFirst(&merged.State, p.State)

		maps.Copy(merged.Coverage, p.Coverage)
		maps.Copy(merged.PriorAuth, p.PriorAuth)
		maps.Copy(merged.TimelyFiling, p.TimelyFiling)
		maps.Copy(merged.Appeals, p.Appeals)
		maps.Copy(merged.Contact, p.Contact)

		merged.KeyRequirements = append(merged.KeyRequirements, p.KeyRequirements...)
		merged.AdditionalInfo = append(merged.AdditionalInfo, additionalInfo(p.Extra)...)
	}

	merged.KeyRequirements = dedupe(merged.KeyRequirements)
	return merged
}

// setFirst assigns src to dst only when dst is still unset and src carries a
// non-empty value (empty strings are treated as absent).
func setFirst(dst **string, src *string) {
	if *dst != nil || src == nil || *src == "" {
		return
	}
	v := *src
	*dst = &v
}

// additionalInfo flattens unknown top-level keys into tagged strings.
// String values become "key: value", list values contribute their elements
// individually; any other shape is ignored. Keys are visited in sorted
// order so output is deterministic.
func additionalInfo(extra map[string]any) []string {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		switch v := extra[k].(type) {
		case string:
			if v != "" {
				out = append(out, fmt.Sprintf("%s: %s", k, v))
			}
		case []any:
			for _, item := range v {
				if s := Normalize(item); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// dedupe removes duplicate requirements, keeping first occurrence order.
func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
