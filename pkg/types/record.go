// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ExpertAI matching
// pipeline: raw input rows, extracted identities, directory candidates,
// ranking output, and per-stage configuration.
package types

// RawRecord is one row from an arbitrary external table: an ordered set of
// column name → value pairs. Columns preserves the original column order so
// a row can be rendered back in the shape it was read. Values may be empty
// for NULL cells. A RawRecord is never mutated after it is read.
type RawRecord struct {
	Columns []string          `json:"columns" yaml:"columns"`
	Values  map[string]string `json:"values" yaml:"values"`
}

// NewRawRecord builds a RawRecord from ordered column/value pairs.
func NewRawRecord(columns []string, values map[string]string) RawRecord {
	cols := make([]string, len(columns))
	copy(cols, columns)
	vals := make(map[string]string, len(values))
	for k, v := range values {
		vals[k] = v
	}
	return RawRecord{Columns: cols, Values: vals}
}

// Describe renders the record as a flattened "key: value, key: value"
// description, skipping empty cells. This is the form handed to the
// identity extraction capability.
func (r RawRecord) Describe() string {
	out := ""
	for _, col := range r.Columns {
		v := r.Values[col]
		if v == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += col + ": " + v
	}
	return out
}

// Clone returns a deep copy of the record.
func (r RawRecord) Clone() RawRecord {
	return NewRawRecord(r.Columns, r.Values)
}

// IdentityDraft is the canonical identity extracted from one RawRecord.
// FirstName and LastName are required for a draft to be searchable; the
// remaining fields are optional and empty when absent from the input.
type IdentityDraft struct {
	FirstName   string `json:"first_name" yaml:"first_name"`
	LastName    string `json:"last_name" yaml:"last_name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
}

// Searchable reports whether the draft carries both name parts. A draft
// missing either name is terminal: no directory search is attempted.
func (d IdentityDraft) Searchable() bool {
	return d.FirstName != "" && d.LastName != ""
}

// EnrichedRecord is the final per-row pipeline output: the winning identity
// fields (empty strings when no candidate was selected), the two derived
// topic strings, and the original row preserved verbatim.
type EnrichedRecord struct {
	IdentityID           string  `json:"orcid_id" yaml:"orcid_id"`
	FirstName            string  `json:"first_name" yaml:"first_name"`
	LastName             string  `json:"last_name" yaml:"last_name"`
	Email                string  `json:"email" yaml:"email"`
	Country              string  `json:"country" yaml:"country"`
	Affiliation          string  `json:"affiliation" yaml:"affiliation"`
	MainResearchArea     string  `json:"main_research_area" yaml:"main_research_area"`
	SpecificResearchArea string  `json:"specific_research_area" yaml:"specific_research_area"`
	Confidence           float64 `json:"confidence" yaml:"confidence"`
	Reasoning            string  `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// Status is the terminal row state: "done" or "failed".
	Status string `json:"status" yaml:"status"`

	// FailureReason explains a failed row: "extraction_unparseable",
	// "directory_unavailable", "cancelled", or an opaque error message.
	FailureReason string `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`

	// OriginalData is the untouched input row.
	OriginalData RawRecord `json:"original_data" yaml:"original_data"`
}
