// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchVariant tags one alternative query strategy against the identity
// directory. Variants differ in which optional draft fields they include.
type SearchVariant string

const (
	VariantNameOnly        SearchVariant = "name_only"
	VariantNameAffiliation SearchVariant = "name_affiliation"
	VariantNameEmail       SearchVariant = "name_email"
	VariantNameCountry     SearchVariant = "name_country"
	VariantSwappedNames    SearchVariant = "swapped_names"
)

// CandidateProfile is one directory search hit. Affiliation joins the
// profile's institution names for display. Candidates are ephemeral: they
// live only within one pipeline run.
type CandidateProfile struct {
	IdentityID  string `json:"orcid_id" yaml:"orcid_id"`
	FirstName   string `json:"first_name" yaml:"first_name"`
	LastName    string `json:"last_name" yaml:"last_name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
}

// VariantResult pairs a search variant with the candidates it returned.
// Empty result sets are kept so the ranker sees stable result indices.
type VariantResult struct {
	Variant    SearchVariant      `json:"variant" yaml:"variant"`
	Candidates []CandidateProfile `json:"candidates" yaml:"candidates"`

	// Err is the failure message when the variant's remote call failed.
	// A failed variant contributes zero candidates and does not block
	// sibling variants.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// CandidateScore is the ranker's evaluation of one candidate occurrence.
// The same identity may be scored multiple times when it appeared in
// multiple variant result sets; SourceResultIndex records which one.
type CandidateScore struct {
	SourceResultIndex int    `json:"source_result_index" yaml:"source_result_index"`
	IdentityID        string `json:"orcid_id" yaml:"orcid_id"`
	FirstName         string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Affiliation       string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Country           string `json:"country,omitempty" yaml:"country,omitempty"`
	Email             string `json:"email,omitempty" yaml:"email,omitempty"`

	NameMatch        float64 `json:"name_match" yaml:"name_match"`
	AffiliationMatch float64 `json:"affiliation_match" yaml:"affiliation_match"`
	CountryMatch     float64 `json:"country_match" yaml:"country_match"`
	EmailMatch       float64 `json:"email_match" yaml:"email_match"`
	Total            float64 `json:"total" yaml:"total"`

	// Evidence maps each sub-score to the tokens or substrings that drove it.
	Evidence map[string]string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// PickerReasoning is the audit trail behind a selection: a one-paragraph
// summary, the winning candidate's total as confidence, provenance of the
// winner, and every score computed on the way.
type PickerReasoning struct {
	Summary                 string           `json:"summary" yaml:"summary"`
	Confidence              float64          `json:"confidence" yaml:"confidence"`
	SelectedIdentityID      string           `json:"selected_orcid_id,omitempty" yaml:"selected_orcid_id,omitempty"`
	SelectedFromResultIndex int              `json:"selected_from_result_index" yaml:"selected_from_result_index"`
	Scores                  []CandidateScore `json:"scores" yaml:"scores"`
}

// PickerDecision is the ranker's output. Selected is nil when no candidate
// was acceptable; Reasoning is always populated.
type PickerDecision struct {
	Selected  *CandidateProfile `json:"selected,omitempty" yaml:"selected,omitempty"`
	Reasoning PickerReasoning   `json:"reasoning" yaml:"reasoning"`
}

// BatchMatchRequest is the logical request shape for one batch run.
type BatchMatchRequest struct {
	Rows        []RawRecord `json:"rows" yaml:"rows"`
	LimitPerRow int         `json:"limit_per_row" yaml:"limit_per_row"`
}

// BatchMatchResponse aggregates per-row results. Results has the same
// length and order as the request rows; rows are never silently dropped.
type BatchMatchResponse struct {
	Results           []EnrichedRecord `json:"results" yaml:"results"`
	TotalProcessed    int              `json:"total_processed" yaml:"total_processed"`
	SuccessfulMatches int              `json:"successful_matches" yaml:"successful_matches"`
}
