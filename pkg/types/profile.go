// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Profile is the person-level view of one directory record: biography,
// declared keywords, and any public emails. It is the evidence base for
// topic synthesis.
type Profile struct {
	IdentityID string   `json:"orcid_id" yaml:"orcid_id"`
	FirstName  string   `json:"first_name" yaml:"first_name"`
	LastName   string   `json:"last_name" yaml:"last_name"`
	Biography  string   `json:"biography,omitempty" yaml:"biography,omitempty"`
	Keywords   []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Emails     []string `json:"emails,omitempty" yaml:"emails,omitempty"`
}

// WorkSummary is one entry from a directory works listing: title, year,
// and the directory's opaque item code for detail fetches.
type WorkSummary struct {
	PutCode int    `json:"put_code" yaml:"put_code"`
	Title   string `json:"title" yaml:"title"`
	Year    string `json:"year,omitempty" yaml:"year,omitempty"`
}

// WorkDetail is the full metadata of a single work.
type WorkDetail struct {
	PutCode     int    `json:"put_code" yaml:"put_code"`
	Title       string `json:"title" yaml:"title"`
	Subtitle    string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	JournalName string `json:"journal_name,omitempty" yaml:"journal_name,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Year        string `json:"year,omitempty" yaml:"year,omitempty"`
	DOI         string `json:"doi,omitempty" yaml:"doi,omitempty"`
}
