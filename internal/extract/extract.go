// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns one raw input row into a canonical identity
// draft. The capability-backed extractor tolerates arbitrary column names
// and free text; the header extractor is the deterministic fallback that
// maps well-known column-header variants directly.
package extract

import (
	"context"
	"strings"

	"github.com/Idriss-Abidi/ExpertAI/internal/capability"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// headerVariants maps canonical identity slots to the column-header
// spellings seen in the wild. Headers are compared lowercased with
// spaces, dashes, and underscores stripped.
var headerVariants = map[string][]string{
	"first_name":  {"first", "firstname", "givenname", "givennames", "prenom", "forename"},
	"last_name":   {"last", "lastname", "family", "familyname", "surname", "nom"},
	"email":       {"email", "mail", "emailaddress", "courriel"},
	"affiliation": {"affiliation", "org", "organization", "organisation", "university", "institution", "institute", "employer"},
	"country":     {"country", "nation", "pays", "countryname"},
}

// HeaderExtractor maps known column headers to identity slots without a
// text-understanding capability. Unrecognized columns are ignored and no
// field is ever invented.
type HeaderExtractor struct{}

// ExtractIdentity fills the draft from the first matching non-empty column
// per slot, in the row's own column order.
func (HeaderExtractor) ExtractIdentity(ctx context.Context, row types.RawRecord) (types.IdentityDraft, error) {
	var draft types.IdentityDraft
	for _, col := range row.Columns {
		value := strings.TrimSpace(row.Values[col])
		if value == "" {
			continue
		}
		switch slotFor(col) {
		case "first_name":
			if draft.FirstName == "" {
				draft.FirstName = value
			}
		case "last_name":
			if draft.LastName == "" {
				draft.LastName = value
			}
		case "email":
			if draft.Email == "" {
				draft.Email = value
			}
		case "affiliation":
			if draft.Affiliation == "" {
				draft.Affiliation = value
			}
		case "country":
			if draft.Country == "" {
				draft.Country = value
			}
		}
	}
	return draft, nil
}

// slotFor returns the canonical slot for a column header, or "".
func slotFor(header string) string {
	h := strings.ToLower(header)
	h = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(h)
	for slot, variants := range headerVariants {
		for _, v := range variants {
			if h == v {
				return slot
			}
		}
	}
	return ""
}

// CapabilityExtractor renders the row as a flattened description and
// delegates identity extraction to the configured capability.
type CapabilityExtractor struct {
	Capability capability.TextCapability
}

// ExtractIdentity calls the capability with the row description.
func (e CapabilityExtractor) ExtractIdentity(ctx context.Context, row types.RawRecord) (types.IdentityDraft, error) {
	return e.Capability.ExtractIdentity(ctx, row.Describe())
}
