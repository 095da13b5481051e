// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match plans disambiguating search variants against the identity
// directory, executes them, and ranks the gathered candidates against the
// wanted identity with an explainable decision.
package match

import (
	"context"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// Directory is the search surface of the identity directory consumed by
// the executor. *orcid.Client satisfies it.
type Directory interface {
	SearchByName(ctx context.Context, first, last string, limit int) ([]types.CandidateProfile, error)
	SearchByNameAndAffiliation(ctx context.Context, first, last, affiliation string, limit int) ([]types.CandidateProfile, error)
	SearchByNameAndEmail(ctx context.Context, first, last, email string, limit int) ([]types.CandidateProfile, error)
	SearchByNameAndCountry(ctx context.Context, first, last, country string, limit int) ([]types.CandidateProfile, error)
	SearchBySwappedName(ctx context.Context, first, last string, limit int) ([]types.CandidateProfile, error)
}

// PlanVariants builds the variant list for a draft. name_only and
// swapped_names are always attempted; the field-narrowed variants only when
// the supporting field is present. Order is fixed so result indices are
// stable provenance for the ranker.
func PlanVariants(draft types.IdentityDraft) []types.SearchVariant {
	variants := []types.SearchVariant{types.VariantNameOnly}
	if draft.Affiliation != "" {
		variants = append(variants, types.VariantNameAffiliation)
	}
	if draft.Email != "" {
		variants = append(variants, types.VariantNameEmail)
	}
	if draft.Country != "" {
		variants = append(variants, types.VariantNameCountry)
	}
	variants = append(variants, types.VariantSwappedNames)
	return variants
}

// ExecuteVariants runs every planned variant independently and returns the
// ordered result sets, empty ones included. A variant whose remote call
// fails contributes zero candidates and a recorded error; it never blocks
// the remaining variants. The caller must have checked draft.Searchable().
func ExecuteVariants(ctx context.Context, dir Directory, draft types.IdentityDraft, limit int) []types.VariantResult {
	variants := PlanVariants(draft)
	results := make([]types.VariantResult, 0, len(variants))

	for _, v := range variants {
		var candidates []types.CandidateProfile
		var err error

		switch v {
		case types.VariantNameOnly:
			candidates, err = dir.SearchByName(ctx, draft.FirstName, draft.LastName, limit)
		case types.VariantNameAffiliation:
			candidates, err = dir.SearchByNameAndAffiliation(ctx, draft.FirstName, draft.LastName, draft.Affiliation, limit)
		case types.VariantNameEmail:
			candidates, err = dir.SearchByNameAndEmail(ctx, draft.FirstName, draft.LastName, draft.Email, limit)
		case types.VariantNameCountry:
			candidates, err = dir.SearchByNameAndCountry(ctx, draft.FirstName, draft.LastName, draft.Country, limit)
		case types.VariantSwappedNames:
			candidates, err = dir.SearchBySwappedName(ctx, draft.FirstName, draft.LastName, limit)
		}

		result := types.VariantResult{Variant: v, Candidates: candidates}
		if err != nil {
			result.Candidates = nil
			result.Err = err.Error()
		}
		results = append(results, result)
	}
	return results
}
