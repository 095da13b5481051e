// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// SearchByName queries the expanded-search endpoint by given and family
// name only.
func (c *Client) SearchByName(ctx context.Context, first, last string, limit int) ([]types.CandidateProfile, error) {
	q := nameQuery(first, last)
	return c.expandedSearch(ctx, q, limit)
}

// SearchByNameAndAffiliation narrows a name query by institution name.
func (c *Client) SearchByNameAndAffiliation(ctx context.Context, first, last, affiliation string, limit int) ([]types.CandidateProfile, error) {
	q := nameQuery(first, last) + " AND affiliation-org-name:" + quoteTerm(affiliation)
	return c.expandedSearch(ctx, q, limit)
}

// SearchByNameAndEmail narrows a name query by registered email address.
func (c *Client) SearchByNameAndEmail(ctx context.Context, first, last, email string, limit int) ([]types.CandidateProfile, error) {
	q := nameQuery(first, last) + " AND email:" + quoteTerm(email)
	return c.expandedSearch(ctx, q, limit)
}

// SearchByNameAndCountry narrows a name query by country. The directory's
// search schema has no dedicated country field, so the country is matched
// against the full-text index.
func (c *Client) SearchByNameAndCountry(ctx context.Context, first, last, country string, limit int) ([]types.CandidateProfile, error) {
	q := nameQuery(first, last) + " AND text:" + quoteTerm(country)
	return c.expandedSearch(ctx, q, limit)
}

// SearchBySwappedName queries with given and family names exchanged, to
// recover input rows whose name columns were misordered.
func (c *Client) SearchBySwappedName(ctx context.Context, first, last string, limit int) ([]types.CandidateProfile, error) {
	q := nameQuery(last, first)
	return c.expandedSearch(ctx, q, limit)
}

// nameQuery builds the Lucene clause matching both name parts.
func nameQuery(first, last string) string {
	return "given-names:" + quoteTerm(first) + " AND family-name:" + quoteTerm(last)
}

// quoteTerm wraps a value in quotes for Lucene, escaping embedded quotes
// and backslashes so user-supplied cells cannot break the query.
func quoteTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// expandedSearch runs one expanded-search query and maps the hits.
func (c *Client) expandedSearch(ctx context.Context, query string, limit int) ([]types.CandidateProfile, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{
		"q":    {query},
		"rows": {fmt.Sprintf("%d", limit)},
	}
	body, err := c.get(ctx, c.baseURL+"/expanded-search/?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var er expandedSearchResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, fmt.Errorf("parsing expanded-search response: %w", err)
	}

	candidates := make([]types.CandidateProfile, 0, len(er.ExpandedResult))
	for _, hit := range er.ExpandedResult {
		if hit.OrcidID == "" {
			continue
		}
		cand := types.CandidateProfile{
			IdentityID:  hit.OrcidID,
			FirstName:   hit.GivenNames,
			LastName:    hit.FamilyNames,
			Affiliation: strings.Join(hit.InstitutionNames, ", "),
		}
		if len(hit.Emails) > 0 {
			cand.Email = hit.Emails[0]
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// Expanded-search API JSON structures.
type expandedSearchResponse struct {
	ExpandedResult []expandedResult `json:"expanded-result"`
	NumFound       int              `json:"num-found"`
}

type expandedResult struct {
	OrcidID          string   `json:"orcid-id"`
	GivenNames       string   `json:"given-names"`
	FamilyNames      string   `json:"family-names"`
	InstitutionNames []string `json:"institution-name"`
	Emails           []string `json:"email"`
}
