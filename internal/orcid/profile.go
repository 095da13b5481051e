// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orcid

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// FetchProfile retrieves the person section for one identity: name,
// biography, declared keywords, and any public emails.
func (c *Client) FetchProfile(ctx context.Context, identityID string) (*types.Profile, error) {
	body, err := c.get(ctx, c.baseURL+"/"+identityID+"/person")
	if err != nil {
		return nil, err
	}

	var p personResponse
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parsing person response: %w", err)
	}

	profile := &types.Profile{
		IdentityID: identityID,
		FirstName:  p.Name.GivenNames.Value,
		LastName:   p.Name.FamilyName.Value,
	}
	if p.Biography != nil {
		profile.Biography = p.Biography.Content
	}
	for _, kw := range p.Keywords.Keyword {
		if kw.Content != "" {
			profile.Keywords = append(profile.Keywords, kw.Content)
		}
	}
	for _, e := range p.Emails.Email {
		if e.Email != "" {
			profile.Emails = append(profile.Emails, e.Email)
		}
	}
	return profile, nil
}

// FetchWorks lists up to limit work summaries for one identity. The
// directory groups duplicate records of the same work; the first summary
// of each group is the preferred one.
func (c *Client) FetchWorks(ctx context.Context, identityID string, limit int) ([]types.WorkSummary, error) {
	if limit <= 0 {
		limit = 30
	}

	body, err := c.get(ctx, c.baseURL+"/"+identityID+"/works")
	if err != nil {
		return nil, err
	}

	var w worksResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("parsing works response: %w", err)
	}

	var works []types.WorkSummary
	for _, group := range w.Group {
		if len(works) >= limit {
			break
		}
		if len(group.WorkSummary) == 0 {
			continue
		}
		ws := group.WorkSummary[0]
		works = append(works, types.WorkSummary{
			PutCode: ws.PutCode,
			Title:   ws.Title.Title.Value,
			Year:    ws.PublicationDate.Year.Value,
		})
	}
	return works, nil
}

// FetchWorkDetail retrieves the full metadata of a single work by its
// put-code.
func (c *Client) FetchWorkDetail(ctx context.Context, identityID string, putCode int) (*types.WorkDetail, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/work/%d", c.baseURL, identityID, putCode))
	if err != nil {
		return nil, err
	}

	var w workResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("parsing work response: %w", err)
	}

	detail := &types.WorkDetail{
		PutCode:     w.PutCode,
		Title:       w.Title.Title.Value,
		Subtitle:    w.Title.Subtitle.Value,
		JournalName: w.JournalTitle.Value,
		Type:        w.Type,
		Year:        w.PublicationDate.Year.Value,
	}
	for _, id := range w.ExternalIDs.ExternalID {
		if id.Type == "doi" {
			detail.DOI = id.Value
			break
		}
	}
	return detail, nil
}

// ORCID API JSON structures. The API nests every scalar inside a
// {"value": ...} wrapper, mirrored here once instead of at each call site.
type valueString struct {
	Value string `json:"value"`
}

type personResponse struct {
	Name struct {
		GivenNames valueString `json:"given-names"`
		FamilyName valueString `json:"family-name"`
	} `json:"name"`
	Biography *struct {
		Content string `json:"content"`
	} `json:"biography"`
	Keywords struct {
		Keyword []struct {
			Content string `json:"content"`
		} `json:"keyword"`
	} `json:"keywords"`
	Emails struct {
		Email []struct {
			Email string `json:"email"`
		} `json:"email"`
	} `json:"emails"`
}

type worksResponse struct {
	Group []struct {
		WorkSummary []workSummaryJSON `json:"work-summary"`
	} `json:"group"`
}

type workSummaryJSON struct {
	PutCode int `json:"put-code"`
	Title   struct {
		Title valueString `json:"title"`
	} `json:"title"`
	PublicationDate struct {
		Year valueString `json:"year"`
	} `json:"publication-date"`
}

type workResponse struct {
	PutCode int `json:"put-code"`
	Title   struct {
		Title    valueString `json:"title"`
		Subtitle valueString `json:"subtitle"`
	} `json:"title"`
	JournalTitle    valueString `json:"journal-title"`
	Type            string      `json:"type"`
	PublicationDate struct {
		Year valueString `json:"year"`
	} `json:"publication-date"`
	ExternalIDs struct {
		ExternalID []struct {
			Type  string `json:"external-id-type"`
			Value string `json:"external-id-value"`
		} `json:"external-id"`
	} `json:"external-ids"`
}
