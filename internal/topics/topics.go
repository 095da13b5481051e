// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics derives the broad and specific research-area strings for
// a matched identity from its profile biography, declared keywords, and
// publication titles. Two synthesizers exist behind one interface: a
// text-capability-backed one and a deterministic taxonomy fallback used
// when no capability is configured.
package topics

import (
	"context"
	"errors"
	"strings"

	"github.com/Idriss-Abidi/ExpertAI/internal/capability"
	"github.com/Idriss-Abidi/ExpertAI/internal/orcid"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// ProfileSource is the fetch surface of the identity directory consumed
// here. *orcid.Client satisfies it.
type ProfileSource interface {
	FetchProfile(ctx context.Context, identityID string) (*types.Profile, error)
	FetchWorks(ctx context.Context, identityID string, limit int) ([]types.WorkSummary, error)
}

// Synthesizer derives the two comma-joined research-area strings for one
// identity. An empty identityID and an unavailable directory both yield
// empty strings without error; topic synthesis is never a fatal step.
type Synthesizer interface {
	Synthesize(ctx context.Context, identityID string) (main, specific string, err error)
}

// gatherEvidence pools profile and works material for one identity.
// Directory unavailability degrades to whatever evidence was gathered
// before the failure, down to none at all.
func gatherEvidence(ctx context.Context, src ProfileSource, identityID string, worksLimit int) capability.TopicEvidence {
	var ev capability.TopicEvidence

	profile, err := src.FetchProfile(ctx, identityID)
	if err == nil {
		ev.Biography = profile.Biography
		ev.Keywords = profile.Keywords
	} else if !errors.Is(err, orcid.ErrDirectoryUnavailable) {
		return ev
	}

	works, err := src.FetchWorks(ctx, identityID, worksLimit)
	if err == nil {
		for _, w := range works {
			if w.Title != "" {
				ev.Titles = append(ev.Titles, w.Title)
			}
		}
	}
	return ev
}

// CapabilitySynthesizer delegates topic derivation to a text-understanding
// capability.
type CapabilitySynthesizer struct {
	Source     ProfileSource
	Capability capability.TextCapability
	WorksLimit int
}

// Synthesize fetches evidence and asks the capability for the two topic
// strings. No evidence yields empty strings without a capability call.
func (s *CapabilitySynthesizer) Synthesize(ctx context.Context, identityID string) (string, string, error) {
	if identityID == "" {
		return "", "", nil
	}
	limit := s.WorksLimit
	if limit <= 0 {
		limit = 30
	}

	ev := gatherEvidence(ctx, s.Source, identityID, limit)
	if ev.Empty() {
		return "", "", nil
	}

	main, specific, err := s.Capability.SummarizeTopics(ctx, ev)
	if err != nil {
		return "", "", err
	}
	return sanitizeList(main), sanitizeList(specific), nil
}

// sanitizeList trims a comma-joined string and drops empty items, keeping
// the output a plain string in all cases.
func sanitizeList(s string) string {
	parts := strings.Split(s, ",")
	var kept []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, ", ")
}
