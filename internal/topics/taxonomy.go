// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"context"
	"strings"
)

// taxonomyBucket maps one broad thematic label to the trigger terms that
// activate it. Triggers are matched by substring containment against the
// pooled lowercased evidence; matched triggers become the specific terms.
type taxonomyBucket struct {
	label    string
	triggers []string
}

// taxonomy is the static fallback mapping used when no text-understanding
// capability is configured. Order matters: buckets are checked first to
// last and output keeps first-seen order.
var taxonomy = []taxonomyBucket{
	{"Machine Learning", []string{"machine learning", "deep learning", "neural network", "reinforcement learning", "transformer", "classification", "clustering"}},
	{"Artificial Intelligence", []string{"artificial intelligence", "knowledge representation", "natural language processing", "computer vision", "expert system"}},
	{"Data Science", []string{"data mining", "big data", "data analysis", "data science", "predictive model", "statistics"}},
	{"Computational Biology", []string{"bioinformatics", "genomics", "proteomics", "sequence analysis", "systems biology", "computational biology"}},
	{"Medicine and Health", []string{"clinical", "epidemiolog", "public health", "oncology", "cardiolog", "immunolog", "diagnosis", "patient"}},
	{"Neuroscience", []string{"neuroscience", "cognitive", "brain imaging", "neural circuit", "neurodegenerat"}},
	{"Physics", []string{"quantum", "particle physics", "condensed matter", "astrophysics", "optics", "photonics"}},
	{"Chemistry", []string{"catalysis", "organic synthesis", "spectroscopy", "electrochemistry", "polymer", "molecular dynamics"}},
	{"Materials Science", []string{"nanomaterial", "thin film", "composite material", "crystal structure", "semiconductor"}},
	{"Environmental Science", []string{"climate", "ecology", "biodiversity", "sustainability", "pollution", "remote sensing"}},
	{"Energy", []string{"renewable energy", "solar cell", "battery", "fuel cell", "photovoltaic", "energy storage"}},
	{"Engineering", []string{"control system", "signal processing", "robotics", "mechanical design", "structural analysis", "embedded system"}},
	{"Mathematics", []string{"graph theory", "optimization", "numerical method", "differential equation", "topology", "combinatorics"}},
	{"Social Sciences", []string{"sociology", "economics", "education", "psychology", "policy analysis", "survey"}},
	{"Computer Systems", []string{"distributed system", "operating system", "computer network", "cloud computing", "database", "security"}},
}

const (
	maxMainAreas     = 8
	maxSpecificTerms = 12
)

// TaxonomySynthesizer is the deterministic, capability-free synthesizer:
// pooled evidence text is checked against the static taxonomy table.
type TaxonomySynthesizer struct {
	Source     ProfileSource
	WorksLimit int
}

// Synthesize maps pooled evidence to taxonomy buckets. Bucket labels form
// main_research_area, matched trigger terms form specific_research_area,
// both deduplicated in first-seen order.
func (s *TaxonomySynthesizer) Synthesize(ctx context.Context, identityID string) (string, string, error) {
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

	pooled := strings.ToLower(ev.Biography + " " + strings.Join(ev.Keywords, " ") + " " + strings.Join(ev.Titles, " "))

	var mains, specifics []string
	seenTerm := make(map[string]bool)
	for _, bucket := range taxonomy {
		matched := false
		for _, trigger := range bucket.triggers {
			if !strings.Contains(pooled, trigger) {
				continue
			}
			matched = true
			if !seenTerm[trigger] && len(specifics) < maxSpecificTerms {
				seenTerm[trigger] = true
				specifics = append(specifics, trigger)
			}
		}
		if matched && len(mains) < maxMainAreas {
			mains = append(mains, bucket.label)
		}
	}

	return strings.Join(mains, ", "), strings.Join(specifics, ", "), nil
}
