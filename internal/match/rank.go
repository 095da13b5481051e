// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// countryAliases maps common short forms to the full country name used for
// comparison. Both sides of a country match pass through this table.
var countryAliases = map[string]string{
	"us":      "united states",
	"usa":     "united states",
	"uk":      "united kingdom",
	"uae":     "united arab emirates",
	"prc":     "china",
	"rsa":     "south africa",
	"nl":      "netherlands",
	"de":      "germany",
	"fr":      "france",
	"ch":      "switzerland",
	"kr":      "south korea",
	"czechia": "czech republic",
}

// Rank scores every candidate occurrence across the ordered variant result
// sets against the wanted draft and selects the single best profile. All
// scores stay in the returned reasoning for audit, duplicates of the same
// identity included. With no candidates at all the decision has a nil
// selection and zero confidence; that is a valid outcome, not an error.
func Rank(wanted types.IdentityDraft, results []types.VariantResult, cfg types.MatchConfig) types.PickerDecision {
	var scores []types.CandidateScore
	for idx, set := range results {
		for _, cand := range set.Candidates {
			scores = append(scores, scoreCandidate(wanted, cand, idx, cfg))
		}
	}

	if len(scores) == 0 {
		return types.PickerDecision{
			Reasoning: types.PickerReasoning{
				Summary:                 "No candidates were returned by any search variant.",
				Confidence:              0,
				SelectedFromResultIndex: -1,
				Scores:                  nil,
			},
		}
	}

	// Highest total wins; ties go to the earlier (more specific or
	// earlier-attempted) result set. Iterating in order with a strict
	// comparison gives exactly that, and also guarantees that when one
	// identity appears in several sets only its best occurrence can win.
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i].Total > scores[best].Total {
			best = i
		}
	}
	winner := scores[best]

	decision := types.PickerDecision{
		Reasoning: types.PickerReasoning{
			Summary:                 summarize(wanted, winner, len(scores)),
			Confidence:              winner.Total,
			SelectedIdentityID:      winner.IdentityID,
			SelectedFromResultIndex: winner.SourceResultIndex,
			Scores:                  scores,
		},
	}

	if winner.Total < cfg.MinConfidence {
		decision.Reasoning.Summary += fmt.Sprintf(
			" The best total %.2f is below the configured minimum confidence %.2f, so no profile was selected.",
			winner.Total, cfg.MinConfidence)
		decision.Reasoning.SelectedIdentityID = ""
		decision.Reasoning.SelectedFromResultIndex = -1
		return decision
	}

	selected := candidateFromScore(winner, results)
	decision.Selected = &selected
	return decision
}

// scoreCandidate evaluates one candidate occurrence along the four
// similarity axes and combines them into a weighted total.
func scoreCandidate(wanted types.IdentityDraft, cand types.CandidateProfile, resultIndex int, cfg types.MatchConfig) types.CandidateScore {
	score := types.CandidateScore{
		SourceResultIndex: resultIndex,
		IdentityID:        cand.IdentityID,
		FirstName:         cand.FirstName,
		LastName:          cand.LastName,
		Affiliation:       cand.Affiliation,
		Country:           cand.Country,
		Email:             cand.Email,
		Evidence:          map[string]string{},
	}

	score.NameMatch, score.Evidence["name"] = nameMatch(wanted, cand)
	score.AffiliationMatch, score.Evidence["affiliation"] = affiliationMatch(wanted.Affiliation, cand.Affiliation)
	score.CountryMatch, score.Evidence["country"] = countryMatch(wanted.Country, cand.Country)
	score.EmailMatch, score.Evidence["email"] = emailMatch(wanted.Email, cand.Email)

	total := cfg.NameWeight*score.NameMatch +
		cfg.AffiliationWeight*score.AffiliationMatch +
		cfg.CountryWeight*score.CountryMatch +
		cfg.EmailWeight*score.EmailMatch
	if total < 0 {
		total = 0
	}
	if total > 1 {
		total = 1
	}
	score.Total = total
	return score
}

// nameMatch compares the (first,last) pairs case- and accent-insensitively
// in both orientations, so a swapped exact match scores the same as a
// direct exact match.
func nameMatch(wanted types.IdentityDraft, cand types.CandidateProfile) (float64, string) {
	direct := (similarity(wanted.FirstName, cand.FirstName) + similarity(wanted.LastName, cand.LastName)) / 2
	swapped := (similarity(wanted.FirstName, cand.LastName) + similarity(wanted.LastName, cand.FirstName)) / 2

	orientation := "direct"
	best := direct
	if swapped > direct {
		orientation = "swapped"
		best = swapped
	}
	ev := fmt.Sprintf("%s %s ~ %s %s (%s, %.2f)",
		fold(wanted.FirstName), fold(wanted.LastName), fold(cand.FirstName), fold(cand.LastName), orientation, best)
	return best, ev
}

// affiliationMatch is the token-overlap ratio between the two affiliation
// strings: shared tokens over the smaller token set, 0 when either side is
// empty.
func affiliationMatch(wanted, got string) (float64, string) {
	if wanted == "" || got == "" {
		return 0, ""
	}
	wt, gt := tokenize(wanted), tokenize(got)
	if len(wt) == 0 || len(gt) == 0 {
		return 0, ""
	}

	set := make(map[string]bool, len(wt))
	for _, t := range wt {
		set[t] = true
	}
	var shared []string
	seen := make(map[string]bool)
	for _, t := range gt {
		if set[t] && !seen[t] {
			shared = append(shared, t)
			seen[t] = true
		}
	}

	smaller := len(wt)
	if len(gt) < smaller {
		smaller = len(gt)
	}
	ratio := float64(len(shared)) / float64(smaller)
	if ratio > 1 {
		ratio = 1
	}
	if len(shared) == 0 {
		return 0, "no shared tokens"
	}
	return ratio, "shared tokens: " + strings.Join(shared, ", ")
}

// countryMatch is exact after folding and alias expansion.
func countryMatch(wanted, got string) (float64, string) {
	if wanted == "" || got == "" {
		return 0, ""
	}
	w, g := canonicalCountry(wanted), canonicalCountry(got)
	if w == g {
		return 1, w
	}
	return 0, fmt.Sprintf("%s != %s", w, g)
}

func canonicalCountry(s string) string {
	f := fold(s)
	if full, ok := countryAliases[f]; ok {
		return full
	}
	return f
}

// emailMatch scores exact address match 1.0, a shared domain 0.5, and
// anything else 0.
func emailMatch(wanted, got string) (float64, string) {
	if wanted == "" || got == "" {
		return 0, ""
	}
	w, g := fold(wanted), fold(got)
	if w == g {
		return 1, w
	}
	wAt, gAt := strings.LastIndex(w, "@"), strings.LastIndex(g, "@")
	if wAt >= 0 && gAt >= 0 && w[wAt+1:] == g[gAt+1:] {
		return 0.5, "shared domain: " + w[wAt+1:]
	}
	return 0, "different addresses"
}

// candidateFromScore recovers the full candidate profile behind a winning
// score from its source result set.
func candidateFromScore(score types.CandidateScore, results []types.VariantResult) types.CandidateProfile {
	if score.SourceResultIndex >= 0 && score.SourceResultIndex < len(results) {
		for _, cand := range results[score.SourceResultIndex].Candidates {
			if cand.IdentityID == score.IdentityID {
				return cand
			}
		}
	}
	return types.CandidateProfile{
		IdentityID:  score.IdentityID,
		FirstName:   score.FirstName,
		LastName:    score.LastName,
		Affiliation: score.Affiliation,
		Country:     score.Country,
		Email:       score.Email,
	}
}

// summarize writes the one-paragraph justification naming the dominant
// sub-scores.
func summarize(wanted types.IdentityDraft, winner types.CandidateScore, scored int) string {
	type axis struct {
		name  string
		value float64
	}
	axes := []axis{
		{"name", winner.NameMatch},
		{"affiliation", winner.AffiliationMatch},
		{"country", winner.CountryMatch},
		{"email", winner.EmailMatch},
	}
	sort.SliceStable(axes, func(i, j int) bool { return axes[i].value > axes[j].value })

	var dominant []string
	for _, a := range axes {
		if a.value > 0 {
			dominant = append(dominant, fmt.Sprintf("%s %.2f", a.name, a.value))
		}
	}
	driver := "no sub-score contributed"
	if len(dominant) > 0 {
		driver = "driven by " + strings.Join(dominant, ", ")
	}

	return fmt.Sprintf(
		"Selected %s (%s %s) for wanted researcher %s %s with total score %.2f, %s; %d candidate occurrences were scored.",
		winner.IdentityID, winner.FirstName, winner.LastName,
		wanted.FirstName, wanted.LastName, winner.Total, driver, scored)
}
