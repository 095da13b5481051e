// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"bytes"
	"strings"
	"text/template"
)

// extractionPromptTmpl instructs the backend to pull a canonical identity
// out of a flattened row description. Column-header variants are handled
// here so the rest of the pipeline only sees canonical slots.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are a researcher-identity extraction system. The input below is one database row rendered as "column: value" pairs. The column names are arbitrary and may be in any language.

Identify the following fields:
- first_name: the researcher's given name (columns like first, firstname, given_name, givenNames, prenom)
- last_name: the researcher's family name (columns like family, surname, last, lastname, nom)
- email: an email address if one is present
- affiliation: the researcher's organization (columns like org, organization, university, institution)
- country: the researcher's country, as a full name rather than an abbreviation (columns like country, nation, pays)

Do not invent values. If the row has no plausible source for a field, use null.

Respond with a single JSON object and nothing else:
{"first_name": "...", "last_name": "...", "email": null, "affiliation": null, "country": null}

Row:
{{.Description}}
`))

// topicsPromptTmpl instructs the backend to derive the two research-area
// strings from pooled profile evidence. Both fields must be plain
// comma-joined strings, never arrays, so the output schema stays uniform
// with the no-candidate case.
var topicsPromptTmpl = template.Must(template.New("topics").Parse(`You are given evidence about one researcher: a biography, declared keywords, and publication titles. Derive their research interests.

Generate:
- main_research_area: 4 to 8 broad thematic labels as a single string with items separated by commas
- specific_research_area: 4 to 12 narrower technical terms as a single string with items separated by commas, if the evidence warrants that many

Never return lists or arrays for these fields; always a plain string. If the evidence supports nothing useful, use empty strings.

Respond with a single JSON object and nothing else:
{"main_research_area": "...", "specific_research_area": "..."}

Biography:
{{.Biography}}

Keywords: {{.Keywords}}

Publication titles:
{{.Titles}}
`))

// renderExtractionPrompt executes the extraction template for one row
// description.
func renderExtractionPrompt(description string) (string, error) {
	var buf bytes.Buffer
	err := extractionPromptTmpl.Execute(&buf, struct{ Description string }{Description: description})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderTopicsPrompt executes the topics template with pooled evidence.
func renderTopicsPrompt(ev TopicEvidence) (string, error) {
	titles := "(none)"
	if len(ev.Titles) > 0 {
		titles = "- " + strings.Join(ev.Titles, "\n- ")
	}
	var buf bytes.Buffer
	err := topicsPromptTmpl.Execute(&buf, struct {
		Biography string
		Keywords  string
		Titles    string
	}{
		Biography: ev.Biography,
		Keywords:  strings.Join(ev.Keywords, ", "),
		Titles:    titles,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
