// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"testing"

	"github.com/Idriss-Abidi/ExpertAI/internal/capability"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

func TestHeaderExtractor(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		values  map[string]string
		want    types.IdentityDraft
	}{
		{
			name:    "canonical headers",
			columns: []string{"first", "last", "email", "org", "country"},
			values: map[string]string{
				"first": "Marie", "last": "Curie",
				"email": "m.curie@sorbonne.fr", "org": "Sorbonne", "country": "France",
			},
			want: types.IdentityDraft{
				FirstName: "Marie", LastName: "Curie",
				Email: "m.curie@sorbonne.fr", Affiliation: "Sorbonne", Country: "France",
			},
		},
		{
			name:    "french headers",
			columns: []string{"prenom", "nom", "pays"},
			values:  map[string]string{"prenom": "Marie", "nom": "Curie", "pays": "France"},
			want:    types.IdentityDraft{FirstName: "Marie", LastName: "Curie", Country: "France"},
		},
		{
			name:    "case and separators ignored",
			columns: []string{"First-Name", "Family_Name", "E Mail"},
			values:  map[string]string{"First-Name": "Marie", "Family_Name": "Curie", "E Mail": "m@x.fr"},
			want:    types.IdentityDraft{FirstName: "Marie", LastName: "Curie", Email: "m@x.fr"},
		},
		{
			name:    "unknown headers ignored",
			columns: []string{"surname", "shoe_size", "favorite_color"},
			values:  map[string]string{"surname": "Curie", "shoe_size": "38", "favorite_color": "blue"},
			want:    types.IdentityDraft{LastName: "Curie"},
		},
		{
			name:    "first matching column wins",
			columns: []string{"firstname", "given_name"},
			values:  map[string]string{"firstname": "Marie", "given_name": "Maria"},
			want:    types.IdentityDraft{FirstName: "Marie"},
		},
		{
			name:    "empty cells skipped",
			columns: []string{"firstname", "given_name", "lastname"},
			values:  map[string]string{"firstname": "  ", "given_name": "Marie", "lastname": "Curie"},
			want:    types.IdentityDraft{FirstName: "Marie", LastName: "Curie"},
		},
		{
			name:    "no usable columns",
			columns: []string{"id", "note"},
			values:  map[string]string{"id": "42", "note": "hello"},
			want:    types.IdentityDraft{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := types.NewRawRecord(tt.columns, tt.values)
			got, err := HeaderExtractor{}.ExtractIdentity(context.Background(), row)
			if err != nil {
				t.Fatalf("ExtractIdentity: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCapabilityExtractorPassesDescription(t *testing.T) {
	var gotDescription string
	cap := describeCapability{&gotDescription}
	row := types.NewRawRecord([]string{"first", "last"}, map[string]string{"first": "Marie", "last": "Curie"})

	draft, err := CapabilityExtractor{Capability: cap}.ExtractIdentity(context.Background(), row)
	if err != nil {
		t.Fatalf("ExtractIdentity: %v", err)
	}
	if gotDescription != "first: Marie, last: Curie" {
		t.Errorf("description = %q", gotDescription)
	}
	if draft.FirstName != "Marie" {
		t.Errorf("draft = %+v", draft)
	}
}

// describeCapability records the description and echoes a fixed draft.
type describeCapability struct {
	got *string
}

func (c describeCapability) ExtractIdentity(_ context.Context, description string) (types.IdentityDraft, error) {
	*c.got = description
	return types.IdentityDraft{FirstName: "Marie", LastName: "Curie"}, nil
}

func (c describeCapability) SummarizeTopics(_ context.Context, _ capability.TopicEvidence) (string, string, error) {
	return "", "", nil
}
