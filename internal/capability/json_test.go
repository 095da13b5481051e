// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import "testing"

func TestExtractJSON(t *testing.T) {
	type draft struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	tests := []struct {
		name    string
		raw     string
		want    draft
		wantErr bool
	}{
		{
			name: "bare object",
			raw:  `{"first_name": "Marie", "last_name": "Curie"}`,
			want: draft{"Marie", "Curie"},
		},
		{
			name: "object with surrounding whitespace",
			raw:  "\n  {\"first_name\": \"Marie\", \"last_name\": \"Curie\"}  \n",
			want: draft{"Marie", "Curie"},
		},
		{
			name: "fenced json block",
			raw:  "Here is the result:\n```json\n{\"first_name\": \"Marie\", \"last_name\": \"Curie\"}\n```\nLet me know if you need more.",
			want: draft{"Marie", "Curie"},
		},
		{
			name: "fenced block without language tag",
			raw:  "```\n{\"first_name\": \"Marie\", \"last_name\": \"Curie\"}\n```",
			want: draft{"Marie", "Curie"},
		},
		{
			name: "prose with embedded object",
			raw:  `Sure! The extracted identity is {"first_name": "Marie", "last_name": "Curie"} as requested.`,
			want: draft{"Marie", "Curie"},
		},
		{
			name: "null fields stay empty",
			raw:  `{"first_name": "Marie", "last_name": null}`,
			want: draft{"Marie", ""},
		},
		{
			name:    "empty response",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "no json at all",
			raw:     "I could not determine the identity.",
			wantErr: true,
		},
		{
			name:    "broken json",
			raw:     `{"first_name": "Marie",`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got draft
			err := ExtractJSON(tt.raw, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalStrict(t *testing.T) {
	var out map[string]string
	if err := unmarshalStrict(`  {"a": "b"} `, &out); err != nil {
		t.Fatalf("unmarshalStrict: %v", err)
	}
	if err := unmarshalStrict(`prose {"a": "b"}`, &out); err == nil {
		t.Error("strict mode should reject prose-wrapped JSON")
	}
}
