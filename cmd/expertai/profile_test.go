// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

func TestProfileCommandRendersProfileAndWorks(t *testing.T) {
	const id = "0000-0001-2345-6789"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + id + "/person":
			w.Write([]byte(`{
				"name": {"given-names": {"value": "Marie"}, "family-name": {"value": "Curie"}},
				"biography": {"content": "Pioneer of radioactivity research."},
				"keywords": {"keyword": [{"content": "radioactivity"}]},
				"emails": {"email": [{"email": "m.curie@sorbonne.fr"}]}
			}`))
		case "/" + id + "/works":
			w.Write([]byte(`{"group": [{"work-summary": [
				{"put-code": 42, "title": {"title": {"value": "Recherches sur les substances radioactives"}},
				 "publication-date": {"year": {"value": "1903"}}}
			]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	viper.Set("directory.base_url", ts.URL)
	defer viper.Set("directory.base_url", "")

	out := filepath.Join(t.TempDir(), "profile.json")
	rootCmd.SetArgs([]string{"profile", id, "--json", "--output", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var got struct {
		Profile types.Profile       `json:"profile"`
		Works   []types.WorkSummary `json:"works"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}

	if got.Profile.FirstName != "Marie" || got.Profile.LastName != "Curie" {
		t.Errorf("profile name = %q %q", got.Profile.FirstName, got.Profile.LastName)
	}
	if got.Profile.Biography == "" {
		t.Error("biography should be carried through")
	}
	if len(got.Works) != 1 || got.Works[0].PutCode != 42 || got.Works[0].Year != "1903" {
		t.Errorf("works = %+v", got.Works)
	}
}
