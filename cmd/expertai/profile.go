// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Idriss-Abidi/ExpertAI/internal/orcid"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile IDENTITY-ID",
	Short: "Fetch one ORCID profile with its work summaries",
	Long: `Profile fetches the public record for a single ORCID identifier: name,
biography, keywords, public emails, and the most recent work summaries.
Useful for inspecting what the matcher sees for a candidate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := buildConfig().WithDefaults()
		client := orcid.NewClient(cfg.Directory)

		profile, err := client.FetchProfile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}

		worksLimit, _ := cmd.Flags().GetInt("works-limit")
		works, err := client.FetchWorks(ctx, args[0], worksLimit)
		if err != nil {
			return fmt.Errorf("fetching works: %w", err)
		}

		return writeResult(cmd, struct {
			Profile types.Profile       `json:"profile" yaml:"profile"`
			Works   []types.WorkSummary `json:"works" yaml:"works"`
		}{*profile, works})
	},
}

func init() {
	profileCmd.Flags().Int("works-limit", 0, "maximum work summaries to fetch (default 30)")
	profileCmd.Flags().Bool("json", false, "output as JSON instead of YAML")
	profileCmd.Flags().String("output", "", "write output to a file instead of stdout")

	rootCmd.AddCommand(profileCmd)
}
