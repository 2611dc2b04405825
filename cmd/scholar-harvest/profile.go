// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-harvest/internal/enumerate"
	"github.com/pdiddy/scholar-harvest/internal/fetch"
	"github.com/pdiddy/scholar-harvest/internal/profile"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Resolve one researcher to a Google Scholar profile",
	Long: `Profile runs profile resolution for a single researcher and prints the
outcome. With --articles it also lists the publications on the profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := types.IdentityQuery{}
		q.FirstName, _ = cmd.Flags().GetString("first")
		q.LastName, _ = cmd.Flags().GetString("last")
		q.Institution, _ = cmd.Flags().GetString("institution")
		q.Role, _ = cmd.Flags().GetString("role")
		listArticles, _ := cmd.Flags().GetBool("articles")

		cfg := pipelineConfig(viper.GetViper(), loadedSecrets)
		f := fetch.NewHTTPFetcher(cfg.Scholar.HTTPConfig)
		out := cmd.OutOrStdout()

		p := profile.New(f, cfg.Scholar, logger).Resolve(cmd.Context(), q)
		fmt.Fprintf(out, "outcome:   %s\n", p.Outcome)
		fmt.Fprintf(out, "author id: %s\n", p.AuthorID)
		fmt.Fprintf(out, "profile:   %s\n", p.Locator())
		if p.Err != nil {
			fmt.Fprintf(out, "error:     %v\n", p.Err)
		}
		if !listArticles || !p.Outcome.Usable() {
			return nil
		}

		res := enumerate.New(f, cfg.Scholar, logger).Enumerate(cmd.Context(), p.ProfileURL)
		fmt.Fprintf(out, "\narticles (%s): %d\n", res.Outcome, len(res.Summaries))
		for _, s := range res.Summaries {
			fmt.Fprintf(out, "  %-18s %s\n", s.Year, s.Title)
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().String("first", "", "first name")
	profileCmd.Flags().String("last", "", "last name")
	profileCmd.Flags().String("institution", "", "university or employer")
	profileCmd.Flags().String("role", "Professor", "position title; must contain \"professor\"")
	profileCmd.Flags().Bool("articles", false, "also list the profile's publications")
	profileCmd.MarkFlagRequired("first")
	profileCmd.MarkFlagRequired("last")

	rootCmd.AddCommand(profileCmd)
}
