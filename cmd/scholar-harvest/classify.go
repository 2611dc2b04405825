// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-harvest/internal/classify"
	"github.com/pdiddy/scholar-harvest/internal/roster"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one publication against the theme vocabulary",
	Long: `Classify sends a title and abstract to the configured oracle and prints the
theme and language it assigns. The vocabulary comes from --theme flags or
from the themes of a roster given with --roster.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		abstract, _ := cmd.Flags().GetString("abstract")
		vocabulary, _ := cmd.Flags().GetStringSlice("theme")
		rosterPath, _ := cmd.Flags().GetString("roster")
		showPrompt, _ := cmd.Flags().GetBool("prompt")

		if rosterPath != "" {
			r, err := roster.Load(rosterPath)
			if err != nil {
				return err
			}
			vocabulary = append(vocabulary, r.Vocabulary...)
		}
		if len(vocabulary) == 0 {
			return fmt.Errorf("no themes given; use --theme or --roster")
		}

		out := cmd.OutOrStdout()
		if showPrompt {
			prompt, err := classify.RenderPrompt(title, abstract, vocabulary)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, prompt)
		}

		cfg := pipelineConfig(viper.GetViper(), loadedSecrets)
		c, err := classify.New(cfg.Classify, vocabulary, logger)
		if err != nil {
			return err
		}
		result := c.Classify(cmd.Context(), title, abstract)
		fmt.Fprintf(out, "theme:    %s\n", result.Theme)
		fmt.Fprintf(out, "language: %s\n", result.Language)
		return nil
	},
}

func init() {
	classifyCmd.Flags().String("title", "", "publication title")
	classifyCmd.Flags().String("abstract", "", "publication abstract")
	classifyCmd.Flags().StringSlice("theme", nil, "theme vocabulary entry (repeatable)")
	classifyCmd.Flags().String("roster", "", "roster whose themes form the vocabulary")
	classifyCmd.Flags().Bool("prompt", false, "print the prompt sent to the oracle")
	classifyCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(classifyCmd)
}
