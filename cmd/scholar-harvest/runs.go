// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-harvest/internal/export"
	"github.com/pdiddy/scholar-harvest/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs recorded in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.Runs(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "no runs recorded")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "%s  %s  %-10s  profiles: %d, articles: %d, authors: %d\n",
				r.ID, r.StartedAt.Local().Format(time.DateTime), r.Status, r.Profiles, r.Articles, r.Authors)
		}
		return nil
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id> <path>",
	Short: "Write a recorded run's merged tables to a YAML or JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		tables, err := s.Tables(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tf := export.NewTablesFile(args[0], tables, time.Now())
		path := args[1]
		if strings.HasSuffix(strings.ToLower(path), ".json") {
			err = export.WriteJSON(path, tf)
		} else {
			err = export.WriteYAML(path, tf)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d articles, %d authors to %s\n", len(tables.Articles), len(tables.Authors), path)
		return nil
	},
}

func init() {
	runsCmd.PersistentFlags().String("db", "", "SQLite database recording runs (default: output.db)")
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}

// openStore opens the database named by --db or output.db.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = viper.GetString(keyDB)
	}
	if path == "" {
		return nil, fmt.Errorf("no database configured; set output.db or pass --db")
	}
	return store.Open(path)
}
