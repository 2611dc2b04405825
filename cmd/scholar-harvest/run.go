// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-harvest/internal/authors"
	"github.com/pdiddy/scholar-harvest/internal/classify"
	"github.com/pdiddy/scholar-harvest/internal/detail"
	"github.com/pdiddy/scholar-harvest/internal/enumerate"
	"github.com/pdiddy/scholar-harvest/internal/export"
	"github.com/pdiddy/scholar-harvest/internal/fetch"
	"github.com/pdiddy/scholar-harvest/internal/pipeline"
	"github.com/pdiddy/scholar-harvest/internal/profile"
	"github.com/pdiddy/scholar-harvest/internal/roster"
	"github.com/pdiddy/scholar-harvest/internal/store"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <roster>",
	Short: "Harvest publications for every researcher in a roster",
	Long: `Run reads a roster (a YAML file or an .xlsx workbook with "researchers" and
"themes" sheets) and processes each researcher in order. Results go to a
four-sheet workbook in the output directory, plus YAML or JSON copies of the
merged tables when configured, and a database record when output.db is set.

If Google Scholar serves a bot challenge while resolving co-authors, the run
stops, writes the articles gathered so far to a checkpoint workbook, and exits
with an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runHarvest,
}

func init() {
	runCmd.Flags().String("output-dir", "", "directory for result files")
	runCmd.Flags().String("prefix", "", "prefix for result file names")
	runCmd.Flags().String("db", "", "SQLite database recording runs")
	runCmd.Flags().StringSlice("format", nil, "result formats: xlsx, yaml, json")
	runCmd.Flags().String("provider", "", "classification oracle: openai or claude")
	runCmd.Flags().String("model", "", "classification model")

	viper.BindPFlag(keyOutputDir, runCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag(keyPrefix, runCmd.Flags().Lookup("prefix"))
	viper.BindPFlag(keyDB, runCmd.Flags().Lookup("db"))
	viper.BindPFlag(keyFormats, runCmd.Flags().Lookup("format"))
	viper.BindPFlag(keyProvider, runCmd.Flags().Lookup("provider"))
	viper.BindPFlag(keyModel, runCmd.Flags().Lookup("model"))

	rootCmd.AddCommand(runCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := pipelineConfig(viper.GetViper(), loadedSecrets)

	r, err := roster.Load(args[0])
	if err != nil {
		return err
	}
	logger.Info("roster loaded", "path", args[0], "researchers", len(r.Identities), "themes", len(r.Vocabulary))

	p, err := newPipeline(cfg, r.Vocabulary, out)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	started := time.Now()
	res, runErr := p.Run(ctx, r.Identities)
	if runErr != nil && !errors.Is(runErr, pipeline.ErrChallenged) {
		return runErr
	}
	res.Summary.Print(out)

	status := store.StatusCompleted
	if runErr != nil {
		status = store.StatusChallenged
	} else if err := writeResults(cfg.Output, runID, res, started, out); err != nil {
		return err
	}

	if cfg.Output.DBPath != "" {
		if err := recordRun(ctx, cfg.Output.DBPath, store.Run{
			ID:         runID,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Status:     status,
			Profiles:   res.Profiles,
			Tables:     res.Tables,
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "run %s recorded in %s\n", runID, cfg.Output.DBPath)
	}
	return runErr
}

// newPipeline wires the live stages for cfg.
func newPipeline(cfg types.PipelineConfig, vocabulary []string, progress io.Writer) (*pipeline.Pipeline, error) {
	classifier, err := classify.New(cfg.Classify, vocabulary, logger)
	if err != nil {
		return nil, err
	}
	if _, ok := classifier.(classify.Disabled); ok {
		logger.Warn("no oracle API key; publications will not be classified")
	}

	f := fetch.NewHTTPFetcher(cfg.Scholar.HTTPConfig)
	return &pipeline.Pipeline{
		Profiles:   profile.New(f, cfg.Scholar, logger),
		Enumerator: enumerate.New(f, cfg.Scholar, logger),
		Details:    detail.New(f, cfg.Scholar, logger),
		Classifier: classifier,
		Authors:    authors.New(f, cfg.Scholar, logger),
		Checkpoint: export.Checkpointer(cfg.Output.Dir, cfg.Output.Prefix),
		Progress:   progress,
		Logger:     logger,
	}, nil
}

// writeResults writes the configured result files of a completed run.
func writeResults(cfg types.OutputConfig, runID string, res *pipeline.Result, at time.Time, w io.Writer) error {
	if wants(cfg, types.OutputXLSX) {
		path := export.ResultsPath(cfg.Dir, cfg.Prefix, at)
		err := export.WriteWorkbook(path, export.Run{
			Profiles: res.Profiles,
			Articles: res.AllArticles,
			Tables:   res.Tables,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", path)
	}

	tf := export.NewTablesFile(runID, res.Tables, at)
	if wants(cfg, types.OutputYAML) {
		path := export.TablesPath(cfg.Dir, cfg.Prefix, at, "yaml")
		if err := export.WriteYAML(path, tf); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", path)
	}
	if wants(cfg, types.OutputJSON) {
		path := export.TablesPath(cfg.Dir, cfg.Prefix, at, "json")
		if err := export.WriteJSON(path, tf); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", path)
	}
	return nil
}

func recordRun(ctx context.Context, dbPath string, run store.Run) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}
