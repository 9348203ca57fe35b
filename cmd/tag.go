package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"postag/export"
	"postag/ingest"
	"postag/logger"
	"postag/model"
	"postag/pos"
)

type tagFlags struct {
	mode       string
	format     string
	output     string
	reportDir  string
	docPerFile bool
}

func newTagCommand(opts *options) *cobra.Command {
	tf := &tagFlags{}
	c := &cobra.Command{
		Use:   "tag [files...]",
		Short: "Tag text units read from files or stdin",
		Long: `Tag every line of the given files (or of stdin) as one text unit.

Modes:
  join     one "surface/pos" string per token, keyed by input text
  simple   surfaces tagged with their part of speech, keyed by input text
  full     surface, pos, subtype and analytic fields, keyed by input text
  tabular  one row per token with doc_id, sentence_id and token_id

Examples:
  postag tag corpus.txt
  postag tag --mode tabular --format csv corpus.txt > tokens.csv
  postag tag --mode tabular --format sqlite --output tokens.db corpus.txt
  echo "猫です。" | postag tag --mode join`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(cmd, opts, tf, args)
		},
	}
	c.Flags().StringVarP(&tf.mode, "mode", "m", "", "Output mode: join, simple, full, tabular")
	c.Flags().StringVarP(&tf.format, "format", "f", "", "Output format: json, csv, tsv, sqlite")
	c.Flags().StringVarP(&tf.output, "output", "o", "", "Output file (default stdout; required for sqlite)")
	c.Flags().StringVar(&tf.reportDir, "report", "", "Directory to write a JSON run report into")
	c.Flags().BoolVar(&tf.docPerFile, "doc-per-file", false, "Treat each input file (or all of stdin) as a single unit")
	return c
}

func runTag(cmd *cobra.Command, opts *options, tf *tagFlags, args []string) error {
	cfg := opts.cfg
	if tf.mode != "" {
		cfg.Output.Mode = tf.mode
	}
	if tf.format != "" {
		cfg.Output.Format = tf.format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode := model.Mode(cfg.Output.Mode)
	if cfg.Output.Format == "sqlite" {
		if mode != model.ModeTabular {
			return fmt.Errorf("sqlite output needs --mode tabular")
		}
		if tf.output == "" {
			return fmt.Errorf("sqlite output needs --output")
		}
	}

	var texts []string
	var err error
	switch {
	case len(args) == 0 && tf.docPerFile:
		texts, err = ingest.ReadAll("stdin", cmd.InOrStdin())
	case len(args) == 0:
		texts, err = ingest.Reader("stdin", cmd.InOrStdin())
	default:
		texts, err = ingest.Files(args, tf.docPerFile)
	}
	if err != nil {
		return err
	}

	tg, err := pos.New(cfg.Analyzer, pos.Options{
		Workers:   cfg.Tagger.Workers,
		CacheSize: cfg.Tagger.CacheSize,
		Logger:    opts.logger,
	})
	if err != nil {
		return err
	}
	defer tg.Close()

	out, rep, err := tg.TagReport(cmd.Context(), texts, mode)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, cfg.Output.Format, tf.output, rep.RunID, out); err != nil {
		return err
	}

	if tf.reportDir != "" {
		path, err := logger.LogJSON(tf.reportDir, rep.RunID+"_report", rep)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		opts.logger.Info("report written", "path", path)
	}
	return nil
}

func writeOutput(cmd *cobra.Command, format, path, runID string, out model.Output) error {
	if format == "sqlite" {
		db, err := export.OpenSQLite(path)
		if err != nil {
			return err
		}
		if err := db.WriteTable(cmd.Context(), runID, out.Table); err != nil {
			db.Close()
			return err
		}
		return db.Close()
	}

	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export.Write(w, format, out)
}
