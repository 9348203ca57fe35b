// Package cmd provides the postag command line.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"postag/config"
	"postag/logger"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// options holds flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	sysDic     string
	userDic    string
	splitMode  string
	workers    int
	cacheSize  int

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "postag",
		Short: "Parallel part-of-speech tagging for Japanese text",
		Long: `postag tags batches of text with a morphological analyzer,
fanning the batch out across a worker pool and writing the tokens as
joined strings, tagged lists, or a long-format table.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	f.StringVarP(&opts.sysDic, "sys-dic", "d", "", "System dictionary: ipa, uni, or a dictionary file")
	f.StringVarP(&opts.userDic, "user-dic", "u", "", "User dictionary file")
	f.StringVar(&opts.splitMode, "split-mode", "normal", "Split mode: normal, search, extended")
	f.IntVarP(&opts.workers, "workers", "w", 0, "Worker count (0 = one per CPU)")
	f.IntVar(&opts.cacheSize, "cache-size", 0, "Entries in the token cache (0 disables)")

	root.AddCommand(newTagCommand(opts))
	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCommand().Execute()
}

// load reads the config file and lets explicitly set flags override it.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if flags.Changed("sys-dic") {
		cfg.Analyzer.SysDic = o.sysDic
	}
	if flags.Changed("user-dic") {
		cfg.Analyzer.UserDic = o.userDic
	}
	if flags.Changed("split-mode") {
		cfg.Analyzer.SplitMode = o.splitMode
	}
	if flags.Changed("workers") {
		cfg.Tagger.Workers = o.workers
	}
	if flags.Changed("cache-size") {
		cfg.Tagger.CacheSize = o.cacheSize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = l
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "postag "+Version)
		},
	}
}
