package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"postag/model"
	"postag/pos"
	"postag/server"
)

func newServeCommand(opts *options) *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tagger over HTTP",
		Long: `Serve the tagger as a JSON API.

  POST /api/tag     {"texts": ["..."], "mode": "simple"}
  GET  /api/health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
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

			h := server.Handler(tg, server.Config{
				AllowedOrigins: cfg.Server.AllowedOrigins,
				MaxTexts:       cfg.Server.MaxTexts,
				DefaultMode:    model.Mode(cfg.Output.Mode),
				Logger:         opts.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx, cfg.Server.Addr, h, opts.logger)
		},
	}
	c.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return c
}
