// Command localec compiles locale fragments into the locale cache served by
// the server and tells the running server to reload it.
//
//	localec compile --pidfile data/server.pid
//	localec watch --pidfile data/server.pid
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/polyglot/pkg/localebuild"
	"github.com/dmitrymomot/polyglot/pkg/logger"
	"github.com/dmitrymomot/polyglot/pkg/storage"
)

type config struct {
	Build   localebuild.Config
	Log     logger.Config
	Storage storage.Config
}

type flags struct {
	pid     int
	pidFile string
	dryRun  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:          "localec",
		Short:        "Compile locale fragments into the locale cache",
		SilenceUsage: true,
	}
	root.PersistentFlags().IntVar(&f.pid, "pid", 0, "send SIGHUP to this process after a successful run")
	root.PersistentFlags().StringVar(&f.pidFile, "pidfile", "", "read the server pid from this file after a successful run")

	compile := &cobra.Command{
		Use:   "compile [patterns...]",
		Short: "Compile once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			compiler, log, err := setup(f)
			if err != nil {
				return err
			}
			if f.dryRun {
				sources, err := localebuild.Expand(sourcesOf(compiler, args)...)
				if err != nil {
					return err
				}
				for _, s := range sources {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			}
			if _, err := compiler.Run(cmd.Context(), args...); err != nil {
				log.Error("compile failed", slog.Any("error", err))
				return err
			}
			return nil
		},
	}
	compile.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the matched fragments without compiling")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Recompile whenever a fragment changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			compiler, log, err := setup(f)
			if err != nil {
				return err
			}
			w := localebuild.NewWatcher(compiler,
				localebuild.WithInitialRun(),
				localebuild.WithWatchLogger(log),
			)
			err = w.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	root.AddCommand(compile, watch)
	return root
}

func setup(f flags) (*localebuild.Compiler, *slog.Logger, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return nil, nil, fmt.Errorf("parse env: %w", err)
	}
	log := logger.NewWithConfig(cfg.Log)

	opts := []localebuild.Option{
		localebuild.WithLogger(log),
		localebuild.WithRestarter(newRestarter(f.pid, f.pidFile)),
	}

	if cfg.Storage.Enabled() {
		s3, err := storage.New(cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts,
			localebuild.WithPublisher(localebuild.NewStoragePublisher(s3)),
			localebuild.WithManifestWriter(localebuild.MultiManifestWriter{
				localebuild.NewFileManifestStore(cfg.Build.ManifestDir),
				localebuild.NewObjectManifestStore(s3, storage.ErrNotFound),
			}),
		)
	}

	return localebuild.New(cfg.Build, opts...), log, nil
}

// newRestarter prefers an explicit pid over a pid file. Without either the
// compiler does not signal anything.
func newRestarter(pid int, pidFile string) localebuild.Restarter {
	switch {
	case pid > 0:
		return localebuild.SignalRestarter{PID: pid}
	case pidFile != "":
		return localebuild.PIDFileRestarter(pidFile)
	}
	return nil
}

func sourcesOf(c *localebuild.Compiler, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return c.Config().Sources
}
