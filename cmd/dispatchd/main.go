// File: cmd/dispatchd/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Interactive strlen() dispatch service.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/momentics/hioload-dispatch/control"
	"github.com/momentics/hioload-dispatch/dispatch"
	"github.com/momentics/hioload-dispatch/internal/console"
	"github.com/momentics/hioload-dispatch/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "dispatchd",
	Short:         "Interactive job dispatch over lock-free SPSC rings.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := control.LoadConfig(configPath)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := control.LoadConfig(configPath)
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (env DISPATCH_* overrides)")
	rootCmd.AddCommand(configCmd)
}

func run(ctx context.Context, cfg *control.Config, in io.Reader, out, errOut io.Writer) error {
	log, err := logging.Setup(cfg.Log, errOut)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics := control.NewMetrics()
	probes := control.NewProbes()
	d, w := dispatch.New(cfg, dispatch.Length, metrics, log)
	d.RegisterProbes(probes)
	w.RegisterProbes(probes)

	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("worker stopped", "error", err)
		}
	}()

	if cfg.Debug.Addr != "" {
		go func() {
			if err := control.ServeDebug(ctx, cfg.Debug.Addr, control.NewDebugRouter(metrics, probes), log); err != nil {
				log.Error("debug server failed", "error", err)
			}
		}()
	}

	dog := console.NewWatchdog(cfg.Session.IdleTimeout, func() {
		log.Error("session idle timeout", "timeout", cfg.Session.IdleTimeout)
		os.Exit(1)
	})
	defer dog.Stop()

	return console.NewSession(d, in, out, dog, log).Run()
}

// SIGINT keeps its default behaviour: the session blocks on stdin and
// cannot observe a cancelled context.
func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
