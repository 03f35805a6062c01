package commands

import (
	"agrafa/internal/components/telemetry"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
)

// state shared by every subcommand, populated in PersistentPreRunE
var (
	cfg     Config
	tracing telemetry.Tracing
	tel     telemetry.API = telemetry.SlogAPI{}
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "", "Path to the config file, defaults to the nearest agrafa.json5 up from the cwd.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information, including every request.")
}

var rootCmd = &cobra.Command{
	Use:           "agrafa",
	Short:         "agrafa harvests crop statistics from the AFA crop report site into delimited text.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)

		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		tracing, err = telemetry.SetupTracing(cmd.Context(), "agrafa", cfg.Otlp)
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}
		return nil
	},
}

// ExecuteContext runs the root command. Tracing is shut down after the command
// returns, whether or not it failed, so that spans recording the failure are
// flushed.
func ExecuteContext(ctx context.Context) {
	err := execute(ctx)
	if err != nil {
		fatal("agrafa failed", err)
	}
}

func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	shutdownTracing()
	return err
}

func shutdownTracing() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err := tracing.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to shutdown tracing", "err", err)
	}
}

// SignalContext returns a context that will live until Ctrl+C is pressed.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}
