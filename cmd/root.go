// Package cmd defines and implements the CLI commands for the discord-blog executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"discord-blog/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "discord-blog",
		Short: "Mirror a Discord channel into a static HTML blog.",
		Long: `discord-blog copies the messages of one Discord channel into a local
post store and renders them into index.html. build-from-scratch replays the
whole channel once; listen-events keeps the page current as messages arrive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml when present)")

	cmd.AddCommand(newBuildCmd(&cfgFile))
	cmd.AddCommand(newListenCmd(&cfgFile))

	return cmd
}

// withApp builds the application for a subcommand and closes it afterwards.
func withApp(cfgFile *string, run func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(*cfgFile)
		if err != nil {
			return fmt.Errorf("failed to initialize application services: %w", err)
		}
		defer a.Close()
		return run(cmd.Context(), a)
	}
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger, lerr := utils.NewLogger(false)
		if lerr != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		stop()
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}
