package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newBuildCmd creates the 'build-from-scratch' subcommand.
func newBuildCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "build-from-scratch",
		Short: "Clear the post store, replay the channel history and publish once",
		Args:  cobra.NoArgs,
		RunE:  withApp(cfgFile, runBuild),
	}
}

func runBuild(ctx context.Context, a *app) error {
	if err := a.bot.VerifyCredentials(ctx); err != nil {
		return err
	}

	if err := a.pipeline(a.logger).Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild blog: %w", err)
	}

	a.logger.Info("Blog rebuilt", zap.String("page", a.publisher.Path()))
	return nil
}
