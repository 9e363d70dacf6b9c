package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"discord-blog/bot"
	"discord-blog/handlers"
	"discord-blog/metrics"
	"discord-blog/models"
	"discord-blog/server"
	"discord-blog/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// eventQueueSize bounds the events waiting for the pipeline.
const eventQueueSize = 64

// newListenCmd creates the 'listen-events' subcommand.
func newListenCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "listen-events",
		Short: "Follow the channel and re-publish the blog on every new or edited message",
		Args:  cobra.NoArgs,
		RunE:  withApp(cfgFile, runListen),
	}
}

func runListen(ctx context.Context, a *app) error {
	if err := a.bot.VerifyCredentials(ctx); err != nil {
		return err
	}

	logger := utils.NewAdminReporter(a.bot.Session, a.cfg.Bot.AdminChannelID).Attach(a.logger)
	events := make(chan models.ChannelEvent, eventQueueSize)
	auth := utils.NewAuth(a.cfg.Bot.AdminUserIDs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handlers.Register(ctx, a.bot, events, auth, logger)
	if err := a.bot.Open(); err != nil {
		return err
	}
	defer a.bot.Close()
	handlers.RegisterCommands(a.bot, auth)

	scheduler, err := bot.StartScheduler(a.cfg.Bot.RefreshSchedule, events, logger)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	if a.cfg.Server.ExposeHTTP() {
		srv := server.New(a.cfg.Server.Port, a.publisher.Path(), a.cfg.Blog.AvatarFile, logger)
		if err := srv.Start(); err != nil {
			return err
		}
		defer shutdown(logger, "http server", srv.Shutdown)
	}

	if a.cfg.Metrics.Addr != "" {
		stopMetrics := serveMetrics(a.cfg.Metrics.Addr, logger)
		defer shutdown(logger, "metrics server", stopMetrics)
	}

	logger.Info("Listening for channel events", zap.String("channel", a.cfg.Discord.ChannelID))
	if err := a.pipeline(logger).Run(ctx, events); err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	logger.Info("Shutdown initiated")
	return nil
}

func serveMetrics(addr string, logger *zap.Logger) func(context.Context) error {
	metrics.Init()
	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
	return srv.Shutdown
}

func shutdown(logger *zap.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Error("shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
