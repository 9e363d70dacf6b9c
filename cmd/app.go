package cmd

import (
	"fmt"

	"discord-blog/blog"
	"discord-blog/bot"
	"discord-blog/config"
	"discord-blog/database"
	"discord-blog/models"
	"discord-blog/publisher"
	"discord-blog/render"
	"discord-blog/utils"

	"go.uber.org/zap"
)

// app holds the services shared by both subcommands.
type app struct {
	cfg       models.Config
	logger    *zap.Logger
	store     database.Store
	renderer  *render.Renderer
	publisher *publisher.Publisher
	bot       *bot.Bot
}

func newApp(cfgFile string) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := utils.NewLogger(cfg.Logging.Development)
	if err != nil {
		return nil, err
	}

	templates, err := render.LoadTemplates(cfg.Blog.TemplatesPath)
	if err != nil {
		return nil, err
	}

	b, err := bot.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := database.Open(cfg.Blog.DBFile)
	if err != nil {
		return nil, fmt.Errorf("open post store: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		renderer:  render.NewRenderer(templates),
		publisher: publisher.New(publisher.DefaultPath),
		bot:       b,
	}, nil
}

// pipeline builds the ingestion pipeline logging through logger.
func (a *app) pipeline(logger *zap.Logger) *blog.Pipeline {
	return blog.New(a.cfg, a.bot.Source(), a.store, a.renderer, a.publisher, logger)
}

// Close releases the store and flushes the logger.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close post store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
