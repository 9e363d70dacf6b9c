// Package blog is the ingestion pipeline: it moves channel messages into the store
// and republishes the page after every change.
package blog

import (
	"context"
	"fmt"
	"time"

	"discord-blog/database"
	"discord-blog/metrics"
	"discord-blog/models"
	"discord-blog/render"

	"go.uber.org/zap"
)

// Source is the external channel the blog mirrors.
type Source interface {
	// History returns every message of the channel.
	History(ctx context.Context) ([]models.ChannelMessage, error)
	// ChannelInfo fetches the current metadata and refreshes the avatar file.
	ChannelInfo(ctx context.Context) (models.ChannelInfo, error)
}

// Publisher writes the rendered page.
type Publisher interface {
	Publish(html string) error
}

// Pipeline owns the store-then-render sequence for both operating modes.
type Pipeline struct {
	cfg       models.Config
	source    Source
	store     database.Store
	renderer  *render.Renderer
	publisher Publisher
	logger    *zap.Logger
}

// New wires a Pipeline.
func New(cfg models.Config, source Source, store database.Store, renderer *render.Renderer, publisher Publisher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		source:    source,
		store:     store,
		renderer:  renderer,
		publisher: publisher,
		logger:    logger.Named("blog"),
	}
}

// Rebuild clears the store, replays the whole channel history and publishes once.
func (p *Pipeline) Rebuild(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}

	messages, err := p.source.History(ctx)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	posts := make([]models.Post, 0, len(messages))
	for _, m := range messages {
		if !m.HasText() {
			p.skip(m)
			continue
		}
		posts = append(posts, m.Post())
	}
	if err := p.store.UpsertMany(ctx, posts); err != nil {
		return fmt.Errorf("store history: %w", err)
	}
	metrics.ObserveIngestCount("stored", len(posts))
	p.logger.Info("History replayed",
		zap.Int("messages", len(messages)),
		zap.Int("stored", len(posts)))

	return p.publish(ctx, models.EventRebuild.String())
}

// Ingest stores one message and republishes. A message without text changes nothing.
func (p *Pipeline) Ingest(ctx context.Context, m models.ChannelMessage) error {
	ok, err := p.save(ctx, m)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return p.publish(ctx, models.EventMessage.String())
}

// Refresh republishes from the current store with fresh channel metadata.
func (p *Pipeline) Refresh(ctx context.Context) error {
	return p.publish(ctx, models.EventRefresh.String())
}

// Handle processes one event to completion.
func (p *Pipeline) Handle(ctx context.Context, ev models.ChannelEvent) error {
	switch ev.Kind {
	case models.EventMessage:
		return p.Ingest(ctx, ev.Message)
	case models.EventRefresh:
		return p.Refresh(ctx)
	case models.EventRebuild:
		return p.Rebuild(ctx)
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}

// Run handles events one at a time until the channel closes or ctx is done. The
// first failure stops the loop and is returned.
func (p *Pipeline) Run(ctx context.Context, events <-chan models.ChannelEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := p.Handle(ctx, ev); err != nil {
				return fmt.Errorf("handle %s event: %w", ev.Kind, err)
			}
		}
	}
}

// save upserts m when it has text and reports whether it did.
func (p *Pipeline) save(ctx context.Context, m models.ChannelMessage) (bool, error) {
	if !m.HasText() {
		p.skip(m)
		return false, nil
	}
	if err := p.store.Upsert(ctx, m.Post()); err != nil {
		return false, fmt.Errorf("store message %d: %w", m.ID, err)
	}
	metrics.ObserveIngest("stored")
	return true, nil
}

func (p *Pipeline) skip(m models.ChannelMessage) {
	p.logger.Debug("Skipping message without text", zap.Int64("id", m.ID))
	metrics.ObserveIngest("skipped")
}

func (p *Pipeline) publish(ctx context.Context, trigger string) error {
	start := time.Now()

	info, err := p.source.ChannelInfo(ctx)
	if err != nil {
		return fmt.Errorf("fetch channel info: %w", err)
	}

	posts, err := p.store.All(ctx)
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}

	html := p.renderer.Render(render.NewView(p.cfg, info, posts))
	if err := p.publisher.Publish(html); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	elapsed := time.Since(start)
	metrics.ObserveRender(trigger, elapsed)
	p.logger.Info("Blog published",
		zap.String("trigger", trigger),
		zap.Int("posts", len(posts)),
		zap.Duration("elapsed", elapsed))
	return nil
}
