// Package database persists channel posts keyed by message id.
package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"discord-blog/models"
)

// Store is a durable mapping from message id to post.
type Store interface {
	io.Closer
	// Upsert inserts the post or replaces the one sharing its id.
	Upsert(ctx context.Context, post models.Post) error
	// UpsertMany upserts posts in order as one write; on error none are applied.
	UpsertMany(ctx context.Context, posts []models.Post) error
	// All returns every stored post in no particular order.
	All(ctx context.Context) ([]models.Post, error)
	// Clear removes every post.
	Clear(ctx context.Context) error
}

// Open returns the store backing path. A .json path gets a JSON document store,
// anything else a SQLite database.
func Open(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return OpenJSON(path)
	}
	return OpenSQLite(path)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
