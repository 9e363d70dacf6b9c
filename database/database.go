package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"discord-blog/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore keeps posts in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at dbPath and migrates
// it to the latest schema.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	// The file is created on first use.
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; sqlite serialises anyway.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// migrateUp applies the embedded migrations. The migrate instance is not closed
// since that would close db.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{
		MigrationsTable: "migrations",
	})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Upsert inserts a new post or replaces the existing one with the same id.
func (s *SQLiteStore) Upsert(ctx context.Context, post models.Post) error {
	query := `INSERT OR REPLACE INTO posts (id, date, text) VALUES (?, ?, ?);`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for upserting post: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, post.ID, post.Date, post.Text); err != nil {
		return fmt.Errorf("failed to execute statement for upserting post %d: %w", post.ID, err)
	}
	return nil
}

// UpsertMany upserts posts inside one transaction.
func (s *SQLiteStore) UpsertMany(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO posts (id, date, text) VALUES (?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for upserting posts: %w", err)
	}
	defer stmt.Close()

	for _, post := range posts {
		if _, err := stmt.ExecContext(ctx, post.ID, post.Date, post.Text); err != nil {
			return fmt.Errorf("failed to execute statement for upserting post %d: %w", post.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %d posts: %w", len(posts), err)
	}
	return nil
}

// All returns every post in the table.
func (s *SQLiteStore) All(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, date, text FROM posts")
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Date, &p.Text); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}
	return posts, nil
}

// Clear deletes every post.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
