package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"strconv"
	"sync"

	"discord-blog/models"
)

// jsonDocument is the on-disk layout of a JSONStore file.
type jsonDocument struct {
	Posts map[string]models.Post `json:"posts"`
}

// JSONStore keeps posts in a single JSON document that is rewritten on every change.
type JSONStore struct {
	path  string
	mutex sync.Mutex
	posts map[int64]models.Post
}

// OpenJSON loads the document at path, starting empty when the file does not exist.
func OpenJSON(path string) (*JSONStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	s := &JSONStore{path: path, posts: make(map[int64]models.Post)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read database file %s: %w", path, err)
	case len(data) == 0:
		return s, nil
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse database file %s: %w", path, err)
	}
	for key, p := range doc.Posts {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid post key %q in %s: %w", key, path, err)
		}
		p.ID = id
		s.posts[id] = p
	}
	return s, nil
}

// Upsert inserts a new post or replaces the existing one with the same id.
func (s *JSONStore) Upsert(_ context.Context, post models.Post) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev, existed := s.posts[post.ID]
	s.posts[post.ID] = post
	if err := s.save(); err != nil {
		if existed {
			s.posts[post.ID] = prev
		} else {
			delete(s.posts, post.ID)
		}
		return fmt.Errorf("failed to upsert post %d: %w", post.ID, err)
	}
	return nil
}

// UpsertMany applies every post and writes the document once.
func (s *JSONStore) UpsertMany(_ context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev := maps.Clone(s.posts)
	for _, post := range posts {
		s.posts[post.ID] = post
	}
	if err := s.save(); err != nil {
		s.posts = prev
		return fmt.Errorf("failed to upsert %d posts: %w", len(posts), err)
	}
	return nil
}

// All returns a copy of every stored post.
func (s *JSONStore) All(_ context.Context) ([]models.Post, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	return posts, nil
}

// Clear deletes every post.
func (s *JSONStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev := s.posts
	s.posts = make(map[int64]models.Post)
	if err := s.save(); err != nil {
		s.posts = prev
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	return nil
}

// Close is a no-op; every change is already on disk.
func (s *JSONStore) Close() error {
	return nil
}

// save writes the whole document and syncs it. Callers hold the mutex.
func (s *JSONStore) save() error {
	doc := jsonDocument{Posts: make(map[string]models.Post, len(s.posts))}
	for id, p := range s.posts {
		doc.Posts[strconv.FormatInt(id, 10)] = p
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal posts: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open database file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write database file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync database file: %w", err)
	}
	return f.Close()
}
