// Package publisher writes the rendered blog page to disk.
//
// The file is truncated and rewritten in place, not swapped in by rename, so a
// concurrent reader such as the file server can observe a partially written page.
package publisher

import (
	"fmt"
	"os"
)

// DefaultPath is where the page is published, relative to the working directory.
const DefaultPath = "index.html"

// Publisher overwrites a single file with each rendered page.
type Publisher struct {
	path string
}

// New returns a Publisher writing to path, or DefaultPath when path is empty.
func New(path string) *Publisher {
	if path == "" {
		path = DefaultPath
	}
	return &Publisher{path: path}
}

// Path returns the published file location.
func (p *Publisher) Path() string {
	return p.path
}

// Publish replaces the file contents with html and syncs it to stable storage.
func (p *Publisher) Publish(html string) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.path, err)
	}
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", p.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", p.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p.path, err)
	}
	return nil
}
