// Package render turns the stored posts and channel metadata into the blog page by
// literal placeholder substitution over four template fragments.
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Template file names inside the templates directory.
const (
	HeadFile   = "template_head"
	HeaderFile = "template_header"
	PostFile   = "template_post"
	PageFile   = "template_html"
)

// ErrTemplateMissing is returned when a template fragment cannot be found.
var ErrTemplateMissing = errors.New("template missing")

// Templates holds the raw fragments.
type Templates struct {
	Head   string
	Header string
	Post   string
	Page   string
}

// LoadTemplates reads the four fragments from dir.
func LoadTemplates(dir string) (Templates, error) {
	var t Templates
	files := []struct {
		name string
		dst  *string
	}{
		{HeadFile, &t.Head},
		{HeaderFile, &t.Header},
		{PostFile, &t.Post},
		{PageFile, &t.Page},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Templates{}, fmt.Errorf("%w: %s", ErrTemplateMissing, path)
			}
			return Templates{}, fmt.Errorf("read template %s: %w", path, err)
		}
		*f.dst = string(data)
	}
	return t, nil
}
