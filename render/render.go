package render

import (
	"sort"
	"strings"

	"discord-blog/models"
)

// View is the resolved input of one render.
type View struct {
	SiteURL      string
	ChannelName  string
	Title        string // effective: override or fetched
	FetchedTitle string
	Description  string // effective: override or fetched
	Members      string
	Founded      string
	Avatar       string
	Posts        []models.Post
}

// NewView resolves the effective title and description and orders posts newest first.
// The posts slice is copied, never modified.
func NewView(cfg models.Config, info models.ChannelInfo, posts []models.Post) View {
	title := info.Title
	if cfg.Website.Title != "" {
		title = cfg.Website.Title
	}
	description := info.About
	if cfg.Website.Description != "" {
		description = cfg.Website.Description
	}

	ordered := make([]models.Post, len(posts))
	copy(ordered, posts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID > ordered[j].ID })

	return View{
		SiteURL:      cfg.Website.URL,
		ChannelName:  cfg.Discord.ChannelID,
		Title:        title,
		FetchedTitle: info.Title,
		Description:  description,
		Members:      info.Members,
		Founded:      info.Date,
		Avatar:       cfg.Blog.AvatarFile,
		Posts:        ordered,
	}
}

// Renderer assembles the page from a fixed set of templates.
type Renderer struct {
	templates Templates
}

// NewRenderer returns a Renderer over t.
func NewRenderer(t Templates) *Renderer {
	return &Renderer{templates: t}
}

// Header renders the header fragment.
func (r *Renderer) Header(v View) string {
	return substitute(r.templates.Header, headerBindings, v)
}

// Head renders the head fragment.
func (r *Renderer) Head(v View) string {
	return substitute(r.templates.Head, headBindings, v)
}

// Posts renders one post fragment per post, in view order, each followed by a newline.
func (r *Renderer) Posts(v View) string {
	var b strings.Builder
	for _, p := range v.Posts {
		b.WriteString(substitute(r.templates.Post, postBindings, postScope{view: v, post: p}))
		b.WriteString("\n")
	}
	return b.String()
}

// Render produces the full page.
func (r *Renderer) Render(v View) string {
	return substitute(r.templates.Page, pageBindings, pageScope{
		head:   r.Head(v),
		header: r.Header(v),
		posts:  r.Posts(v),
	})
}
