package render

import (
	"strings"

	"discord-blog/models"
)

// Placeholder is a literal token replaced during rendering.
type Placeholder string

// The closed set of tokens. Anything else in a template is left untouched.
const (
	ChannelName             Placeholder = "{{channel_name}}"
	ChannelTitle            Placeholder = "{{channel_title}}"
	ChannelMembers          Placeholder = "{{channel_members}}"
	ChannelDate             Placeholder = "{{channel_date}}"
	ChannelDescription      Placeholder = "{{channel_description}}"
	ChannelDescriptionClean Placeholder = "{{channel_description_clean}}"
	ChannelAvatar           Placeholder = "{{channel_avatar}}"
	URL                     Placeholder = "{{url}}"
	PostDate                Placeholder = "{{post_date}}"
	PostText                Placeholder = "{{post_text}}"
	Head                    Placeholder = "{{head}}"
	Header                  Placeholder = "{{header}}"
	Posts                   Placeholder = "{{posts}}"
)

// LineBreak replaces newlines in rendered text.
const LineBreak = "</br>"

// binding ties a placeholder to the value it stands for.
type binding[T any] struct {
	token Placeholder
	value func(T) string
}

// postScope is what a post fragment can see.
type postScope struct {
	view View
	post models.Post
}

// pageScope is what the page shell can see.
type pageScope struct {
	head, header, posts string
}

var headerBindings = []binding[View]{
	{ChannelName, func(v View) string { return v.ChannelName }},
	{ChannelTitle, func(v View) string { return v.Title }},
	{ChannelMembers, func(v View) string { return v.Members }},
	{ChannelDate, func(v View) string { return v.Founded }},
	{ChannelDescription, func(v View) string { return withLineBreaks(v.Description) }},
	{ChannelAvatar, func(v View) string { return v.Avatar }},
}

var headBindings = []binding[View]{
	{URL, func(v View) string { return v.SiteURL }},
	{ChannelName, func(v View) string { return v.ChannelName }},
	{ChannelTitle, func(v View) string { return v.Title }},
	{ChannelDescriptionClean, func(v View) string { return withSpaces(v.Description) }},
	{ChannelAvatar, func(v View) string { return v.Avatar }},
}

// Posts carry the fetched channel title, not the override.
var postBindings = []binding[postScope]{
	{ChannelName, func(s postScope) string { return s.view.ChannelName }},
	{ChannelTitle, func(s postScope) string { return s.view.FetchedTitle }},
	{PostDate, func(s postScope) string { return s.post.Date }},
	{PostText, func(s postScope) string { return withLineBreaks(s.post.Text) }},
}

var pageBindings = []binding[pageScope]{
	{Head, func(s pageScope) string { return s.head }},
	{Header, func(s pageScope) string { return s.header }},
	{Posts, func(s pageScope) string { return s.posts }},
}

// substitute replaces every occurrence of each bound token, in binding order.
func substitute[T any](tmpl string, bindings []binding[T], scope T) string {
	out := tmpl
	for _, b := range bindings {
		out = strings.ReplaceAll(out, string(b.token), b.value(scope))
	}
	return out
}

func withLineBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", LineBreak)
}

func withSpaces(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
