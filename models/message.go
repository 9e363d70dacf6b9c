package models

import "time"

// PostDateLayout is the display format of a post date.
const PostDateLayout = "Jan 02, 15:04"

// FoundingYearLayout is the display format of the channel creation date.
const FoundingYearLayout = "2006"

// ChannelMessage is a message as delivered by the channel source.
type ChannelMessage struct {
	ID   int64     `json:"id"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// HasText reports whether the message carries a body worth storing.
func (m ChannelMessage) HasText() bool {
	return m.Text != ""
}

// Post converts the message into its stored form.
func (m ChannelMessage) Post() Post {
	return Post{
		ID:   m.ID,
		Date: m.Date.UTC().Format(PostDateLayout),
		Text: m.Text,
	}
}

// EventKind tells the pipeline what to do with an event.
type EventKind int

const (
	// EventMessage carries a new or edited message.
	EventMessage EventKind = iota
	// EventRefresh re-renders without touching the store.
	EventRefresh
	// EventRebuild clears the store and replays the whole history.
	EventRebuild
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventRefresh:
		return "refresh"
	case EventRebuild:
		return "rebuild"
	default:
		return "unknown"
	}
}

// ChannelEvent is the unit of work delivered to the ingestion pipeline.
type ChannelEvent struct {
	Kind    EventKind
	Message ChannelMessage
}
