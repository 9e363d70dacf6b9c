package models

// Post is one stored, render-ready channel message.
type Post struct {
	ID   int64  `json:"id" db:"id"` // Unique
	Date string `json:"date" db:"date"`
	Text string `json:"text" db:"text"`
}

// ChannelInfo is the metadata snapshot fetched before every render. It is never persisted.
type ChannelInfo struct {
	Title      string `json:"title"`
	About      string `json:"about"`
	Members    string `json:"members"`
	Date       string `json:"date"` // founding year
	AvatarPath string `json:"avatar_path"`
}
