package utils

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// Auth decides who may use the admin slash command.
type Auth struct {
	admins []string
}

// NewAuth creates an Auth allowing the given user ids.
func NewAuth(adminUserIDs []string) *Auth {
	return &Auth{admins: adminUserIDs}
}

// Enabled reports whether anyone is allowed at all.
func (a *Auth) Enabled() bool {
	return len(a.admins) > 0
}

// IsAdmin checks if a user id is on the admin list.
func (a *Auth) IsAdmin(userID string) bool {
	return userID != "" && slices.Contains(a.admins, userID)
}

// CheckPermission checks the user behind an interaction, in a guild or a DM.
func (a *Auth) CheckPermission(i *discordgo.InteractionCreate) bool {
	return a.IsAdmin(InteractionUserID(i))
}

// InteractionUserID returns the id of the user who triggered the interaction.
func InteractionUserID(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}
