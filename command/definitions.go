// Package command holds the slash command definitions the bot registers.
package command

import "github.com/bwmarrin/discordgo"

// Name is the top-level command name.
const Name = "blog"

// Subcommand names of /blog.
const (
	Rebuild = "rebuild"
	Refresh = "refresh"
)

// BlogCommand defines the structure for the /blog command.
type BlogCommand struct{}

// Definition returns the application command definition.
func (c *BlogCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        Name,
		Description: "Maintain the mirrored blog",
		Options: []*discordgo.ApplicationCommandOption{
			subcommand(Rebuild, "Clear the post store and replay the whole channel history"),
			subcommand(Refresh, "Re-render the page with fresh channel metadata"),
		},
	}
}

func subcommand(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        name,
		Description: description,
		Type:        discordgo.ApplicationCommandOptionSubCommand,
	}
}

// Definitions returns what the bot registers on startup.
func Definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		(&BlogCommand{}).Definition(),
	}
}
