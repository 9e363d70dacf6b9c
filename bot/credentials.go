package bot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenURL is Discord's OAuth2 token endpoint.
var TokenURL = discordgo.EndpointOAuth2 + "token"

// VerifyCredentials exchanges the application id and secret for a client-credentials
// token. A failure means the pre-issued credentials are wrong or revoked. The token
// itself is discarded.
func VerifyCredentials(ctx context.Context, client *http.Client, tokenURL, appID, secret string) error {
	cc := clientcredentials.Config{
		ClientID:     appID,
		ClientSecret: secret,
		TokenURL:     tokenURL,
		Scopes:       []string{"identify"},
	}
	if client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
	}
	if _, err := cc.Token(ctx); err != nil {
		return fmt.Errorf("verify application %s credentials: %w", appID, err)
	}
	return nil
}

// VerifyCredentials checks the configured application credentials against Discord.
func (b *Bot) VerifyCredentials(ctx context.Context) error {
	return VerifyCredentials(ctx, b.Session.Client, TokenURL, b.cfg.Discord.AppID, b.cfg.Discord.AppSecret)
}
