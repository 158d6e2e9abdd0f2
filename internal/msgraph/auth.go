package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"calput/internal/config"
)

// Scopes required to write personal, shared and group calendars.
var scopes = []string{
	"https://graph.microsoft.com/Calendars.ReadWrite",
	"https://graph.microsoft.com/Calendars.ReadWrite.Shared",
	"https://graph.microsoft.com/Group.ReadWrite.All",
	"https://graph.microsoft.com/offline_access",
}

// OAuthConfig returns the oauth2 config for the configured Azure app.
func OAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    cfg.AzureClientID,
		RedirectURL: "https://login.microsoftonline.com/common/oauth2/nativeclient",
		Scopes:      scopes,
		Endpoint:    microsoft.AzureADEndpoint(cfg.AzureTenantID),
	}
}

// TokenFromWeb is called by the auth flow to exchange the pasted
// authorization code for a token.
func TokenFromWeb(ctx context.Context, conf *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return conf.Exchange(ctx, authCode)
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// AccessToken returns a valid bearer token for the Graph API, refreshing the
// cached token silently when it has expired. A refreshed token is written
// back to the cache file so the next run stays silent too.
func AccessToken(ctx context.Context, cfg *config.Config) (string, error) {
	cached, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return "", fmt.Errorf("could not load token from %s: %w. Please run the 'auth' command first", cfg.TokenFile, err)
	}

	token, err := OAuthConfig(cfg).TokenSource(ctx, cached).Token()
	if err != nil {
		return "", fmt.Errorf("could not refresh access token: %w", err)
	}

	if token.AccessToken != cached.AccessToken {
		if err := SaveToken(cfg.TokenFile, token); err != nil {
			return "", fmt.Errorf("could not save refreshed token: %w", err)
		}
	}
	return token.AccessToken, nil
}
