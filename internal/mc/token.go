package mc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/mcextract/mcextract/internal/model"
)

// Authenticate exchanges client credentials for a bearer token scoped to
// the credentials' subdomain. The account MID is passed as the account_id
// token parameter so the token is issued for the right business unit.
//
// Tokens are not cached or refreshed here; the returned expiry is the
// caller's signal to re-authenticate.
func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (model.Token, error) {
	cfg := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     c.endpoints.TokenURL(creds.Subdomain),
		AuthStyle:    oauth2.AuthStyleInParams,
		EndpointParams: url.Values{
			"account_id": {creds.AccountMID},
		},
	}

	if err := c.wait(ctx); err != nil {
		return model.Token{}, err
	}

	// Route the exchange through the tuned client so token requests get
	// the same timeouts as everything else.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := cfg.Token(ctx)
	if err != nil {
		c.metrics.IncTokenRequest("failure")
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return model.Token{}, &APIError{
				StatusCode: rerr.Response.StatusCode,
				Endpoint:   "v2/token",
				Body:       strings.TrimSpace(string(rerr.Body)),
			}
		}
		return model.Token{}, fmt.Errorf("token exchange: %w", err)
	}

	c.metrics.IncTokenRequest("success")
	c.logger.Info("access token issued",
		"subdomain", creds.Subdomain,
		"client_id", creds.RedactedClientID(),
		"expires_at", tok.Expiry,
	)

	return model.Token{
		AccessToken: tok.AccessToken,
		Subdomain:   creds.Subdomain,
		ExpiresAt:   tok.Expiry,
	}, nil
}
