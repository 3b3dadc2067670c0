package mc

import (
	"context"
	"fmt"

	"github.com/mcextract/mcextract/internal/model"
)

// accountUserProperties is the projection requested from the AccountUser
// object.
var accountUserProperties = []string{
	"ID",
	"Email",
	"ActiveFlag",
	"CreatedDate",
	"IsAPIUser",
	"LastSuccessfulLogin",
}

// accountUserResult mirrors the AccountUser Results element.
type accountUserResult struct {
	ID                  string   `xml:"ID"`
	Email               string   `xml:"Email"`
	ActiveFlag          bool     `xml:"ActiveFlag"`
	CreatedDate         string   `xml:"CreatedDate"`
	IsAPIUser           bool     `xml:"IsAPIUser"`
	LastSuccessfulLogin string   `xml:"LastSuccessfulLogin"`
	BusinessUnitIDs     []string `xml:"AssociatedBusinessUnits>BusinessUnit>ID"`
}

func (r accountUserResult) toUser() model.User {
	return model.User{
		ID:            r.ID,
		Email:         r.Email,
		ActiveFlag:    r.ActiveFlag,
		CreatedDate:   r.CreatedDate,
		IsAPIUser:     r.IsAPIUser,
		LastLogin:     r.LastSuccessfulLogin,
		BusinessUnits: r.BusinessUnitIDs,
	}
}

// FetchUsers retrieves every account user across all business units.
func (c *Client) FetchUsers(ctx context.Context, token model.Token) ([]model.User, error) {
	results, err := Retrieve[accountUserResult](ctx, c, token, RetrieveRequest{
		ObjectType:       "AccountUser",
		Properties:       accountUserProperties,
		QueryAllAccounts: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch account users: %w", err)
	}

	users := make([]model.User, 0, len(results))
	for _, r := range results {
		users = append(users, r.toUser())
	}
	return users, nil
}

// FetchUserDirectory retrieves the account users and indexes them by ID
// for creator lookups during enrichment.
func (c *Client) FetchUserDirectory(ctx context.Context, token model.Token) (model.UserDirectory, error) {
	users, err := c.FetchUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	return model.NewUserDirectory(users), nil
}
