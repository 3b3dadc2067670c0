package mc

import (
	"context"
	"encoding/json"

	"github.com/mcextract/mcextract/internal/model"
)

// FetchCollection issues a single GET against a REST path and returns the
// upstream JSON body as-is. Used for the object types that are plain
// pass-throughs to the browser tables.
func (c *Client) FetchCollection(ctx context.Context, token model.Token, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, token, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
