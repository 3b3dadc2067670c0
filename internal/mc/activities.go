package mc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcextract/mcextract/internal/model"
)

// AutomationsPath is the REST listing endpoint for automations.
const AutomationsPath = "automation/v1/automations"

// AutomationFields is the field projection requested from the automation
// listing.
var AutomationFields = []string{
	"id",
	"name",
	"description",
	"status",
	"createdDate",
	"modifiedDate",
	"lastRunTime",
	"nextRunTime",
	"schedule",
	"createdBy",
}

// FetchAutomations paginates the full automation listing, most recently
// modified first.
func (c *Client) FetchAutomations(ctx context.Context, token model.Token, pageSize int) ([]model.Automation, error) {
	return FetchAllPages[model.Automation](ctx, c, token, AutomationsPath, PageQuery{
		PageSize: pageSize,
		OrderBy:  "ModifiedDate DESC",
		Fields:   AutomationFields,
	})
}

// FetchActivities fetches the activity list for one automation. A response
// without items yields an empty, non-nil slice.
func (c *Client) FetchActivities(ctx context.Context, token model.Token, automationID string) ([]model.Activity, error) {
	var resp struct {
		Items []model.Activity `json:"items"`
	}
	path := fmt.Sprintf("%s/%s/activities", AutomationsPath, automationID)
	if err := c.get(ctx, token, path, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return []model.Activity{}, nil
	}
	return resp.Items, nil
}

// FetchActivityDetail fetches the full record for one activity.
func (c *Client) FetchActivityDetail(ctx context.Context, token model.Token, activityID string) (json.RawMessage, error) {
	var raw json.RawMessage
	path := "automation/v1/activities/" + activityID
	if err := c.get(ctx, token, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
