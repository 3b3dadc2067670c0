package mc

import (
	"context"
	"fmt"

	"github.com/mcextract/mcextract/internal/model"
)

// dataExtensionResult mirrors the DataExtension Results element.
type dataExtensionResult struct {
	ObjectID          string `xml:"ObjectID"`
	CustomerKey       string `xml:"CustomerKey"`
	Name              string `xml:"Name"`
	IsSendable        bool   `xml:"IsSendable"`
	SendableFieldName string `xml:"SendableSubscriberField>Name"`
}

// FetchDataExtensions retrieves all data extensions over SOAP.
func (c *Client) FetchDataExtensions(ctx context.Context, token model.Token) ([]model.DataExtension, error) {
	results, err := Retrieve[dataExtensionResult](ctx, c, token, RetrieveRequest{
		ObjectType: "DataExtension",
		Properties: []string{
			"ObjectID",
			"CustomerKey",
			"Name",
			"IsSendable",
			"SendableSubscriberField.Name",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch data extensions: %w", err)
	}

	out := make([]model.DataExtension, 0, len(results))
	for _, r := range results {
		out = append(out, model.DataExtension{
			ObjectID:      r.ObjectID,
			CustomerKey:   r.CustomerKey,
			Name:          r.Name,
			IsSendable:    r.IsSendable,
			SendableField: r.SendableFieldName,
		})
	}
	return out, nil
}

// subscriberResult mirrors the Subscriber Results element.
type subscriberResult struct {
	ID            string `xml:"ID"`
	SubscriberKey string `xml:"SubscriberKey"`
	EmailAddress  string `xml:"EmailAddress"`
	Status        string `xml:"Status"`
	CreatedDate   string `xml:"CreatedDate"`
}

// FetchSubscribers retrieves all subscribers over SOAP.
func (c *Client) FetchSubscribers(ctx context.Context, token model.Token) ([]model.Subscriber, error) {
	results, err := Retrieve[subscriberResult](ctx, c, token, RetrieveRequest{
		ObjectType: "Subscriber",
		Properties: []string{
			"ID",
			"SubscriberKey",
			"EmailAddress",
			"Status",
			"CreatedDate",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch subscribers: %w", err)
	}

	out := make([]model.Subscriber, 0, len(results))
	for _, r := range results {
		out = append(out, model.Subscriber{
			ID:            r.ID,
			SubscriberKey: r.SubscriberKey,
			EmailAddress:  r.EmailAddress,
			Status:        r.Status,
			CreatedDate:   r.CreatedDate,
		})
	}
	return out, nil
}
