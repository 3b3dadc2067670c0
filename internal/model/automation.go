package model

import "encoding/json"

// Automation is a scheduled workflow from the automation listing endpoint.
// Dates pass through as the upstream ISO strings; nothing downstream needs
// them parsed.
type Automation struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status,omitempty"`
	CreatedDate  string `json:"createdDate,omitempty"`
	ModifiedDate string `json:"modifiedDate,omitempty"`
	LastRunTime  string `json:"lastRunTime,omitempty"`
	NextRunTime  string `json:"nextRunTime,omitempty"`
	Schedule     any    `json:"schedule,omitempty"`
	CreatedBy    string `json:"createdBy,omitempty"`
}

// Activity is one step of an automation. The upstream schema varies by
// activity type, so the record is kept as raw JSON with only the ID
// extracted for the detail lookup.
type Activity struct {
	ID  string
	Raw json.RawMessage
}

// UnmarshalJSON keeps the raw record and pulls out the ID.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	a.ID = probe.ID
	a.Raw = append(a.Raw[:0], data...)
	return nil
}

// MarshalJSON emits the original upstream record.
func (a Activity) MarshalJSON() ([]byte, error) {
	if len(a.Raw) == 0 {
		return []byte("null"), nil
	}
	return a.Raw, nil
}

// DetailLevel tags how complete an enriched activity is.
type DetailLevel string

const (
	// DetailFull means the secondary detail fetch succeeded and Data is
	// the full activity record.
	DetailFull DetailLevel = "detailed"
	// DetailStub means the detail fetch failed and Data is the original
	// listing record.
	DetailStub DetailLevel = "stub"
	// DetailMissing means the detail fetch failed and no listing record
	// was available to fall back on.
	DetailMissing DetailLevel = "missing"
)

// EnrichedActivity is an activity annotated with how much detail the
// pipeline managed to fetch for it.
type EnrichedActivity struct {
	Detail DetailLevel     `json:"detail"`
	Data   json.RawMessage `json:"data"`
}

// EnrichedAutomation is an automation with its creator resolved to an
// email address and its activities expanded. Degraded is set when any
// activity data had to be substituted or dropped.
type EnrichedAutomation struct {
	Automation
	CreatedByUser string             `json:"createdByUser"`
	Activities    []EnrichedActivity `json:"activities"`
	Degraded      bool               `json:"degraded,omitempty"`
}

// DataExtension is a data extension retrieved over SOAP.
type DataExtension struct {
	ObjectID      string `json:"objectId"`
	CustomerKey   string `json:"customerKey"`
	Name          string `json:"name"`
	IsSendable    bool   `json:"isSendable"`
	SendableField string `json:"sendableSubscriberField,omitempty"`
}

// Subscriber is a subscriber record retrieved over SOAP.
type Subscriber struct {
	ID            string `json:"id"`
	SubscriberKey string `json:"subscriberKey"`
	EmailAddress  string `json:"emailAddress"`
	Status        string `json:"status"`
	CreatedDate   string `json:"createdDate,omitempty"`
}
