package mc

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mcextract/mcextract/internal/model"
)

// RetrieveRequest describes one SOAP object retrieval: the object type,
// the properties to project, and whether to span every business unit in
// the account hierarchy.
type RetrieveRequest struct {
	ObjectType       string
	Properties       []string
	QueryAllAccounts bool
}

// soapEnvelopeTmpl is the fixed Retrieve envelope. The three slots are the
// SOAP endpoint URL, the bearer token, and the request body fragment.
const soapEnvelopeTmpl = `<?xml version="1.0" encoding="UTF-8"?>
<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope" xmlns:a="http://schemas.xmlsoap.org/ws/2004/08/addressing" xmlns:u="http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd">
  <s:Header>
    <a:Action s:mustUnderstand="1">Retrieve</a:Action>
    <a:To s:mustUnderstand="1">%s</a:To>
    <fueloauth xmlns="http://exacttarget.com">%s</fueloauth>
  </s:Header>
  <s:Body xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema">
    <RetrieveRequestMsg xmlns="http://exacttarget.com/wsdl/partnerAPI">
      <RetrieveRequest>
        <ObjectType>%s</ObjectType>
%s      </RetrieveRequest>
    </RetrieveRequestMsg>
  </s:Body>
</s:Envelope>`

// buildEnvelope renders the Retrieve envelope for a request. All
// interpolated values are XML-escaped.
func buildEnvelope(soapURL, accessToken string, req RetrieveRequest) string {
	var body strings.Builder
	for _, p := range req.Properties {
		body.WriteString("        <Properties>")
		body.WriteString(xmlEscape(p))
		body.WriteString("</Properties>\n")
	}
	if req.QueryAllAccounts {
		body.WriteString("        <QueryAllAccounts>true</QueryAllAccounts>\n")
	}
	return fmt.Sprintf(soapEnvelopeTmpl,
		xmlEscape(soapURL),
		xmlEscape(accessToken),
		xmlEscape(req.ObjectType),
		body.String(),
	)
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on writer errors; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// retrieveEnvelope is the response wrapper. Namespace prefixes are ignored
// by matching local element names only. Results decodes to a slice in all
// cases, so a single-result response is indistinguishable from a
// one-element list: the single-vs-array ambiguity is resolved at the parse
// boundary.
type retrieveEnvelope[T any] struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Response struct {
			OverallStatus string `xml:"OverallStatus"`
			RequestID     string `xml:"RequestID"`
			Results       []T    `xml:"Results"`
		} `xml:"RetrieveResponseMsg"`
	} `xml:"Body"`
}

// Retrieve posts a SOAP Retrieve for the given object type and decodes the
// Results list into T values. The returned slice is never nil on success.
func Retrieve[T any](ctx context.Context, c *Client, token model.Token, req RetrieveRequest) ([]T, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	soapURL := c.endpoints.SOAPURL(token.Subdomain)
	envelope := buildEnvelope(soapURL, token.AccessToken, req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, soapURL, strings.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("create soap request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml")
	httpReq.Header.Set("SOAPAction", "Retrieve")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.IncSOAPRequest("error")
		return nil, fmt.Errorf("retrieve %s: %w", req.ObjectType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncSOAPRequest("error")
		return nil, newAPIError("soap retrieve "+req.ObjectType, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncSOAPRequest("error")
		return nil, fmt.Errorf("read soap response: %w", err)
	}

	var env retrieveEnvelope[T]
	if err := xml.Unmarshal(raw, &env); err != nil {
		c.metrics.IncSOAPRequest("error")
		return nil, fmt.Errorf("parse soap response for %s: %w", req.ObjectType, err)
	}

	status := env.Body.Response.OverallStatus
	switch {
	case status == "OK":
	case status == "MoreDataAvailable":
		// Continue-request paging is not implemented; the first batch is
		// returned and the truncation is logged.
		c.logger.Warn("soap retrieve truncated",
			"object_type", req.ObjectType,
			"request_id", env.Body.Response.RequestID,
		)
	default:
		c.metrics.IncSOAPRequest("error")
		return nil, fmt.Errorf("%w: %s status %q", ErrRetrieveFault, req.ObjectType, status)
	}

	c.metrics.IncSOAPRequest("success")
	results := env.Body.Response.Results
	if results == nil {
		results = []T{}
	}
	return results, nil
}
