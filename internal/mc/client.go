// Package mc is the Salesforce Marketing Cloud API client. It covers the
// three upstream surfaces the extractor touches: the OAuth token endpoint,
// the REST collection endpoints, and the legacy SOAP object-retrieval
// endpoint.
package mc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcextract/mcextract/internal/metrics"
	"github.com/mcextract/mcextract/internal/model"
)

const (
	// DefaultTimeout is the total per-request timeout.
	DefaultTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second

	// maxErrorBody caps how much of an upstream error body is captured
	// into an APIError.
	maxErrorBody = 4096
)

// subdomainSlot is the placeholder replaced with the tenant subdomain in
// endpoint templates.
const subdomainSlot = "{subdomain}"

// Endpoints holds the upstream base-URL templates. Each template carries a
// {subdomain} slot; tests and sandbox stacks substitute their own hosts.
type Endpoints struct {
	AuthBase string
	RESTBase string
	SOAPBase string
}

// DefaultEndpoints returns the production Marketing Cloud hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		AuthBase: "https://{subdomain}.auth.marketingcloudapis.com",
		RESTBase: "https://{subdomain}.rest.marketingcloudapis.com",
		SOAPBase: "https://{subdomain}.soap.marketingcloudapis.com",
	}
}

// TokenURL resolves the OAuth token endpoint for a subdomain.
func (e Endpoints) TokenURL(subdomain string) string {
	return strings.ReplaceAll(e.AuthBase, subdomainSlot, subdomain) + "/v2/token"
}

// RESTURL resolves a REST path for a subdomain.
func (e Endpoints) RESTURL(subdomain, path string) string {
	return strings.ReplaceAll(e.RESTBase, subdomainSlot, subdomain) + "/" + strings.TrimPrefix(path, "/")
}

// SOAPURL resolves the SOAP service endpoint for a subdomain.
func (e Endpoints) SOAPURL(subdomain string) string {
	return strings.ReplaceAll(e.SOAPBase, subdomainSlot, subdomain) + "/Service.asmx"
}

// Options configures a Client.
type Options struct {
	Endpoints Endpoints
	Timeout   time.Duration
	// RateLimit caps outbound requests per second across all concurrent
	// work; Burst is the limiter bucket size. Zero disables limiting.
	RateLimit float64
	Burst     int
	Logger    *slog.Logger
	Metrics   metrics.Recorder
}

// Client talks to Marketing Cloud. One Client is shared by all requests;
// it is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if (opts.Endpoints == Endpoints{}) {
		opts.Endpoints = DefaultEndpoints()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoop()
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Client{
		httpClient: newHTTPClient(opts.Timeout),
		endpoints:  opts.Endpoints,
		limiter:    limiter,
		logger:     opts.Logger.With("component", "mc.client"),
		metrics:    opts.Metrics,
	}
}

// newHTTPClient builds an HTTP client with timeouts suited to upstream
// API calls.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// CloseIdleConnections releases pooled upstream connections. Registered
// as a shutdown hook.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// wait blocks until the outbound limiter admits another request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// get issues an authenticated REST GET and decodes the JSON response into
// out. Non-2xx responses become an *APIError carrying the upstream status
// and body.
func (c *Client) get(ctx context.Context, token model.Token, path string, out any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	url := c.endpoints.RESTURL(token.Subdomain, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IncRESTRequest("error")
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncRESTRequest("error")
		return newAPIError(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.IncRESTRequest("error")
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	c.metrics.IncRESTRequest("success")
	return nil
}

// newAPIError drains a capped slice of the response body into an APIError.
func newAPIError(endpoint string, resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		Body:       strings.TrimSpace(string(body)),
	}
}
