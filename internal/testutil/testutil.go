// Package testutil provides a fake Marketing Cloud upstream for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/mcextract/mcextract/internal/model"
)

// PageFixture is one canned page of a REST listing response.
type PageFixture struct {
	Items     []model.Automation
	Page      int
	PageCount int
}

// FakeMC simulates the upstream surfaces the extractor talks to: the
// OAuth token endpoint, the SOAP retrieval endpoint, and the REST
// automation endpoints. All base URLs point at one httptest server.
//
// Mutate the fixture fields before issuing requests; the handler reads
// them under a lock so tests can also flip failure switches mid-flight.
type FakeMC struct {
	// Token endpoint
	AccessToken string
	ExpiresIn   int
	FailToken   bool

	// SOAP endpoint
	Users       []model.User
	FailUsers   bool
	SOAPStatus  string // OverallStatus; empty means "OK"
	LastSOAPReq string // body of the most recent SOAP request

	// REST automation endpoints
	Pages          []PageFixture
	FailPage       int                 // 1-based page number to fail; 0 disables
	Activities     map[string][]string // automation ID -> raw activity JSON
	FailActivities map[string]bool     // automation ID -> fail listing
	Details        map[string]string   // activity ID -> raw detail JSON
	FailDetails    map[string]bool     // activity ID -> fail detail fetch

	mu  sync.Mutex
	mux *http.ServeMux
	srv *httptest.Server
}

// NewFakeMC starts a fake upstream. The server is shut down when the test
// finishes.
func NewFakeMC(t *testing.T) *FakeMC {
	t.Helper()

	f := &FakeMC{
		AccessToken:    "test-token",
		ExpiresIn:      1079,
		Activities:     map[string][]string{},
		FailActivities: map[string]bool{},
		Details:        map[string]string{},
		FailDetails:    map[string]bool{},
	}

	f.mux = http.NewServeMux()
	f.mux.HandleFunc("POST /v2/token", f.handleToken)
	f.mux.HandleFunc("POST /Service.asmx", f.handleSOAP)
	f.mux.HandleFunc("GET /automation/v1/automations", f.handleAutomations)
	f.mux.HandleFunc("GET /automation/v1/automations/{id}/activities", f.handleActivities)
	f.mux.HandleFunc("GET /automation/v1/activities/{id}", f.handleDetail)

	f.srv = httptest.NewServer(f.mux)
	t.Cleanup(f.srv.Close)
	return f
}

// URL is the base URL of the fake server. Use it for all three endpoint
// templates; the {subdomain} slot is simply absent.
func (f *FakeMC) URL() string {
	return f.srv.URL
}

// Handle registers an extra route, e.g. a pass-through collection
// endpoint.
func (f *FakeMC) Handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

func (f *FakeMC) handleToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailToken {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_client","error_description":"Invalid client ID"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":%d}`, f.AccessToken, f.ExpiresIn)
}

func (f *FakeMC) handleSOAP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.LastSOAPReq = string(raw)

	if f.FailUsers {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "soap backend unavailable")
		return
	}

	status := f.SOAPStatus
	if status == "" {
		status = "OK"
	}

	var results strings.Builder
	for _, u := range f.Users {
		fmt.Fprintf(&results, `
      <Results xsi:type="AccountUser">
        <ID>%s</ID>
        <Email>%s</Email>
        <ActiveFlag>%t</ActiveFlag>
        <CreatedDate>%s</CreatedDate>
        <IsAPIUser>%t</IsAPIUser>
        <LastSuccessfulLogin>%s</LastSuccessfulLogin>
      </Results>`, u.ID, u.Email, u.ActiveFlag, u.CreatedDate, u.IsAPIUser, u.LastLogin)
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <soap:Body>
    <RetrieveResponseMsg xmlns="http://exacttarget.com/wsdl/partnerAPI">
      <OverallStatus>%s</OverallStatus>
      <RequestID>fake-request-id</RequestID>%s
    </RetrieveResponseMsg>
  </soap:Body>
</soap:Envelope>`, status, results.String())
}

func (f *FakeMC) handleAutomations(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("$page"))
	if page <= 0 {
		page = 1
	}
	if f.FailPage != 0 && page == f.FailPage {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"message":"upstream listing unavailable"}`)
		return
	}
	if page > len(f.Pages) {
		writeJSON(w, PageFixture{Page: page, PageCount: len(f.Pages)})
		return
	}
	writeJSON(w, f.Pages[page-1])
}

func (f *FakeMC) handleActivities(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	if f.FailActivities[id] {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"activities unavailable"}`)
		return
	}
	items := f.Activities[id]
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"items":[%s]}`, strings.Join(items, ","))
}

func (f *FakeMC) handleDetail(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	detail, ok := f.Details[id]
	if f.FailDetails[id] || !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"activity not found"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, detail)
}

func writeJSON(w http.ResponseWriter, fixture PageFixture) {
	items := fixture.Items
	if items == nil {
		items = []model.Automation{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"items":     items,
		"page":      fixture.Page,
		"pageCount": fixture.PageCount,
	})
}
