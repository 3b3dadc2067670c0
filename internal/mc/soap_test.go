package mc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildEnvelope(t *testing.T) {
	env := buildEnvelope("https://tenant.soap.example.com/Service.asmx", "tok<en>", RetrieveRequest{
		ObjectType:       "AccountUser",
		Properties:       []string{"ID", "Email"},
		QueryAllAccounts: true,
	})

	for _, want := range []string{
		"<ObjectType>AccountUser</ObjectType>",
		"<Properties>ID</Properties>",
		"<Properties>Email</Properties>",
		"<QueryAllAccounts>true</QueryAllAccounts>",
		"<fueloauth xmlns=\"http://exacttarget.com\">tok&lt;en&gt;</fueloauth>",
		"<a:Action s:mustUnderstand=\"1\">Retrieve</a:Action>",
	} {
		if !strings.Contains(env, want) {
			t.Errorf("expected envelope to contain %s", want)
		}
	}

	if strings.Contains(env, "tok<en>") {
		t.Error("expected token to be XML-escaped")
	}
}

func TestBuildEnvelope_NoQueryAllAccounts(t *testing.T) {
	env := buildEnvelope("https://x/Service.asmx", "tok", RetrieveRequest{
		ObjectType: "DataExtension",
		Properties: []string{"Name"},
	})
	if strings.Contains(env, "QueryAllAccounts") {
		t.Error("expected QueryAllAccounts to be omitted")
	}
}

const soapResponseTmpl = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <RetrieveResponseMsg xmlns="http://exacttarget.com/wsdl/partnerAPI">
      <OverallStatus>%s</OverallStatus>
      <RequestID>req-1</RequestID>%s
    </RetrieveResponseMsg>
  </soap:Body>
</soap:Envelope>`

type nameResult struct {
	Name string `xml:"Name"`
}

func soapServer(t *testing.T, status, results string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("SOAPAction") != "Retrieve" {
			t.Errorf("expected SOAPAction Retrieve, got %q", r.Header.Get("SOAPAction"))
		}
		if ct := r.Header.Get("Content-Type"); ct != "text/xml" {
			t.Errorf("expected Content-Type text/xml, got %q", ct)
		}
		if capture != nil {
			body, _ := io.ReadAll(r.Body)
			*capture = string(body)
		}
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		fmt.Fprintf(w, soapResponseTmpl, status, results)
	}))
}

func TestRetrieve_SingleResultIsOneElementList(t *testing.T) {
	srv := soapServer(t, "OK", `
      <Results><Name>only</Name></Results>`, nil)
	defer srv.Close()

	c := newTestClient(srv.URL)
	results, err := Retrieve[nameResult](context.Background(), c, testToken(), RetrieveRequest{
		ObjectType: "DataExtension",
		Properties: []string{"Name"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected single result as one-element list, got %d", len(results))
	}
	if results[0].Name != "only" {
		t.Errorf("expected Name 'only', got %q", results[0].Name)
	}
}

func TestRetrieve_EmptyResultsIsNonNil(t *testing.T) {
	srv := soapServer(t, "OK", "", nil)
	defer srv.Close()

	c := newTestClient(srv.URL)
	results, err := Retrieve[nameResult](context.Background(), c, testToken(), RetrieveRequest{ObjectType: "Subscriber"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRetrieve_FaultStatus(t *testing.T) {
	srv := soapServer(t, "Error: Invalid object type", "", nil)
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := Retrieve[nameResult](context.Background(), c, testToken(), RetrieveRequest{ObjectType: "Bogus"})
	if err == nil {
		t.Fatal("expected error for fault status")
	}
	if !errors.Is(err, ErrRetrieveFault) {
		t.Errorf("expected ErrRetrieveFault, got %v", err)
	}
}

func TestRetrieve_MoreDataAvailableStillReturnsResults(t *testing.T) {
	srv := soapServer(t, "MoreDataAvailable", `
      <Results><Name>first</Name></Results>`, nil)
	defer srv.Close()

	c := newTestClient(srv.URL)
	results, err := Retrieve[nameResult](context.Background(), c, testToken(), RetrieveRequest{ObjectType: "Subscriber"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected truncated batch to be returned, got %d results", len(results))
	}
}

func TestRetrieve_HTTPErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "soap down")
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := Retrieve[nameResult](context.Background(), c, testToken(), RetrieveRequest{ObjectType: "AccountUser"})
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Body != "soap down" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

func TestRetrieve_SendsTokenInEnvelope(t *testing.T) {
	var captured string
	srv := soapServer(t, "OK", "", &captured)
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := Retrieve[nameResult](context.Background(), c, testToken(), RetrieveRequest{ObjectType: "AccountUser"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(captured, ">tok</fueloauth>") {
		t.Error("expected bearer token in fueloauth header")
	}
}
