package pdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestFetchEntityInfoBuildsQuery(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("<PDB/>")),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("acme", "1234", WithBaseURL("http://pdb.test/entityinfo_xml.cgi"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	body, err := client.FetchEntityInfo(context.Background(), " 8675309 ")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != "<PDB/>" {
		t.Fatalf("unexpected body %q", body)
	}
	if captured.Method != http.MethodGet || captured.URL.Path != "/entityinfo_xml.cgi" {
		t.Fatalf("unexpected request %s %s", captured.Method, captured.URL)
	}
	q := captured.URL.Query()
	if q.Get("customer_number") != "acme" || q.Get("pin_number") != "1234" || q.Get("report_type") != "1" || q.Get("id_entity") != "8675309" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestFetchEntityInfoNon2xxIsDependencyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client, err := NewClient("acme", "1234", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.FetchEntityInfo(context.Background(), "1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestFetchEntityInfoTransportErrorRedactsPin(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial failed for " + req.URL.String())
	})
	client, err := NewClient("acme", "s3cretpin", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.FetchEntityInfo(context.Background(), "1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if strings.Contains(err.Error(), "s3cretpin") {
		t.Fatalf("pin leaked into error: %v", err)
	}
}

func TestFetchEntityInfoTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := NewClient("acme", "1234", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.FetchEntityInfo(context.Background(), "1"); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error on timeout, got %v", err)
	}
}

func TestFetchDecodesReport(t *testing.T) {
	fixture := loadFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write(fixture)
	}))
	defer srv.Close()

	client, err := NewClient("acme", "1234", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	report, err := client.Fetch(context.Background(), "1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(report.States) != 3 {
		t.Fatalf("expected 3 states, got %d", len(report.States))
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("acme", ""); err == nil {
		t.Fatal("expected error without pin")
	}
}

func TestFetchEntityInfoRequiresNPN(t *testing.T) {
	client, err := NewClient("acme", "1234")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.FetchEntityInfo(context.Background(), "  "); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
