// Package pdb talks to the producer database entity info endpoint.
package pdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
)

const (
	DefaultBaseURL           = "https://pdb-services.nipr.com/pdb-xml-reports/entityinfo_xml.cgi"
	defaultReportType        = "1"
	defaultTimeout           = 30 * time.Second
	errorBodyReadLimit       = 1024
	maxResponseBytes   int64 = 16 << 20
)

var errCredentialsRequired = errors.New("directory customer number and pin are required")

// Client fetches entity info reports keyed by NPN.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	customerNumber string
	pin            string
	reportType     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the entity info endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithReportType overrides the report_type query parameter.
func WithReportType(reportType string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(reportType)
		if trimmed != "" {
			c.reportType = trimmed
		}
	}
}

// WithTimeout bounds each request made by the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a directory client for the given account.
func NewClient(customerNumber, pin string, opts ...Option) (*Client, error) {
	customerNumber = strings.TrimSpace(customerNumber)
	pin = strings.TrimSpace(pin)
	if customerNumber == "" || pin == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		httpClient:     &http.Client{Timeout: defaultTimeout},
		baseURL:        DefaultBaseURL,
		customerNumber: customerNumber,
		pin:            pin,
		reportType:     defaultReportType,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// FetchEntityInfo returns the raw XML report for npn.
func (c *Client) FetchEntityInfo(ctx context.Context, npn string) ([]byte, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "directory client not configured")
	}
	npn = strings.TrimSpace(npn)
	if npn == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "npn is required")
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse directory url")
	}
	q := endpoint.Query()
	q.Set("customer_number", c.customerNumber)
	q.Set("pin_number", c.pin)
	q.Set("report_type", c.reportType)
	q.Set("id_entity", npn)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build entity info request")
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, redact(err, c.pin), "execute entity info request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "entity info request failed")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read entity info response")
	}
	return body, nil
}

// Fetch retrieves and decodes the report for npn.
func (c *Client) Fetch(ctx context.Context, npn string) (*Report, error) {
	body, err := c.FetchEntityInfo(ctx, npn)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

// redact keeps the account pin out of transport errors, which embed the URL.
func redact(err error, pin string) error {
	if pin == "" || !strings.Contains(err.Error(), pin) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), pin, "REDACTED"))
}
