// Package oura implements the HTTP client for the Oura v2 REST API.
//
// Every collection shares one endpoint shape: GET /usercollection/{category}
// with start_date and end_date query parameters and a bearer token, returning
// a JSON envelope of records plus an optional continuation token. Record
// values are decoded with json.Number so numeric fields reach the CSV layer
// exactly as the API sent them.
package oura

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/internal/domain/record"
	"github.com/brianraines/nightowl/pkg/logger"
	"github.com/brianraines/nightowl/pkg/metrics"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.ouraring.com/v2"

	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is carried into the
	// returned error.
	maxErrorBody = 4096
)

// Client talks to the Oura v2 API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      logger.Logger
}

// page is the response envelope every collection endpoint returns.
type page struct {
	Data      []record.Raw `json:"data"`
	NextToken *string      `json:"next_token"`
}

// New creates a Client. When accessToken is empty the OURA_ACCESS_TOKEN
// environment variable is consulted; a client without a token is refused.
func New(baseURL, accessToken string, opts ...Option) (*Client, error) {
	if accessToken == "" {
		accessToken = os.Getenv("OURA_ACCESS_TOKEN")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("%w: set OURA_ACCESS_TOKEN or pass a token explicitly", ErrMissingToken)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.Get().Named("oura")
	}
	return c, nil
}

// FetchCategory retrieves every record of one category inside the inclusive
// [startDate, endDate] window, following next_token continuations until the
// collection is exhausted. Dates are YYYY-MM-DD strings.
func (c *Client) FetchCategory(ctx context.Context, cat category.Category, startDate, endDate string) ([]record.Raw, error) {
	endpoint := c.baseURL + "/usercollection/" + cat.String()

	c.logger.Debug(ctx, "fetching category",
		logger.String("category", cat.String()),
		logger.String("start_date", startDate),
		logger.String("end_date", endDate))

	var out []record.Raw
	nextToken := ""
	for {
		p, err := c.fetchPage(ctx, cat, endpoint, startDate, endDate, nextToken)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Data...)
		if p.NextToken == nil || *p.NextToken == "" {
			break
		}
		nextToken = *p.NextToken
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, cat category.Category, endpoint, startDate, endDate, nextToken string) (*page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrRequestFailed, cat, err)
	}

	q := req.URL.Query()
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	if nextToken != "" {
		q.Set("next_token", nextToken)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	began := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveAPIRequestDuration(cat.String(), time.Since(began))
	if err != nil {
		metrics.RecordAPIRequest(cat.String(), "transport_error")
		return nil, fmt.Errorf("%w for %s: %v", ErrRequestFailed, cat, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordAPIRequest(cat.String(), strconv.Itoa(resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s may not be available for this account or token scope", ErrNotFound, cat)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w for %s: status %d: %s", ErrRequestFailed, cat, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var p page
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrDecodeResponse, cat, err)
	}
	return &p, nil
}
