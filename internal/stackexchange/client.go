// Package stackexchange provides the read-only Stack Exchange API client
// used by the pipeline, together with the static table of fetchable
// resources.
package stackexchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/stackoverflow-pipeline/internal/records"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// Error represents a failed fetch. Transport failures, non-2xx statuses
// and malformed response bodies are all reported through it; callers only
// need to know that the resource produced nothing.
type Error struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client fetches item collections from the Stack Exchange API.
type Client struct {
	http *resty.Client
	log  *slog.Logger
}

// NewClient builds a client against baseURL. Failures are logged through
// log at ERROR level as they occur.
func NewClient(baseURL string, log *slog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(DefaultTimeout)

	return &Client{
		http: client,
		log:  log,
	}
}

// itemsEnvelope is the common wrapper of every API response. Items is a
// pointer so an absent "items" key can be told apart from an empty array.
type itemsEnvelope struct {
	Items *[]records.Record `json:"items"`
}

// FetchItems issues one GET for the resource and returns its decoded
// items. Every failure mode returns a *Error and emits a single
// ERROR-level log entry naming the endpoint; nothing is logged on success.
func (c *Client) FetchItems(ctx context.Context, res Resource) ([]records.Record, error) {
	endpoint := c.http.BaseURL + "/" + res.Kind

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(res.Params()).
		Get("/" + res.Kind)
	if err != nil {
		return nil, c.fail(&Error{Endpoint: endpoint, Message: "request failed", Cause: err})
	}
	if resp.IsError() {
		return nil, c.fail(&Error{
			Endpoint: endpoint,
			Message:  fmt.Sprintf("HTTP status %d", resp.StatusCode()),
		})
	}

	var envelope itemsEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, c.fail(&Error{Endpoint: endpoint, Message: "failed to decode response", Cause: err})
	}
	if envelope.Items == nil {
		return nil, c.fail(&Error{Endpoint: endpoint, Message: "response has no items key"})
	}

	return *envelope.Items, nil
}

// fail logs the error once and returns it.
func (c *Client) fail(err *Error) *Error {
	c.log.Error("failed to fetch data", "endpoint", err.Endpoint, "error", err)
	return err
}
