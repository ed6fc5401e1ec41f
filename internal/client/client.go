// Package client is the HTTP backend of the planner: it talks to the Trip
// Board API and satisfies store.Remote.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripboard/internal/domain"
)

// DefaultTimeout applies when New is given a nil *http.Client.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the API's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the domain sentinels so callers can use
// errors.Is(err, domain.ErrNotFound) without knowing about HTTP.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return domain.ErrValidation
	default:
		return nil
	}
}

// Client calls the Trip Board API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL (e.g. "http://localhost:8080").
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ListEvents fetches every event.
func (c *Client) ListEvents(ctx context.Context) ([]domain.TripEvent, error) {
	var out []domain.TripEvent
	if err := c.do(ctx, http.MethodGet, "/events", nil, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("client.Client.ListEvents: %w", err)
	}
	return out, nil
}

// ListDestinations fetches the destination catalog.
func (c *Client) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	var out []domain.Destination
	if err := c.do(ctx, http.MethodGet, "/destinations", nil, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("client.Client.ListDestinations: %w", err)
	}
	return out, nil
}

// ListOffers fetches the offer catalog grouped by event type.
func (c *Client) ListOffers(ctx context.Context) ([]domain.OfferGroup, error) {
	var out []domain.OfferGroup
	if err := c.do(ctx, http.MethodGet, "/offers", nil, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("client.Client.ListOffers: %w", err)
	}
	return out, nil
}

// CreateEvent posts a new event. The returned event carries the server id.
func (c *Client) CreateEvent(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error) {
	event.ID = uuid.Nil
	var out domain.TripEvent
	if err := c.do(ctx, http.MethodPost, "/events", event, http.StatusCreated, &out); err != nil {
		return domain.TripEvent{}, fmt.Errorf("client.Client.CreateEvent: %w", err)
	}
	return out, nil
}

// UpdateEvent replaces the event stored under event.ID.
func (c *Client) UpdateEvent(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error) {
	var out domain.TripEvent
	if err := c.do(ctx, http.MethodPut, "/events/"+event.ID.String(), event, http.StatusOK, &out); err != nil {
		return domain.TripEvent{}, fmt.Errorf("client.Client.UpdateEvent: %w", err)
	}
	return out, nil
}

// DeleteEvent removes the event with the given id.
func (c *Client) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/events/"+id.String(), nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("client.Client.DeleteEvent: %w", err)
	}
	return nil
}

// do sends one request and decodes the response into out when it is non-nil.
// Any status other than want is turned into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}

// IsAPIError reports whether err carries an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
