package mailtm

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

	"github.com/bnema/mailtm-mcp/internal/domain"
)

const (
	// DefaultBaseURL is the public mail.tm endpoint.
	DefaultBaseURL = "https://api.mail.tm"

	defaultTimeout   = 10 * time.Second
	maxErrorBodySize = 1 << 20
)

// ErrUnexpectedStatus reports a success-range status the caller did not
// expect, e.g. anything but 204 after an account deletion.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Client is a minimal mail.tm REST client. It performs single
// request/response calls with a short timeout; no retries, no backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Domains lists the domains available for new accounts.
func (c *Client) Domains(ctx context.Context) ([]string, error) {
	var envelope domainsEnvelope
	if _, err := c.do(ctx, http.MethodGet, "/domains", nil, nil, &envelope); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(envelope.Members))
	for _, entry := range envelope.Members {
		names = append(names, entry.Domain)
	}

	return names, nil
}

// CreateAccount registers a new account. A 422 response surfaces as
// domain.ErrAddressTaken via errors.Is.
func (c *Client) CreateAccount(ctx context.Context, address, password string) (domain.AccountInfo, error) {
	body := map[string]string{"address": address, "password": password}

	var payload accountPayload
	if _, err := c.do(ctx, http.MethodPost, "/accounts", nil, body, &payload); err != nil {
		return domain.AccountInfo{}, err
	}

	return toAccountInfo(payload), nil
}

// Token exchanges credentials for a bearer token and the account id. A 401
// response surfaces as domain.ErrInvalidCredentials via errors.Is.
func (c *Client) Token(ctx context.Context, address, password string) (token, accountID string, err error) {
	body := map[string]string{"address": address, "password": password}

	var payload tokenPayload
	if _, err := c.do(ctx, http.MethodPost, "/token", nil, body, &payload); err != nil {
		return "", "", err
	}

	return payload.Token, payload.ID, nil
}

// Messages fetches one page of the authenticated account's inbox.
func (c *Client) Messages(ctx context.Context, auth http.Header, page int) ([]domain.MessageSummary, int, error) {
	path := fmt.Sprintf("/messages?page=%d", page)

	var envelope messagesEnvelope
	if _, err := c.do(ctx, http.MethodGet, path, auth, nil, &envelope); err != nil {
		return nil, 0, err
	}

	summaries := make([]domain.MessageSummary, 0, len(envelope.Members))
	for _, m := range envelope.Members {
		summaries = append(summaries, domain.MessageSummary{
			ID:      m.ID,
			From:    m.From.Address,
			Subject: m.Subject,
			Seen:    m.Seen,
		})
	}

	return summaries, envelope.Total, nil
}

// Message fetches the full content of a single message. The body prefers the
// plain-text part, falls back to the first HTML fragment, then a placeholder.
func (c *Client) Message(ctx context.Context, auth http.Header, id string) (domain.MessageDetail, error) {
	var payload messagePayload
	if _, err := c.do(ctx, http.MethodGet, "/messages/"+id, auth, nil, &payload); err != nil {
		return domain.MessageDetail{}, err
	}

	to := make([]string, 0, len(payload.To))
	for _, recipient := range payload.To {
		to = append(to, recipient.Address)
	}

	body := payload.Text
	if body == "" && len(payload.HTML) > 0 {
		body = payload.HTML[0]
	}
	if body == "" {
		body = "(no body)"
	}

	from := payload.From.Address
	if from == "" {
		from = "unknown"
	}

	return domain.MessageDetail{
		ID:        id,
		From:      from,
		To:        to,
		Subject:   payload.Subject,
		CreatedAt: payload.CreatedAt,
		Body:      body,
	}, nil
}

// MarkSeen flags a message as read.
func (c *Client) MarkSeen(ctx context.Context, auth http.Header, id string) error {
	body := map[string]bool{"seen": true}
	_, err := c.patch(ctx, "/messages/"+id, auth, body)
	return err
}

// DeleteMessage removes a message. Any success status counts as deleted.
func (c *Client) DeleteMessage(ctx context.Context, auth http.Header, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/messages/"+id, auth, nil, nil)
	return err
}

// Me fetches the authenticated account.
func (c *Client) Me(ctx context.Context, auth http.Header) (domain.AccountInfo, error) {
	var payload accountPayload
	if _, err := c.do(ctx, http.MethodGet, "/me", auth, nil, &payload); err != nil {
		return domain.AccountInfo{}, err
	}

	return toAccountInfo(payload), nil
}

// DeleteAccount removes the account. The API documents 204 as the only
// deletion status; any other success status returns ErrUnexpectedStatus.
func (c *Client) DeleteAccount(ctx context.Context, auth http.Header, accountID string) error {
	status, err := c.do(ctx, http.MethodDelete, "/accounts/"+accountID, auth, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, auth http.Header, body, out any) (int, error) {
	return c.send(ctx, method, path, auth, body, "application/json", out)
}

// patch uses the merge-patch content type the mail.tm PATCH endpoints expect.
func (c *Client) patch(ctx context.Context, path string, auth http.Header, body any) (int, error) {
	return c.send(ctx, http.MethodPatch, path, auth, body, "application/merge-patch+json", nil)
}

func (c *Client) send(ctx context.Context, method, path string, auth http.Header, body any, contentType string, out any) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", contentType)
	}
	for key, values := range auth {
		for _, value := range values {
			request.Header.Set(key, value)
		}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return response.StatusCode, parseErrorResponse(response)
	}

	if out != nil {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return response.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return response.StatusCode, nil
}

func parseErrorResponse(response *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodySize))

	var payload struct {
		Detail      string `json:"detail"`
		Description string `json:"hydra:description"`
		Message     string `json:"message"`
	}

	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Description != "":
			message = payload.Description
		case payload.Detail != "":
			message = payload.Detail
		case payload.Message != "":
			message = payload.Message
		}
	}

	return &APIError{StatusCode: response.StatusCode, Message: message}
}

func toAccountInfo(payload accountPayload) domain.AccountInfo {
	return domain.AccountInfo{
		ID:        payload.ID,
		Address:   payload.Address,
		Quota:     payload.Quota,
		Used:      payload.Used,
		CreatedAt: payload.CreatedAt,
		UpdatedAt: payload.UpdatedAt,
	}
}
