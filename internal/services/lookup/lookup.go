// Package lookup resolves a candidate Steam ID to a canonical identity through
// an external profile lookup service.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mcoot/rustdonate/internal/model"
)

// Lookup failures. Callers treat all of them as an authentication failure.
var (
	ErrTransport         = errors.New("identity lookup transport failure")
	ErrUnexpectedStatus  = errors.New("identity lookup returned non-success status")
	ErrMalformedResponse = errors.New("identity lookup returned malformed response")
)

// Lookup resolves a candidate identifier to the provider's canonical identity
type Lookup interface {
	LookupIdentity(ctx context.Context, candidateID string) (*model.Identity, error)
}

// maxResponseBytes caps how much of a lookup response body is read
const maxResponseBytes = 1 << 20

// profileResponse is the success body of the lookup endpoint
type profileResponse struct {
	SteamID  string `json:"steamId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Client queries the lookup endpoint over HTTP
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
}

// NewClient creates a lookup client for the given endpoint
func NewClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "lookup")),
		endpoint:   endpoint,
	}
}

// Ensure Client implements Lookup
var _ Lookup = (*Client)(nil)

// LookupIdentity performs a single GET request to the endpoint with the
// candidate ID as the url-escaped steamid parameter.
func (c *Client) LookupIdentity(ctx context.Context, candidateID string) (*model.Identity, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint: %w", ErrTransport, err)
	}
	q := reqURL.Query()
	q.Set("steamid", candidateID)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("identity lookup request failed",
			slog.String("candidate_id", candidateID),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("identity lookup returned error status",
			slog.String("candidate_id", candidateID),
			slog.Int("http_status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	var profile profileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		c.logger.Warn("identity lookup response could not be parsed",
			slog.String("candidate_id", candidateID),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if profile.SteamID == "" {
		return nil, fmt.Errorf("%w: missing steamId", ErrMalformedResponse)
	}

	return &model.Identity{
		ExternalID:  profile.SteamID,
		DisplayName: profile.Username,
		AvatarURL:   profile.Avatar,
	}, nil
}

// Static always resolves to the same identity. Used in offline mode.
type Static struct {
	Identity model.Identity
}

// Ensure Static implements Lookup
var _ Lookup = (*Static)(nil)

// DefaultStaticIdentity is the identity returned by NewStatic
var DefaultStaticIdentity = model.Identity{
	ExternalID:  "STEAM_0:1:123456789",
	DisplayName: "RustWarrior2024",
	AvatarURL:   "https://cdn.poehali.dev/projects/cb3e8f6c-1b8e-4556-97a9-bb095068a3e1/files/abfdffaa-9ce7-4358-b301-f60d3fc611b1.jpg",
}

// NewStatic creates a Static lookup returning DefaultStaticIdentity
func NewStatic() *Static {
	return &Static{Identity: DefaultStaticIdentity}
}

// LookupIdentity returns a copy of the configured identity
func (s *Static) LookupIdentity(ctx context.Context, _ string) (*model.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	identity := s.Identity
	return &identity, nil
}
