// Package steam looks up public player profiles through the Steam Web API.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/mcoot/rustdonate/internal/metrics"
)

// DefaultBaseURL is the public Steam Web API host
const DefaultBaseURL = "https://api.steampowered.com"

const playerSummariesPath = "/ISteamUser/GetPlayerSummaries/v0002/"

// Lookup outcomes reported to metrics
const (
	OutcomeSuccess       = "success"
	OutcomeInvalidID     = "invalid_id"
	OutcomeNotFound      = "not_found"
	OutcomeNotConfigured = "not_configured"
	OutcomeUpstreamError = "upstream_error"
)

var (
	ErrNotConfigured  = errors.New("steam api key not configured")
	ErrPlayerNotFound = errors.New("steam user not found")
)

// UpstreamError is returned when the Steam Web API call itself fails
type UpstreamError struct {
	StatusCode int // zero for transport and decode failures
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("steam api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("steam api error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Profile is the public profile of a Steam player
type Profile struct {
	SteamID    string `json:"steamId"`
	SteamID64  string `json:"steamId64"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	ProfileURL string `json:"profileUrl"`
	RealName   string `json:"realName"`
}

// Config configures the Steam Web API client
type Config struct {
	APIKey    string
	BaseURL   string
	RateLimit float64 // requests per second, zero disables limiting
}

// Service resolves Steam IDs to public profiles
type Service struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewService creates a new Steam profile service
func NewService(cfg Config, httpClient *http.Client, logger *slog.Logger, recorder metrics.Recorder) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, int(cfg.RateLimit)))
	}

	return &Service{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger.With(slog.String("component", "steam")),
		metrics:    recorder,
	}
}

// Configured returns true if an API key is set
func (s *Service) Configured() bool {
	return s.cfg.APIKey != ""
}

type playerSummariesResponse struct {
	Response struct {
		Players []player `json:"players"`
	} `json:"response"`
}

type player struct {
	PersonaName  string `json:"personaname"`
	Avatar       string `json:"avatar"`
	AvatarMedium string `json:"avatarmedium"`
	AvatarFull   string `json:"avatarfull"`
	ProfileURL   string `json:"profileurl"`
	RealName     string `json:"realname"`
}

// Profile fetches the profile for steamID, which may be in any format ToSteam64 accepts
func (s *Service) Profile(ctx context.Context, steamID string) (*Profile, error) {
	profile, outcome, err := s.profile(ctx, steamID)
	s.metrics.RecordProfileLookup(outcome)
	return profile, err
}

func (s *Service) profile(ctx context.Context, steamID string) (*Profile, string, error) {
	if !s.Configured() {
		return nil, OutcomeNotConfigured, ErrNotConfigured
	}

	steamID = strings.TrimSpace(steamID)
	steamID64, err := ToSteam64(steamID)
	if err != nil {
		return nil, OutcomeInvalidID, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, OutcomeUpstreamError, &UpstreamError{Err: err}
	}

	p, err := s.fetchPlayer(ctx, steamID64)
	if err != nil {
		if errors.Is(err, ErrPlayerNotFound) {
			return nil, OutcomeNotFound, err
		}
		return nil, OutcomeUpstreamError, err
	}

	username := p.PersonaName
	if username == "" {
		username = "Unknown"
	}

	s.logger.Debug("steam profile resolved",
		slog.String("steam_id", steamID),
		slog.String("steam_id64", steamID64))

	return &Profile{
		SteamID:    steamID,
		SteamID64:  steamID64,
		Username:   username,
		Avatar:     firstNonEmpty(p.AvatarFull, p.AvatarMedium, p.Avatar),
		ProfileURL: p.ProfileURL,
		RealName:   p.RealName,
	}, OutcomeSuccess, nil
}

func (s *Service) fetchPlayer(ctx context.Context, steamID64 string) (*player, error) {
	reqURL, err := url.Parse(strings.TrimRight(s.cfg.BaseURL, "/") + playerSummariesPath)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	q := reqURL.Query()
	q.Set("key", s.cfg.APIKey)
	q.Set("steamids", steamID64)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key, so log only the underlying cause
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		s.logger.Error("steam api request failed", slog.Any("error", err))
		return nil, &UpstreamError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("steam api returned error status", slog.Int("http_status", resp.StatusCode))
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	var summaries playerSummariesResponse
	if err := json.Unmarshal(body, &summaries); err != nil {
		s.logger.Error("steam api response could not be parsed", slog.Any("error", err))
		return nil, &UpstreamError{Err: err}
	}

	if len(summaries.Response.Players) == 0 {
		return nil, ErrPlayerNotFound
	}
	return &summaries.Response.Players[0], nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
