package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rustdonate/internal/dependencies/mocks"
	"github.com/mcoot/rustdonate/internal/testutil"
)

const playerBody = `{"response":{"players":[{
	"steamid":"76561198207179307",
	"personaname":"RustWarrior2024",
	"profileurl":"https://steamcommunity.com/id/rustwarrior/",
	"avatar":"https://example.com/small.jpg",
	"avatarmedium":"https://example.com/medium.jpg",
	"avatarfull":"https://example.com/full.jpg",
	"realname":"Ivan"
}]}}`

type ServiceTestSuite struct {
	suite.Suite
	server    *httptest.Server
	handler   http.HandlerFunc
	mu        sync.Mutex
	requests  []*url.URL
	recorder  *mocks.MockRecorder
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.requests = nil
	s.setHandler(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(playerBody))
	})
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL)
		handler := s.handler
		s.mu.Unlock()
		handler(w, r)
	}))
	s.recorder = mocks.NewMockRecorder()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ServiceTestSuite) newService(apiKey string) *Service {
	return NewService(Config{APIKey: apiKey, BaseURL: s.server.URL, RateLimit: 100},
		s.server.Client(), testutil.NopLogger(), s.recorder)
}

func (s *ServiceTestSuite) setHandler(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *ServiceTestSuite) recorded() []*url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*url.URL(nil), s.requests...)
}

func (s *ServiceTestSuite) lookups(outcome string) int {
	return s.recorder.LookupCount(outcome)
}

func (s *ServiceTestSuite) TestProfile_Success() {
	svc := s.newService("secret")

	profile, err := svc.Profile(context.Background(), "STEAM_0:1:123456789")
	s.Require().NoError(err)

	s.Equal("STEAM_0:1:123456789", profile.SteamID)
	s.Equal("76561198207179307", profile.SteamID64)
	s.Equal("RustWarrior2024", profile.Username)
	s.Equal("https://example.com/full.jpg", profile.Avatar)
	s.Equal("https://steamcommunity.com/id/rustwarrior/", profile.ProfileURL)
	s.Equal("Ivan", profile.RealName)

	requests := s.recorded()
	s.Require().Len(requests, 1)
	s.Equal(playerSummariesPath, requests[0].Path)
	s.Equal("secret", requests[0].Query().Get("key"))
	s.Equal("76561198207179307", requests[0].Query().Get("steamids"))
	s.Equal(1, s.lookups(OutcomeSuccess))
}

func (s *ServiceTestSuite) TestProfile_Defaults() {
	s.setHandler(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"players":[{"avatarmedium":"https://example.com/medium.jpg"}]}}`))
	})
	svc := s.newService("secret")

	profile, err := svc.Profile(context.Background(), "76561198207179307")
	s.Require().NoError(err)
	s.Equal("Unknown", profile.Username)
	s.Equal("https://example.com/medium.jpg", profile.Avatar)
}

func (s *ServiceTestSuite) TestProfile_NotConfigured() {
	svc := s.newService("")

	_, err := svc.Profile(context.Background(), "76561198207179307")
	s.ErrorIs(err, ErrNotConfigured)
	s.Empty(s.recorded())
	s.Equal(1, s.lookups(OutcomeNotConfigured))
}

func (s *ServiceTestSuite) TestProfile_InvalidID() {
	svc := s.newService("secret")

	_, err := svc.Profile(context.Background(), "not-a-steam-id")
	s.ErrorIs(err, ErrInvalidSteamID)
	s.Empty(s.recorded())
	s.Equal(1, s.lookups(OutcomeInvalidID))
}

func (s *ServiceTestSuite) TestProfile_NotFound() {
	s.setHandler(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"players":[]}}`))
	})
	svc := s.newService("secret")

	_, err := svc.Profile(context.Background(), "[U:1:22202]")
	s.ErrorIs(err, ErrPlayerNotFound)
	s.Equal(1, s.lookups(OutcomeNotFound))
}

func (s *ServiceTestSuite) TestProfile_UpstreamStatus() {
	s.setHandler(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	svc := s.newService("secret")

	_, err := svc.Profile(context.Background(), "[U:1:22202]")
	var upstream *UpstreamError
	s.Require().ErrorAs(err, &upstream)
	s.Equal(http.StatusForbidden, upstream.StatusCode)
	s.Equal(1, s.lookups(OutcomeUpstreamError))
}

func (s *ServiceTestSuite) TestProfile_UpstreamMalformed() {
	s.setHandler(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	svc := s.newService("secret")

	_, err := svc.Profile(context.Background(), "[U:1:22202]")
	var upstream *UpstreamError
	s.Require().ErrorAs(err, &upstream)
	s.Zero(upstream.StatusCode)
}

func (s *ServiceTestSuite) TestProfile_CancelledContext() {
	svc := NewService(Config{APIKey: "secret", BaseURL: s.server.URL, RateLimit: 1},
		s.server.Client(), testutil.NopLogger(), nil)

	// Drain the single token so the next call must wait
	_, err := svc.Profile(context.Background(), "[U:1:22202]")
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Profile(ctx, "[U:1:22202]")
	var upstream *UpstreamError
	s.ErrorAs(err, &upstream)
	s.Len(s.recorded(), 1)
}
