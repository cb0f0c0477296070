// Package session owns the client's authentication lifecycle: who is logged
// in, how that is established through the identity lookup service, and how it
// survives a restart through durable storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/rustdonate/internal/dependencies/clock"
	"github.com/mcoot/rustdonate/internal/metrics"
	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/services/lookup"
	"github.com/mcoot/rustdonate/internal/storage"
)

// Errors
var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrEmptyCandidate  = errors.New("candidate id is empty")
	ErrLoginSuperseded = errors.New("login superseded by a newer session change")
)

// Manager is the single source of truth for the session identity.
//
// Every Login and Logout starts a new generation. A lookup that resolves after
// its generation has been replaced is discarded, so the most recently started
// operation determines the final state.
type Manager struct {
	storage storage.Storage
	lookup  lookup.Lookup
	clock   clock.Clock
	logger  *slog.Logger
	metrics metrics.Recorder

	mu         sync.RWMutex
	status     model.SessionStatus
	identity   *model.Identity
	generation uint64
}

// New creates a Manager in the Anonymous state. Call Restore once at startup.
func New(store storage.Storage, lookup lookup.Lookup, clock clock.Clock, logger *slog.Logger, recorder metrics.Recorder) *Manager {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Manager{
		storage: store,
		lookup:  lookup,
		clock:   clock,
		logger:  logger.With(slog.String("component", "session")),
		metrics: recorder,
		status:  model.SessionAnonymous,
	}
}

// Restore loads the persisted identity, if any. A missing or unreadable
// record leaves the session Anonymous; Restore never fails.
func (m *Manager) Restore(ctx context.Context) model.SessionState {
	identity, err := m.storage.GetIdentity(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++

	switch {
	case err == nil:
		m.status = model.SessionAuthenticated
		m.identity = identity
		m.logger.Info("session restored", slog.String("external_id", identity.ExternalID))
	case errors.Is(err, model.ErrIdentityNotFound):
		m.status = model.SessionAnonymous
		m.identity = nil
		m.logger.Debug("no saved identity")
	default:
		m.status = model.SessionAnonymous
		m.identity = nil
		m.logger.Warn("ignoring unreadable identity record", slog.Any("error", err))
	}

	return m.stateLocked()
}

// Login resolves candidateID through the lookup service and, on success,
// authenticates the session with the canonical identity it returns and
// persists it. On failure the session is Anonymous, storage is untouched and
// the returned error wraps ErrAuthFailed.
func (m *Manager) Login(ctx context.Context, candidateID string) (*model.Identity, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, ErrEmptyCandidate
	}

	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.status = model.SessionAuthenticating
	m.identity = nil
	m.mu.Unlock()

	logger := m.logger.With(slog.String("candidate_id", candidateID), slog.Uint64("generation", gen))
	logger.Info("login started")
	start := m.clock.Now()

	identity, lookupErr := m.lookup.LookupIdentity(ctx, candidateID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		m.metrics.RecordLogin(metrics.LoginSuperseded)
		logger.Info("discarding stale login result", slog.Uint64("current_generation", m.generation))
		return nil, ErrLoginSuperseded
	}

	if lookupErr != nil {
		m.status = model.SessionAnonymous
		m.identity = nil
		m.metrics.RecordLogin(metrics.LoginFailure)
		logger.Warn("login failed",
			slog.Any("error", lookupErr),
			slog.Duration("duration", m.clock.Since(start)))
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, lookupErr)
	}

	stored := *identity
	m.status = model.SessionAuthenticated
	m.identity = &stored

	// Persist even if the caller has gone away; the session is already authenticated
	if err := m.storage.SaveIdentity(context.WithoutCancel(ctx), &stored); err != nil {
		logger.Error("failed to persist identity", slog.Any("error", err))
	}

	m.metrics.RecordLogin(metrics.LoginSuccess)
	logger.Info("login succeeded",
		slog.String("external_id", stored.ExternalID),
		slog.Duration("duration", m.clock.Since(start)))

	result := stored
	return &result, nil
}

// Logout clears the session and deletes the durable record. It always
// succeeds and cancels the effect of any login still in flight.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	wasAuthenticated := m.status == model.SessionAuthenticated
	m.status = model.SessionAnonymous
	m.identity = nil

	if err := m.storage.DeleteIdentity(context.WithoutCancel(ctx)); err != nil {
		m.logger.Error("failed to delete identity record", slog.Any("error", err))
	}

	if wasAuthenticated {
		m.logger.Info("logged out")
	}
}

// CurrentIdentity returns a copy of the authenticated identity, or nil
func (m *Manager) CurrentIdentity() *model.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	identity := *m.identity
	return &identity
}

// IsAuthenticated returns true if the session holds an identity
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status == model.SessionAuthenticated
}

// State returns a snapshot of the session
func (m *Manager) State() model.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() model.SessionState {
	state := model.SessionState{Status: m.status}
	if m.identity != nil {
		identity := *m.identity
		state.Identity = &identity
	}
	return state
}
