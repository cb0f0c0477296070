package mocks

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/rustdonate/internal/dependencies/clock"
)

// MockClock is a fake Clock whose time only moves when advanced
type MockClock = clockwork.FakeClock

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return clockwork.NewFakeClockAt(t)
}

// DefaultTime is the starting time used by tests that do not care about the exact instant
var DefaultTime = time.Date(2024, 11, 25, 14, 30, 0, 0, time.UTC)
