package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/rustdonate/internal/metrics"
)

// MockRecorder counts metric events in memory
type MockRecorder struct {
	mu        sync.Mutex
	Logins    map[string]int
	Submitted int
	Rejected  map[string]int
	Resolved  map[string]int
	Latencies []time.Duration
	Lookups   map[string]int
}

// Ensure MockRecorder implements metrics.Recorder
var _ metrics.Recorder = (*MockRecorder)(nil)

// NewMockRecorder creates an empty MockRecorder
func NewMockRecorder() *MockRecorder {
	return &MockRecorder{
		Logins:   make(map[string]int),
		Rejected: make(map[string]int),
		Resolved: make(map[string]int),
		Lookups:  make(map[string]int),
	}
}

func (m *MockRecorder) RecordLogin(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logins[outcome]++
}

func (m *MockRecorder) RecordOrderSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted++
}

func (m *MockRecorder) RecordOrderRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected[reason]++
}

func (m *MockRecorder) RecordOrderResolved(status string, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resolved[status]++
	m.Latencies = append(m.Latencies, latency)
}

func (m *MockRecorder) RecordProfileLookup(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups[outcome]++
}

// LoginCount returns the number of logins recorded with outcome
func (m *MockRecorder) LoginCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Logins[outcome]
}

// ResolvedCount returns the number of orders resolved with status
func (m *MockRecorder) ResolvedCount(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Resolved[status]
}

// RejectedCount returns the number of submissions rejected for reason
func (m *MockRecorder) RejectedCount(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Rejected[reason]
}

// LookupCount returns the number of profile lookups recorded with outcome
func (m *MockRecorder) LookupCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Lookups[outcome]
}
