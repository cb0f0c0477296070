package factory

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/rustdonate/internal/dependencies/mocks"
	"github.com/mcoot/rustdonate/internal/services/lookup"
	"github.com/mcoot/rustdonate/internal/services/orders"
	"github.com/mcoot/rustdonate/internal/services/steam"
	"github.com/mcoot/rustdonate/internal/storage/memory"
	"github.com/mcoot/rustdonate/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MemoryStore *memory.Storage
}

// TestAppOption customizes NewTestApp
type TestAppOption func(*testAppOptions)

type testAppOptions struct {
	lookup lookup.Lookup
	steam  steam.Config
	store  *memory.Storage
}

// WithLookup replaces the static identity lookup
func WithLookup(l lookup.Lookup) TestAppOption {
	return func(o *testAppOptions) { o.lookup = l }
}

// WithSteam configures the Steam profile backend
func WithSteam(cfg steam.Config) TestAppOption {
	return func(o *testAppOptions) { o.steam = cfg }
}

// WithStore shares a memory store across test apps, simulating a restart
func WithStore(store *memory.Storage) TestAppOption {
	return func(o *testAppOptions) { o.store = store }
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The hub loop is started; call Close when done.
func NewTestApp(opts ...TestAppOption) *TestApp {
	o := testAppOptions{lookup: lookup.NewStatic()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = memory.New()
	}

	mockClock := mocks.NewMockClock(mocks.DefaultTime)
	app := newWithDependencies(o.store, o.lookup, mockClock, orders.DefaultLedgerConfig(), o.steam,
		prometheus.NewRegistry(), testutil.NopLogger())
	app.Start()

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MemoryStore: o.store,
	}
}
