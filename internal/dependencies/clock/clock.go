package clock

import "github.com/jonboulle/clockwork"

// Clock provides time and timer operations that can be faked for testing
type Clock = clockwork.Clock

// Timer is a cancellable timer created by Clock.AfterFunc
type Timer = clockwork.Timer

// New creates a Clock backed by the system clock
func New() Clock {
	return clockwork.NewRealClock()
}

