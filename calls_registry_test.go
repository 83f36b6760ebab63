package promise

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// callsRegistry records callback invocations so tests can assert both the
// order and the completeness of asynchronous reactions within a time limit.
type callsRegistry struct {
	mutex sync.Mutex

	registry      []string
	expectedCalls uint
}

func newCallsRegistry(expectedCalls uint) *callsRegistry {
	return &callsRegistry{
		expectedCalls: expectedCalls,
	}
}

func (r *callsRegistry) Register(place string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if 0 == r.expectedCalls {
		panic("trying to register unexpected call: " + place)
	}

	r.registry = append(r.registry, place)
	r.expectedCalls--
}

func (r *callsRegistry) summarize() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return strings.Join(r.registry, "|")
}

// AssertCompletedBefore waits until every expected call has been registered
// and asserts the order, failing when the time limit passes first.
func (r *callsRegistry) AssertCompletedBefore(t *testing.T, expectedRegistry string, timeLimit time.Duration) {
	t.Helper()

	deadline := time.After(timeLimit)
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-deadline:
			r.mutex.Lock()
			left, calls := r.expectedCalls, r.registry
			r.mutex.Unlock()

			require.FailNowf(
				t,
				"Calls registry assertion timeout",
				"There are still %d expected call(s) left. Calls registered: %v.",
				left,
				calls,
			)
			return

		case <-tick.C:
			r.mutex.Lock()
			waiting := 0 != r.expectedCalls
			r.mutex.Unlock()

			if waiting {
				continue
			}

			require.Equal(t, expectedRegistry, r.summarize())
			return
		}
	}
}

// AssertCurrentCallsStackIs asserts the calls registered so far, without
// waiting.
func (r *callsRegistry) AssertCurrentCallsStackIs(t *testing.T, expectedRegistry string) {
	t.Helper()

	require.Equal(t, expectedRegistry, r.summarize())
}
