// Package metering aggregates per-lens generation statistics for operators.
// Nothing here is returned to callers of a dispatch.
package metering

import (
	"sync"
	"time"

	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/perspective"
)

// LensMeter tracks usage for one lens.
type LensMeter struct {
	Lens         lens.Lens `json:"lens"`
	Calls        int64     `json:"calls"`
	Live         int64     `json:"live"`
	Demo         int64     `json:"demo"`
	Fallbacks    int64     `json:"fallbacks"`
	TotalLatency float64   `json:"total_latency_ms"`
	LastActivity time.Time `json:"last_activity"`
}

// AverageLatency is the mean latency in milliseconds, or zero before any call.
func (m LensMeter) AverageLatency() float64 {
	if m.Calls == 0 {
		return 0
	}
	return m.TotalLatency / float64(m.Calls)
}

// Store is safe for concurrent use and satisfies perspective.Observer.
type Store struct {
	mu     sync.RWMutex
	meters map[lens.Lens]*LensMeter
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		meters: make(map[lens.Lens]*LensMeter),
		now:    time.Now,
	}
}

var _ perspective.Observer = (*Store)(nil)

// Observe records one produced result.
func (s *Store) Observe(l lens.Lens, source perspective.Source, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meter, ok := s.meters[l]
	if !ok {
		meter = &LensMeter{Lens: l}
		s.meters[l] = meter
	}

	meter.Calls++
	switch source {
	case perspective.SourceLive:
		meter.Live++
	case perspective.SourceDemo:
		meter.Demo++
	case perspective.SourceFallback:
		meter.Fallbacks++
	}
	meter.TotalLatency += float64(elapsed) / float64(time.Millisecond)
	meter.LastActivity = s.now()
}

// Get returns a copy of the meter for l.
func (s *Store) Get(l lens.Lens) (LensMeter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meters[l]
	if !ok {
		return LensMeter{}, false
	}
	return *m, true
}

// Snapshot copies every meter recorded so far.
func (s *Store) Snapshot() map[lens.Lens]LensMeter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[lens.Lens]LensMeter, len(s.meters))
	for l, m := range s.meters {
		out[l] = *m
	}
	return out
}
