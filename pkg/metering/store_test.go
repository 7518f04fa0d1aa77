package metering

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/perspective"
)

func TestStore_Observe(t *testing.T) {
	s := NewStore()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Observe(lens.Money, perspective.SourceLive, 100*time.Millisecond)
	s.Observe(lens.Money, perspective.SourceFallback, 300*time.Millisecond)
	s.Observe(lens.Subtext, perspective.SourceDemo, 0)

	m, ok := s.Get(lens.Money)
	require.True(t, ok)
	assert.Equal(t, int64(2), m.Calls)
	assert.Equal(t, int64(1), m.Live)
	assert.Equal(t, int64(1), m.Fallbacks)
	assert.InDelta(t, 200.0, m.AverageLatency(), 0.001)
	assert.Equal(t, fixed, m.LastActivity)

	_, ok = s.Get(lens.Establishment)
	assert.False(t, ok)
	assert.Equal(t, 0.0, LensMeter{}.AverageLatency())
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.Observe(lens.Subtext, perspective.SourceDemo, time.Millisecond)

	snap := s.Snapshot()
	s.Observe(lens.Subtext, perspective.SourceDemo, time.Millisecond)
	assert.Equal(t, int64(1), snap[lens.Subtext].Calls)
	assert.Equal(t, int64(2), s.Snapshot()[lens.Subtext].Calls)
}

func TestStore_SnapshotJSONKeys(t *testing.T) {
	s := NewStore()
	s.Observe(lens.Establishment, perspective.SourceLive, time.Millisecond)

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"The Establishment":{`)
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for range 50 {
		for _, l := range lens.All() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Observe(l, perspective.SourceLive, time.Millisecond)
			}()
		}
	}
	wg.Wait()
	for _, m := range s.Snapshot() {
		assert.Equal(t, int64(50), m.Calls)
	}
}
