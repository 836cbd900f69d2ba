package geo

import (
	"fmt"
	"sync"
)

// AutofillKey builds the composite key that identifies one set of derived
// forecast inputs. Two requests with the same key would produce the same
// forecast, so the automatic re-run can be skipped.
func AutofillKey(district, propertyType string, landSize float64) string {
	return fmt.Sprintf("%s|%s|%g", district, propertyType, landSize)
}

// Memo remembers the key of the last automatic forecast run. It is an
// explicit last-key comparison, not a cache of results.
type Memo struct {
	mu      sync.Mutex
	lastKey string
}

// ShouldRun reports whether the key differs from the last recorded run and
// records it when it does.
func (m *Memo) ShouldRun(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.lastKey {
		return false
	}
	m.lastKey = key
	return true
}

// Reset clears the recorded key so the next run always fires.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastKey = ""
}
