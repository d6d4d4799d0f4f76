package testutil

import (
	"sync"
	"time"

	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

var _ types.Clock = (*MockClock)(nil)

// MockClock is a clock tests can move
type MockClock struct {
	mu sync.RWMutex
	t  time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{t: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
