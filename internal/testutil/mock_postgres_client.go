package testutil

import (
	"context"
	"sync/atomic"

	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient runs transactional blocks inline and counts them
type MockPostgresClient struct {
	logger *logger.Logger
	txs    atomic.Int32
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function without a real transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	c.txs.Add(1)
	return fn(ctx)
}

// TxCount is the number of WithTx calls seen so far
func (c *MockPostgresClient) TxCount() int {
	return int(c.txs.Load())
}
