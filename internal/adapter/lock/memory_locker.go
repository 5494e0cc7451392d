package lock

import (
	"context"
	"sync"

	"github.com/salesdeck/salesdeck/internal/ports"
)

// MemoryDealLocker serializes writes per deal with in-process mutexes. It is
// the right locker for single-node deployments and tests; multi-process
// deployments behind a load balancer need the Redis locker.
type MemoryDealLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMemoryDealLocker creates an in-process deal locker
func NewMemoryDealLocker() *MemoryDealLocker {
	return &MemoryDealLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until the per-deal mutex is held
func (l *MemoryDealLocker) Lock(ctx context.Context, dealID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[dealID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[dealID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

var _ ports.DealLocker = (*MemoryDealLocker)(nil)
