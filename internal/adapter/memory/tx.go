package memory

import (
	"context"

	"github.com/salesdeck/salesdeck/internal/ports"
)

// TxManager satisfies ports.TxManager for the in-memory backend. The map
// repositories have no transactional semantics, so the function runs directly.
type TxManager struct{}

func NewTxManager() *TxManager { return &TxManager{} }

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ ports.TxManager = (*TxManager)(nil)
