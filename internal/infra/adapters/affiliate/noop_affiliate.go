package affiliate

import (
	"context"
	"sync"

	"incentoro/internal/domain/ports/adapter"
)

var _ adapter.AffiliateNetwork = (*NoopNetwork)(nil)

// NoopNetwork serves a fixed transaction list from memory. Used in tests and
// when no API key is configured.
type NoopNetwork struct {
	mu  sync.Mutex
	txs []adapter.NetworkTransaction
}

func NewNoopNetwork(txs ...adapter.NetworkTransaction) *NoopNetwork {
	return &NoopNetwork{txs: txs}
}

func (n *NoopNetwork) Name() string { return "noop" }

func (n *NoopNetwork) ListTransactions(ctx context.Context) ([]adapter.NetworkTransaction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]adapter.NetworkTransaction, len(n.txs))
	copy(out, n.txs)
	return out, nil
}

func (n *NoopNetwork) Add(tx adapter.NetworkTransaction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.txs = append(n.txs, tx)
}
