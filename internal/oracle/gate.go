// File: internal/oracle/gate.go
package oracle

import (
	"context"
	"sync"

	"github.com/shadowglass/inquest/api/schemas"
)

// Gate serializes access to a shared oracle. The underlying inference
// session is a single non-reentrant resource: chat generation, language
// correction and investigation reports must all go through the same Gate,
// which holds the lock for exactly the duration of the call and releases it
// on failure too.
//
// This bounds throughput to one completion at a time regardless of request
// concurrency; the wrapped client's timeout keeps a stuck call from holding
// the gate forever.
type Gate struct {
	mu    sync.Mutex
	inner schemas.Oracle
}

// NewGate wraps inner with the exclusive lock.
func NewGate(inner schemas.Oracle) *Gate {
	return &Gate{inner: inner}
}

// Complete acquires the gate, delegates, and releases.
func (g *Gate) Complete(ctx context.Context, req schemas.CompletionRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.Complete(ctx, req)
}

// Close delegates to the wrapped oracle.
func (g *Gate) Close() error {
	return g.inner.Close()
}

var _ schemas.Oracle = (*Gate)(nil)
