package usecase

import (
	"context"
	"fmt"
	"sync"

	"banking-service/internal/repository"
)

// TransactionIDGenerator mints globally unique ledger ids of the form
// TX-YYYYMMDD-NNNNNN. The sequence lives in the store; the generator keeps a
// mirror of the last value it saw.
type TransactionIDGenerator struct {
	mu      sync.Mutex
	repo    repository.TransactionRepository
	now     Clock
	current int64
}

// NewTransactionIDGenerator loads the persisted counter so the mirror starts
// from where the previous process stopped.
func NewTransactionIDGenerator(ctx context.Context, repo repository.TransactionRepository, now Clock) (*TransactionIDGenerator, error) {
	cur, err := repo.CurrentSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transaction counter: %w", err)
	}
	return &TransactionIDGenerator{repo: repo, now: clockOrDefault(now), current: cur}, nil
}

// Next increments the store counter and formats the new id. The counter is
// persisted before the id string exists.
func (g *TransactionIDGenerator) Next(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, err := g.repo.NextSequence(ctx)
	if err != nil {
		return "", err
	}
	g.current = n
	return fmt.Sprintf("TX-%s-%06d", g.now().Format("20060102"), n), nil
}

// Current returns the last sequence number observed by this process.
func (g *TransactionIDGenerator) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}
