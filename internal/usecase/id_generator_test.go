package usecase

import (
	"context"
	"sync"
	"testing"

	"banking-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionIDFormat(t *testing.T) {
	f := newFixture(t)

	id, err := f.ids.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TX-20250314-000001", id)
	assert.Equal(t, int64(1), f.ids.Current())
}

func TestTransactionIDResumesFromStore(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mr.Set(repository.TransactionCounterKey(), "41"))

	ids, err := NewTransactionIDGenerator(context.Background(), f.ledger.txRepo, f.clock.Now)
	require.NoError(t, err)
	assert.Equal(t, int64(41), ids.Current())

	id, err := ids.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TX-20250314-000042", id)
}

func TestTransactionIDsAreUnique(t *testing.T) {
	f := newFixture(t)

	const n = 64
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := f.ids.Next(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
	assert.Equal(t, int64(n), f.ids.Current())
}
