package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/honeynil/financial-monitor/internal/models"
	pkgerrors "github.com/honeynil/financial-monitor/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTransaction(id string, ts time.Time) *models.Transaction {
	return &models.Transaction{
		ID:        id,
		Amount:    decimal.NewFromInt(10),
		Currency:  "USD",
		Status:    models.StatusPending,
		Timestamp: ts,
	}
}

func TestStore_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("NilTransaction", func(t *testing.T) {
		store := NewStore()
		added, err := store.Insert(ctx, nil)
		assert.False(t, added)
		assert.ErrorIs(t, err, pkgerrors.ErrNilTransaction)
	})

	t.Run("InsertIfAbsent", func(t *testing.T) {
		store := NewStore()
		now := time.Now().UTC()

		added, err := store.Insert(ctx, newTransaction("tx-1", now))
		assert.NoError(t, err)
		assert.True(t, added)

		added, err = store.Insert(ctx, newTransaction("tx-1", now))
		assert.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("ConcurrentSameIDExactlyOneSucceeds", func(t *testing.T) {
		store := NewStore()
		now := time.Now().UTC()

		const workers = 32
		var wg sync.WaitGroup
		results := make(chan bool, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				added, err := store.Insert(ctx, newTransaction("race-1", now))
				assert.NoError(t, err)
				results <- added
			}()
		}
		wg.Wait()
		close(results)

		successes := 0
		for added := range results {
			if added {
				successes++
			}
		}
		assert.Equal(t, 1, successes)

		all, err := store.GetAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("StoredCopyIsImmutable", func(t *testing.T) {
		store := NewStore()
		tx := newTransaction("tx-imm", time.Now().UTC())
		_, err := store.Insert(ctx, tx)
		assert.NoError(t, err)

		tx.Currency = "JPY"

		stored, err := store.GetByID(ctx, "tx-imm")
		assert.NoError(t, err)
		assert.Equal(t, "USD", stored.Currency)
	})
}

func TestStore_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyStore", func(t *testing.T) {
		store := NewStore()
		all, err := store.GetAll(ctx)
		assert.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("OrderedByTimestampDescending", func(t *testing.T) {
		store := NewStore()
		base := time.Now().UTC()

		for i, offset := range []time.Duration{-10 * time.Minute, -5 * time.Minute, 0} {
			_, err := store.Insert(ctx, newTransaction(fmt.Sprintf("tx-%d", i), base.Add(offset)))
			assert.NoError(t, err)
		}

		all, err := store.GetAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Equal(t, "tx-2", all[0].ID)
		assert.Equal(t, "tx-1", all[1].ID)
		assert.Equal(t, "tx-0", all[2].ID)
	})

	t.Run("EqualTimestampsBrokenByInsertionOrder", func(t *testing.T) {
		store := NewStore()
		now := time.Now().UTC()

		for _, id := range []string{"first", "second", "third"} {
			_, err := store.Insert(ctx, newTransaction(id, now))
			assert.NoError(t, err)
		}

		all, err := store.GetAll(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "third", all[0].ID)
		assert.Equal(t, "second", all[1].ID)
		assert.Equal(t, "first", all[2].ID)
	})

	t.Run("SnapshotNotLiveView", func(t *testing.T) {
		store := NewStore()
		now := time.Now().UTC()
		_, err := store.Insert(ctx, newTransaction("tx-snap", now))
		assert.NoError(t, err)

		all, err := store.GetAll(ctx)
		assert.NoError(t, err)

		_, err = store.Insert(ctx, newTransaction("tx-later", now.Add(time.Minute)))
		assert.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestStore_GetByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pkgerrors.ErrTransactionNotFound)

	_, err = store.Insert(ctx, newTransaction("tx-1", time.Now().UTC()))
	assert.NoError(t, err)

	tx, err := store.GetByID(ctx, "tx-1")
	assert.NoError(t, err)
	assert.Equal(t, "tx-1", tx.ID)
}
