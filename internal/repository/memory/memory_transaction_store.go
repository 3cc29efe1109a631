package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/honeynil/financial-monitor/internal/models"
	pkgerrors "github.com/honeynil/financial-monitor/pkg/errors"
)

// Store is an in-process TransactionStore backed by a mutex-guarded map.
// The existence check and the write happen under one lock, so concurrent
// inserts of the same ID yield exactly one success.
type Store struct {
	mu           sync.RWMutex
	transactions map[string]models.Transaction
	seq          int64
}

func NewStore() *Store {
	return &Store{transactions: make(map[string]models.Transaction)}
}

func (s *Store) Insert(ctx context.Context, tx *models.Transaction) (bool, error) {
	if tx == nil {
		return false, pkgerrors.ErrNilTransaction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ID]; exists {
		return false, nil
	}

	s.seq++
	tx.Seq = s.seq
	s.transactions[tx.ID] = *tx
	return true, nil
}

func (s *Store) GetAll(ctx context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	snapshot := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		snapshot = append(snapshot, tx)
	}
	s.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		if !snapshot[i].Timestamp.Equal(snapshot[j].Timestamp) {
			return snapshot[i].Timestamp.After(snapshot[j].Timestamp)
		}
		return snapshot[i].Seq > snapshot[j].Seq
	})
	return snapshot, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.transactions[id]
	if !exists {
		return nil, pkgerrors.ErrTransactionNotFound
	}
	return &tx, nil
}
