package repository

import (
	"context"

	"github.com/honeynil/financial-monitor/internal/models"
)

// TransactionStore is the single owner of accepted transactions. Insert is
// atomic insert-if-absent: for any ID, across any number of concurrent calls,
// exactly one returns true.
type TransactionStore interface {
	// Insert adds the record iff no record with the same ID exists and
	// reports whether it was newly added. A uniqueness conflict is not an
	// error.
	Insert(ctx context.Context, tx *models.Transaction) (bool, error)

	// GetAll returns a snapshot ordered by timestamp descending, insertion
	// sequence breaking ties.
	GetAll(ctx context.Context) ([]models.Transaction, error)

	// GetByID returns pkg/errors.ErrTransactionNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
}
