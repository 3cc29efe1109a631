package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/financial-monitor/internal/infrastructure/observability"
	"github.com/honeynil/financial-monitor/internal/models"
	pkgerrors "github.com/honeynil/financial-monitor/pkg/errors"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// uniqueViolation is the only storage error downgraded to "not added";
// everything else surfaces as ErrStorageUnavailable.
const uniqueViolation = pq.ErrorCode("23505")

type PostgresTransactionStore struct {
	db *sql.DB
}

func NewPostgresTransactionStore(db *sql.DB) *PostgresTransactionStore {
	return &PostgresTransactionStore{db: db}
}

// EnsureSchema creates the transactions table if it does not exist. The ID is
// the primary key so uniqueness is enforced by the engine itself.
func (s *PostgresTransactionStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS transactions (
		seq BIGSERIAL,
		id VARCHAR(64) PRIMARY KEY,
		amount NUMERIC NOT NULL,
		currency CHAR(3) NOT NULL,
		status VARCHAR(20) NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresTransactionStore) Insert(ctx context.Context, tx *models.Transaction) (bool, error) {
	var err error
	tracer := otel.Tracer("transaction-store")
	ctx, span := tracer.Start(ctx, "InsertTransaction")
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.StoreCalls.WithLabelValues("InsertTransaction", status).Inc()
		observability.StoreDuration.WithLabelValues("InsertTransaction").Observe(time.Since(start).Seconds())
	}()

	if tx == nil {
		err = pkgerrors.ErrNilTransaction
		slog.Error("failed to insert transaction", "method", "Insert", "error", err)
		return false, err
	}

	span.SetAttributes(
		attribute.String("transaction_id", tx.ID),
		attribute.String("currency", tx.Currency),
		attribute.String("status", string(tx.Status)),
	)

	query := `INSERT INTO transactions (id, amount, currency, status, timestamp) VALUES ($1, $2, $3, $4, $5) RETURNING seq`
	insertErr := s.db.QueryRowContext(ctx, query, tx.ID, tx.Amount, tx.Currency, tx.Status, tx.Timestamp).Scan(&tx.Seq)
	if insertErr != nil {
		var pqErr *pq.Error
		if stderrors.As(insertErr, &pqErr) && pqErr.Code == uniqueViolation {
			// The single insert statement is all-or-nothing, so a key
			// conflict leaves no partial row behind.
			slog.Info("duplicate transaction rejected by store", "method", "Insert", "transaction_id", tx.ID)
			return false, nil
		}
		err = fmt.Errorf("%w: %v", pkgerrors.ErrStorageUnavailable, insertErr)
		slog.Error("failed to insert transaction", "method", "Insert", "transaction_id", tx.ID, "error", insertErr)
		return false, err
	}

	slog.Info("transaction inserted", "method", "Insert", "transaction_id", tx.ID, "currency", tx.Currency, "status", tx.Status)
	return true, nil
}

func (s *PostgresTransactionStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	var err error
	tracer := otel.Tracer("transaction-store")
	ctx, span := tracer.Start(ctx, "GetAllTransactions")
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.StoreCalls.WithLabelValues("GetAllTransactions", status).Inc()
		observability.StoreDuration.WithLabelValues("GetAllTransactions").Observe(time.Since(start).Seconds())
	}()

	query := `SELECT id, amount, currency, status, timestamp, seq FROM transactions ORDER BY timestamp DESC, seq DESC`
	rows, queryErr := s.db.QueryContext(ctx, query)
	if queryErr != nil {
		err = fmt.Errorf("%w: %v", pkgerrors.ErrStorageUnavailable, queryErr)
		slog.Error("failed to list transactions", "method", "GetAll", "error", queryErr)
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction
		if scanErr := rows.Scan(&tx.ID, &tx.Amount, &tx.Currency, &tx.Status, &tx.Timestamp, &tx.Seq); scanErr != nil {
			err = fmt.Errorf("%w: %v", pkgerrors.ErrStorageUnavailable, scanErr)
			slog.Error("failed to scan transaction", "method", "GetAll", "error", scanErr)
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		err = fmt.Errorf("%w: %v", pkgerrors.ErrStorageUnavailable, rowsErr)
		slog.Error("failed to iterate transactions", "method", "GetAll", "error", rowsErr)
		return nil, err
	}

	return transactions, nil
}

func (s *PostgresTransactionStore) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var err error
	tracer := otel.Tracer("transaction-store")
	ctx, span := tracer.Start(ctx, "GetTransactionByID")
	span.SetAttributes(attribute.String("transaction_id", id))
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.StoreCalls.WithLabelValues("GetTransactionByID", status).Inc()
		observability.StoreDuration.WithLabelValues("GetTransactionByID").Observe(time.Since(start).Seconds())
	}()

	var tx models.Transaction
	query := `SELECT id, amount, currency, status, timestamp, seq FROM transactions WHERE id = $1`
	err = s.db.QueryRowContext(ctx, query, id).Scan(&tx.ID, &tx.Amount, &tx.Currency, &tx.Status, &tx.Timestamp, &tx.Seq)
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrTransactionNotFound
		return nil, err
	}
	if err != nil {
		queryErr := err
		err = fmt.Errorf("%w: %v", pkgerrors.ErrStorageUnavailable, queryErr)
		slog.Error("failed to get transaction by id", "method", "GetByID", "transaction_id", id, "error", queryErr)
		return nil, err
	}

	return &tx, nil
}
