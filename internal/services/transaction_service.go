package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/financial-monitor/internal/infrastructure/kafka"
	"github.com/honeynil/financial-monitor/internal/models"
	"github.com/honeynil/financial-monitor/internal/repository"
	pkgerrors "github.com/honeynil/financial-monitor/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Broadcaster pushes accepted transactions to connected subscribers.
// Delivery is best-effort; a Publish error never fails ingestion.
type Broadcaster interface {
	Publish(ctx context.Context, tx models.Transaction) error
}

type TransactionService interface {
	// Process validates, normalizes, stores and broadcasts one inbound
	// record, returning the canonical stored transaction.
	Process(ctx context.Context, in *models.TransactionInput) (*models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
}

type transactionService struct {
	store       repository.TransactionStore
	broadcaster Broadcaster
	audit       kafka.KafkaProducer
}

// NewTransactionService wires the ingestion pipeline. audit may be nil when no
// Kafka broker is configured.
func NewTransactionService(store repository.TransactionStore, broadcaster Broadcaster, audit kafka.KafkaProducer) TransactionService {
	return &transactionService{store: store, broadcaster: broadcaster, audit: audit}
}

func (s *transactionService) Process(ctx context.Context, in *models.TransactionInput) (*models.Transaction, error) {
	tracer := otel.Tracer("transaction-service")
	ctx, span := tracer.Start(ctx, "ProcessTransaction")
	defer span.End()

	if in == nil {
		slog.Error("nil input rejected", "method", "Process")
		span.SetStatus(codes.Error, "nil input")
		return nil, pkgerrors.ErrInvalidInput
	}

	// Validation sees the raw currency/status before any defaulting.
	if err := ValidateInput(in); err != nil {
		slog.Info("transaction rejected", "method", "Process", "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	tx := in.ToTransaction(time.Now().UTC())
	span.SetAttributes(
		attribute.String("transaction_id", tx.ID),
		attribute.String("currency", tx.Currency),
		attribute.String("status", string(tx.Status)),
	)

	added, err := s.store.Insert(ctx, tx)
	if err != nil {
		slog.Error("failed to store transaction", "method", "Process", "transaction_id", tx.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store insert failed")
		return nil, err
	}
	if !added {
		err := pkgerrors.Wrap(pkgerrors.ErrDuplicateTransaction,
			fmt.Sprintf("Transaction with ID '%s' already exists.", tx.ID))
		slog.Info("duplicate transaction rejected", "method", "Process", "transaction_id", tx.ID)
		span.SetStatus(codes.Error, "duplicate transaction")
		return nil, err
	}

	// The record is committed from here on; fan-out failures are logged only.
	if err := s.broadcaster.Publish(ctx, *tx); err != nil {
		slog.Error("failed to broadcast transaction", "method", "Process", "transaction_id", tx.ID, "error", err)
		span.RecordError(err)
	}

	if s.audit != nil {
		payload, err := json.Marshal(tx)
		if err != nil {
			slog.Error("failed to marshal audit event", "transaction_id", tx.ID, "error", err)
		} else if err := s.audit.Send(ctx, tx.ID, payload); err != nil {
			slog.Error("failed to send audit event", "transaction_id", tx.ID, "error", err)
		}
	}

	slog.Info("transaction accepted", "method", "Process", "transaction_id", tx.ID, "currency", tx.Currency, "status", tx.Status)
	return tx, nil
}

func (s *transactionService) List(ctx context.Context) ([]models.Transaction, error) {
	return s.store.GetAll(ctx)
}

func (s *transactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.store.GetByID(ctx, id)
}
