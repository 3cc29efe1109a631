package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the canonical stored record. Immutable once accepted.
type Transaction struct {
	ID        string            `json:"id"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  string            `json:"currency"`
	Status    TransactionStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`

	// Seq is the store's insertion sequence, used only to break ordering
	// ties between equal timestamps.
	Seq int64 `json:"-"`
}

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "Pending"
	StatusCompleted TransactionStatus = "Completed"
	StatusFailed    TransactionStatus = "Failed"
)

// ParseStatus maps a raw status string to its canonical variant.
func ParseStatus(s string) (TransactionStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "completed":
		return StatusCompleted, true
	case "failed":
		return StatusFailed, true
	default:
		return "", false
	}
}

// MaxIDLength bounds client-supplied transaction IDs.
const MaxIDLength = 64

// TransactionInput is the untrusted inbound record.
type TransactionInput struct {
	ID        string          `json:"id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

// ToTransaction normalizes the input into a canonical Transaction: a blank ID
// gets a fresh UUID, the currency is uppercased and the timestamp defaults to
// now. Validation must have run before this is trusted.
func (in *TransactionInput) ToTransaction(now time.Time) *Transaction {
	id := in.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	ts := now
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	status, _ := ParseStatus(in.Status)

	return &Transaction{
		ID:        id,
		Amount:    in.Amount,
		Currency:  strings.ToUpper(strings.TrimSpace(in.Currency)),
		Status:    status,
		Timestamp: ts,
	}
}
