package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionApproved TransactionStatus = "approved"
	TransactionDeclined TransactionStatus = "declined"
	TransactionCredited TransactionStatus = "credited"
)

// Transaction records one authorization attempt or credit event. Records
// are append-only per account; declined attempts are recorded too.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	AccountID   uuid.UUID         `json:"account_id"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status"`
	// CardID and CardNumber are nil/empty on interest credits.
	CardID     *uuid.UUID `json:"card_id"`
	CardNumber string     `json:"card_number,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
	// ListTransactionsByAccount returns records in insertion order.
	ListTransactionsByAccount(accountID uuid.UUID) ([]Transaction, error)
}
