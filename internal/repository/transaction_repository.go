package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"custodial-ledger/internal/domain"
	"custodial-ledger/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, account_id, amount, description, status, card_id, card_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()

	// Interest credits carry no card reference.
	var cardID interface{}
	if tx.CardID != nil {
		cardID = *tx.CardID
	}
	var cardNumber interface{}
	if tx.CardNumber != "" {
		cardNumber = tx.CardNumber
	}

	_, err := r.db.Exec(
		query,
		tx.ID,
		tx.AccountID,
		tx.Amount.String(),
		tx.Description,
		tx.Status,
		cardID,
		cardNumber,
		now,
	)

	if err != nil {
		r.logger.Error("Failed to create transaction",
			"transaction_id", tx.ID,
			"account_id", tx.AccountID,
			"status", tx.Status,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create transaction").WithDetails(err.Error())
	}

	tx.CreatedAt = now
	r.logger.Info("Transaction recorded", "transaction_id", tx.ID, "account_id", tx.AccountID, "status", tx.Status)
	return nil
}

func (r *transactionRepository) ListTransactionsByAccount(accountID uuid.UUID) ([]domain.Transaction, error) {
	// seq preserves insertion order even when created_at collides.
	query := `
		SELECT id, account_id, amount, description, status, card_id, card_number, created_at
		FROM transactions WHERE account_id = $1 ORDER BY seq
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		var amountStr string
		var cardID uuid.NullUUID
		var cardNumber sql.NullString

		if err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&amountStr,
			&tx.Description,
			&tx.Status,
			&cardID,
			&cardNumber,
			&tx.CreatedAt,
		); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse amount").WithDetails(err.Error())
		}
		tx.Amount = amount

		if cardID.Valid {
			id := cardID.UUID
			tx.CardID = &id
		}
		if cardNumber.Valid {
			tx.CardNumber = cardNumber.String
		}

		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}

	return transactions, nil
}
