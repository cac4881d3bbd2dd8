package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"custodial-ledger/internal/domain"
	"custodial-ledger/internal/errors"
)

type cardRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func (r *cardRepository) CreateCard(card *domain.Card) error {
	query := `
		INSERT INTO cards (id, account_id, card_number, expiry_month, expiry_year, cvv, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	_, err := r.db.Exec(
		query,
		card.ID,
		card.AccountID,
		card.CardNumber,
		card.ExpiryMonth,
		card.ExpiryYear,
		card.CVV,
		now,
	)

	if err != nil {
		r.logger.Error("Failed to create card", "card_id", card.ID, "account_id", card.AccountID, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create card").WithDetails(err.Error())
	}

	card.CreatedAt = now
	r.logger.Info("Card created", "card_id", card.ID, "account_id", card.AccountID, "last_four", card.LastFour())
	return nil
}

func (r *cardRepository) GetCard(accountID, cardID uuid.UUID) (*domain.Card, error) {
	query := `
		SELECT id, account_id, card_number, expiry_month, expiry_year, cvv, created_at
		FROM cards WHERE id = $1 AND account_id = $2
	`

	var card domain.Card
	err := r.db.QueryRow(query, cardID, accountID).Scan(
		&card.ID,
		&card.AccountID,
		&card.CardNumber,
		&card.ExpiryMonth,
		&card.ExpiryYear,
		&card.CVV,
		&card.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrCardNotFound
		}
		r.logger.Error("Failed to get card", "card_id", cardID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get card").WithDetails(err.Error())
	}

	return &card, nil
}

func (r *cardRepository) ListCardsByAccount(accountID uuid.UUID) ([]domain.Card, error) {
	query := `
		SELECT id, account_id, card_number, expiry_month, expiry_year, cvv, created_at
		FROM cards WHERE account_id = $1 ORDER BY created_at, id
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		r.logger.Error("Failed to list cards", "account_id", accountID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list cards").WithDetails(err.Error())
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID,
			&card.AccountID,
			&card.CardNumber,
			&card.ExpiryMonth,
			&card.ExpiryYear,
			&card.CVV,
			&card.CreatedAt,
		); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan card").WithDetails(err.Error())
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list cards").WithDetails(err.Error())
	}

	return cards, nil
}
