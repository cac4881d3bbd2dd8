package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Card is a payment credential bound to exactly one account. Cards are
// immutable once issued; removing the account removes its cards.
type Card struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	CardNumber  string    `json:"card_number"`
	ExpiryMonth int       `json:"expiry_month"`
	ExpiryYear  int       `json:"expiry_year"`
	CVV         string    `json:"cvv"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expiry formats the expiry pair as MM/YYYY for display.
func (c *Card) Expiry() string {
	return fmt.Sprintf("%02d/%d", c.ExpiryMonth, c.ExpiryYear)
}

// LastFour returns the last four digits of the card number. Logs use this
// instead of the full number.
func (c *Card) LastFour() string {
	if len(c.CardNumber) < 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

type CardRepository interface {
	CreateCard(card *Card) error
	// GetCard looks a card up within a single account; a card id that
	// exists under a different account is not found.
	GetCard(accountID, cardID uuid.UUID) (*Card, error)
	ListCardsByAccount(accountID uuid.UUID) ([]Card, error)
}
