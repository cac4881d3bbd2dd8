package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Populated only when the account is returned as a full snapshot.
	Cards        []Card        `json:"cards"`
	Transactions []Transaction `json:"transactions"`
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccountByID(id uuid.UUID) (*Account, error)
	GetAccountByEmail(email string) (*Account, error)
	GetAccountForUpdate(id uuid.UUID) (*Account, error)
	UpdateAccountBalance(id uuid.UUID, newBalance decimal.Decimal) error
}
