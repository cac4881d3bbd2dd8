package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"custodial-ledger/internal/domain"
	"custodial-ledger/internal/errors"
)

// AccountService is the account directory: it resolves external identities
// (emails) to accounts and enforces one account per email.
type AccountService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewAccountService(store domain.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
	}
}

// ResolveOrCreate returns the account registered for email, creating it if
// none exists. The name is only used on first creation; resolving an
// existing account never alters its stored name. The returned flag is true
// when a new account was created.
func (s *AccountService) ResolveOrCreate(name, email string) (*domain.Account, bool, error) {
	if name == "" || email == "" {
		return nil, false, errors.NewAppError(errors.InvalidInput, "name and email are required")
	}

	var account *domain.Account
	var created bool

	// Lookup and creation run in one transaction so the email index and
	// the account appear together.
	err := s.store.WithTransaction(func(store domain.Store) error {
		existing, err := store.Accounts().GetAccountByEmail(email)
		if err == nil {
			account = existing
			return loadSnapshot(store, account)
		}
		if err != errors.ErrAccountNotFound {
			return err
		}

		account = &domain.Account{
			ID:      uuid.New(),
			Name:    name,
			Email:   email,
			Balance: decimal.Zero,
		}
		if err := store.Accounts().CreateAccount(account); err != nil {
			return err
		}
		created = true
		account.Cards = []domain.Card{}
		account.Transactions = []domain.Transaction{}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("Account created", "account_id", account.ID, "email", email)
	} else {
		s.logger.Info("Account resolved", "account_id", account.ID, "email", email)
	}
	return account, created, nil
}

// GetAccountByEmail returns the full snapshot of the account registered
// for email.
func (s *AccountService) GetAccountByEmail(email string) (*domain.Account, error) {
	var account *domain.Account
	err := s.store.WithTransaction(func(store domain.Store) error {
		found, err := store.Accounts().GetAccountByEmail(email)
		if err != nil {
			return err
		}
		account = found
		return loadSnapshot(store, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns the full snapshot of the account with the given id.
func (s *AccountService) GetAccount(accountID string) (*domain.Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}

	var account *domain.Account
	err = s.store.WithTransaction(func(store domain.Store) error {
		found, err := store.Accounts().GetAccountByID(id)
		if err != nil {
			return err
		}
		account = found
		return loadSnapshot(store, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// parseAccountID maps malformed ids to not-found: a bad id cannot refer to
// any account.
func parseAccountID(accountID string) (uuid.UUID, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return uuid.Nil, errors.ErrAccountNotFound
	}
	return id, nil
}
