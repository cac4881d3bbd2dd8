package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"custodial-ledger/internal/card"
	"custodial-ledger/internal/domain"
	"custodial-ledger/internal/errors"
	"custodial-ledger/internal/merchant"
)

const interestDescription = "Interest applied"

// LedgerService owns every balance-affecting operation: deposits, card
// issuance, transaction authorization and interest accrual. Each mutation
// runs inside a store transaction keyed on the target account, so balance
// updates never race.
type LedgerService struct {
	store        domain.Store
	issuer       *card.Issuer
	qualifier    *merchant.Qualifier
	interestRate decimal.Decimal
	logger       *slog.Logger
}

func NewLedgerService(
	store domain.Store,
	issuer *card.Issuer,
	qualifier *merchant.Qualifier,
	interestRate decimal.Decimal,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		store:        store,
		issuer:       issuer,
		qualifier:    qualifier,
		interestRate: interestRate,
		logger:       logger,
	}
}

// Deposit increases the account balance. Deposits are balance-only events:
// no transaction record is appended.
func (s *LedgerService) Deposit(accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if !amount.IsPositive() {
		return decimal.Decimal{}, errors.ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	err = s.store.WithTransaction(func(store domain.Store) error {
		account, err := store.Accounts().GetAccountForUpdate(id)
		if err != nil {
			return err
		}

		newBalance = account.Balance.Add(amount)
		return store.Accounts().UpdateAccountBalance(id, newBalance)
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	s.logger.Info("Deposit applied", "account_id", id, "amount", amount, "new_balance", newBalance)
	return newBalance, nil
}

// IssueCard generates a new card and appends it to the account.
func (s *LedgerService) IssueCard(accountID string) (*domain.Card, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}

	var issued *domain.Card
	err = s.store.WithTransaction(func(store domain.Store) error {
		if _, err := store.Accounts().GetAccountForUpdate(id); err != nil {
			return err
		}

		c, err := s.issuer.Issue(id)
		if err != nil {
			return errors.NewAppError(errors.InternalError, "failed to generate card").WithDetails(err.Error())
		}
		if err := store.Cards().CreateCard(c); err != nil {
			return err
		}
		issued = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Card issued", "account_id", id, "card_id", issued.ID, "last_four", issued.LastFour())
	return issued, nil
}

// AuthorizationRequest carries the fields of one authorization attempt.
type AuthorizationRequest struct {
	AccountID   string
	CardID      string
	Amount      decimal.Decimal
	Description string
}

// AuthorizeTransaction decides an authorization attempt and records it.
// The decision, in order: unqualified merchant → declined; insufficient
// balance → declined; otherwise approved and the amount is debited. A
// record is appended either way — declines are recorded outcomes, not
// errors. Returns the updated account snapshot and the new record.
func (s *LedgerService) AuthorizeTransaction(req AuthorizationRequest) (*domain.Account, *domain.Transaction, error) {
	id, err := parseAccountID(req.AccountID)
	if err != nil {
		return nil, nil, err
	}

	if req.Description == "" || req.CardID == "" {
		return nil, nil, errors.NewAppError(errors.InvalidInput, "amount, description, and card_id are required")
	}
	if !req.Amount.IsPositive() {
		return nil, nil, errors.ErrInvalidAmount
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		return nil, nil, errors.ErrCardNotFound
	}

	var account *domain.Account
	var record *domain.Transaction
	err = s.store.WithTransaction(func(store domain.Store) error {
		acc, err := store.Accounts().GetAccountForUpdate(id)
		if err != nil {
			return err
		}

		usedCard, err := store.Cards().GetCard(id, cardID)
		if err != nil {
			return err
		}

		status := domain.TransactionDeclined
		if s.qualifier.IsQualified(req.Description) && acc.Balance.GreaterThanOrEqual(req.Amount) {
			status = domain.TransactionApproved
			acc.Balance = acc.Balance.Sub(req.Amount)
			if err := store.Accounts().UpdateAccountBalance(id, acc.Balance); err != nil {
				return err
			}
		}

		record = &domain.Transaction{
			ID:          uuid.New(),
			AccountID:   id,
			Amount:      req.Amount,
			Description: req.Description,
			Status:      status,
			CardID:      &usedCard.ID,
			CardNumber:  usedCard.CardNumber,
		}
		if err := store.Transactions().CreateTransaction(record); err != nil {
			return err
		}

		account = acc
		return loadSnapshot(store, account)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Authorization processed",
		"account_id", id,
		"transaction_id", record.ID,
		"status", record.Status,
		"amount", req.Amount)
	return account, record, nil
}

// ApplyInterest credits balance * rate to the account and appends a
// credited record with no card reference. No qualification check applies.
func (s *LedgerService) ApplyInterest(accountID string) (decimal.Decimal, *domain.Transaction, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return decimal.Decimal{}, nil, err
	}

	var newBalance decimal.Decimal
	var record *domain.Transaction
	err = s.store.WithTransaction(func(store domain.Store) error {
		account, err := store.Accounts().GetAccountForUpdate(id)
		if err != nil {
			return err
		}

		interest := account.Balance.Mul(s.interestRate)
		newBalance = account.Balance.Add(interest)
		if err := store.Accounts().UpdateAccountBalance(id, newBalance); err != nil {
			return err
		}

		record = &domain.Transaction{
			ID:          uuid.New(),
			AccountID:   id,
			Amount:      interest,
			Description: interestDescription,
			Status:      domain.TransactionCredited,
		}
		return store.Transactions().CreateTransaction(record)
	})
	if err != nil {
		return decimal.Decimal{}, nil, err
	}

	s.logger.Info("Interest applied", "account_id", id, "amount", record.Amount, "new_balance", newBalance)
	return newBalance, record, nil
}
