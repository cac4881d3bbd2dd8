package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodial-ledger/internal/card"
	"custodial-ledger/internal/domain"
	"custodial-ledger/internal/errors"
	"custodial-ledger/internal/merchant"
	"custodial-ledger/internal/repository"
)

type fixture struct {
	accounts *AccountService
	ledger   *LedgerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore(logger)
	return &fixture{
		accounts: NewAccountService(store, logger),
		ledger: NewLedgerService(
			store,
			card.NewIssuer(),
			merchant.NewQualifier(),
			decimal.NewFromFloat(0.01),
			logger,
		),
	}
}

func (f *fixture) mustAccount(t *testing.T, name, email string) *domain.Account {
	t.Helper()
	account, created, err := f.accounts.ResolveOrCreate(name, email)
	require.NoError(t, err)
	require.True(t, created)
	return account
}

func (f *fixture) mustCard(t *testing.T, accountID uuid.UUID) *domain.Card {
	t.Helper()
	c, err := f.ledger.IssueCard(accountID.String())
	require.NoError(t, err)
	return c
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")

	balance, err := f.ledger.Deposit(account.ID.String(), dec("500"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("500")))

	// Deposits are balance-only: the history stays empty.
	snap, err := f.accounts.GetAccount(account.ID.String())
	require.NoError(t, err)
	assert.Empty(t, snap.Transactions)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")

	for _, amount := range []string{"-5", "0"} {
		_, err := f.ledger.Deposit(account.ID.String(), dec(amount))
		assert.ErrorIs(t, err, errors.ErrInvalidAmount, "amount %s", amount)
	}

	snap, err := f.accounts.GetAccount(account.ID.String())
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(decimal.Zero), "failed deposits must not move the balance")
}

func TestDepositMissingAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Deposit(uuid.NewString(), dec("10"))
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)

	_, err = f.ledger.Deposit("not-a-uuid", dec("10"))
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestIssueCard(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")

	c, err := f.ledger.IssueCard(account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, account.ID, c.AccountID)
	assert.Len(t, c.CardNumber, 16)

	snap, err := f.accounts.GetAccount(account.ID.String())
	require.NoError(t, err)
	require.Len(t, snap.Cards, 1)
	assert.Equal(t, c.ID, snap.Cards[0].ID)
}

func TestIssueCardMissingAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.IssueCard(uuid.NewString())
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestAuthorizeQualifiedWithFunds(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")
	_, err := f.ledger.Deposit(account.ID.String(), dec("500"))
	require.NoError(t, err)
	c := f.mustCard(t, account.ID)

	snap, tx, err := f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   account.ID.String(),
		CardID:      c.ID.String(),
		Amount:      dec("200"),
		Description: "PHARMACY downtown",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionApproved, tx.Status)
	assert.True(t, tx.Amount.Equal(dec("200")))
	assert.Equal(t, c.CardNumber, tx.CardNumber)
	require.NotNil(t, tx.CardID)
	assert.Equal(t, c.ID, *tx.CardID)

	assert.True(t, snap.Balance.Equal(dec("300")))
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, tx.ID, snap.Transactions[0].ID)
}

func TestAuthorizeUnqualifiedMerchantDeclined(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")
	_, err := f.ledger.Deposit(account.ID.String(), dec("1000"))
	require.NoError(t, err)
	c := f.mustCard(t, account.ID)

	snap, tx, err := f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   account.ID.String(),
		CardID:      c.ID.String(),
		Amount:      dec("5"),
		Description: "Coffee Shop",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionDeclined, tx.Status)
	assert.True(t, snap.Balance.Equal(dec("1000")), "declines never move the balance")
	// The decline is still recorded.
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, domain.TransactionDeclined, snap.Transactions[0].Status)
}

func TestAuthorizeInsufficientFundsDeclined(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")
	_, err := f.ledger.Deposit(account.ID.String(), dec("100"))
	require.NoError(t, err)
	c := f.mustCard(t, account.ID)

	snap, tx, err := f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   account.ID.String(),
		CardID:      c.ID.String(),
		Amount:      dec("250"),
		Description: "Dentist",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionDeclined, tx.Status)
	assert.True(t, snap.Balance.Equal(dec("100")))
}

func TestAuthorizeValidation(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")
	c := f.mustCard(t, account.ID)

	_, _, err := f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID: account.ID.String(),
		CardID:    c.ID.String(),
		Amount:    dec("10"),
	})
	appErr := &errors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.InvalidInput, appErr.Code)

	_, _, err = f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   account.ID.String(),
		Amount:      dec("10"),
		Description: "Pharmacy",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.InvalidInput, appErr.Code)

	_, _, err = f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   account.ID.String(),
		CardID:      c.ID.String(),
		Amount:      dec("-10"),
		Description: "Pharmacy",
	})
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	// Failed validations leave no trace in the history.
	snap, err := f.accounts.GetAccount(account.ID.String())
	require.NoError(t, err)
	assert.Empty(t, snap.Transactions)
}

func TestAuthorizeUnknownCard(t *testing.T) {
	f := newFixture(t)
	alice := f.mustAccount(t, "Alice", "alice@x.com")
	bob := f.mustAccount(t, "Bob", "bob@x.com")
	bobCard := f.mustCard(t, bob.ID)

	// Another account's card is not found within this account.
	_, _, err := f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   alice.ID.String(),
		CardID:      bobCard.ID.String(),
		Amount:      dec("10"),
		Description: "Pharmacy",
	})
	assert.ErrorIs(t, err, errors.ErrCardNotFound)

	_, _, err = f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   alice.ID.String(),
		CardID:      uuid.NewString(),
		Amount:      dec("10"),
		Description: "Pharmacy",
	})
	assert.ErrorIs(t, err, errors.ErrCardNotFound)
}

func TestApplyInterest(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")
	_, err := f.ledger.Deposit(account.ID.String(), dec("1000.00"))
	require.NoError(t, err)

	balance, tx, err := f.ledger.ApplyInterest(account.ID.String())
	require.NoError(t, err)

	assert.True(t, balance.Equal(dec("1010.00")), "got %s", balance)
	assert.Equal(t, domain.TransactionCredited, tx.Status)
	assert.True(t, tx.Amount.Equal(dec("10.00")), "got %s", tx.Amount)
	assert.Nil(t, tx.CardID)
	assert.Empty(t, tx.CardNumber)

	snap, err := f.accounts.GetAccount(account.ID.String())
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, domain.TransactionCredited, snap.Transactions[0].Status)
}

func TestApplyInterestMissingAccount(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.ledger.ApplyInterest(uuid.NewString())
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

// Mirrors the end-to-end account lifecycle: create, fund, issue a card,
// one approved and one declined authorization.
func TestAccountLifecycle(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")

	balance, err := f.ledger.Deposit(account.ID.String(), dec("500"))
	require.NoError(t, err)
	require.True(t, balance.Equal(dec("500")))

	c := f.mustCard(t, account.ID)

	snap, tx, err := f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   account.ID.String(),
		CardID:      c.ID.String(),
		Amount:      dec("200"),
		Description: "Hospital visit",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionApproved, tx.Status)
	assert.True(t, snap.Balance.Equal(dec("300")))
	assert.Len(t, snap.Transactions, 1)

	snap, tx, err = f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   account.ID.String(),
		CardID:      c.ID.String(),
		Amount:      dec("1000"),
		Description: "Dentist",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionDeclined, tx.Status)
	assert.True(t, snap.Balance.Equal(dec("300")))
	assert.Len(t, snap.Transactions, 2)
}

// Balance must always equal deposits plus credits minus approved debits.
func TestBalanceReconciliation(t *testing.T) {
	f := newFixture(t)
	account := f.mustAccount(t, "Alice", "alice@x.com")
	c := f.mustCard(t, account.ID)

	deposits := dec("0")
	for _, amount := range []string{"100", "250.50", "9.99"} {
		_, err := f.ledger.Deposit(account.ID.String(), dec(amount))
		require.NoError(t, err)
		deposits = deposits.Add(dec(amount))
	}

	for _, attempt := range []struct {
		amount string
		desc   string
	}{
		{"50", "Pharmacy"},
		{"40", "Coffee Shop"},     // declined: not qualified
		{"100000", "Hospital"},    // declined: insufficient funds
		{"10.49", "Clinic copay"}, // approved
	} {
		_, _, err := f.ledger.AuthorizeTransaction(AuthorizationRequest{
			AccountID:   account.ID.String(),
			CardID:      c.ID.String(),
			Amount:      dec(attempt.amount),
			Description: attempt.desc,
		})
		require.NoError(t, err)
	}

	_, _, err := f.ledger.ApplyInterest(account.ID.String())
	require.NoError(t, err)

	snap, err := f.accounts.GetAccount(account.ID.String())
	require.NoError(t, err)

	expected := deposits
	for _, tx := range snap.Transactions {
		switch tx.Status {
		case domain.TransactionApproved:
			expected = expected.Sub(tx.Amount)
		case domain.TransactionCredited:
			expected = expected.Add(tx.Amount)
		}
	}
	assert.True(t, snap.Balance.Equal(expected), "balance %s, reconciled %s", snap.Balance, expected)
	assert.Len(t, snap.Transactions, 5)
}
