package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodial-ledger/internal/errors"
)

func TestResolveOrCreate(t *testing.T) {
	f := newFixture(t)

	account, created, err := f.accounts.ResolveOrCreate("Alice", "alice@x.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, "Alice", account.Name)
	assert.Equal(t, "alice@x.com", account.Email)
	assert.True(t, account.Balance.Equal(decimal.Zero))
	assert.Empty(t, account.Cards)
	assert.Empty(t, account.Transactions)
}

func TestResolveOrCreateIsIdempotentByEmail(t *testing.T) {
	f := newFixture(t)

	first, created, err := f.accounts.ResolveOrCreate("Alice", "alice@x.com")
	require.NoError(t, err)
	require.True(t, created)

	// The second name is ignored: resolution never renames an account.
	second, created, err := f.accounts.ResolveOrCreate("Alicia", "alice@x.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alice", second.Name)
}

func TestResolveOrCreateValidation(t *testing.T) {
	f := newFixture(t)

	appErr := &errors.AppError{}

	_, _, err := f.accounts.ResolveOrCreate("", "alice@x.com")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.InvalidInput, appErr.Code)

	_, _, err = f.accounts.ResolveOrCreate("Alice", "")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.InvalidInput, appErr.Code)
}

func TestGetAccountByEmail(t *testing.T) {
	f := newFixture(t)
	created := f.mustAccount(t, "Alice", "alice@x.com")

	account, err := f.accounts.GetAccountByEmail("alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)

	_, err = f.accounts.GetAccountByEmail("nobody@x.com")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestGetAccountSnapshot(t *testing.T) {
	f := newFixture(t)
	created := f.mustAccount(t, "Alice", "alice@x.com")
	c := f.mustCard(t, created.ID)
	_, err := f.ledger.Deposit(created.ID.String(), dec("100"))
	require.NoError(t, err)
	_, _, err = f.ledger.AuthorizeTransaction(AuthorizationRequest{
		AccountID:   created.ID.String(),
		CardID:      c.ID.String(),
		Amount:      dec("30"),
		Description: "Pharmacy",
	})
	require.NoError(t, err)

	snap, err := f.accounts.GetAccount(created.ID.String())
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(dec("70")))
	assert.Len(t, snap.Cards, 1)
	assert.Len(t, snap.Transactions, 1)
}

func TestGetAccountNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.GetAccount(uuid.NewString())
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)

	// A malformed id cannot refer to any account.
	_, err = f.accounts.GetAccount("42")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}
