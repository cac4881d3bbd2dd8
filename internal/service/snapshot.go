package service

import (
	"custodial-ledger/internal/domain"
)

// loadSnapshot fills the account's cards and transactions from the same
// store view, so the balance and the history belong to one moment.
func loadSnapshot(store domain.Store, account *domain.Account) error {
	cards, err := store.Cards().ListCardsByAccount(account.ID)
	if err != nil {
		return err
	}
	transactions, err := store.Transactions().ListTransactionsByAccount(account.ID)
	if err != nil {
		return err
	}
	account.Cards = cards
	account.Transactions = transactions
	return nil
}
