package domain

// Store is the unit of work over the three repositories. Implementations
// must guarantee that a function passed to WithTransaction observes and
// mutates a consistent state: either everything it did is visible
// afterwards, or nothing is.
type Store interface {
	Accounts() AccountRepository
	Cards() CardRepository
	Transactions() TransactionRepository
	WithTransaction(fn func(Store) error) error
}
