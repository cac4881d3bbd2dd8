package repository

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"custodial-ledger/internal/domain"
	"custodial-ledger/internal/errors"
)

// MemoryStore is the in-process ledger store. A single RWMutex serializes
// all mutations, so per-account operations never race and readers always
// see a consistent balance/history pair. All values handed out are copies;
// internal state is only reachable through the repositories.
type MemoryStore struct {
	mu     *sync.RWMutex
	data   *memoryData
	logger *slog.Logger

	// inTx marks a store view handed to a WithTransaction callback. The
	// write lock is already held there, so repository calls skip locking.
	inTx bool
}

type memoryData struct {
	accounts     map[uuid.UUID]*domain.Account
	emailIndex   map[string]uuid.UUID
	cards        map[uuid.UUID][]domain.Card
	transactions map[uuid.UUID][]domain.Transaction
}

var _ domain.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		mu: &sync.RWMutex{},
		data: &memoryData{
			accounts:     make(map[uuid.UUID]*domain.Account),
			emailIndex:   make(map[string]uuid.UUID),
			cards:        make(map[uuid.UUID][]domain.Card),
			transactions: make(map[uuid.UUID][]domain.Transaction),
		},
		logger: logger,
	}
}

// Accounts returns an AccountRepository over the shared state.
func (s *MemoryStore) Accounts() domain.AccountRepository {
	return &memAccountRepository{store: s}
}

// Cards returns a CardRepository over the shared state.
func (s *MemoryStore) Cards() domain.CardRepository {
	return &memCardRepository{store: s}
}

// Transactions returns a TransactionRepository over the shared state.
func (s *MemoryStore) Transactions() domain.TransactionRepository {
	return &memTransactionRepository{store: s}
}

// WithTransaction runs fn under the write lock. Repository calls made
// through the passed store operate on live state directly, so the whole
// callback is one atomic section. fn must validate before mutating; there
// is no rollback of already-applied in-memory writes.
func (s *MemoryStore) WithTransaction(fn func(domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txStore := &MemoryStore{
		mu:     s.mu,
		data:   s.data,
		logger: s.logger,
		inTx:   true,
	}
	return fn(txStore)
}

func (s *MemoryStore) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type memAccountRepository struct {
	store *MemoryStore
}

func (r *memAccountRepository) CreateAccount(account *domain.Account) error {
	unlock := r.store.lock()
	defer unlock()

	data := r.store.data
	if _, exists := data.emailIndex[account.Email]; exists {
		r.store.logger.Warn("Duplicate email on account creation", "email", account.Email)
		return errors.ErrDuplicateEmail
	}

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := *account
	stored.Cards = nil
	stored.Transactions = nil

	data.accounts[account.ID] = &stored
	data.emailIndex[account.Email] = account.ID

	r.store.logger.Info("Account created", "account_id", account.ID, "email", account.Email)
	return nil
}

func (r *memAccountRepository) GetAccountByID(id uuid.UUID) (*domain.Account, error) {
	unlock := r.store.rlock()
	defer unlock()

	return r.store.data.getAccount(id)
}

func (r *memAccountRepository) GetAccountByEmail(email string) (*domain.Account, error) {
	unlock := r.store.rlock()
	defer unlock()

	id, ok := r.store.data.emailIndex[email]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return r.store.data.getAccount(id)
}

// GetAccountForUpdate is a plain read here: callers already hold the write
// lock through WithTransaction.
func (r *memAccountRepository) GetAccountForUpdate(id uuid.UUID) (*domain.Account, error) {
	unlock := r.store.rlock()
	defer unlock()

	return r.store.data.getAccount(id)
}

func (r *memAccountRepository) UpdateAccountBalance(id uuid.UUID, newBalance decimal.Decimal) error {
	unlock := r.store.lock()
	defer unlock()

	account, ok := r.store.data.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	account.Balance = newBalance
	account.UpdatedAt = time.Now()
	return nil
}

func (d *memoryData) getAccount(id uuid.UUID) (*domain.Account, error) {
	account, ok := d.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

type memCardRepository struct {
	store *MemoryStore
}

func (r *memCardRepository) CreateCard(card *domain.Card) error {
	unlock := r.store.lock()
	defer unlock()

	data := r.store.data
	if _, ok := data.accounts[card.AccountID]; !ok {
		return errors.ErrAccountNotFound
	}

	card.CreatedAt = time.Now()
	data.cards[card.AccountID] = append(data.cards[card.AccountID], *card)

	r.store.logger.Info("Card created", "card_id", card.ID, "account_id", card.AccountID, "last_four", card.LastFour())
	return nil
}

func (r *memCardRepository) GetCard(accountID, cardID uuid.UUID) (*domain.Card, error) {
	unlock := r.store.rlock()
	defer unlock()

	for _, c := range r.store.data.cards[accountID] {
		if c.ID == cardID {
			cp := c
			return &cp, nil
		}
	}
	return nil, errors.ErrCardNotFound
}

func (r *memCardRepository) ListCardsByAccount(accountID uuid.UUID) ([]domain.Card, error) {
	unlock := r.store.rlock()
	defer unlock()

	stored := r.store.data.cards[accountID]
	cards := make([]domain.Card, len(stored))
	copy(cards, stored)
	return cards, nil
}

type memTransactionRepository struct {
	store *MemoryStore
}

func (r *memTransactionRepository) CreateTransaction(tx *domain.Transaction) error {
	unlock := r.store.lock()
	defer unlock()

	data := r.store.data
	if _, ok := data.accounts[tx.AccountID]; !ok {
		return errors.ErrAccountNotFound
	}

	tx.CreatedAt = time.Now()
	data.transactions[tx.AccountID] = append(data.transactions[tx.AccountID], *tx)

	r.store.logger.Info("Transaction recorded", "transaction_id", tx.ID, "account_id", tx.AccountID, "status", tx.Status)
	return nil
}

func (r *memTransactionRepository) ListTransactionsByAccount(accountID uuid.UUID) ([]domain.Transaction, error) {
	unlock := r.store.rlock()
	defer unlock()

	stored := r.store.data.transactions[accountID]
	transactions := make([]domain.Transaction, len(stored))
	copy(transactions, stored)
	return transactions, nil
}
