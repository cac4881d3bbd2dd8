package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"custodial-ledger/internal/domain"
	"custodial-ledger/internal/errors"
	"custodial-ledger/internal/service"
)

type LedgerHandler struct {
	ledgerService *service.LedgerService
}

func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

type DepositRequest struct {
	Amount string `json:"amount"`
}

type BalanceResponse struct {
	NewBalance  string              `json:"new_balance"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
}

func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}

	newBalance, err := h.ledgerService.Deposit(accountID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{NewBalance: newBalance.String()})
}

func (h *LedgerHandler) IssueCard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	card, err := h.ledgerService.IssueCard(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

type AuthorizeRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CardID      string `json:"card_id"`
}

type AuthorizeResponse struct {
	Account     *domain.Account     `json:"account"`
	Transaction *domain.Transaction `json:"transaction"`
}

// Authorize records an authorization attempt. Declined attempts are
// successful requests: the decline is in the transaction status.
func (h *LedgerHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	var req AuthorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	if req.Amount == "" {
		writeError(w, errors.NewAppError(errors.InvalidInput, "amount, description, and card_id are required"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}

	account, transaction, err := h.ledgerService.AuthorizeTransaction(service.AuthorizationRequest{
		AccountID:   accountID,
		CardID:      req.CardID,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthorizeResponse{
		Account:     account,
		Transaction: transaction,
	})
}

func (h *LedgerHandler) ApplyInterest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	newBalance, transaction, err := h.ledgerService.ApplyInterest(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{
		NewBalance:  newBalance.String(),
		Transaction: transaction,
	})
}
