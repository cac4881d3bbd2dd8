package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"custodial-ledger/internal/domain"
	"custodial-ledger/internal/errors"
	"custodial-ledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type CreateAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AccountResponse struct {
	AccountID string          `json:"account_id"`
	Created   bool            `json:"created"`
	Account   *domain.Account `json:"account"`
}

// CreateAccount resolves or creates the account for the submitted email.
// An existing email returns the existing account with 200; a fresh one
// returns 201.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	account, created, err := h.accountService.ResolveOrCreate(req.Name, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	writeJSON(w, status, AccountResponse{
		AccountID: account.ID.String(),
		Created:   created,
		Account:   account,
	})
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{
		AccountID: account.ID.String(),
		Account:   account,
	})
}

func (h *AccountHandler) GetAccountByEmail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	email := vars["email"]

	account, err := h.accountService.GetAccountByEmail(email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{
		AccountID: account.ID.String(),
		Account:   account,
	})
}
