package handler

import (
	"net/http"

	"github.com/Dan9191/bank-ledger/internal/models"
)

type createAccountRequest struct {
	Currency string `json:"currency" validate:"required,oneof=USD NGN"`
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), userID, models.Currency(req.Currency))
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusCreated, "Account created successfully!", account)
}

// ListAccounts returns the caller's accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	accounts, err := h.svc.ListAccounts(r.Context(), userID)
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusOK, "User accounts fetched successfully!", accounts)
}

// GetAccount returns one of the caller's accounts
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	account, err := h.svc.GetAccount(r.Context(), userID, id)
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusOK, "Account fetched successfully!", account)
}
