package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountAmountRequest struct {
	AccountID string          `json:"accountId" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	FromAccountID string          `json:"fromAccountId" validate:"required,uuid"`
	ToAccountID   string          `json:"toAccountId" validate:"required,uuid,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount"`
}

// Credit deposits money into one of the caller's accounts
func (h *Handler) Credit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req accountAmountRequest
	if !h.readJSON(w, r, &req) || !h.check(w, &req, amountErrors("amount", req.Amount)...) {
		return
	}

	t, err := h.svc.Credit(r.Context(), userID, uuid.MustParse(req.AccountID), req.Amount)
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusOK, "Credit transaction performed successfully!", t)
}

// Debit withdraws money from one of the caller's accounts
func (h *Handler) Debit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req accountAmountRequest
	if !h.readJSON(w, r, &req) || !h.check(w, &req, amountErrors("amount", req.Amount)...) {
		return
	}

	t, err := h.svc.Debit(r.Context(), userID, uuid.MustParse(req.AccountID), req.Amount)
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusOK, "Debit transaction performed successfully!", t)
}

// Transfer moves money between two accounts of the same currency
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if !h.readJSON(w, r, &req) || !h.check(w, &req, amountErrors("amount", req.Amount)...) {
		return
	}

	transfer, err := h.svc.Transfer(r.Context(), userID,
		uuid.MustParse(req.FromAccountID), uuid.MustParse(req.ToAccountID), req.Amount)
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusOK, "Transfer transaction performed successfully!", transfer)
}

// ListTransactions returns a page of the caller's transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	q, fields := parseListQuery(r)
	if len(fields) > 0 {
		h.invalid(w, fields)
		return
	}

	page, err := h.svc.ListTransactions(r.Context(), userID, q)
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusOK, "User transactions fetched successfully!", page)
}

// GetTransaction returns one of the caller's transactions
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), userID, id)
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusOK, "Transaction fetched successfully!", t)
}

func parseListQuery(r *http.Request) (service.ListQuery, []FieldError) {
	values := r.URL.Query()
	var (
		q      service.ListQuery
		fields []FieldError
	)

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > service.MaxPage {
			fields = append(fields, FieldError{Field: "page", Message: "must be between 1 and " + strconv.Itoa(service.MaxPage)})
		}
		q.Page = n
	}
	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > service.MaxLimit {
			fields = append(fields, FieldError{Field: "limit", Message: "must be between 1 and " + strconv.Itoa(service.MaxLimit)})
		}
		q.Limit = n
	}
	if v := values.Get("type"); v != "" {
		t := models.TransactionType(v)
		if t != models.Credit && t != models.Debit {
			fields = append(fields, FieldError{Field: "type", Message: "must be one of: credit, debit"})
		}
		q.Type = t
	}
	if v := values.Get("accountId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			fields = append(fields, FieldError{Field: "accountId", Message: "must be a valid id"})
		} else {
			q.AccountID = &id
		}
	}
	return q, fields
}
