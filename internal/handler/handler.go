package handler

import (
	"context"
	"net/http"

	"github.com/Dan9191/bank-ledger/internal/middleware"
	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// RatesProvider supplies current exchange rates
type RatesProvider interface {
	GetRates(ctx context.Context) ([]models.ExchangeRate, error)
}

type Handler struct {
	svc      *service.Service
	rates    RatesProvider
	validate *validator.Validate
	log      *logrus.Logger
}

func NewHandler(svc *service.Service, rates RatesProvider, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, rates: rates, validate: newValidator(), log: log}
}

// Index answers the service banner
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.success(w, http.StatusOK, "Banking Transactions API", nil)
}

// Rates returns official exchange rates for the supported currencies
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	if h.rates == nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{Message: "Exchange rates are unavailable"})
		return
	}
	rates, err := h.rates.GetRates(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to get exchange rates")
		writeJSON(w, http.StatusBadGateway, envelope{Message: "Exchange rates are unavailable"})
		return
	}
	h.success(w, http.StatusOK, "Exchange rates fetched successfully!", rates)
}

// currentUser returns the id placed in the context by the auth middleware
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, envelope{Message: "No token, authorization denied"})
	}
	return id, ok
}

// pathID parses the {id} route variable
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.invalid(w, []FieldError{{Field: "id", Message: "must be a valid id"}})
		return uuid.Nil, false
	}
	return id, true
}
