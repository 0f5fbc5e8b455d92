package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers every endpoint on r. Endpoints other than registration,
// login and rates run behind auth.
func (h *Handler) Routes(r *mux.Router, auth mux.MiddlewareFunc) {
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/rates", h.Rates).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	protected.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	protected.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	protected.HandleFunc("/transaction/credit", h.Credit).Methods(http.MethodPost)
	protected.HandleFunc("/transaction/debit", h.Debit).Methods(http.MethodPost)
	protected.HandleFunc("/transaction/transfer", h.Transfer).Methods(http.MethodPost)
	protected.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Message: "Route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Message: "Method not allowed"})
	})
}
