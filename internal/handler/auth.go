package handler

import (
	"net/http"
	"strings"

	"github.com/Dan9191/bank-ledger/internal/service"
)

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeTrimmed(w, r, &req, func() {
		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}) {
		return
	}

	payload, err := h.svc.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusCreated, "User created successfully!", payload)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeTrimmed(w, r, &req, func() {
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}) {
		return
	}

	payload, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.failure(w, err)
		return
	}
	h.success(w, http.StatusOK, "User logged in successfully!", payload)
}
