package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/service"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type stubAuth struct {
	user *models.User
	err  error
}

func (s stubAuth) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token != "good" && s.err == nil {
		return nil, &service.Error{Kind: service.KindUnauthorized, Message: service.MsgInvalidToken}
	}
	return s.user, s.err
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		auth    stubAuth
		header  string
		status  int
		message string
	}{
		{"missing header", stubAuth{}, "", http.StatusUnauthorized, "No token, authorization denied"},
		{"wrong scheme", stubAuth{}, "Basic abc", http.StatusUnauthorized, "No token, authorization denied"},
		{"empty bearer", stubAuth{}, "Bearer  ", http.StatusUnauthorized, "No token, authorization denied"},
		{"bad token", stubAuth{}, "Bearer bad", http.StatusUnauthorized, service.MsgInvalidToken},
		{"store failure", stubAuth{err: errors.New("db down")}, "Bearer good", http.StatusInternalServerError, service.MsgInternal},
		{"ok", stubAuth{user: &models.User{ID: userID}}, "Bearer good", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			AuthMiddleware(tt.auth)(next).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status=%d want=%d", rec.Code, tt.status)
			}
			if tt.message == "" {
				if seen != userID {
					t.Fatalf("user id in context=%s want=%s", seen, userID)
				}
				return
			}
			body := decode(t, rec)
			if body["status"] != false || body["message"] != tt.message {
				t.Fatalf("body=%v", body)
			}
		})
	}
}

func TestRecoveryAndLogger(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	Logger(log)(Recovery(log)(panicky)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want=500", rec.Code)
	}
	if body := decode(t, rec); body["status"] != false {
		t.Fatalf("body=%v", body)
	}
}

func TestWrapLogsPanicsAndUnmatchedRoutes(t *testing.T) {
	log, hook := test.NewNullLogger()

	r := mux.NewRouter()
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := Wrap(r, log)

	tests := []struct {
		path   string
		status int
	}{
		{"/boom", http.StatusInternalServerError},
		{"/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		hook.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.status {
			t.Fatalf("%s: status=%d want=%d", tt.path, rec.Code, tt.status)
		}

		var logged bool
		for _, e := range hook.AllEntries() {
			if e.Message == "HTTP request" && e.Data["status"] == tt.status && e.Data["path"] == tt.path {
				logged = true
			}
		}
		if !logged {
			t.Fatalf("%s: no access log entry, got %d entries", tt.path, len(hook.AllEntries()))
		}
	}
}
