package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "s3cret!" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.Generate(id)
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Fatalf("subject=%s want=%s", got, id)
	}
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	id := uuid.New()
	token, err := m.Generate(id)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		m     *TokenManager
		token string
	}{
		{"garbage", m, "not-a-token"},
		{"wrong secret", NewTokenManager("other", time.Hour), token},
		{"expired", &TokenManager{secret: []byte("secret"), ttl: time.Hour, now: func() time.Time {
			return time.Now().Add(2 * time.Hour)
		}}, token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.m.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("want ErrInvalidToken, got %v", err)
			}
		})
	}
}
