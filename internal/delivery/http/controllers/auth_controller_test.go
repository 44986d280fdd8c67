package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"
)

type mockAuthService struct {
	user  *domain.User
	token string
	err   error
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"email":"host@example.com","password":"longenough","name":"Host"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			body:       `{"email":"host@example.com","password":"longenough","name":"Host"}`,
			svcErr:     domain.ErrDuplicateEmail,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password rejected",
			body:       `{"email":"host@example.com","password":"short","name":"Host"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email rejected",
			body:       `{"email":"nope","password":"longenough","name":"Host"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "service failure",
			body:       `{"email":"host@example.com","password":"longenough","name":"Host"}`,
			svcErr:     errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				user: &domain.User{ID: "u1", Email: "host@example.com", Name: "Host"},
				err:  tt.svcErr,
			}
			ctrl := NewAuthController(testLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			ctrl.SignUp(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	t.Run("success returns bearer token", func(t *testing.T) {
		svc := &mockAuthService{token: "jwt-token"}
		ctrl := NewAuthController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"host@example.com","password":"longenough"}`))
		w := httptest.NewRecorder()

		ctrl.Login(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		var resp struct {
			Data  LoginResponse     `json:"data"`
			Error *helpers.APIError `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data.Token != "jwt-token" || resp.Data.TokenType != "Bearer" {
			t.Fatalf("unexpected login payload: %+v", resp.Data)
		}
	})

	t.Run("invalid credentials map to 401", func(t *testing.T) {
		svc := &mockAuthService{err: fmt.Errorf("invalid credentials")}
		ctrl := NewAuthController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"host@example.com","password":"wrong"}`))
		w := httptest.NewRecorder()

		ctrl.Login(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})
}
