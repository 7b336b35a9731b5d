package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/theater-roster/internal/application"
)

type sessionValidatorStub struct {
	principal application.Principal
	err       error
	tokens    []string
}

func (s *sessionValidatorStub) ValidateSession(_ context.Context, token string) (application.Principal, error) {
	s.tokens = append(s.tokens, token)
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests without a token", func(t *testing.T) {
		t.Parallel()

		middleware := RequireSession(&sessionValidatorStub{}, nil)
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects expired sessions with 401", func(t *testing.T) {
		t.Parallel()

		middleware := RequireSession(&sessionValidatorStub{err: application.ErrSessionExpired}, nil)
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("injects the principal for valid tokens", func(t *testing.T) {
		t.Parallel()

		validator := &sessionValidatorStub{principal: application.Principal{IsAdmin: true}}
		middleware := RequireSession(validator, nil)

		var seen application.Principal
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-5"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !seen.IsAdmin {
			t.Fatal("expected administrator principal in context")
		}
		if len(validator.tokens) != 1 || validator.tokens[0] != "tok-5" {
			t.Fatalf("expected cookie token to be validated, got %v", validator.tokens)
		}
	})
}
