package admin

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"sybilguard/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

func TestRequireAdmin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	run := func(v JWTValidator, authHeader string) (*httptest.ResponseRecorder, string) {
		var actor string
		h := RequireAdmin(v, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor = requestcontext.Actor(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))
		r := httptest.NewRequest(http.MethodPost, "/admin/identity/x/flag", nil)
		if authHeader != "" {
			r.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w, actor
	}

	t.Run("missing header is unauthorized", func(t *testing.T) {
		w, _ := run(stubValidator{}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		w, _ := run(stubValidator{err: errors.New("bad signature")}, "Bearer abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin role is forbidden", func(t *testing.T) {
		w, _ := run(stubValidator{claims: &JWTClaims{Subject: "viewer", Role: "viewer"}}, "Bearer abc")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes and actor is set", func(t *testing.T) {
		w, actor := run(stubValidator{claims: &JWTClaims{Subject: "ops@example.com", Role: RoleAdmin}}, "Bearer abc")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "ops@example.com", actor)
	})
}
