package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/daycare-server/internal/api/http/context"
	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/testutil"
	"github.com/dtroode/daycare-server/internal/token"
)

func TestAuthenticate(t *testing.T) {
	tokens := token.NewJWT("secret")
	ctxManager := httpctx.NewManager()
	auth := NewAuthenticate(tokens, ctxManager, testutil.MakeNoopLogger())

	staffID := uuid.New()
	staff, err := tokens.GenerateAccessToken(staffID, model.RoleStaff)
	require.NoError(t, err)
	parent, err := tokens.GenerateAccessToken(uuid.New(), model.RoleParent)
	require.NoError(t, err)

	var seen model.Principal
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ctxManager.GetPrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := auth.Handler(auth.RequireRole(model.RoleAdmin, model.RoleStaff)(final))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + staff, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "role not allowed", header: "Bearer " + parent, want: http.StatusForbidden},
		{name: "allowed", header: "Bearer " + staff, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/children", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusNoContent {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}

	assert.Equal(t, model.Principal{UserID: staffID, Role: model.RoleStaff}, seen)
}

func TestRequireRole_WithoutPrincipal(t *testing.T) {
	auth := NewAuthenticate(token.NewJWT("secret"), httpctx.NewManager(), testutil.MakeNoopLogger())
	h := auth.RequireRole(model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type requestRecorder struct {
	method, route string
	status        int
}

func (r *requestRecorder) ObserveRequest(method, route string, status int, _ time.Duration) {
	r.method, r.route, r.status = method, route, status
}
