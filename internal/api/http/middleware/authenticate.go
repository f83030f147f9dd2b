package middleware

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/model"
)

// Authenticate validates bearer tokens and injects the principal into the
// request context.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, contextManager: contextManager, logger: logger}
}

// Handler rejects requests without a valid access token with 401.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		principal, err := m.tokenManager.ParseAccessToken(tokenString)
		if err != nil {
			m.logger.Debug("HTTP auth: token rejected",
				"path", r.URL.Path,
				"error", err.Error())
			writeError(w, http.StatusUnauthorized, "invalid authorization token")
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetPrincipalToContext(r.Context(), principal)))
	})
}

// RequireRole allows only principals with one of roles. It must run after
// Handler.
func (m *Authenticate) RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := m.contextManager.GetPrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing authorization token")
				return
			}
			if !slices.Contains(roles, principal.Role) {
				m.logger.Info("HTTP auth: role not permitted",
					"user_id", principal.UserID,
					"role", principal.Role,
					"path", r.URL.Path)
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
