package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/expenseflow-api/internal/api/shared"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/service/auth"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// Messages returned by the auth gate.
const (
	MsgNoToken        = "Not authorized, no token"
	MsgTokenFailed    = "Not authorized, token failed"
	MsgNotAdmin       = "Not authorized as admin"
	MsgAuthUnexpected = "Authentication error"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      store.UserStore
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users store.UserStore, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger.With("component", "auth_middleware"),
	}
}

// Authenticate validates the Bearer token, loads the account it names and
// attaches it to the request context. Tokens of deleted accounts are rejected.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContextOrDefault(ctx, m.logger)

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgNoToken, shared.ErrUnauthenticated)
			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgTokenFailed, err)
			return
		}

		user, err := m.users.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				log.Debug("token for missing user", "user_id", claims.UserID)
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgTokenFailed, err)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgAuthUnexpected, err)
			return
		}

		ctx = shared.WithUser(ctx, user)
		ctx = logger.WithLogger(ctx, log.With("user_id", user.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose authenticated user is not an admin.
// It must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := shared.UserFromContext(r.Context())
		if !ok {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgNoToken, shared.ErrUnauthenticated)
			return
		}
		if !user.IsAdmin() {
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, MsgNotAdmin, shared.ErrForbidden,
				shared.WithElevatedLogLevel())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
