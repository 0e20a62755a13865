package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/api/shared"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/mocks"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/service/auth"
	"github.com/phrazzld/expenseflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Name: "Bob", Email: "bob@x.com", Role: domain.RoleUser}
	ghostID := uuid.New()
	brokenID := uuid.New()

	tests := []struct {
		name            string
		authHeader      string
		validateErr     error
		claims          *auth.Claims
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: user.ID},
			expectedStatus: http.StatusOK,
		},
		{
			name:            "missing auth header",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: MsgNoToken,
		},
		{
			name:            "not a bearer token",
			authHeader:      "Basic Ym9iOnB3",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: MsgNoToken,
		},
		{
			name:            "empty bearer token",
			authHeader:      "Bearer ",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: MsgNoToken,
		},
		{
			name:            "expired token",
			authHeader:      "Bearer expired-token",
			validateErr:     auth.ErrExpiredToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: MsgTokenFailed,
		},
		{
			name:            "invalid token",
			authHeader:      "Bearer invalid-token",
			validateErr:     auth.ErrInvalidToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: MsgTokenFailed,
		},
		{
			name:            "deleted user",
			authHeader:      "Bearer orphan-token",
			claims:          &auth.Claims{UserID: ghostID},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: MsgTokenFailed,
		},
		{
			name:            "user lookup failure",
			authHeader:      "Bearer valid-token",
			claims:          &auth.Claims{UserID: brokenID},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: MsgAuthUnexpected,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			users := &mocks.TestifyMockUserStore{}
			users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Maybe()
			users.On("GetByID", mock.Anything, ghostID).Return(nil, store.ErrUserNotFound).Maybe()
			users.On("GetByID", mock.Anything, brokenID).Return(nil, errors.New("pool closed")).Maybe()

			jwtService := &mocks.MockJWTService{Claims: tc.claims, ValidateErr: tc.validateErr}
			m := NewAuthMiddleware(jwtService, users, nil)

			var gotUser *domain.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = shared.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/income", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			m.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				require.NotNil(t, gotUser)
				assert.Equal(t, user.ID, gotUser.ID)
				return
			}
			assert.Nil(t, gotUser)
			assert.Equal(t, tc.expectedMessage, decodeMessage(t, rr))
		})
	}
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(&mocks.MockJWTService{}, &mocks.TestifyMockUserStore{}, nil)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name           string
		ctx            func(context.Context) context.Context
		expectedStatus int
	}{
		{
			name: "admin",
			ctx: func(ctx context.Context) context.Context {
				return shared.WithUser(ctx, &domain.User{ID: uuid.New(), Role: domain.RoleAdmin})
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "regular user",
			ctx: func(ctx context.Context) context.Context {
				return shared.WithUser(ctx, &domain.User{ID: uuid.New(), Role: domain.RoleUser})
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "unauthenticated",
			ctx:            func(ctx context.Context) context.Context { return ctx },
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			req = req.WithContext(tc.ctx(req.Context()))
			rr := httptest.NewRecorder()

			m.RequireAdmin(ok).ServeHTTP(rr, req)
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	buf, log := logger.SetupTestLogger(t)

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	TraceMiddleware(log)(next).ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, traceID)
	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, traceID, e["trace_id"])
	}
}
