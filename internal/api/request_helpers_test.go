package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())
	got, err := getPathUUID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "not-a-uuid")
	_, err = getPathUUID(req, "id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Equal(t, MsgInvalidID, GetSafeErrorMessage(err))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-15T12:30:00+02:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-15T10:30:00.250Z", time.Date(2024, 1, 15, 10, 30, 0, 250_000_000, time.UTC), true},
		{"15/01/2024", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseDate("date", tc.input)
			if !tc.ok {
				var vErr *domain.ValidationError
				assert.True(t, errors.As(err, &vErr))
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestParseLedgerFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/expense?category=Food&startDate=2024-01-01&endDate=2024-01-31&sort=amount-desc", nil)
	filter, err := parseLedgerFilter(req)
	require.NoError(t, err)
	assert.Equal(t, "Food", filter.Category)
	assert.Equal(t, domain.SortAmountDesc, filter.Sort)
	require.NotNil(t, filter.StartDate)
	require.NotNil(t, filter.EndDate)
	assert.Equal(t, 31, filter.EndDate.Day())

	req = httptest.NewRequest(http.MethodGet, "/api/expense?sort=bogus", nil)
	filter, err = parseLedgerFilter(req)
	require.NoError(t, err)
	assert.Equal(t, domain.SortDateDesc, filter.Sort)
	assert.Nil(t, filter.StartDate)

	req = httptest.NewRequest(http.MethodGet, "/api/expense?startDate=soon", nil)
	_, err = parseLedgerFilter(req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlexibleDate(t *testing.T) {
	var req LedgerRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":5,"date":"2024-02-29"}`), &req))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), req.Date.Time)

	req = LedgerRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &req))
	assert.True(t, req.Date.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"date":""}`), &req))
	assert.True(t, req.Date.IsZero())

	err := json.Unmarshal([]byte(`{"date":"Feb 29"}`), &req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = json.Unmarshal([]byte(`{"date":20240229}`), &req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlexibleAmount(t *testing.T) {
	tests := []struct {
		body string
		want float64
	}{
		{`{"amount":50}`, 50},
		{`{"amount":12.5}`, 12.5},
		{`{"amount":"50"}`, 50},
		{`{"amount":" 12.5 "}`, 12.5},
		{`{"amount":"-3"}`, -3},
		{`{"amount":""}`, 0},
		{`{"amount":null}`, 0},
		{`{}`, 0},
	}
	for _, tc := range tests {
		t.Run(tc.body, func(t *testing.T) {
			var req LedgerRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.Equal(t, tc.want, req.input().Amount)
		})
	}

	for _, body := range []string{`{"amount":"fifty"}`, `{"amount":"NaN"}`, `{"amount":true}`, `{"amount":[1]}`} {
		t.Run(body, func(t *testing.T) {
			var req LedgerRequest
			err := json.Unmarshal([]byte(body), &req)
			require.ErrorIs(t, err, domain.ErrValidation)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, MsgInvalidAmount, vErr.Message)
		})
	}
}
