package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/api/shared"
	"github.com/phrazzld/expenseflow-api/internal/domain"
)

const dateOnlyLayout = "2006-01-02"

// currentUser returns the user attached by the auth middleware, writing a 401
// when there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, shared.ErrUnauthenticated, "")
		return nil, false
	}
	return user, true
}

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, MsgInvalidID, domain.ErrInvalidID)
	}
	return id, nil
}

// handleUserAndPathUUID extracts the current user and the {id} path parameter,
// writing an error response if either is missing or malformed.
func handleUserAndPathUUID(w http.ResponseWriter, r *http.Request) (*domain.User, uuid.UUID, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}
	return user, id, true
}

// parseDate accepts an RFC 3339 timestamp or a YYYY-MM-DD calendar date,
// the latter meaning midnight UTC.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, domain.NewValidationError(field, "Invalid date format", nil)
}

// parseLedgerFilter reads ?category, ?startDate, ?endDate and ?sort.
func parseLedgerFilter(r *http.Request) (domain.LedgerFilter, error) {
	q := r.URL.Query()
	filter := domain.LedgerFilter{
		Category: q.Get("category"),
		Sort:     domain.ParseLedgerSort(q.Get("sort")),
	}
	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{
		{"startDate", &filter.StartDate},
		{"endDate", &filter.EndDate},
	} {
		raw := q.Get(bound.name)
		if raw == "" {
			continue
		}
		t, err := parseDate(bound.name, raw)
		if err != nil {
			return domain.LedgerFilter{}, err
		}
		*bound.dst = &t
	}
	return filter, nil
}
