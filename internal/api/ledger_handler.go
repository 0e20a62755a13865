package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/expenseflow-api/internal/api/shared"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/service"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// LedgerHandler serves the routes of one ledger kind. The same handler type
// backs /api/income and /api/expense.
type LedgerHandler struct {
	ledger *service.LedgerService
	kind   domain.Kind
}

// NewLedgerHandler creates a LedgerHandler for the service's ledger kind.
func NewLedgerHandler(ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, kind: ledger.Kind()}
}

// fail writes ledger errors with kind-specific messages. action names the
// operation in 403 messages ("view", "update", "delete") and doing names it
// in 500 messages ("adding", "fetching", ...).
func (h *LedgerHandler) fail(w http.ResponseWriter, r *http.Request, err error, action, doing string) {
	switch {
	case errors.Is(err, store.ErrEntryNotFound):
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, h.kind.Title()+" not found", err)
	case errors.Is(err, service.ErrNotOwned):
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
			"Not authorized to "+action+" this "+string(h.kind), err, shared.WithElevatedLogLevel())
	default:
		HandleAPIError(w, r, err, "Server error while "+doing+" "+string(h.kind))
	}
}

// Create handles POST /api/{kind}.
func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req LedgerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entry, err := h.ledger.Create(r.Context(), user.ID, req.input())
	if err != nil {
		h.fail(w, r, err, "", "adding")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}

// List handles GET /api/{kind}.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter, err := parseLedgerFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.ledger.List(r.Context(), user.ID, filter)
	if err != nil {
		h.fail(w, r, err, "view", "fetching")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(entries))
}

// Get handles GET /api/{kind}/{id}.
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, id, ok := handleUserAndPathUUID(w, r)
	if !ok {
		return
	}

	entry, err := h.ledger.Get(r.Context(), user.ID, id)
	if err != nil {
		h.fail(w, r, err, "view", "fetching")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entry)
}

// Update handles PUT /api/{kind}/{id}.
func (h *LedgerHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, id, ok := handleUserAndPathUUID(w, r)
	if !ok {
		return
	}

	var req LedgerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entry, err := h.ledger.Update(r.Context(), user.ID, id, req.patch())
	if err != nil {
		h.fail(w, r, err, "update", "updating")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entry)
}

// Delete handles DELETE /api/{kind}/{id}.
func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, id, ok := handleUserAndPathUUID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.Delete(r.Context(), user.ID, id); err != nil {
		h.fail(w, r, err, "delete", "deleting")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, h.kind.Title()+" removed successfully")
}

// Summary handles GET /api/{kind}/stats/summary.
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.ledger.Summary(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Server error while fetching statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
