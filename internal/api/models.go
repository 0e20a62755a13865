package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/service"
)

// AuthResponse is returned by registration and login.
type AuthResponse struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Token string      `json:"token"`
}

func newAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		ID:    res.User.ID,
		Name:  res.User.Name,
		Email: res.User.Email,
		Role:  res.User.Role,
		Token: res.Token,
	}
}

// FlexibleDate is a JSON date that accepts RFC 3339 timestamps and
// YYYY-MM-DD calendar dates. null and "" decode to the zero time.
type FlexibleDate struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *FlexibleDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.NewValidationError("date", "Invalid date format", nil)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := parseDate("date", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MsgInvalidAmount is returned when an amount is neither a number nor a
// numeric string.
const MsgInvalidAmount = "Amount must be a number"

// FlexibleAmount is a JSON number that also accepts numeric strings such as
// "50" or "12.5". null and "" decode to zero.
type FlexibleAmount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *FlexibleAmount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return domain.NewValidationError("amount", MsgInvalidAmount, nil)
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*a = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.NewValidationError("amount", MsgInvalidAmount, nil)
	}
	*a = FlexibleAmount(f)
	return nil
}

// LedgerRequest is the body of income and expense creation and update. On
// update, omitted or zero fields keep their current value.
type LedgerRequest struct {
	Category    string         `json:"category"`
	Amount      FlexibleAmount `json:"amount"`
	Description string         `json:"description"`
	Date        FlexibleDate   `json:"date"`
}

func (req LedgerRequest) input() service.LedgerInput {
	return service.LedgerInput{
		Category:    req.Category,
		Amount:      float64(req.Amount),
		Description: req.Description,
		Date:        req.Date.Time,
	}
}

func (req LedgerRequest) patch() domain.LedgerPatch {
	return domain.LedgerPatch{
		Category:    req.Category,
		Amount:      float64(req.Amount),
		Description: req.Description,
		Date:        req.Date.Time,
	}
}

// ContactResponse confirms a contact submission.
type ContactResponse struct {
	Message string                 `json:"message"`
	Contact *domain.ContactMessage `json:"contact"`
}

// ContactStatusRequest is the body of an admin status update.
type ContactStatusRequest struct {
	Status string `json:"status"`
}

// nonNil keeps empty listings encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
