package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus tracks admin triage of a contact message.
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactReviewed ContactStatus = "reviewed"
)

// Valid reports whether s is a known status.
func (s ContactStatus) Valid() bool {
	return s == ContactPending || s == ContactReviewed
}

// ContactMessage is a message a user submits to the administrators.
type ContactMessage struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewContactMessage creates a pending ContactMessage owned by userID.
func NewContactMessage(userID uuid.UUID, name, email, subject, message string) *ContactMessage {
	now := time.Now().UTC()
	return &ContactMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
		Status:    ContactPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Submitter is the public view of the user who sent a contact message.
type Submitter struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ContactWithSubmitter pairs a message with its sender. User is nil when the
// sender no longer exists.
type ContactWithSubmitter struct {
	ContactMessage
	User *Submitter `json:"user"`
}

// AdminStats are the aggregate counters shown on the admin dashboard.
type AdminStats struct {
	TotalUsers         int     `json:"totalUsers"`
	TotalIncomes       int     `json:"totalIncomes"`
	TotalExpenses      int     `json:"totalExpenses"`
	PendingContacts    int     `json:"pendingContacts"`
	TotalIncomeAmount  float64 `json:"totalIncomeAmount"`
	TotalExpenseAmount float64 `json:"totalExpenseAmount"`
}
