// Package domain holds the ExpenseFlow entities (users, ledger entries,
// contact messages) together with their validation rules and the
// user-facing validation messages.
package domain
