// Package store declares the persistence contracts for users, income and
// expense ledgers, and contact messages, plus the sentinel errors every
// backend must return. Implementations live under internal/platform.
package store
