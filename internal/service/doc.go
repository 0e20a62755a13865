// Package service contains the application use cases. It orchestrates the
// domain types and the store interfaces (defined in internal/store) to fulfill
// the features exposed by the HTTP API.
//
// Key components:
//
//   - AuthService registers accounts and exchanges credentials for tokens.
//   - LedgerService manages one user's incomes or expenses; one instance
//     exists per domain.Kind.
//   - ContactService accepts contact messages from signed-in users.
//   - AdminService covers cross-user operations: account removal, contact
//     triage and dashboard statistics.
//
// Services receive their dependencies through constructor injection and never
// depend on a concrete store implementation. Errors are returned as sentinel
// values (see errors.go) or wrapped store and domain errors; the API layer
// translates them into HTTP responses.
//
// Every service can publish domain events through an events.EventEmitter.
// Emission failures are logged and never fail the operation.
package service
