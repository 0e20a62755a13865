// Package mocks provides centralized mock implementations for testing.
//
// Two styles are offered. Function-field mocks (MockJWTService,
// MockPasswordHasher) suit collaborators whose behavior a test wants to
// script inline. Testify mocks (TestifyMockUserStore, TestifyMockLedgerStore)
// suit stores where a test asserts on calls or injects failures.
//
// Usage:
//
//	import "github.com/phrazzld/expenseflow-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    jwtSvc := &mocks.MockJWTService{
//	        GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
//	            return "mocked-token", nil
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks
