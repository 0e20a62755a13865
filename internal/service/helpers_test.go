package service

import (
	"context"
	"testing"

	"github.com/phrazzld/expenseflow-api/internal/config"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/events"
	"github.com/phrazzld/expenseflow-api/internal/mocks"
	"github.com/phrazzld/expenseflow-api/internal/platform/memory"
	"github.com/phrazzld/expenseflow-api/internal/store"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Passw0rd!"

// fixture wires every service to one in-memory database.
type fixture struct {
	db       *memory.DB
	stores   store.Stores
	recorder *events.Recorder
	auth     *AuthService
	incomes  *LedgerService
	expenses *LedgerService
	contacts *ContactService
	admin    *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memory.New(nil)
	stores := db.Stores()
	recorder := &events.Recorder{}
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(recorder)

	policy := AuthPolicy{BootstrapAdminEmail: "admin@expense.com", AllowRoleRequest: true}
	return &fixture{
		db:       db,
		stores:   stores,
		recorder: recorder,
		auth: NewAuthService(stores.Users, &mocks.MockPasswordHasher{},
			&mocks.MockJWTService{Token: "signed-token"}, emitter, policy, nil),
		incomes:  NewLedgerService(stores.Incomes, emitter, nil),
		expenses: NewLedgerService(stores.Expenses, emitter, nil),
		contacts: NewContactService(stores.Contacts, emitter, nil),
		admin:    NewAdminService(stores, db, emitter, nil),
	}
}

func (f *fixture) register(t *testing.T, name, email string) *domain.User {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: strongPassword,
	})
	require.NoError(t, err)
	return res.User
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "thisisasecretkeythatis32charslong!!",
		TokenLifetimeMinutes: 60,
	}
}
