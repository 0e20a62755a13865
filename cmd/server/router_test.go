package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/config"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Passw0rd!"

type testClient struct {
	t      *testing.T
	router http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:               5000,
			LogLevel:           "debug",
			CORSAllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{Driver: driverMemory, MaxOpenConns: 1},
		Auth: config.AuthConfig{
			JWTSecret:            "thisisasecretkeythatis32charslong!!",
			TokenLifetimeMinutes: 60,
			BcryptCost:           4,
			BootstrapAdminEmail:  "admin@expense.com",
			AllowRoleRequest:     true,
		},
		Events: config.EventsConfig{Exchange: "expenseflow.events", Workers: 1, QueueSize: 10},
	}
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	_, l := logger.SetupTestLogger(t)

	cfg := testConfig()
	backend, err := openStorage(context.Background(), cfg.Database, l)
	require.NoError(t, err)
	app, err := newApplication(cfg, l, backend)
	require.NoError(t, err)

	return &testClient{t: t, router: app.setupRouter()}
}

// do sends a request and decodes the JSON response into out when out is non-nil.
func (c *testClient) do(method, path, token string, body any, out any) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)

	if out != nil {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), out), "body: %s", rr.Body.String())
	}
	return rr.Code
}

// raw sends a bodiless request and returns the recorded response.
func (c *testClient) raw(method, path, token string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	return rr
}

type authBody struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Token string    `json:"token"`
}

type messageBody struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id"`
}

type entryBody struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     string    `json:"date"`
}

func (c *testClient) register(name, email string) authBody {
	c.t.Helper()
	var res authBody
	status := c.do(http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": name, "email": email, "password": testPassword}, &res)
	require.Equal(c.t, http.StatusCreated, status)
	return res
}

func TestRouter_PublicEndpoints(t *testing.T) {
	c := newTestClient(t)

	var root messageBody
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/", "", nil, &root))
	assert.Equal(t, "Expense Tracker API is running!", root.Message)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRouter_Auth(t *testing.T) {
	c := newTestClient(t)

	bob := c.register("Bob", "bob@x.com")
	assert.Equal(t, "user", bob.Role)
	assert.NotEmpty(t, bob.Token)
	assert.NotEqual(t, uuid.Nil, bob.ID)

	admin := c.register("Admin", "admin@expense.com")
	assert.Equal(t, "admin", admin.Role)

	var dup messageBody
	status := c.do(http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "Bobby", "email": "bob@x.com", "password": testPassword}, &dup)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists with this email", dup.Message)
	assert.NotEmpty(t, dup.TraceID)

	var long messageBody
	status = c.do(http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "Dave", "email": "dave@x.com", "password": testPassword + strings.Repeat("a", 70)}, &long)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Password must be at least 6 characters with uppercase, lowercase, number, and special character", long.Message)

	var weak messageBody
	status = c.do(http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": "Carol", "email": "carol@x.com", "password": "password"}, &weak)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Password must be at least 6 characters with uppercase, lowercase, number, and special character", weak.Message)

	var login authBody
	status = c.do(http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "bob@x.com", "password": testPassword}, &login)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, bob.ID, login.ID)

	var bad messageBody
	status = c.do(http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "bob@x.com", "password": "Wrong1!"}, &bad)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", bad.Message)

	var malformed messageBody
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":`))
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &malformed))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", malformed.Message)
}

func TestRouter_RequiresToken(t *testing.T) {
	c := newTestClient(t)

	var res messageBody
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/income", "", nil, &res))
	assert.Equal(t, "Not authorized, no token", res.Message)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/income", "garbage", nil, &res))
	assert.Equal(t, "Not authorized, token failed", res.Message)
}

func TestRouter_Ledger(t *testing.T) {
	c := newTestClient(t)
	bob := c.register("Bob", "bob@x.com")
	alice := c.register("Alice", "alice@x.com")

	var created entryBody
	status := c.do(http.MethodPost, "/api/expense", bob.Token,
		map[string]any{"category": "Food", "amount": 50, "description": "lunch", "date": "2024-01-15"}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, bob.ID, created.UserID)
	assert.Equal(t, "2024-01-15T00:00:00Z", created.Date)

	t.Run("validation", func(t *testing.T) {
		var res messageBody
		status := c.do(http.MethodPost, "/api/expense", bob.Token,
			map[string]any{"category": "Food", "amount": 0, "description": "x"}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Please fill all required fields", res.Message)

		status = c.do(http.MethodPost, "/api/expense", bob.Token,
			map[string]any{"category": "Food", "amount": -1, "description": "x"}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Amount must be greater than 0", res.Message)

		status = c.do(http.MethodPost, "/api/expense", bob.Token,
			map[string]any{"category": "Food", "amount": 3, "description": "x", "date": "someday"}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid date format", res.Message)
	})

	t.Run("numeric string amount", func(t *testing.T) {
		carol := c.register("Carol", "carol@x.com")

		var entry entryBody
		status := c.do(http.MethodPost, "/api/expense", carol.Token,
			map[string]any{"category": "Books", "amount": "19.5", "description": "novel"}, &entry)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, 19.5, entry.Amount)

		var res messageBody
		status = c.do(http.MethodPost, "/api/expense", carol.Token,
			map[string]any{"category": "Books", "amount": "lots", "description": "novel"}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Amount must be a number", res.Message)
	})

	t.Run("summary", func(t *testing.T) {
		var summary struct {
			Total             float64            `json:"total"`
			Count             int                `json:"count"`
			CategoryBreakdown map[string]float64 `json:"categoryBreakdown"`
		}
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/expense/stats/summary", bob.Token, nil, &summary))
		assert.Equal(t, 50.0, summary.Total)
		assert.Equal(t, 1, summary.Count)
		assert.Equal(t, map[string]float64{"Food": 50}, summary.CategoryBreakdown)
	})

	t.Run("reads are repeatable", func(t *testing.T) {
		for _, path := range []string{
			"/api/expense",
			"/api/expense/stats/summary",
			"/api/expense/" + created.ID.String(),
		} {
			first := c.raw(http.MethodGet, path, bob.Token)
			second := c.raw(http.MethodGet, path, bob.Token)
			assert.Equal(t, http.StatusOK, first.Code, path)
			assert.JSONEq(t, first.Body.String(), second.Body.String(), path)
		}
	})

	t.Run("owner isolation", func(t *testing.T) {
		path := "/api/expense/" + created.ID.String()

		var res messageBody
		assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, path, alice.Token, nil, &res))
		assert.Equal(t, "Not authorized to view this expense", res.Message)
		assert.Equal(t, http.StatusForbidden, c.do(http.MethodPut, path, alice.Token, map[string]any{"amount": 1}, &res))
		assert.Equal(t, "Not authorized to update this expense", res.Message)
		assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, path, alice.Token, nil, &res))
		assert.Equal(t, "Not authorized to delete this expense", res.Message)

		var list []entryBody
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/expense", alice.Token, nil, &list))
		assert.Empty(t, list)

		assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/income/"+created.ID.String(), bob.Token, nil, &res))
		assert.Equal(t, "Income not found", res.Message)

		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/expense/not-an-id", bob.Token, nil, &res))
		assert.Equal(t, "Invalid ID format", res.Message)
	})

	t.Run("filters", func(t *testing.T) {
		var list []entryBody
		require.Equal(t, http.StatusOK,
			c.do(http.MethodGet, "/api/expense?category=Food&startDate=2024-01-01&endDate=2024-01-31", bob.Token, nil, &list))
		assert.Len(t, list, 1)

		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/expense?category=Rent", bob.Token, nil, &list))
		assert.Empty(t, list)

		var res messageBody
		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/expense?endDate=31-01-2024", bob.Token, nil, &res))
	})

	t.Run("partial update ignores zero values", func(t *testing.T) {
		path := "/api/expense/" + created.ID.String()

		var updated entryBody
		require.Equal(t, http.StatusOK,
			c.do(http.MethodPut, path, bob.Token, map[string]any{"amount": 0, "category": "Dining"}, &updated))
		assert.Equal(t, 50.0, updated.Amount)
		assert.Equal(t, "Dining", updated.Category)

		var got entryBody
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, path, bob.Token, nil, &got))
		assert.Equal(t, "Dining", got.Category)
	})

	t.Run("delete", func(t *testing.T) {
		path := "/api/expense/" + created.ID.String()

		var res messageBody
		require.Equal(t, http.StatusOK, c.do(http.MethodDelete, path, bob.Token, nil, &res))
		assert.Equal(t, "Expense removed successfully", res.Message)

		assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, path, bob.Token, nil, &res))
		assert.Equal(t, "Expense not found", res.Message)
	})
}

func TestRouter_ContactAndAdmin(t *testing.T) {
	c := newTestClient(t)
	admin := c.register("Admin", "admin@expense.com")
	bob := c.register("Bob", "bob@x.com")

	var income entryBody
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/income", bob.Token,
		map[string]any{"category": "Salary", "amount": 1000, "description": "October"}, &income))

	var submitted struct {
		Message string `json:"message"`
		Contact struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"contact"`
	}
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/contact", bob.Token, map[string]string{
		"name": "Bob", "email": "bob@x.com", "subject": "Export", "message": "Can I export to CSV please?",
	}, &submitted))
	assert.Equal(t, "Your message has been sent successfully!", submitted.Message)
	assert.Equal(t, "pending", submitted.Contact.Status)

	var short messageBody
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/contact", bob.Token, map[string]string{
		"name": "Bob", "email": "bob@x.com", "subject": "Hi", "message": "Can I export to CSV please?",
	}, &short))
	assert.Equal(t, "Subject must be at least 3 characters", short.Message)

	var mine []map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/contact", bob.Token, nil, &mine))
	assert.Len(t, mine, 1)

	t.Run("non-admin is rejected", func(t *testing.T) {
		var res messageBody
		for _, path := range []string{"/api/admin/users", "/api/admin/contacts", "/api/admin/stats"} {
			assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, path, bob.Token, nil, &res), path)
			assert.Equal(t, "Not authorized as admin", res.Message)
		}
	})

	t.Run("users hide password hashes", func(t *testing.T) {
		var users []map[string]any
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/admin/users", admin.Token, nil, &users))
		require.Len(t, users, 2)
		for _, u := range users {
			assert.NotContains(t, u, "hashedPassword")
			assert.NotContains(t, u, "HashedPassword")
		}
	})

	t.Run("contacts", func(t *testing.T) {
		var contacts []struct {
			ID   uuid.UUID `json:"id"`
			User *struct {
				Name string `json:"name"`
			} `json:"user"`
		}
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/admin/contacts", admin.Token, nil, &contacts))
		require.Len(t, contacts, 1)
		require.NotNil(t, contacts[0].User)
		assert.Equal(t, "Bob", contacts[0].User.Name)

		path := "/api/admin/contacts/" + submitted.Contact.ID.String()
		var updated map[string]any
		require.Equal(t, http.StatusOK, c.do(http.MethodPut, path, admin.Token, map[string]string{"status": "reviewed"}, &updated))
		assert.Equal(t, "reviewed", updated["status"])

		var res messageBody
		assert.Equal(t, http.StatusBadRequest,
			c.do(http.MethodPut, path, admin.Token, map[string]string{"status": "archived"}, &res))
		assert.Equal(t, "Status must be either pending or reviewed", res.Message)

		assert.Equal(t, http.StatusNotFound,
			c.do(http.MethodPut, "/api/admin/contacts/"+uuid.NewString(), admin.Token, map[string]string{}, &res))
		assert.Equal(t, "Contact message not found", res.Message)
	})

	t.Run("stats", func(t *testing.T) {
		var stats map[string]float64
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/admin/stats", admin.Token, nil, &stats))
		assert.Equal(t, 2.0, stats["totalUsers"])
		assert.Equal(t, 1.0, stats["totalIncomes"])
		assert.Equal(t, 1000.0, stats["totalIncomeAmount"])
		assert.Equal(t, 0.0, stats["pendingContacts"])
	})

	t.Run("delete user", func(t *testing.T) {
		var res messageBody
		assert.Equal(t, http.StatusBadRequest,
			c.do(http.MethodDelete, "/api/admin/users/"+admin.ID.String(), admin.Token, nil, &res))
		assert.Equal(t, "Cannot delete your own account", res.Message)

		assert.Equal(t, http.StatusNotFound,
			c.do(http.MethodDelete, "/api/admin/users/"+uuid.NewString(), admin.Token, nil, &res))
		assert.Equal(t, "User not found", res.Message)

		require.Equal(t, http.StatusOK,
			c.do(http.MethodDelete, "/api/admin/users/"+bob.ID.String(), admin.Token, nil, &res))
		assert.Equal(t, "User and associated data removed successfully", res.Message)

		assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/income", bob.Token, nil, &res))

		var stats map[string]float64
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/admin/stats", admin.Token, nil, &stats))
		assert.Equal(t, 1.0, stats["totalUsers"])
		assert.Equal(t, 0.0, stats["totalIncomes"])
	})
}
