// Command adduser creates an ExpenseFlow account from the command line, or
// changes the role of an existing one. It writes directly to PostgreSQL and
// needs no running API server.
//
// Usage:
//
//	adduser -name "Jane Doe" -email jane@example.com [-password ...] [-role admin] [-db postgres://...]
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/platform/postgres"
	"github.com/phrazzld/expenseflow-api/internal/service/auth"
	"github.com/phrazzld/expenseflow-api/internal/store"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const commandTimeout = 30 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// userOpener connects to the user store named by databaseURL. The returned
// close function releases the connection.
type userOpener func(ctx context.Context, databaseURL string) (store.UserStore, func() error, error)

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	return runWith(args, stdin, stdout, stderr, openPostgresUsers)
}

type options struct {
	name     string
	email    string
	password string
	role     domain.Role
	dbURL    string
	cost     int
}

func parseOptions(args []string, stdout, stderr io.Writer) (*options, error) {
	flags := flag.NewFlagSet("adduser", flag.ContinueOnError)
	flags.SetOutput(stderr)

	name := flags.String("name", "", "Display name")
	email := flags.String("email", "", "Email address (login)")
	password := flags.String("password", "", "Password (optional, will prompt if omitted)")
	role := flags.String("role", string(domain.RoleAdmin), "Role to assign: user or admin")
	dbURL := flags.String("db", "", "PostgreSQL URL (defaults to EXPENSEFLOW_DATABASE_URL or DATABASE_URL)")
	cost := flags.Int("cost", bcrypt.DefaultCost, "bcrypt cost")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -name <name> -email <email> [-password <password>] [-role user|admin] [-db <url>]")
		flags.PrintDefaults()
		return nil, fmt.Errorf("missing required flags: email")
	}

	parsedRole, err := domain.ParseRole(*role)
	if err != nil {
		return nil, err
	}

	return &options{
		name:     strings.TrimSpace(*name),
		email:    strings.TrimSpace(*email),
		password: *password,
		role:     parsedRole,
		dbURL:    resolveDatabaseURL(*dbURL),
		cost:     *cost,
	}, nil
}

func runWith(args []string, stdin io.Reader, stdout, stderr io.Writer, open userOpener) error {
	opts, err := parseOptions(args, stdout, stderr)
	if err != nil {
		return err
	}
	if opts.dbURL == "" {
		return fmt.Errorf("no database url: pass -db or set EXPENSEFLOW_DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	users, closeFn, err := open(ctx, opts.dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = closeFn() }()

	existing, err := users.GetByEmail(ctx, opts.email)
	switch {
	case err == nil:
		return promote(ctx, users, existing, opts.role, stdout)
	case !errors.Is(err, store.ErrUserNotFound):
		return fmt.Errorf("failed to look up %s: %w", opts.email, err)
	}

	if opts.password == "" {
		fmt.Fprint(stdout, "Password: ")
		opts.password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	return create(ctx, users, auth.NewBcryptHasher(opts.cost), opts, stdout)
}

func create(ctx context.Context, users store.UserStore, hasher auth.PasswordHasher, opts *options, stdout io.Writer) error {
	input := struct {
		Name     string `validate:"personname"     msg:"Name must be 2-50 characters and contain only letters and spaces"`
		Email    string `validate:"legacyemail"    msg:"Please enter a valid email address"`
		Password string `validate:"strongpassword" msg:"Password must be at least 6 characters with uppercase, lowercase, number, and special character"`
	}{opts.name, opts.email, opts.password}
	if err := domain.ValidateStruct(input); err != nil {
		return err
	}

	hash, err := hasher.Hash(opts.password)
	if err != nil {
		return err
	}
	user, err := domain.NewUser(opts.name, opts.email, hash, opts.role)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created with role %s (id %s)\n", user.Email, user.Role, user.ID)
	return nil
}

func promote(ctx context.Context, users store.UserStore, user *domain.User, role domain.Role, stdout io.Writer) error {
	if user.Role == role {
		fmt.Fprintf(stdout, "User %s already has role %s\n", user.Email, role)
		return nil
	}
	if err := users.UpdateRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	fmt.Fprintf(stdout, "User %s role changed from %s to %s\n", user.Email, user.Role, role)
	return nil
}

// resolveDatabaseURL prefers the flag, then the environment (including a
// local .env file).
func resolveDatabaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: ignoring .env: %v\n", err)
	}
	for _, name := range []string{"EXPENSEFLOW_DATABASE_URL", "DATABASE_URL"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func openPostgresUsers(ctx context.Context, databaseURL string) (store.UserStore, func() error, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return postgres.NewPostgresUserStore(db, logger), db.Close, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
