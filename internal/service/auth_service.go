package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/events"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/service/auth"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// RegisterInput carries a registration request. Fields are validated in
// declaration order and the first failure is reported.
type RegisterInput struct {
	Name     string `json:"name"     validate:"personname"              msg:"Name must be 2-50 characters and contain only letters and spaces"`
	Email    string `json:"email"    validate:"legacyemail"             msg:"Please enter a valid email address"`
	Password string `json:"password" validate:"strongpassword"          msg:"Password must be at least 6 characters with uppercase, lowercase, number, and special character"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin" msg:"Role must be either user or admin"`
}

// LoginInput carries a login request.
type LoginInput struct {
	Email    string `json:"email"    validate:"legacyemail" msg:"Please enter a valid email address"`
	Password string `json:"password" validate:"min=6"       msg:"Password must be at least 6 characters"`
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthPolicy decides which role a new account receives.
type AuthPolicy struct {
	// BootstrapAdminEmail always registers as admin.
	BootstrapAdminEmail string

	// AllowRoleRequest honors the role supplied at registration.
	AllowRoleRequest bool
}

// roleFor applies the policy to a registration.
func (p AuthPolicy) roleFor(email, requested string) domain.Role {
	if p.BootstrapAdminEmail != "" && email == p.BootstrapAdminEmail {
		return domain.RoleAdmin
	}
	if p.AllowRoleRequest && requested != "" {
		return domain.Role(requested)
	}
	return domain.RoleUser
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	tokens auth.JWTService
	events events.EventEmitter
	policy AuthPolicy
	logger *slog.Logger
}

// NewAuthService creates an AuthService. A nil emitter disables events.
func NewAuthService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	emitter events.EventEmitter,
	policy AuthPolicy,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: emitter,
		policy: policy,
		logger: logger.With("component", "auth_service"),
	}
}

// Register validates the input, creates the account and issues a token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		log.Debug("registration with existing email")
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(in.Name, in.Email, hash, s.policy.roleFor(in.Email, in.Role))
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"role", user.Role)
	emit(ctx, s.events, s.logger, events.TypeUserRegistered, events.UserPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login with wrong password", "user_id", user.ID)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Debug("user logged in", "user_id", user.ID)
	emit(ctx, s.events, s.logger, events.TypeUserLoggedIn, events.UserPayload{
		UserID: user.ID,
		Email:  user.Email,
	})

	return &AuthResult{User: user, Token: token}, nil
}
