package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/vastralabs/vastra-backend/pkg/auth"
	"github.com/vastralabs/vastra-backend/pkg/db"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
	"github.com/vastralabs/vastra-backend/pkg/enums"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/security"
)

// badCredentials is deliberately identical for unknown email and wrong
// password.
const badCredentials = "invalid email or password"

// TokenMinter is the JWT surface the service needs, extracted for tests.
type TokenMinter interface {
	Mint(userID uuid.UUID, role enums.UserRole) (*pkgauth.TokenPair, error)
	Parse(raw string, kind pkgauth.TokenKind) (*pkgauth.Claims, error)
}

// SessionStore tracks which token JTIs are still live.
type SessionStore interface {
	Start(ctx context.Context, accessID string, userID uuid.UUID) error
	Validate(ctx context.Context, accessID string, userID uuid.UUID) error
	End(ctx context.Context, accessID string) error
}

// PasswordHasher is the credential surface the service needs.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// ServiceParams wires the auth service dependencies.
type ServiceParams struct {
	Repo     Repository
	Tokens   TokenMinter
	Sessions SessionStore
	Hasher   PasswordHasher
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	tokens   TokenMinter
	sessions SessionStore
	hasher   PasswordHasher
	logg     *logger.Logger
}

// NewService builds the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token minter required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		tokens:   params.Tokens,
		sessions: params.Sessions,
		hasher:   params.Hasher,
		logg:     params.Logger,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "email, password and full name are required")
	}
	if len(input.Password) < security.MinPasswordLen {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", security.MinPasswordLen))
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "an account with this email already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating account")
	}

	ctx = s.logg.WithUserID(ctx, created.ID.String())
	s.logg.Info(ctx, "account registered")
	return s.startSession(ctx, created)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	return s.login(ctx, input, false)
}

// AdminLogin is the login path for the back office; non-admin accounts are
// rejected even with valid credentials.
func (s *service) AdminLogin(ctx context.Context, input LoginInput) (*Session, error) {
	return s.login(ctx, input, true)
}

func (s *service) login(ctx context.Context, input LoginInput, adminOnly bool) (*Session, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, badCredentials)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading account")
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeUnauthorized, badCredentials)
	}
	if adminOnly && !user.Role.IsAdmin() {
		return nil, apperrors.New(apperrors.CodeForbidden, "admin account required")
	}

	ctx = s.logg.WithUserID(ctx, user.ID.String())
	s.logg.Info(ctx, "login succeeded")
	return s.startSession(ctx, user)
}

// Refresh rotates the token pair: the old session ends and the new pair gets
// a fresh JTI.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.Parse(refreshToken, pkgauth.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Validate(ctx, claims.ID, claims.UserID); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading account")
	}

	if err := s.sessions.End(ctx, claims.ID); err != nil {
		s.logg.Warn(ctx, "ending rotated session failed")
	}
	return s.startSession(ctx, user)
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.End(ctx, accessID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "ending session")
	}
	return nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "account not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading account")
	}
	return user, nil
}

func (s *service) startSession(ctx context.Context, user *models.User) (*Session, error) {
	pair, err := s.tokens.Mint(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "minting tokens")
	}
	if err := s.sessions.Start(ctx, pair.AccessID, user.ID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "starting session")
	}
	return &Session{User: user, Tokens: pair}, nil
}
