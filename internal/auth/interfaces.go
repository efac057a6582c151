package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/vastralabs/vastra-backend/pkg/auth"
	"github.com/vastralabs/vastra-backend/pkg/db/models"
)

// Repository defines persistence for user accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// Service implements registration and the token lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	AdminLogin(ctx context.Context, input LoginInput) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, accessID string) error
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// RegisterInput creates a new customer account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"omitempty,len=10,numeric"`
}

// LoginInput authenticates an existing account.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the authenticated response payload.
type Session struct {
	User   *models.User       `json:"user"`
	Tokens *pkgauth.TokenPair `json:"tokens"`
}
