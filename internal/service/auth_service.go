package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/logistica/partes-service/internal/model"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user model.User) (*model.User, error)
}

type DriverStore interface {
	GetDriverByEmail(ctx context.Context, email string) (*model.Driver, error)
}

type TokenIssuer interface {
	Issue(principal model.Principal) (string, error)
}

type AuthService struct {
	users   UserStore
	drivers DriverStore
	tokens  TokenIssuer
}

func NewAuthService(users UserStore, drivers DriverStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, drivers: drivers, tokens: tokens}
}

type LoginResult struct {
	Token     string
	Principal model.Principal
}

// Login authenticates an administrative user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	principal := model.Principal{UserID: user.ID, Name: user.Name, Role: user.Role}
	token, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Principal: principal}, nil
}

// LoginDriver authenticates a conductor against the drivers table.
func (s *AuthService) LoginDriver(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	driver, err := s.drivers.GetDriverByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(driver.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	principal := model.Principal{UserID: driver.ID, Name: driver.Name, Role: model.RoleDriver}
	token, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Principal: principal}, nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an admin account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un nombre", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un correo electrónico", ErrInvalidInput)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: La contraseña debe tener al menos 6 caracteres", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	saved, err := s.users.Create(ctx, model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return nil, conflictError(err, "Ya existe un usuario con este correo")
	}
	return saved, nil
}
