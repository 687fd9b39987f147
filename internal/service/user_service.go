package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"blog-app/internal/domain"
	"blog-app/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var validate = validator.New()

// RegisterInput is a registration request that already passed shape validation.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	tx        *Transactor
	passwords PasswordPolicy
	hashCost  int
}

func NewUserService(tx *Transactor, passwords PasswordPolicy) UserService {
	return &userService{
		tx:        tx,
		passwords: passwords,
		hashCost:  bcrypt.DefaultCost,
	}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)

	verr := &domain.ValidationError{}
	if name == "" {
		verr.Add("name", "The name field is required.")
	}
	switch {
	case email == "":
		verr.Add("email", "The email field is required.")
	case validate.Var(email, "email,max=255") != nil:
		verr.Add("email", "The email field must be a valid email address.")
	}
	if in.Password != in.PasswordConfirmation {
		verr.Add("password", "The password field confirmation does not match.")
	}
	for _, msg := range s.passwords.Check(in.Password) {
		verr.Add("password", msg)
	}
	if _, bad := verr.Fields["email"]; !bad {
		exists, err := s.tx.Store().Users().EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("email", "The email has already been taken.")
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.NewValidationError("password", fmt.Sprintf("The password field must not be greater than %d bytes.", MaxPasswordBytes))
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := Execute(ctx, s.tx, Op{Name: "users.register"}, func(ctx context.Context, store repository.Store) (*domain.User, error) {
		user := &domain.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
		}
		if _, err := store.Users().Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.tx.Store().Users().GetByEmail(ctx, email)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.tx.Store().Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		EmailVerifiedAt: user.EmailVerifiedAt,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
