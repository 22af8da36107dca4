package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
)

const userNotFound = "User not found!"

// bcrypt only hashes the first 72 bytes and rejects longer input.
const maxPasswordBytes = 72

type Service struct {
	repo Repository
	cost int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return User{}, apperror.NotFound(userNotFound)
	}
	return u, err
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, apperror.InvalidInput("a valid email is required")
	}
	if req.Password == "" {
		return User{}, apperror.InvalidInput("password is required")
	}
	if len(req.Password) > maxPasswordBytes {
		return User{}, apperror.InvalidInput(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, duplicateEmail(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		if errors.Is(err, apperror.ErrAlreadyExists) {
			return User{}, duplicateEmail(email)
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (User, error) {
	u, err := s.repo.UpdateNames(ctx, id, req.FirstName, req.LastName)
	if errors.Is(err, apperror.ErrNotFound) {
		return User{}, apperror.NotFound(userNotFound)
	}
	return u, err
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound(userNotFound)
	}
	return err
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords fail the same way.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return User{}, apperror.Unauthorized("Invalid email or password")
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, apperror.Unauthorized("Invalid email or password")
	}
	return u, nil
}

func duplicateEmail(email string) error {
	return apperror.AlreadyExists(fmt.Sprintf("Oops! %s already exists!", email))
}
