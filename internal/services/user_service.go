package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmartell/postboard-be/internal/auth"
	"github.com/jmartell/postboard-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user with a hashed password. It fails with
// ErrValidation on empty input and ErrUserExists when the username is
// already taken.
func (s *UserService) Register(username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, ErrValidation
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ?", username).Scan(&count); err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, ErrUserExists
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New().String(),
		Username: username,
		Role:     models.RoleUser,
	}

	_, err = s.db.Exec("INSERT INTO users(id, username, role, password_hash) VALUES(?, ?, ?, ?)",
		user.ID, user.Username, user.Role, passwordHash)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Authenticate verifies a user's credentials. An unknown username and a
// wrong password both return ErrInvalidCredentials so callers cannot
// probe for existing accounts.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	var passwordHash string
	row := s.db.QueryRow("SELECT id, username, role, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Role, &passwordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := auth.VerifyPassword(password, passwordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, role, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
