package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/database"
	"github.com/tourplatform/tour-booking-backend/internal/models"
	"github.com/tourplatform/tour-booking-backend/pkg/jwt"
	"github.com/tourplatform/tour-booking-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt refuses input longer than this many bytes
	maxPasswordBytes = 72
	maxNameLength    = 100
	maxEmailLength   = 255
)

// errInvalidCredentials is shared by every login failure so the response
// never reveals whether the email exists or which table was consulted.
var errInvalidCredentials = newError(ErrUnauthorized, "Invalid credentials.")

// AuthService handles registration and login for users and admins
type AuthService struct {
	userRepo       *database.UserRepository
	adminRepo      *database.AdminRepository
	jwtService     *jwt.Service
	phoneValidator *validator.PhoneValidator
	bcryptCost     int
	dummyHash      []byte
	logger         *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo *database.UserRepository,
	adminRepo *database.AdminRepository,
	jwtService *jwt.Service,
	phoneValidator *validator.PhoneValidator,
	bcryptCost int,
	logger *logrus.Logger,
) (*AuthService, error) {
	// Compared against when the account does not exist, so a miss costs
	// the same as a wrong password.
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &AuthService{
		userRepo:       userRepo,
		adminRepo:      adminRepo,
		jwtService:     jwtService,
		phoneValidator: phoneValidator,
		bcryptCost:     bcryptCost,
		dummyHash:      dummyHash,
		logger:         logger,
	}, nil
}

// Register creates a customer account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validateAccount(name, email, password); err != nil {
		return nil, err
	}

	sanitizedPhone, err := s.phoneValidator.Validate(phone)
	if err != nil {
		return nil, validationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Phone:        models.NewNullString(sanitizedPhone),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, conflictError("Email already registered.")
		}
		return nil, rejectedValue(err, "Account details exceed the allowed length.")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return user, nil
}

// Login verifies credentials against the identity table selected by role
// and issues a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password, roleName string) (*models.LoginResponse, error) {
	role, err := jwt.ParseRole(roleName)
	if err != nil {
		return nil, validationError("Role must be either 'user' or 'admin'.")
	}

	email = normalizeEmail(email)

	subjectID, hash, err := s.lookupCredentials(ctx, role, email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(subjectID, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.LoginResponse{
		Message:   "Logged in successfully!",
		Token:     token,
		Role:      string(role),
		ExpiresIn: int64(s.jwtService.AccessTokenExpiry().Seconds()),
	}, nil
}

// CreateAdmin provisions an operator account. It is not reachable from the
// HTTP API; cmd/create-admin calls it.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.Admin, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validateAccount(name, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, conflictError("Admin email already exists.")
		}
		return nil, rejectedValue(err, "Account details exceed the allowed length.")
	}

	return admin, nil
}

func (s *AuthService) lookupCredentials(ctx context.Context, role jwt.Role, email string) (uuid.UUID, string, error) {
	switch role {
	case jwt.RoleAdmin:
		admin, err := s.adminRepo.GetByEmail(ctx, email)
		if err != nil {
			return uuid.Nil, "", err
		}
		return admin.ID, admin.PasswordHash, nil
	default:
		user, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return uuid.Nil, "", err
		}
		return user.ID, user.PasswordHash, nil
	}
}

func validateAccount(name, email, password string) error {
	if name == "" || email == "" {
		return validationError("Name and email are required.")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return validationError(fmt.Sprintf("Name must be at most %d characters.", maxNameLength))
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return validationError(fmt.Sprintf("Email must be at most %d characters.", maxEmailLength))
	}
	if len(password) < minPasswordLength {
		return validationError(fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return validationError(fmt.Sprintf("Password must be at most %d bytes.", maxPasswordBytes))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
