package service

import (
	"context"
	"errors"
	"strings"

	"campus-market/config"
	"campus-market/internal/apperr"
	"campus-market/internal/models"
	"campus-market/internal/store"
	"campus-market/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, authentication and profile changes
type UserService struct {
	users     store.UserStore
	cost      int
	dummyHash []byte
	logger    *zap.Logger
}

// NewUserService creates a new user service. Costs below bcrypt.DefaultCost
// are raised to it.
func NewUserService(users store.UserStore, cfg config.BusinessConfig) *UserService {
	cost := cfg.BcryptCost
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	// compared against when the username is unknown so both paths pay one bcrypt
	dummy, _ := bcrypt.GenerateFromPassword([]byte("campus-market-no-such-user"), cost)

	return &UserService{
		users:     users,
		cost:      cost,
		dummyHash: dummy,
		logger:    util.GetLogger(),
	}
}

// RegisterRequest represents a sign-up request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Register creates an account with a bcrypt-hashed password. An empty role
// defaults to buyer.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "UserService.Register")
	defer span.End()

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperr.New(apperr.CodeValidation, "username and password are required")
	}

	role := models.RoleBuyer
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			return nil, apperr.Newf(apperr.CodeValidation, "invalid role: %q", req.Role)
		}
		role = parsed
	}

	email := strings.TrimSpace(req.Email)
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// Authenticate returns the user when password matches. An unknown username
// and a wrong password both return (nil, nil).
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "UserService.Authenticate")
	defer span.End()

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, nil
		}
		util.RecordError(span, err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.CodeInternal, err, "stored password hash is invalid")
	}
	return user, nil
}

// Login authenticates and turns "no match" into an Unauthorized error
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		util.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if user == nil {
		util.AuthAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}
	util.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// ensureEmailFree rejects an email already used by an account other than selfID
func (s *UserService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	if email == "" {
		return nil
	}
	other, err := s.users.GetUserByEmail(ctx, email)
	if apperr.IsCode(err, apperr.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != selfID {
		return apperr.New(apperr.CodeConflict, "email is already in use")
	}
	return nil
}

// UpdateRole switches the user between buyer, seller and both
func (s *UserService) UpdateRole(ctx context.Context, userID int64, raw string) (models.Role, error) {
	role, ok := models.ParseRole(raw)
	if !ok {
		return "", apperr.Newf(apperr.CodeValidation, "invalid role: %q", raw)
	}
	if err := s.users.UpdateUserRole(ctx, userID, role); err != nil {
		return "", err
	}
	s.logger.Info("User role updated", zap.Int64("user_id", userID), zap.String("role", string(role)))
	return role, nil
}

// UpdateProfile changes the user's email
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := s.ensureEmailFree(ctx, email, userID); err != nil {
		return nil, err
	}
	if err := s.users.UpdateUserEmail(ctx, userID, email); err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, userID)
}

// ChangePassword requires the current password before storing a new hash
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	ctx, span := util.StartSpan(ctx, "UserService.ChangePassword")
	defer span.End()

	if next == "" {
		return apperr.New(apperr.CodeValidation, "new password is required")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperr.New(apperr.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	return s.users.UpdateUserPassword(ctx, userID, hash)
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeValidation, err, "password cannot be hashed")
	}
	return string(hash), nil
}
