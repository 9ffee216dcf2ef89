package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/domain/model"
	"github.com/journiv/journiv-server/internal/metrics"
	"github.com/journiv/journiv-server/internal/repository"
)

var (
	// ErrLastAdmin is returned when an operation would leave the system
	// without any admin user. The message is part of the API contract,
	// handlers surface it verbatim.
	ErrLastAdmin = errors.New("cannot remove the last admin user")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRole is returned when a role value is not a known role.
	ErrInvalidRole = errors.New("invalid role")
)

// AdminService provides user administration operations.
//
// Every mutation preserves the invariant that at least one active admin
// account exists once the system has been bootstrapped.
type AdminService interface {
	ListUsers(ctx context.Context, limit, skip int64) ([]*model.User, int64, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, req dto.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

// AdminServiceImpl implements AdminService.
//
// Check-then-act sequences (count admins, then delete or demote) run under
// a mutex shared with AuthService registration. MongoDB transactions would
// need a replica set, and a single process owns all user writes, so a
// process-wide single-writer section is sufficient.
type AdminServiceImpl struct {
	userRepo     repository.UserRepositoryInterface
	tokenService TokenService
	userMu       *sync.Mutex
}

// NewAdminService creates a new admin service. The userMu mutex must be
// the same instance handed to NewAuthService.
func NewAdminService(
	userRepo repository.UserRepositoryInterface,
	tokenService TokenService,
	userMu *sync.Mutex,
) AdminService {
	if userMu == nil {
		userMu = &sync.Mutex{}
	}
	return &AdminServiceImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
		userMu:       userMu,
	}
}

// ListUsers returns a page of users sorted by creation time, plus the
// total user count.
func (s *AdminServiceImpl) ListUsers(ctx context.Context, limit, skip int64) ([]*model.User, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	users, err := s.userRepo.List(ctx, bson.M{}, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return users, total, nil
}

// GetUser returns a single user by ID.
func (s *AdminServiceImpl) GetUser(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CreateUser creates a new user account with an explicit role.
func (s *AdminServiceImpl) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	s.userMu.Lock()
	defer s.userMu.Unlock()

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     role,
		Active:   true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		metrics.RecordAdminMutation("create", "error")
		return nil, err
	}

	metrics.RecordAdminMutation("create", "success")
	log.Info().Str("email", user.Email).Str("role", user.Role).Msg("admin created user")
	return user, nil
}

// UpdateUser applies a partial update to a user account.
//
// Demoting the last admin to a regular user is rejected with ErrLastAdmin.
func (s *AdminServiceImpl) UpdateUser(ctx context.Context, id primitive.ObjectID, req dto.UpdateUserRequest) (*model.User, error) {
	s.userMu.Lock()
	defer s.userMu.Unlock()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		if user.Role == model.RoleAdmin && *req.Role != model.RoleAdmin {
			lastAdmin, err := s.isLastAdmin(ctx)
			if err != nil {
				return nil, err
			}
			if lastAdmin {
				metrics.RecordAdminMutation("demote", "blocked")
				return nil, ErrLastAdmin
			}
		}
		user.Role = *req.Role
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashedPassword)
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		metrics.RecordAdminMutation("update", "error")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// A deactivated user must not keep a valid session
	if req.Active != nil && !*req.Active {
		if err := s.tokenService.InvalidateUserTokens(ctx, user.ID); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to revoke tokens for deactivated user")
		}
	}

	metrics.RecordAdminMutation("update", "success")
	return user, nil
}

// DeleteUser removes a user account and revokes its refresh tokens.
//
// Deleting the last admin is rejected with ErrLastAdmin.
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	s.userMu.Lock()
	defer s.userMu.Unlock()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.Role == model.RoleAdmin {
		lastAdmin, err := s.isLastAdmin(ctx)
		if err != nil {
			return err
		}
		if lastAdmin {
			metrics.RecordAdminMutation("delete", "blocked")
			return ErrLastAdmin
		}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		metrics.RecordAdminMutation("delete", "error")
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.tokenService.InvalidateUserTokens(ctx, id); err != nil {
		log.Warn().Err(err).Str("user_id", id.Hex()).Msg("failed to revoke tokens for deleted user")
	}

	metrics.RecordAdminMutation("delete", "success")
	log.Info().Str("user_id", id.Hex()).Str("email", user.Email).Msg("admin deleted user")
	return nil
}

// isLastAdmin reports whether at most one admin account remains. Callers
// must hold userMu.
func (s *AdminServiceImpl) isLastAdmin(ctx context.Context) (bool, error) {
	admins, err := s.userRepo.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	return admins <= 1, nil
}
