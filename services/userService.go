package services

import (
	"context"

	"OdontoSystem/apperrors"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/utils"

	"github.com/google/uuid"
)

// SessionRevoker invalidates the outstanding tokens of a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

// UserService manages staff accounts.
type UserService interface {
	List(ctx context.Context) ([]models.UserProfile, error)
	Create(ctx context.Context, input models.NewUserInput) (*models.UserProfile, error)
	Update(ctx context.Context, actorID, id string, input models.UserUpdateInput) (*models.UserProfile, error)
	Deactivate(ctx context.Context, actorID, id string) error
	ChangePassword(ctx context.Context, userID string, input models.ChangePasswordInput) error
}

type userService struct {
	users   *repositories.UserRepository
	revoker SessionRevoker
}

// NewUserService builds the account service. revoker may be nil when no
// sessions exist, as in the operator CLI.
func NewUserService(users *repositories.UserRepository, revoker SessionRevoker) UserService {
	return &userService{users: users, revoker: revoker}
}

var (
	errEmailTaken      = apperrors.Conflict("email already registered")
	errSelfDeactivate  = apperrors.Validation("you cannot deactivate your own account")
	errCurrentPassword = apperrors.Validation("current password is incorrect")
)

func (s *userService) List(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, storeError(err, "user")
	}
	profiles := make([]models.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, nil
}

func (s *userService) Create(ctx context.Context, input models.NewUserInput) (*models.UserProfile, error) {
	input.Email = models.NormalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to hash password")
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.writeError(err)
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *userService) Update(ctx context.Context, actorID, id string, input models.UserUpdateInput) (*models.UserProfile, error) {
	if input.Email != nil {
		email := models.NormalizeEmail(*input.Email)
		input.Email = &email
	}
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	if input.Active != nil && !*input.Active && actorID == id {
		return nil, errSelfDeactivate
	}
	patch := models.Patch(input)
	if len(patch) == 0 {
		return nil, errEmptyUpdate
	}

	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, s.writeError(err)
	}
	// Tokens carry the role, so a role change also ends existing sessions.
	if (input.Active != nil && !*input.Active) || input.Role != nil {
		if err := s.revoke(ctx, id); err != nil {
			return nil, err
		}
	}
	profile := user.Profile()
	return &profile, nil
}

// Deactivate disables an account and ends its sessions. Users are never deleted.
func (s *userService) Deactivate(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return errSelfDeactivate
	}
	if _, err := s.users.Update(ctx, id, map[string]any{"active": false}); err != nil {
		return storeError(err, "user")
	}
	return s.revoke(ctx, id)
}

func (s *userService) ChangePassword(ctx context.Context, userID string, input models.ChangePasswordInput) error {
	if err := input.Validate(); err != nil {
		return invalid(err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeError(err, "user")
	}
	if !utils.CheckPassword(user.PasswordHash, input.CurrentPassword) {
		return errCurrentPassword
	}
	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to hash password")
	}
	_, err = s.users.Update(ctx, userID, map[string]any{"password_hash": hash})
	return storeError(err, "user")
}

func (s *userService) revoke(ctx context.Context, id string) error {
	if s.revoker == nil {
		return nil
	}
	return s.revoker.RevokeUser(ctx, id)
}

func (s *userService) writeError(err error) error {
	mapped := storeError(err, "user")
	if apperrors.Is(mapped, apperrors.CodeConflict) {
		return errEmailTaken
	}
	return mapped
}
