package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gorm.io/datatypes"

	"github.com/bpariverside/skillswap-service/internal/models"
	"github.com/bpariverside/skillswap-service/internal/repositories"
	"github.com/bpariverside/skillswap-service/internal/storage"
	"github.com/bpariverside/skillswap-service/internal/validator"
)

// MaxAvatarSize is the largest accepted avatar upload.
const MaxAvatarSize = 5 << 20 // 5 MiB

// avatarContentTypes maps accepted upload types to stored extensions.
var avatarContentTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
}

type userService struct {
	repo      repositories.Repository
	avatars   *storage.AvatarStore
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, avatars *storage.AvatarStore, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		avatars:   avatars,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().Find(ctx, repositories.UserLookup{ID: userID})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Profile == nil {
		profile, err := s.repo.Profile().GetByUserID(ctx, userID)
		if err == nil {
			user.Profile = profile
		}
	}
	return user, nil
}

// resolveTarget maps an optional handle onto the account the actor may
// operate on. An empty handle means the actor's own account; any other
// handle requires the admin role.
func (s *userService) resolveTarget(ctx context.Context, actor *Actor, action, handle string) (*models.User, error) {
	if handle != "" && handle != actor.Handle && !actor.IsAdmin() {
		return nil, NewPermissionError("user", action, "not the account owner")
	}

	lookup := repositories.UserLookup{ID: actor.UserID}
	if handle != "" && handle != actor.Handle {
		lookup = repositories.UserLookup{Handle: handle}
	}

	user, err := s.repo.User().Find(ctx, lookup)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateSettings applies the present fields to the target's profile. The
// target defaults to the actor; admins may name another handle. Free-text
// fields are sanitized; a replaced avatar file is deleted.
func (s *userService) UpdateSettings(ctx context.Context, actor *Actor, req *UpdateSettingsRequest) (*models.Profile, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	targetHandle := ""
	if req.Handle != nil {
		targetHandle = *req.Handle
	}
	target, err := s.resolveTarget(ctx, actor, "update", targetHandle)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, target.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	previousAvatar := profile.AvatarURL

	if req.DisplayName != nil {
		profile.DisplayName = validator.Sanitize(*req.DisplayName)
	}
	if req.Bio != nil {
		profile.Bio = validator.Sanitize(*req.Bio)
	}
	if req.Tags != nil {
		data, err := json.Marshal(validator.SanitizeAll(req.Tags))
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		profile.Tags = datatypes.JSON(data)
	}
	if req.Skills != nil {
		data, err := json.Marshal(validator.SanitizeAll(req.Skills))
		if err != nil {
			return nil, fmt.Errorf("failed to encode skills: %w", err)
		}
		profile.Skills = datatypes.JSON(data)
	}
	if req.AvatarURL != nil {
		if !strings.HasPrefix(*req.AvatarURL, models.AvatarURLPrefix) {
			return nil, ErrAvatarOutsideStore
		}
		profile.AvatarURL = *req.AvatarURL
	}

	if err := s.repo.Profile().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if req.AvatarURL != nil && previousAvatar != profile.AvatarURL {
		if err := s.avatars.RemoveURL(previousAvatar); err != nil {
			s.logger.Warn("failed to remove replaced avatar", "url", previousAvatar, "error", err)
		}
	}

	s.logger.Info("settings updated", "user_id", target.ID)
	return profile, nil
}

// Delete removes the target account, its dependents through FK
// constraints, and every avatar file the handle owned. The target
// defaults to the actor; admins may name another handle.
func (s *userService) Delete(ctx context.Context, actor *Actor, handle string) error {
	user, err := s.resolveTarget(ctx, actor, "delete", handle)
	if err != nil {
		return err
	}

	if err := s.repo.User().Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.avatars.Sweep(user.Handle); err != nil {
		s.logger.Warn("failed to sweep avatar files", "handle", user.Handle, "error", err)
	}

	s.logger.Info("user deleted", "user_id", user.ID, "handle", user.Handle)
	return nil
}

// UploadAvatar stores the file as <handle>.<ext> and points the profile
// at it. Returns the new public URL.
func (s *userService) UploadAvatar(ctx context.Context, userID string, upload *AvatarUpload) (string, error) {
	if upload.Size > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}
	ext, ok := avatarContentTypes[upload.ContentType]
	if !ok {
		return "", ErrAvatarUnsupportedType
	}

	user, err := s.repo.User().Find(ctx, repositories.UserLookup{ID: userID})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get profile: %w", err)
	}

	// Size header already checked; the reader guard catches lying clients.
	url, err := s.avatars.Save(user.Handle, ext, io.LimitReader(upload.Content, MaxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	profile.AvatarURL = url
	if err := s.repo.Profile().Update(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("avatar uploaded", "user_id", userID, "url", url)
	return url, nil
}
