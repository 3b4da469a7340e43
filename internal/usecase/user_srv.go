package usecase

import (
	"context"
	"fmt"

	"user-service/internal/data/entity"
	"user-service/internal/data/repository"
	"user-service/internal/dto/request"
	"user-service/internal/dto/response"
	"user-service/internal/messaging"
	"user-service/pkg/metrics"
	"user-service/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	CreateUser(ctx context.Context, req *request.RegisterUserRequest) (*response.UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (*response.UserResponse, bool, error)
	GetUserByUsername(ctx context.Context, username string) (*response.UserResponse, bool, error)
	GetAllActiveUsers(ctx context.Context) ([]response.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeactivateUser(ctx context.Context, id int64) error
	GetActiveUserCount(ctx context.Context) (int64, error)
}

type userService struct {
	userRepo  repository.UserRepository
	hasher    utils.PasswordHasher
	publisher messaging.EventPublisher
	log       *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	hasher utils.PasswordHasher,
	publisher messaging.EventPublisher,
	log *zap.Logger,
) UserService {
	return &userService{
		userRepo:  userRepo,
		hasher:    hasher,
		publisher: publisher,
		log:       log,
	}
}

// CreateUser validates req itself; handlers check payloads too, but the
// service is also called directly by non-HTTP callers.
func (us *userService) CreateUser(ctx context.Context, req *request.RegisterUserRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, us.fail("create", fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs)))
	}

	// 2. Username and email must be unused, active or not
	taken, err := us.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, us.fail("create", storeError(err))
	}
	if taken {
		us.log.Warn("Username already exists", zap.String("username", req.Username))
		return nil, us.fail("create", ErrDuplicateUsername)
	}

	taken, err = us.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, us.fail("create", storeError(err))
	}
	if taken {
		us.log.Warn("Email already exists", zap.String("email", req.Email))
		return nil, us.fail("create", ErrDuplicateEmail)
	}

	// 3. Hash password
	hash, err := us.hasher.Hash(req.Password)
	if err != nil {
		us.log.Error("Failed to hash password", zap.Error(err))
		return nil, us.fail("create", fmt.Errorf("%w: password: %w", ErrValidation, err))
	}

	// 4. Persist
	saved, err := us.userRepo.Save(ctx, &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		IsActive:     true,
	})
	if err != nil {
		return nil, us.fail("create", storeError(err))
	}

	// 5. Announce only after the row is committed. A failure here leaves the
	// user in place; the event is not retried.
	if err := us.publisher.PublishUserCreated(ctx, saved); err != nil {
		us.log.Error("User created but event not published",
			zap.Error(err), zap.Int64("user_id", saved.ID))
		return nil, us.fail("create", publishError(err))
	}

	metrics.UserOperationsTotal.WithLabelValues("create", "ok").Inc()
	us.log.Info("User registered",
		zap.Int64("user_id", saved.ID),
		zap.String("username", saved.Username))

	resp := response.UserToResponse(saved)
	return &resp, nil
}

// GetUserByID reports found=false, with no error, when the id is unknown.
func (us *userService) GetUserByID(ctx context.Context, id int64) (*response.UserResponse, bool, error) {
	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, false, storeError(err)
	}
	if user == nil {
		return nil, false, nil
	}

	resp := response.UserToResponse(user)
	return &resp, true, nil
}

func (us *userService) GetUserByUsername(ctx context.Context, username string) (*response.UserResponse, bool, error) {
	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, false, storeError(err)
	}
	if user == nil {
		return nil, false, nil
	}

	resp := response.UserToResponse(user)
	return &resp, true, nil
}

func (us *userService) GetAllActiveUsers(ctx context.Context) ([]response.UserResponse, error) {
	users, err := us.userRepo.FindAllActive(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	us.log.Debug("Active users retrieved", zap.Int("count", len(users)))
	return response.UsersToResponse(users), nil
}

// UpdateUser re-validates req for the same reason as CreateUser.
func (us *userService) UpdateUser(ctx context.Context, id int64, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("Update validation failed", zap.Any("errors", errs), zap.Int64("user_id", id))
		return nil, us.fail("update", fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs)))
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, us.fail("update", storeError(err))
	}
	if user == nil {
		return nil, us.fail("update", ErrNotFound)
	}

	// Keeping one's own username or email is always allowed.
	if user.Username != req.Username {
		taken, err := us.userRepo.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, us.fail("update", storeError(err))
		}
		if taken {
			us.log.Warn("Username already exists", zap.String("username", req.Username), zap.Int64("user_id", id))
			return nil, us.fail("update", ErrDuplicateUsername)
		}
	}

	if user.Email != req.Email {
		taken, err := us.userRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, us.fail("update", storeError(err))
		}
		if taken {
			us.log.Warn("Email already exists", zap.String("email", req.Email), zap.Int64("user_id", id))
			return nil, us.fail("update", ErrDuplicateEmail)
		}
	}

	user.Username = req.Username
	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.PhoneNumber = req.PhoneNumber

	if req.Password != "" {
		hash, err := us.hasher.Hash(req.Password)
		if err != nil {
			us.log.Error("Failed to hash password", zap.Error(err), zap.Int64("user_id", id))
			return nil, us.fail("update", fmt.Errorf("%w: password: %w", ErrValidation, err))
		}
		user.PasswordHash = hash
	}

	saved, err := us.userRepo.Save(ctx, user)
	if err != nil {
		return nil, us.fail("update", storeError(err))
	}

	metrics.UserOperationsTotal.WithLabelValues("update", "ok").Inc()
	us.log.Info("User updated", zap.Int64("user_id", saved.ID))

	resp := response.UserToResponse(saved)
	return &resp, nil
}

func (us *userService) DeactivateUser(ctx context.Context, id int64) error {
	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		return us.fail("deactivate", storeError(err))
	}
	if user == nil {
		return us.fail("deactivate", ErrNotFound)
	}

	user.Deactivate()

	saved, err := us.userRepo.Save(ctx, user)
	if err != nil {
		return us.fail("deactivate", storeError(err))
	}

	if err := us.publisher.PublishUserDeactivated(ctx, saved); err != nil {
		us.log.Error("User deactivated but event not published",
			zap.Error(err), zap.Int64("user_id", saved.ID))
		return us.fail("deactivate", publishError(err))
	}

	metrics.UserOperationsTotal.WithLabelValues("deactivate", "ok").Inc()
	us.log.Info("User deactivated",
		zap.Int64("user_id", saved.ID),
		zap.String("username", saved.Username))
	return nil
}

func (us *userService) GetActiveUserCount(ctx context.Context) (int64, error) {
	count, err := us.userRepo.CountActive(ctx)
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

func (us *userService) fail(operation string, err error) error {
	metrics.UserOperationsTotal.WithLabelValues(operation, "error").Inc()
	return err
}
