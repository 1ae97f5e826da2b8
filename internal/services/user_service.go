package services

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/authz"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/validation"
)

// UserService handles account management.
type UserService struct {
	userRepo   repositories.UserRepository
	validate   *validation.Validator
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, bcryptCost int) *UserService {
	return &UserService{
		userRepo:   userRepo,
		validate:   validation.New(),
		bcryptCost: bcryptCost,
	}
}

// CreateUserInput is the admin payload for creating an account.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateUserInput is a partial update. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
}

// List returns every user. Admins only.
func (s *UserService) List(ctx context.Context, p authz.Principal) ([]models.User, error) {
	if err := authz.AdminOnly(p); err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Get returns a user to itself or to an admin.
func (s *UserService) Get(ctx context.Context, p authz.Principal, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if err := authz.SameOrAdmin(p, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Create adds an account with any role. Admins only.
func (s *UserService) Create(ctx context.Context, p authz.Principal, in CreateUserInput) (*models.User, error) {
	if err := authz.AdminOnly(p); err != nil {
		return nil, err
	}
	verr := apperr.NewValidationError()
	verr.Merge(s.validate.Struct(in))
	if err := s.checkEmail(ctx, verr, in.Email, 0); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := hashInput(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	role := models.RoleUser
	if in.Role != "" {
		role = models.Role(in.Role)
	}
	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Validation("email", emailTakenMessage)
		}
		return nil, apperr.Internal("create user", err)
	}
	return user, nil
}

// Update applies a partial update. Users may edit themselves; only admins
// may edit others or change a role.
func (s *UserService) Update(ctx context.Context, p authz.Principal, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if err := authz.SameOrAdmin(p, user.ID); err != nil {
		return nil, err
	}
	if in.Role != nil {
		if err := authz.AdminOnly(p); err != nil {
			return nil, err
		}
	}

	verr := apperr.NewValidationError()
	verr.Merge(s.validate.Struct(in))
	if in.Email != nil {
		if err := s.checkEmail(ctx, verr, *in.Email, user.ID); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := hashInput(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if in.Role != nil {
		user.Role = models.Role(*in.Role)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Validation("email", emailTakenMessage)
		}
		return nil, storeErr("update user", err)
	}
	return user, nil
}

// Delete removes a user together with its orders and tokens. Admins only.
func (s *UserService) Delete(ctx context.Context, p authz.Principal, id uint) error {
	if err := authz.AdminOnly(p); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return storeErr("delete user", err)
	}
	return nil
}

// checkEmail adds the uniqueness failure unless the email already failed
// a format rule.
func (s *UserService) checkEmail(ctx context.Context, verr *apperr.ValidationError, email string, exceptID uint) error {
	if verr.Has("email") || strings.TrimSpace(email) == "" {
		return nil
	}
	taken, err := s.userRepo.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return apperr.Internal("check email", err)
	}
	if taken {
		verr.Add("email", emailTakenMessage)
	}
	return nil
}
