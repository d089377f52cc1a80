package services

import (
	"context"
	"errors"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/adapters/persistence/repositories"
	"siperu/internal/core/domain"
	"siperu/internal/pkg/pagination"
	"siperu/internal/pkg/password"
	"siperu/internal/pkg/validation"

	"gorm.io/gorm"
)

// Uniqueness messages surfaced as field-level validation errors
const (
	MsgUsernameTaken = "Username sudah digunakan, silakan pilih yang lain."
	MsgIDCardTaken   = "ID Card sudah terdaftar."
)

// UserService handles user directory business logic
type UserService struct {
	userRepo       repositories.UserRepository
	peminjamanRepo repositories.PeminjamanRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	peminjamanRepo repositories.PeminjamanRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		peminjamanRepo: peminjamanRepo,
	}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Search    string
	Sort      string
	Direction string
	Page      int
	Limit     int
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*models.User
	Total int64
	Page  int
	Limit int
}

// CreateUserInput represents create user form input
type CreateUserInput struct {
	NamaLengkap          string `form:"nama_lengkap" validate:"required,max=255"`
	Username             string `form:"username" validate:"required,max=255"`
	IDCard               string `form:"id_card" validate:"required,max=255"`
	Role                 string `form:"role" validate:"required,oneof=admin user"`
	JenisPengguna        string `form:"jenis_pengguna" validate:"required,oneof=siswa guru"`
	Password             string `form:"password" validate:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `form:"password_confirmation"`
}

// UpdateUserInput represents update user form input.
// Password is optional; when empty the stored hash is kept.
type UpdateUserInput struct {
	NamaLengkap          string `form:"nama_lengkap" validate:"required,max=255"`
	Username             string `form:"username" validate:"required,max=255"`
	IDCard               string `form:"id_card" validate:"required,max=255"`
	Role                 string `form:"role" validate:"required,oneof=admin user"`
	JenisPengguna        string `form:"jenis_pengguna" validate:"required,oneof=siswa guru"`
	Password             string `form:"password" validate:"omitempty,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `form:"password_confirmation"`
}

// ListUsers lists users with search, sort and pagination
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = pagination.DefaultLimit
	}
	if input.Limit > pagination.MaxLimit {
		input.Limit = pagination.MaxLimit
	}

	query := &repositories.UserListQuery{
		Search:    input.Search,
		Sort:      input.Sort,
		Direction: input.Direction,
		Offset:    (input.Page - 1) * input.Limit,
		Limit:     input.Limit,
	}

	users, total, err := s.userRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	return &ListUsersOutput{
		Users: users,
		Total: total,
		Page:  input.Page,
		Limit: input.Limit,
	}, nil
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUser validates the input, hashes the password and persists the user.
// Validation failures come back as validation.Errors with no partial write.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	errs := validation.Check(input)
	if errs == nil {
		errs = validation.Errors{}
	}

	if !errs.Has("username") {
		if taken, err := s.userRepo.ExistsByUsername(ctx, input.Username, 0); err != nil {
			return nil, err
		} else if taken {
			errs.Add("username", MsgUsernameTaken)
		}
	}
	if !errs.Has("id_card") {
		if taken, err := s.userRepo.ExistsByIDCard(ctx, input.IDCard, 0); err != nil {
			return nil, err
		} else if taken {
			errs.Add("id_card", MsgIDCardTaken)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		NamaLengkap:   input.NamaLengkap,
		Username:      input.Username,
		IDCard:        input.IDCard,
		Role:          input.Role,
		JenisPengguna: input.JenisPengguna,
		Password:      hashed,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser updates a user. Uniqueness checks exclude the record itself,
// so updating a user to its own username or ID card succeeds.
func (s *UserService) UpdateUser(ctx context.Context, id uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validation.Check(input)
	if errs == nil {
		errs = validation.Errors{}
	}

	if !errs.Has("username") {
		if taken, err := s.userRepo.ExistsByUsername(ctx, input.Username, id); err != nil {
			return nil, err
		} else if taken {
			errs.Add("username", MsgUsernameTaken)
		}
	}
	if !errs.Has("id_card") {
		if taken, err := s.userRepo.ExistsByIDCard(ctx, input.IDCard, id); err != nil {
			return nil, err
		} else if taken {
			errs.Add("id_card", MsgIDCardTaken)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	user.NamaLengkap = input.NamaLengkap
	user.Username = input.Username
	user.IDCard = input.IDCard
	user.Role = input.Role
	user.JenisPengguna = input.JenisPengguna

	if input.Password != "" {
		hashed, err := password.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user. Deletion is rejected while the user still has
// booking records, so listing rows never point at a missing borrower.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}

	count, err := s.peminjamanRepo.CountByUserID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrUserHasBookings
	}

	return s.userRepo.Delete(ctx, id)
}
