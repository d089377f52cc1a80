package repositories

import (
	"context"
	"time"

	"siperu/internal/adapters/persistence/models"
)

// UserListQuery carries the listing parameters for the user directory.
// Defaults are applied by the repository: sort user_id, direction asc.
type UserListQuery struct {
	Search    string
	Sort      string
	Direction string
	Offset    int
	Limit     int
}

// PeminjamanListQuery carries the listing parameters for bookings
type PeminjamanListQuery struct {
	Search    string
	Sort      string
	Direction string
	Status    string
	Offset    int
	Limit     int
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDCard(ctx context.Context, idCard string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *UserListQuery) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error)
	ExistsByIDCard(ctx context.Context, idCard string, excludeID uint) (bool, error)
}

// RuanganRepository defines room repository interface
type RuanganRepository interface {
	List(ctx context.Context) ([]*models.Ruangan, error)
	GetByID(ctx context.Context, id uint) (*models.Ruangan, error)
}

// PeminjamanRepository defines booking repository interface
type PeminjamanRepository interface {
	Create(ctx context.Context, peminjaman *models.Peminjaman) error
	GetByID(ctx context.Context, id uint) (*models.Peminjaman, error)
	Update(ctx context.Context, peminjaman *models.Peminjaman) error
	List(ctx context.Context, query *PeminjamanListQuery) ([]*models.Peminjaman, int64, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	ListExpiredApproved(ctx context.Context, now time.Time) ([]*models.Peminjaman, error)
}
