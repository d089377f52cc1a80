package repositories

import (
	"context"
	"strings"

	"siperu/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userSortColumns whitelists the sortable user columns
var userSortColumns = map[string]string{
	"user_id":        "user_id",
	"nama_lengkap":   "nama_lengkap",
	"username":       "username",
	"id_card":        "id_card",
	"role":           "role",
	"jenis_pengguna": "jenis_pengguna",
	"created_at":     "created_at",
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDCard gets a user by ID card number
func (r *userRepository) GetByIDCard(ctx context.Context, idCard string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id_card = ?", idCard).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes a user permanently
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// List lists users with search, sort and pagination.
// Search matches nama_lengkap, username or id_card as a case-insensitive
// substring; an empty term returns the unfiltered default-sorted page.
func (r *userRepository) List(ctx context.Context, query *UserListQuery) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	tx := r.db.WithContext(ctx).Model(&models.User{})

	if query.Search != "" {
		kw := "%" + strings.ToLower(query.Search) + "%"
		tx = tx.Where("LOWER(nama_lengkap) LIKE ? OR LOWER(username) LIKE ? OR LOWER(id_card) LIKE ?", kw, kw, kw)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := userSortColumns[query.Sort]
	if !ok {
		column = "user_id"
	}
	direction := "asc"
	if query.Direction == "desc" {
		direction = "desc"
	}

	err := tx.Order(column + " " + direction).
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByUsername checks if username is taken, excluding the given record
func (r *userRepository) ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if excludeID > 0 {
		tx = tx.Where("user_id <> ?", excludeID)
	}
	err := tx.Count(&count).Error
	return count > 0, err
}

// ExistsByIDCard checks if ID card is registered, excluding the given record
func (r *userRepository) ExistsByIDCard(ctx context.Context, idCard string, excludeID uint) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&models.User{}).Where("id_card = ?", idCard)
	if excludeID > 0 {
		tx = tx.Where("user_id <> ?", excludeID)
	}
	err := tx.Count(&count).Error
	return count > 0, err
}
