package repositories

import (
	"context"

	"siperu/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ruanganRepository implements RuanganRepository interface
type ruanganRepository struct {
	db *gorm.DB
}

// NewRuanganRepository creates a new room repository
func NewRuanganRepository(db *gorm.DB) RuanganRepository {
	return &ruanganRepository{db: db}
}

// List lists all rooms ordered by name
func (r *ruanganRepository) List(ctx context.Context) ([]*models.Ruangan, error) {
	var ruangans []*models.Ruangan
	err := r.db.WithContext(ctx).Order("nama_ruangan asc").Find(&ruangans).Error
	return ruangans, err
}

// GetByID gets a room by ID
func (r *ruanganRepository) GetByID(ctx context.Context, id uint) (*models.Ruangan, error) {
	var ruangan models.Ruangan
	err := r.db.WithContext(ctx).Where("ruangan_id = ?", id).First(&ruangan).Error
	if err != nil {
		return nil, err
	}
	return &ruangan, nil
}
