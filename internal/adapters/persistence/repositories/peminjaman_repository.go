package repositories

import (
	"context"
	"strings"
	"time"

	"siperu/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// peminjamanSortColumns whitelists the sortable booking columns
var peminjamanSortColumns = map[string]string{
	"peminjaman_id": "peminjamans.peminjaman_id",
	"user_id":       "peminjamans.user_id",
	"ruangan_id":    "peminjamans.ruangan_id",
	"tanggal":       "peminjamans.tanggal",
	"status":        "peminjamans.status",
	"created_at":    "peminjamans.created_at",
}

// peminjamanRepository implements PeminjamanRepository interface
type peminjamanRepository struct {
	db *gorm.DB
}

// NewPeminjamanRepository creates a new booking repository
func NewPeminjamanRepository(db *gorm.DB) PeminjamanRepository {
	return &peminjamanRepository{db: db}
}

// Create creates a new booking
func (r *peminjamanRepository) Create(ctx context.Context, peminjaman *models.Peminjaman) error {
	return r.db.WithContext(ctx).Create(peminjaman).Error
}

// GetByID gets a booking by ID with relations
func (r *peminjamanRepository) GetByID(ctx context.Context, id uint) (*models.Peminjaman, error) {
	var peminjaman models.Peminjaman
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Ruangan").
		Where("peminjaman_id = ?", id).
		First(&peminjaman).Error
	if err != nil {
		return nil, err
	}
	return &peminjaman, nil
}

// Update updates a booking
func (r *peminjamanRepository) Update(ctx context.Context, peminjaman *models.Peminjaman) error {
	return r.db.WithContext(ctx).Save(peminjaman).Error
}

// List lists bookings with search, sort, status filter and pagination.
// Search matches the borrower name, room name or room location.
func (r *peminjamanRepository) List(ctx context.Context, query *PeminjamanListQuery) ([]*models.Peminjaman, int64, error) {
	var peminjamans []*models.Peminjaman
	var total int64

	tx := r.db.WithContext(ctx).Model(&models.Peminjaman{}).
		Joins("JOIN users ON users.user_id = peminjamans.user_id").
		Joins("JOIN ruangans ON ruangans.ruangan_id = peminjamans.ruangan_id")

	if query.Search != "" {
		kw := "%" + strings.ToLower(query.Search) + "%"
		tx = tx.Where("LOWER(users.nama_lengkap) LIKE ? OR LOWER(ruangans.nama_ruangan) LIKE ? OR LOWER(ruangans.lokasi) LIKE ?", kw, kw, kw)
	}

	if query.Status != "" {
		tx = tx.Where("peminjamans.status = ?", query.Status)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := peminjamanSortColumns[query.Sort]
	if !ok {
		column = "peminjamans.tanggal"
	}
	direction := "asc"
	if query.Direction == "desc" {
		direction = "desc"
	}

	err := tx.Preload("User").
		Preload("Ruangan").
		Order(column + " " + direction).
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&peminjamans).Error
	if err != nil {
		return nil, 0, err
	}

	return peminjamans, total, nil
}

// CountByUserID counts bookings belonging to a user
func (r *peminjamanRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Peminjaman{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListExpiredApproved lists approved bookings whose window ended before now
func (r *peminjamanRepository) ListExpiredApproved(ctx context.Context, now time.Time) ([]*models.Peminjaman, error) {
	var peminjamans []*models.Peminjaman
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")

	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusDisetujui).
		Where("tanggal < ? OR (tanggal = ? AND waktu_selesai <= ?)", today, today, clock).
		Find(&peminjamans).Error
	return peminjamans, err
}
