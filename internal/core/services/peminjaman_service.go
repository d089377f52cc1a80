package services

import (
	"context"
	"errors"
	"log"
	"time"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/adapters/persistence/repositories"
	"siperu/internal/core/domain"
	"siperu/internal/pkg/pagination"
	"siperu/internal/pkg/validation"

	"gorm.io/gorm"
)

// PeminjamanService handles booking listing and the status workflow
type PeminjamanService struct {
	peminjamanRepo repositories.PeminjamanRepository
	ruanganRepo    repositories.RuanganRepository
	userRepo       repositories.UserRepository
}

// NewPeminjamanService creates a new booking service
func NewPeminjamanService(
	peminjamanRepo repositories.PeminjamanRepository,
	ruanganRepo repositories.RuanganRepository,
	userRepo repositories.UserRepository,
) *PeminjamanService {
	return &PeminjamanService{
		peminjamanRepo: peminjamanRepo,
		ruanganRepo:    ruanganRepo,
		userRepo:       userRepo,
	}
}

// ListPeminjamanInput represents booking list input
type ListPeminjamanInput struct {
	Search    string
	Sort      string
	Direction string
	Status    string
	Page      int
	Limit     int
}

// ListPeminjamanOutput represents booking list output
type ListPeminjamanOutput struct {
	Peminjamans []*models.Peminjaman
	Total       int64
	Page        int
	Limit       int
}

// ListPeminjaman lists bookings with search, sort, status filter and
// pagination. An unknown status filter is treated as no filter.
func (s *PeminjamanService) ListPeminjaman(ctx context.Context, input *ListPeminjamanInput) (*ListPeminjamanOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = pagination.DefaultLimit
	}
	if input.Limit > pagination.MaxLimit {
		input.Limit = pagination.MaxLimit
	}

	status := input.Status
	if status != "" && !models.IsValidStatus(status) {
		status = ""
	}

	sort := input.Sort
	direction := input.Direction
	if sort == "" {
		sort = "tanggal"
		if direction == "" {
			direction = "desc"
		}
	}

	query := &repositories.PeminjamanListQuery{
		Search:    input.Search,
		Sort:      sort,
		Direction: direction,
		Status:    status,
		Offset:    (input.Page - 1) * input.Limit,
		Limit:     input.Limit,
	}

	peminjamans, total, err := s.peminjamanRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	return &ListPeminjamanOutput{
		Peminjamans: peminjamans,
		Total:       total,
		Page:        input.Page,
		Limit:       input.Limit,
	}, nil
}

// GetByID gets a booking by ID
func (s *PeminjamanService) GetByID(ctx context.Context, id uint) (*models.Peminjaman, error) {
	peminjaman, err := s.peminjamanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPeminjamanNotFound
		}
		return nil, err
	}
	return peminjaman, nil
}

// Transition moves a booking to disetujui or ditolak. The guard is
// enforced here, not only in the view: only a booking still in menunggu
// may be approved or rejected.
func (s *PeminjamanService) Transition(ctx context.Context, id uint, newStatus string) (*models.Peminjaman, error) {
	if newStatus != models.StatusDisetujui && newStatus != models.StatusDitolak {
		return nil, domain.ErrInvalidStatus
	}

	peminjaman, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !peminjaman.CanTransition(newStatus) {
		return nil, domain.ErrInvalidTransition
	}

	peminjaman.Status = newStatus
	if err := s.peminjamanRepo.Update(ctx, peminjaman); err != nil {
		return nil, err
	}

	return peminjaman, nil
}

// CreatePeminjamanInput represents create booking form input
type CreatePeminjamanInput struct {
	UserID       uint   `form:"user_id" validate:"required"`
	RuanganID    uint   `form:"ruangan_id" validate:"required"`
	Tanggal      string `form:"tanggal" validate:"required"`
	WaktuMulai   string `form:"waktu_mulai" validate:"required"`
	WaktuSelesai string `form:"waktu_selesai" validate:"required"`
}

// Create registers a new booking request in menunggu with its duration
// derived from the time window.
func (s *PeminjamanService) Create(ctx context.Context, input *CreatePeminjamanInput) (*models.Peminjaman, error) {
	errs := validation.Check(input)
	if errs == nil {
		errs = validation.Errors{}
	}

	tanggal, err := time.Parse("2006-01-02", input.Tanggal)
	if err != nil && !errs.Has("tanggal") {
		errs.Add("tanggal", "Tanggal tidak valid.")
	}

	mulai, errMulai := time.Parse("15:04", input.WaktuMulai)
	if errMulai != nil && !errs.Has("waktu_mulai") {
		errs.Add("waktu_mulai", "Waktu mulai tidak valid.")
	}
	selesai, errSelesai := time.Parse("15:04", input.WaktuSelesai)
	if errSelesai != nil && !errs.Has("waktu_selesai") {
		errs.Add("waktu_selesai", "Waktu selesai tidak valid.")
	}
	if errMulai == nil && errSelesai == nil && !selesai.After(mulai) {
		errs.Add("waktu_selesai", "Waktu selesai harus setelah waktu mulai.")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.ruanganRepo.GetByID(ctx, input.RuanganID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRuanganNotFound
		}
		return nil, err
	}

	durasi := selesai.Sub(mulai).Hours()

	peminjaman := &models.Peminjaman{
		UserID:       input.UserID,
		RuanganID:    input.RuanganID,
		Tanggal:      tanggal,
		WaktuMulai:   input.WaktuMulai,
		WaktuSelesai: input.WaktuSelesai,
		DurasiPinjam: durasi,
		Status:       models.StatusMenunggu,
	}

	if err := s.peminjamanRepo.Create(ctx, peminjaman); err != nil {
		return nil, err
	}

	return peminjaman, nil
}

// CompleteExpired flips approved bookings whose window has passed to
// selesai. Returns how many bookings were completed.
func (s *PeminjamanService) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.peminjamanRepo.ListExpiredApproved(ctx, now)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, peminjaman := range expired {
		peminjaman.Status = models.StatusSelesai
		if err := s.peminjamanRepo.Update(ctx, peminjaman); err != nil {
			log.Printf("⚠️ Failed to complete peminjaman %d: %v", peminjaman.PeminjamanID, err)
			continue
		}
		completed++
	}

	return completed, nil
}

// ListRuangans lists rooms for the booking form
func (s *PeminjamanService) ListRuangans(ctx context.Context) ([]*models.Ruangan, error) {
	return s.ruanganRepo.List(ctx)
}
