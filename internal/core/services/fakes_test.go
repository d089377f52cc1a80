package services_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.UserID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.UserID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByIDCard(_ context.Context, idCard string) (*models.User, error) {
	for _, user := range r.users {
		if user.IDCard == idCard {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.UserID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, query *repositories.UserListQuery) ([]*models.User, int64, error) {
	matched := make([]*models.User, 0, len(r.users))
	needle := strings.ToLower(query.Search)
	for _, user := range r.users {
		if needle != "" &&
			!strings.Contains(strings.ToLower(user.NamaLengkap), needle) &&
			!strings.Contains(strings.ToLower(user.Username), needle) &&
			!strings.Contains(strings.ToLower(user.IDCard), needle) {
			continue
		}
		copied := *user
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].UserID < matched[j].UserID
		if query.Sort == "nama_lengkap" {
			less = matched[i].NamaLengkap < matched[j].NamaLengkap
		}
		if query.Direction == "desc" {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	if query.Offset >= len(matched) {
		return []*models.User{}, total, nil
	}
	end := query.Offset + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[query.Offset:end], total, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string, excludeID uint) (bool, error) {
	for _, user := range r.users {
		if user.Username == username && user.UserID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByIDCard(_ context.Context, idCard string, excludeID uint) (bool, error) {
	for _, user := range r.users {
		if user.IDCard == idCard && user.UserID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// fakeRuanganRepo is an in-memory RuanganRepository for service tests
type fakeRuanganRepo struct {
	ruangans map[uint]*models.Ruangan
}

func newFakeRuanganRepo(ruangans ...*models.Ruangan) *fakeRuanganRepo {
	repo := &fakeRuanganRepo{ruangans: map[uint]*models.Ruangan{}}
	for _, ruangan := range ruangans {
		repo.ruangans[ruangan.RuanganID] = ruangan
	}
	return repo
}

func (r *fakeRuanganRepo) List(_ context.Context) ([]*models.Ruangan, error) {
	out := make([]*models.Ruangan, 0, len(r.ruangans))
	for _, ruangan := range r.ruangans {
		out = append(out, ruangan)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NamaRuangan < out[j].NamaRuangan })
	return out, nil
}

func (r *fakeRuanganRepo) GetByID(_ context.Context, id uint) (*models.Ruangan, error) {
	ruangan, ok := r.ruangans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ruangan, nil
}

// fakePeminjamanRepo is an in-memory PeminjamanRepository for service tests
type fakePeminjamanRepo struct {
	peminjamans map[uint]*models.Peminjaman
	nextID      uint
}

func newFakePeminjamanRepo() *fakePeminjamanRepo {
	return &fakePeminjamanRepo{peminjamans: map[uint]*models.Peminjaman{}, nextID: 1}
}

func (r *fakePeminjamanRepo) Create(_ context.Context, peminjaman *models.Peminjaman) error {
	peminjaman.PeminjamanID = r.nextID
	r.nextID++
	copied := *peminjaman
	r.peminjamans[peminjaman.PeminjamanID] = &copied
	return nil
}

func (r *fakePeminjamanRepo) GetByID(_ context.Context, id uint) (*models.Peminjaman, error) {
	peminjaman, ok := r.peminjamans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *peminjaman
	return &copied, nil
}

func (r *fakePeminjamanRepo) Update(_ context.Context, peminjaman *models.Peminjaman) error {
	if _, ok := r.peminjamans[peminjaman.PeminjamanID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *peminjaman
	r.peminjamans[peminjaman.PeminjamanID] = &copied
	return nil
}

func (r *fakePeminjamanRepo) List(_ context.Context, query *repositories.PeminjamanListQuery) ([]*models.Peminjaman, int64, error) {
	matched := make([]*models.Peminjaman, 0, len(r.peminjamans))
	for _, peminjaman := range r.peminjamans {
		if query.Status != "" && peminjaman.Status != query.Status {
			continue
		}
		copied := *peminjaman
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PeminjamanID < matched[j].PeminjamanID
	})

	total := int64(len(matched))
	if query.Offset >= len(matched) {
		return []*models.Peminjaman{}, total, nil
	}
	end := query.Offset + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[query.Offset:end], total, nil
}

func (r *fakePeminjamanRepo) CountByUserID(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, peminjaman := range r.peminjamans {
		if peminjaman.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakePeminjamanRepo) ListExpiredApproved(_ context.Context, now time.Time) ([]*models.Peminjaman, error) {
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")

	expired := make([]*models.Peminjaman, 0)
	for _, peminjaman := range r.peminjamans {
		if peminjaman.Status != models.StatusDisetujui {
			continue
		}
		day := peminjaman.Tanggal.Format("2006-01-02")
		if day < today || (day == today && peminjaman.WaktuSelesai <= clock) {
			copied := *peminjaman
			expired = append(expired, &copied)
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].PeminjamanID < expired[j].PeminjamanID
	})
	return expired, nil
}
