package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents users table
type User struct {
	UserID        uint      `gorm:"primaryKey;column:user_id" json:"user_id"`
	NamaLengkap   string    `gorm:"size:255;not null" json:"nama_lengkap"`
	Username      string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	IDCard        string    `gorm:"uniqueIndex;column:id_card;size:255;not null" json:"id_card"`
	Role          string    `gorm:"size:20;not null;default:'user'" json:"role"`
	JenisPengguna string    `gorm:"size:20;not null" json:"jenis_pengguna"`
	Password      string    `gorm:"size:255;not null" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Jenis pengguna (user kinds)
const (
	JenisSiswa = "siswa"
	JenisGuru  = "guru"
)

// JenisLabel returns the display label for the user kind
func (u *User) JenisLabel() string {
	if u.JenisPengguna == JenisGuru {
		return "Guru"
	}
	return "Siswa"
}

// Ruangan represents ruangans table (rooms available for booking)
type Ruangan struct {
	RuanganID   uint      `gorm:"primaryKey;column:ruangan_id" json:"ruangan_id"`
	NamaRuangan string    `gorm:"size:100;not null" json:"nama_ruangan"`
	Lokasi      string    `gorm:"size:200" json:"lokasi"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Ruangan) TableName() string {
	return "ruangans"
}

// Peminjaman statuses
const (
	StatusMenunggu   = "menunggu"
	StatusDisetujui  = "disetujui"
	StatusDitolak    = "ditolak"
	StatusSelesai    = "selesai"
	StatusDibatalkan = "dibatalkan"
)

// Peminjaman represents peminjamans table (room booking requests)
type Peminjaman struct {
	PeminjamanID uint      `gorm:"primaryKey;column:peminjaman_id" json:"peminjaman_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	RuanganID    uint      `gorm:"not null;index" json:"ruangan_id"`
	Tanggal      time.Time `gorm:"type:date;not null" json:"tanggal"`
	WaktuMulai   string    `gorm:"size:10;not null" json:"waktu_mulai"`
	WaktuSelesai string    `gorm:"size:10;not null" json:"waktu_selesai"`
	DurasiPinjam float64   `gorm:"type:decimal(4,1);not null" json:"durasi_pinjam"`
	Status       string    `gorm:"size:20;not null;default:'menunggu';index" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Ruangan *Ruangan `gorm:"foreignKey:RuanganID" json:"ruangan,omitempty"`
}

func (Peminjaman) TableName() string {
	return "peminjamans"
}

// StatusLabel returns the display label for a booking status
func StatusLabel(status string) string {
	switch status {
	case StatusMenunggu:
		return "Menunggu"
	case StatusDisetujui:
		return "Disetujui"
	case StatusDitolak:
		return "Ditolak"
	case StatusSelesai:
		return "Selesai"
	case StatusDibatalkan:
		return "Dibatalkan"
	}
	return status
}

// StatusBadgeClass returns the badge CSS classes for a booking status
func StatusBadgeClass(status string) string {
	switch status {
	case StatusMenunggu:
		return "bg-yellow-100 text-yellow-800"
	case StatusDisetujui:
		return "bg-green-100 text-green-800"
	case StatusDitolak:
		return "bg-red-100 text-red-800"
	case StatusSelesai:
		return "bg-blue-100 text-blue-800"
	case StatusDibatalkan:
		return "bg-gray-200 text-gray-600"
	}
	return "bg-gray-200 text-gray-600"
}

// Statuses returns the booking statuses in filter order
func Statuses() []string {
	return []string{StatusMenunggu, StatusDisetujui, StatusDitolak, StatusSelesai, StatusDibatalkan}
}

// IsValidStatus reports whether status is one of the five booking statuses
func IsValidStatus(status string) bool {
	switch status {
	case StatusMenunggu, StatusDisetujui, StatusDitolak, StatusSelesai, StatusDibatalkan:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move to the requested status.
// Approve/reject are only allowed while the booking is still waiting.
func (p *Peminjaman) CanTransition(to string) bool {
	if to != StatusDisetujui && to != StatusDitolak {
		return false
	}
	return p.Status == StatusMenunggu
}

// EndsAt combines tanggal and waktu_selesai into a point in time
func (p *Peminjaman) EndsAt() time.Time {
	t, err := time.Parse("15:04", p.WaktuSelesai)
	if err != nil {
		return p.Tanggal
	}
	return time.Date(p.Tanggal.Year(), p.Tanggal.Month(), p.Tanggal.Day(),
		t.Hour(), t.Minute(), 0, 0, p.Tanggal.Location())
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Ruangan{},
		&Peminjaman{},
	)
}
