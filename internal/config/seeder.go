package config

import (
	"log"

	"siperu/internal/adapters/persistence/models"
	"siperu/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedRuangans(); err != nil {
		log.Printf("⚠️ Ruangan seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin account when no admin exists yet.
// The password comes from ADMIN_PASSWORD; change it after first login.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Storage.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		NamaLengkap:   "Administrator",
		Username:      "admin",
		IDCard:        "ADMIN001",
		Role:          models.RoleAdmin,
		JenisPengguna: models.JenisGuru,
		Password:      hashedPassword,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// seedRuangans seeds the initial room list when the table is empty
func (s *Seeder) seedRuangans() error {
	var count int64
	s.db.Model(&models.Ruangan{}).Count(&count)
	if count > 0 {
		return nil
	}

	ruangans := []models.Ruangan{
		{NamaRuangan: "Lab Komputer 1", Lokasi: "Gedung A Lantai 2"},
		{NamaRuangan: "Lab Komputer 2", Lokasi: "Gedung A Lantai 2"},
		{NamaRuangan: "Aula", Lokasi: "Gedung B Lantai 1"},
		{NamaRuangan: "Perpustakaan", Lokasi: "Gedung C Lantai 1"},
		{NamaRuangan: "Ruang Rapat", Lokasi: "Gedung A Lantai 3"},
	}

	if err := s.db.Create(&ruangans).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d ruangans", len(ruangans))
	return nil
}
