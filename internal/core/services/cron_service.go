package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled booking maintenance jobs
type CronService struct {
	peminjamanService *PeminjamanService
	cron              *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(peminjamanService *PeminjamanService) *CronService {
	return &CronService{
		peminjamanService: peminjamanService,
		cron:              cron.New(),
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() {
	// Approved bookings whose window passed become selesai
	_, err := s.cron.AddFunc("@every 10m", s.completeExpired)
	if err != nil {
		log.Printf("❌ Failed to schedule booking completion job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) completeExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	completed, err := s.peminjamanService.CompleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("⚠️ Booking completion job failed: %v", err)
		return
	}
	if completed > 0 {
		log.Printf("✅ Completed %d expired bookings", completed)
	}
}
