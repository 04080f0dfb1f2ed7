package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/attendance"
)

// RetentionJobs prunes old arrival records so the kiosk database does not
// grow without bound. The payload builder only ever reads today's rows.
type RetentionJobs struct {
	arrivalRepo   attendance.ArrivalRepository
	schoolCode    string
	retentionDays int
}

func NewRetentionJobs(arrivalRepo attendance.ArrivalRepository, schoolCode string, retentionDays int) *RetentionJobs {
	return &RetentionJobs{
		arrivalRepo:   arrivalRepo,
		schoolCode:    schoolCode,
		retentionDays: retentionDays,
	}
}

func (j *RetentionJobs) RegisterJobs(scheduler *Scheduler) {
	if j.retentionDays <= 0 {
		slog.Info("Cron: arrival retention disabled")
		return
	}
	scheduler.AddJob("prune_old_arrivals", 12*time.Hour, j.PruneOldArrivals)
}

func (j *RetentionJobs) PruneOldArrivals(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays).Format("2006-01-02")

	deleted, err := j.arrivalRepo.DeleteOlderThan(ctx, cutoff, j.schoolCode)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Cron: pruned old arrivals", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}
