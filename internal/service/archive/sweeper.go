package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clinicbook/backend/internal/store"
)

// Sweeper migrates expired schedules and appointments into the historical
// tables. Runs out of the request path, typically on a timer.
type Sweeper struct {
	repo store.ArchiveRepository
	log  *slog.Logger
	now  func() time.Time
}

func NewSweeper(repo store.ArchiveRepository, log *slog.Logger) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		repo: repo,
		log:  log.With(slog.String("component", "archive.sweeper")),
		now:  time.Now,
	}
}

// Result reports one sweep. Failed counts cover rows that could not be moved
// and were left in the active tables; the batch keeps going past them.
type Result struct {
	SchedulesMoved     int `json:"schedules_moved"`
	AppointmentsMoved  int `json:"appointments_moved"`
	SchedulesFailed    int `json:"schedules_failed"`
	AppointmentsFailed int `json:"appointments_failed"`
}

// Run performs one full sweep of both tables. Idempotent: a second run with
// no newly expired rows moves nothing.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	now := s.now().UTC()
	var res Result

	scheduleIDs, err := s.repo.ListExpiredScheduleIDs(ctx, now)
	if err != nil {
		return res, fmt.Errorf("list expired schedules: %w", err)
	}
	for _, id := range scheduleIDs {
		err := s.repo.ArchiveSchedule(ctx, id, now)
		switch {
		case err == nil:
			res.SchedulesMoved++
		case errors.Is(err, store.ErrNotFound):
			// Row vanished since listing; someone else archived it.
		default:
			res.SchedulesFailed++
			s.log.Error("schedule archive failed",
				slog.String("schedule_id", id.String()),
				slog.Any("err", err),
			)
		}
	}

	appointmentIDs, err := s.repo.ListExpiredAppointmentIDs(ctx, now)
	if err != nil {
		return res, fmt.Errorf("list expired appointments: %w", err)
	}
	for _, id := range appointmentIDs {
		err := s.repo.ArchiveAppointment(ctx, id, now)
		switch {
		case err == nil:
			res.AppointmentsMoved++
		case errors.Is(err, store.ErrNotFound):
		default:
			res.AppointmentsFailed++
			s.log.Error("appointment archive failed",
				slog.String("appointment_id", id.String()),
				slog.Any("err", err),
			)
		}
	}

	s.log.Info("sweep finished",
		slog.Int("schedules_moved", res.SchedulesMoved),
		slog.Int("appointments_moved", res.AppointmentsMoved),
		slog.Int("schedules_failed", res.SchedulesFailed),
		slog.Int("appointments_failed", res.AppointmentsFailed),
	)
	return res, nil
}

// RunEvery runs sweeps on a fixed interval until ctx is canceled.
func (s *Sweeper) RunEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.log.Error("sweep failed", slog.Any("err", err))
			}
		}
	}
}
