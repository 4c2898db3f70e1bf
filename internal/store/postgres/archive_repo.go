package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"clinicbook/backend/internal/domain"
	"clinicbook/backend/internal/store"
)

type ArchiveRepo struct {
	db *bun.DB
}

func NewArchiveRepo(db *bun.DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

// ListExpiredScheduleIDs returns schedules dated strictly before now's
// calendar date. A schedule still referenced by a booked appointment with a
// future instant is excluded so a live booking never loses its schedule row.
func (r *ArchiveRepo) ListExpiredScheduleIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	now = now.UTC()

	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*domain.Schedule)(nil)).
		Column("schedule_id").
		Where("schedule_date < ?", now.Format("2006-01-02")).
		Where(`NOT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.schedule_id = schedule.schedule_id
			AND a.status = ?
			AND a.appointment_date_time > ?
		)`, domain.AppointmentStatusBooked, now).
		OrderExpr("schedule_date ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ArchiveRepo) ListExpiredAppointmentIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Column("appointment_id").
		Where("appointment_date_time < ?", now.UTC()).
		OrderExpr("appointment_date_time ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ArchiveSchedule copies one schedule row into past_schedules and then
// deletes the active row. Both steps share a transaction: a failed copy
// leaves the active row untouched. Returns ErrNotFound when the row is
// already gone, so a concurrent sweep is not double-counted.
func (r *ArchiveRepo) ArchiveSchedule(ctx context.Context, scheduleID uuid.UUID, archivedAt time.Time) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var s domain.Schedule
		err := tx.NewSelect().
			Model(&s).
			Where("schedule_id = ?", scheduleID).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		hist := domain.FromSchedule(s, archivedAt)
		_, err = tx.NewInsert().
			Model(&hist).
			On("CONFLICT (schedule_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}

		_, err = tx.NewDelete().
			Model((*domain.Schedule)(nil)).
			Where("schedule_id = ?", scheduleID).
			Exec(ctx)
		return err
	})
}

func (r *ArchiveRepo) ArchiveAppointment(ctx context.Context, appointmentID uuid.UUID, archivedAt time.Time) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var a domain.Appointment
		err := tx.NewSelect().
			Model(&a).
			Where("appointment_id = ?", appointmentID).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		hist := domain.FromAppointment(a, archivedAt)
		_, err = tx.NewInsert().
			Model(&hist).
			On("CONFLICT (appointment_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}

		_, err = tx.NewDelete().
			Model((*domain.Appointment)(nil)).
			Where("appointment_id = ?", appointmentID).
			Exec(ctx)
		return err
	})
}
