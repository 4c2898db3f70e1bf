package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"clinicbook/backend/internal/domain"
	"clinicbook/backend/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// CreateAppointment pairs the conditional slot decrement with the appointment
// insert in one transaction. The decrement's available_slots > 0 predicate is
// the capacity guard: it can never drive the counter negative, and two
// concurrent bookings against a single remaining slot serialize on the row
// lock so exactly one of them sees an affected row.
func (r *BookingRepo) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	out := appt
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*domain.Schedule)(nil)).
			Set("available_slots = available_slots - 1").
			Set("updated_at = ?", time.Now().UTC()).
			Where("schedule_id = ?", appt.ScheduleID).
			Where("available_slots > 0").
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			exists, err := tx.NewSelect().
				Model((*domain.Schedule)(nil)).
				Where("schedule_id = ?", appt.ScheduleID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return store.ErrNotFound
			}
			return store.ErrScheduleFull
		}

		m := domain.Appointment{
			ID:             appt.ID,
			PatientID:      appt.PatientID,
			StaffID:        appt.StaffID,
			ScheduleID:     appt.ScheduleID,
			DateTime:       appt.DateTime,
			Reason:         appt.Reason,
			Status:         domain.AppointmentStatusBooked,
			BookedByUserID: appt.BookedByUserID,
		}
		if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return store.ErrConflict
			}
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

// CancelAppointment flips the status and returns the slot in one transaction.
// The status = 'booked' predicate makes a repeated cancel visible as zero
// affected rows, and a zero-row increment means the schedule vanished between
// the caller's guard check and this update, so the whole cancel rolls back.
func (r *BookingRepo) CancelAppointment(ctx context.Context, appointmentID, scheduleID uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*domain.Appointment)(nil)).
			Set("status = ?", domain.AppointmentStatusCanceled).
			Set("updated_at = ?", time.Now().UTC()).
			Where("appointment_id = ?", appointmentID).
			Where("schedule_id = ?", scheduleID).
			Where("status = ?", domain.AppointmentStatusBooked).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var existing domain.Appointment
			err := tx.NewSelect().
				Model(&existing).
				Where("appointment_id = ?", appointmentID).
				Where("schedule_id = ?", scheduleID).
				Limit(1).
				Scan(ctx)
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrNotFound
			}
			if err != nil {
				return err
			}
			if existing.Status == domain.AppointmentStatusCanceled {
				return store.ErrAlreadyCanceled
			}
			return store.ErrNotFound
		}

		res, err = tx.NewUpdate().
			Model((*domain.Schedule)(nil)).
			Set("available_slots = available_slots + 1").
			Set("updated_at = ?", time.Now().UTC()).
			Where("schedule_id = ?", scheduleID).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (r *BookingRepo) GetSchedule(ctx context.Context, scheduleID uuid.UUID) (domain.Schedule, error) {
	var s domain.Schedule
	err := r.db.NewSelect().
		Model(&s).
		Where("schedule_id = ?", scheduleID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Schedule{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Schedule{}, err
	}
	return s, nil
}

func (r *BookingRepo) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.NewSelect().
		Model(&a).
		Where("appointment_id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	return a, nil
}

// ListOpenSchedules filters coarsely in SQL (capacity, calendar date) and
// precisely in memory, so the past-instant rule lives in one place
// (domain.Schedule.IsPast).
func (r *BookingRepo) ListOpenSchedules(ctx context.Context, now time.Time) ([]domain.Schedule, error) {
	now = now.UTC()

	var rows []domain.Schedule
	err := r.db.NewSelect().
		Model(&rows).
		Where("available_slots > 0").
		Where("schedule_date >= ?", now.Format("2006-01-02")).
		OrderExpr("schedule_date ASC, start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Schedule, 0, len(rows))
	for _, s := range rows {
		past, err := s.IsPast(now)
		if err != nil {
			return nil, err
		}
		if !past {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *BookingRepo) ListStaffAppointments(ctx context.Context, staffID string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Patient").
		Where("appointment.staff_id = ?", staffID).
		OrderExpr("appointment_date_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListUserBookings(ctx context.Context, userID string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Schedule").
		Where("booked_by_user_id = ?", userID).
		OrderExpr("appointment_date_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
