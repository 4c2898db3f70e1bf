package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clinicbook/backend/internal/domain"
)

// BookingRepository is the datastore gateway for the booking flow. It is the
// only component allowed to move the available_slots counter and the
// appointment status, and it must keep the two consistent: the counter
// adjustment and the paired appointment write always share one transaction.
type BookingRepository interface {
	// CreateAppointment inserts a booked appointment and decrements the
	// schedule's available_slots by one, atomically. Returns ErrNotFound if
	// the schedule row does not exist and ErrScheduleFull if its counter is
	// already zero.
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)

	// CancelAppointment flips a booked appointment to canceled and increments
	// the schedule's available_slots by one, atomically. Returns
	// ErrAlreadyCanceled on a repeated cancel and ErrNotFound when either row
	// is missing, including a schedule archived between guard check and
	// update.
	CancelAppointment(ctx context.Context, appointmentID, scheduleID uuid.UUID) error

	GetSchedule(ctx context.Context, scheduleID uuid.UUID) (domain.Schedule, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)

	// ListOpenSchedules returns schedules with available_slots > 0 whose
	// start instant is not earlier than now, ordered by date then start time.
	ListOpenSchedules(ctx context.Context, now time.Time) ([]domain.Schedule, error)

	// ListStaffAppointments returns a staff member's appointments with the
	// patient display name joined in.
	ListStaffAppointments(ctx context.Context, staffID string) ([]domain.Appointment, error)

	// ListUserBookings returns the appointments a user booked with their
	// schedules joined in.
	ListUserBookings(ctx context.Context, userID string) ([]domain.Appointment, error)
}

// ArchiveRepository moves expired rows from the active tables into the
// append-only historical tables.
type ArchiveRepository interface {
	// ListExpiredScheduleIDs returns schedules dated strictly before now's
	// calendar date, excluding any still referenced by a booked appointment
	// with a future instant.
	ListExpiredScheduleIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)

	// ListExpiredAppointmentIDs returns appointments whose instant is
	// strictly before now, regardless of status.
	ListExpiredAppointmentIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)

	// ArchiveSchedule copies one schedule row into past_schedules and deletes
	// the active row, in one transaction. If the copy fails the active row is
	// left untouched.
	ArchiveSchedule(ctx context.Context, scheduleID uuid.UUID, archivedAt time.Time) error

	// ArchiveAppointment does the same for one appointment row.
	ArchiveAppointment(ctx context.Context, appointmentID uuid.UUID, archivedAt time.Time) error
}
