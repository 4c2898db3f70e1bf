package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicbook/backend/internal/domain"
	"clinicbook/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ErrPastSchedule is returned when the schedule's start instant is strictly
// earlier than the current time. Both booking and cancellation are rejected
// on past schedules: the slot can no longer be reused either way.
var ErrPastSchedule = errors.New("schedule is in the past")

// Service enforces the booking invariants: past-schedule guard, capacity
// guard, and status transitions. It is the sole caller of the repository
// methods that move available_slots and appointment status.
type Service struct {
	repo store.BookingRepository
	now  func() time.Time
}

func NewService(repo store.BookingRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type BookInput struct {
	PatientID      string
	StaffID        string
	ScheduleID     uuid.UUID
	DateTime       time.Time
	Reason         string
	BookedByUserID string
}

func (s *Service) Book(ctx context.Context, in BookInput) (domain.Appointment, error) {
	if in.PatientID == "" {
		return domain.Appointment{}, validationError("patient_id is required")
	}
	if in.StaffID == "" {
		return domain.Appointment{}, validationError("staff_id is required")
	}
	if in.ScheduleID == uuid.Nil {
		return domain.Appointment{}, validationError("schedule_id is required")
	}
	if in.DateTime.IsZero() {
		return domain.Appointment{}, validationError("appointment_date_time is required")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return domain.Appointment{}, validationError("reason is required")
	}
	if in.BookedByUserID == "" {
		return domain.Appointment{}, validationError("booked_by_user_id is required")
	}

	sched, err := s.repo.GetSchedule(ctx, in.ScheduleID)
	if err != nil {
		return domain.Appointment{}, err
	}
	past, err := sched.IsPast(s.now())
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("schedule start instant: %w", err)
	}
	if past {
		return domain.Appointment{}, ErrPastSchedule
	}

	return s.repo.CreateAppointment(ctx, domain.Appointment{
		PatientID:      in.PatientID,
		StaffID:        in.StaffID,
		ScheduleID:     in.ScheduleID,
		DateTime:       in.DateTime.UTC(),
		Reason:         reason,
		Status:         domain.AppointmentStatusBooked,
		BookedByUserID: in.BookedByUserID,
	})
}

func (s *Service) Cancel(ctx context.Context, appointmentID, scheduleID uuid.UUID) error {
	if appointmentID == uuid.Nil {
		return validationError("appointment_id is required")
	}
	if scheduleID == uuid.Nil {
		return validationError("schedule_id is required")
	}

	appt, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.ScheduleID != scheduleID {
		return store.ErrNotFound
	}
	if appt.Status == domain.AppointmentStatusCanceled {
		return store.ErrAlreadyCanceled
	}

	sched, err := s.repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	past, err := sched.IsPast(s.now())
	if err != nil {
		return fmt.Errorf("schedule start instant: %w", err)
	}
	if past {
		return ErrPastSchedule
	}

	return s.repo.CancelAppointment(ctx, appointmentID, scheduleID)
}

func (s *Service) ListOpenSchedules(ctx context.Context) ([]domain.Schedule, error) {
	return s.repo.ListOpenSchedules(ctx, s.now())
}

func (s *Service) ListStaffAppointments(ctx context.Context, staffID string) ([]domain.Appointment, error) {
	if staffID == "" {
		return nil, validationError("staff_id is required")
	}
	return s.repo.ListStaffAppointments(ctx, staffID)
}

func (s *Service) ListUserBookings(ctx context.Context, userID string) ([]domain.Appointment, error) {
	if userID == "" {
		return nil, validationError("user_id is required")
	}
	return s.repo.ListUserBookings(ctx, userID)
}
