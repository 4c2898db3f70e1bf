package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PastSchedule is an append-only copy of an expired Schedule row. Never
// mutated after insertion.
type PastSchedule struct {
	bun.BaseModel `bun:"table:past_schedules"`

	ID                uuid.UUID `bun:"schedule_id,pk,type:uuid" json:"schedule_id"`
	StaffID           string    `bun:"staff_id,notnull" json:"staff_id"`
	AppointmentTypeID string    `bun:"appointment_type_id,notnull" json:"appointment_type_id"`
	Date              time.Time `bun:"schedule_date,notnull" json:"schedule_date"`
	StartTime         string    `bun:"start_time,notnull" json:"start_time"`
	EndTime           string    `bun:"end_time,notnull" json:"end_time"`
	AvailableSlots    int       `bun:"available_slots,notnull" json:"available_slots"`
	ArchivedAt        time.Time `bun:"archived_at,notnull" json:"archived_at"`
}

// PastAppointment is an append-only copy of an expired Appointment row.
type PastAppointment struct {
	bun.BaseModel `bun:"table:past_appointments"`

	ID             uuid.UUID         `bun:"appointment_id,pk,type:uuid" json:"appointment_id"`
	PatientID      string            `bun:"patient_id,notnull" json:"patient_id"`
	StaffID        string            `bun:"staff_id,notnull" json:"staff_id"`
	ScheduleID     uuid.UUID         `bun:"schedule_id,notnull,type:uuid" json:"schedule_id"`
	DateTime       time.Time         `bun:"appointment_date_time,notnull" json:"appointment_date_time"`
	Reason         string            `bun:"reason" json:"reason"`
	Status         AppointmentStatus `bun:"status,notnull" json:"status"`
	BookedByUserID string            `bun:"booked_by_user_id,notnull" json:"booked_by_user_id"`
	ArchivedAt     time.Time         `bun:"archived_at,notnull" json:"archived_at"`
}

// FromSchedule copies an active schedule row into its historical shape.
func FromSchedule(s Schedule, archivedAt time.Time) PastSchedule {
	return PastSchedule{
		ID:                s.ID,
		StaffID:           s.StaffID,
		AppointmentTypeID: s.AppointmentTypeID,
		Date:              s.Date,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		AvailableSlots:    s.AvailableSlots,
		ArchivedAt:        archivedAt.UTC(),
	}
}

// FromAppointment copies an active appointment row into its historical shape.
func FromAppointment(a Appointment, archivedAt time.Time) PastAppointment {
	return PastAppointment{
		ID:             a.ID,
		PatientID:      a.PatientID,
		StaffID:        a.StaffID,
		ScheduleID:     a.ScheduleID,
		DateTime:       a.DateTime,
		Reason:         a.Reason,
		Status:         a.Status,
		BookedByUserID: a.BookedByUserID,
		ArchivedAt:     archivedAt.UTC(),
	}
}
