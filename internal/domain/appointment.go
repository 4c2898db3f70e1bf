package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AppointmentStatus is the lifecycle state of an appointment. A booked
// appointment holds exactly one unit of capacity on its schedule; a canceled
// one holds none.
type AppointmentStatus string

const (
	AppointmentStatusBooked   AppointmentStatus = "booked"
	AppointmentStatusCanceled AppointmentStatus = "canceled"
)

// Appointment is one patient's claim on a Schedule.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID             uuid.UUID         `bun:"appointment_id,pk,type:uuid" json:"appointment_id"`
	PatientID      string            `bun:"patient_id,notnull" json:"patient_id"`
	StaffID        string            `bun:"staff_id,notnull" json:"staff_id"`
	ScheduleID     uuid.UUID         `bun:"schedule_id,notnull,type:uuid" json:"schedule_id"`
	DateTime       time.Time         `bun:"appointment_date_time,notnull" json:"appointment_date_time"`
	Reason         string            `bun:"reason" json:"reason"`
	Status         AppointmentStatus `bun:"status,notnull" json:"status"`
	BookedByUserID string            `bun:"booked_by_user_id,notnull" json:"booked_by_user_id"`
	CreatedAt      time.Time         `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt      time.Time         `bun:"updated_at,notnull" json:"updated_at"`

	Patient  *Patient  `bun:"rel:belongs-to,join:patient_id=patient_id" json:"patient,omitempty"`
	Schedule *Schedule `bun:"rel:belongs-to,join:schedule_id=schedule_id" json:"schedule,omitempty"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// Patient carries the display name joined into staff-facing appointment
// listings. Patient records are administered outside the booking flow.
type Patient struct {
	bun.BaseModel `bun:"table:patients"`

	ID   string `bun:"patient_id,pk" json:"patient_id"`
	Name string `bun:"name,notnull" json:"name"`
}
