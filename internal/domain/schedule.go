package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Schedule is a bookable time slot offered by one staff member. Rows are
// created administratively; the booking flow only ever reads them and moves
// the available_slots counter.
type Schedule struct {
	bun.BaseModel `bun:"table:schedules"`

	ID                uuid.UUID `bun:"schedule_id,pk,type:uuid" json:"schedule_id"`
	StaffID           string    `bun:"staff_id,notnull" json:"staff_id"`
	AppointmentTypeID string    `bun:"appointment_type_id,notnull" json:"appointment_type_id"`
	Date              time.Time `bun:"schedule_date,notnull" json:"schedule_date"`
	StartTime         string    `bun:"start_time,notnull" json:"start_time"`
	EndTime           string    `bun:"end_time,notnull" json:"end_time"`
	AvailableSlots    int       `bun:"available_slots,notnull" json:"available_slots"`
	CreatedAt         time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

func (s *Schedule) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}

// StartInstant combines the calendar date with the wall-clock start time into
// a single UTC instant. Start times are stored as "15:04" or "15:04:05".
func (s *Schedule) StartInstant() (time.Time, error) {
	return CombineDateTime(s.Date, s.StartTime)
}

// IsPast reports whether the schedule's start instant is strictly earlier
// than now. An instant exactly equal to now is still bookable.
func (s *Schedule) IsPast(now time.Time) (bool, error) {
	instant, err := s.StartInstant()
	if err != nil {
		return false, err
	}
	return instant.Before(now.UTC()), nil
}

// CombineDateTime builds a UTC instant from a calendar date and a wall-clock
// time string.
func CombineDateTime(date time.Time, clock string) (time.Time, error) {
	var parsed time.Time
	var err error
	switch len(clock) {
	case len("15:04"):
		parsed, err = time.Parse("15:04", clock)
	case len("15:04:05"):
		parsed, err = time.Parse("15:04:05", clock)
	default:
		err = fmt.Errorf("unrecognized clock time %q", clock)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock time: %w", err)
	}

	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, time.UTC), nil
}
