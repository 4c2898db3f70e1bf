package postgres

import (
	"context"

	"github.com/uptrace/bun"
)

// Schema for the booking tables. Statements are idempotent so Migrate can run
// on every startup.
//
// appointments.schedule_id is deliberately not a foreign key: schedules and
// appointments are archived by independent sweeps, so an expired appointment
// may briefly outlive its schedule row in the active tables.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		patient_id text PRIMARY KEY,
		name text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		schedule_id uuid PRIMARY KEY,
		staff_id text NOT NULL,
		appointment_type_id text NOT NULL,
		schedule_date date NOT NULL,
		start_time text NOT NULL,
		end_time text NOT NULL,
		available_slots integer NOT NULL CHECK (available_slots >= 0),
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS schedules_date_start_idx
		ON schedules (schedule_date, start_time)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		appointment_id uuid PRIMARY KEY,
		patient_id text NOT NULL,
		staff_id text NOT NULL,
		schedule_id uuid NOT NULL,
		appointment_date_time timestamptz NOT NULL,
		reason text NOT NULL DEFAULT '',
		status text NOT NULL CHECK (status IN ('booked', 'canceled')),
		booked_by_user_id text NOT NULL,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS appointments_schedule_idx
		ON appointments (schedule_id)`,
	`CREATE INDEX IF NOT EXISTS appointments_staff_idx
		ON appointments (staff_id)`,
	`CREATE INDEX IF NOT EXISTS appointments_booked_by_idx
		ON appointments (booked_by_user_id)`,
	`CREATE TABLE IF NOT EXISTS past_schedules (
		schedule_id uuid PRIMARY KEY,
		staff_id text NOT NULL,
		appointment_type_id text NOT NULL,
		schedule_date date NOT NULL,
		start_time text NOT NULL,
		end_time text NOT NULL,
		available_slots integer NOT NULL,
		archived_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS past_appointments (
		appointment_id uuid PRIMARY KEY,
		patient_id text NOT NULL,
		staff_id text NOT NULL,
		schedule_id uuid NOT NULL,
		appointment_date_time timestamptz NOT NULL,
		reason text NOT NULL DEFAULT '',
		status text NOT NULL,
		booked_by_user_id text NOT NULL,
		archived_at timestamptz NOT NULL
	)`,
}

// Migrate applies the schema inside one transaction.
func Migrate(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range migrations {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}
