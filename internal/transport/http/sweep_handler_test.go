package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"clinicbook/backend/internal/service/archive"
)

type fakeSweepRunner struct {
	runFn func(ctx context.Context) (archive.Result, error)
}

func (f *fakeSweepRunner) Run(ctx context.Context) (archive.Result, error) {
	if f.runFn == nil {
		panic("Run not configured")
	}
	return f.runFn(ctx)
}

// stubSweeper satisfies routes that tests never exercise.
type stubSweeper struct{}

func (stubSweeper) Run(ctx context.Context) (archive.Result, error) {
	return archive.Result{}, nil
}

func TestSweep_ReturnsCounts(t *testing.T) {
	sweep := &fakeSweepRunner{
		runFn: func(ctx context.Context) (archive.Result, error) {
			return archive.Result{
				SchedulesMoved:    4,
				AppointmentsMoved: 7,
				SchedulesFailed:   1,
			}, nil
		},
	}

	rec := doRequest(t, newTestRouter(&fakeBookingService{}, sweep), http.MethodPost, "/api/sweep", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var res archive.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.SchedulesMoved != 4 || res.AppointmentsMoved != 7 || res.SchedulesFailed != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestSweep_Failure(t *testing.T) {
	sweep := &fakeSweepRunner{
		runFn: func(ctx context.Context) (archive.Result, error) {
			return archive.Result{}, errors.New("pg exploded")
		},
	}

	rec := doRequest(t, newTestRouter(&fakeBookingService{}, sweep), http.MethodPost, "/api/sweep", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if kind := decodeErrorKind(t, rec); kind != kindInternal {
		t.Fatalf("kind = %q, want %q", kind, kindInternal)
	}
}
