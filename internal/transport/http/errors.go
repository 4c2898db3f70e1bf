package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"clinicbook/backend/internal/service/booking"
	"clinicbook/backend/internal/store"
)

// Stable error kinds exposed to clients. Internal storage errors are never
// surfaced verbatim.
const (
	kindValidation       = "validation"
	kindNotFound         = "not_found"
	kindPastSchedule     = "past_schedule"
	kindCapacityExceeded = "capacity_exceeded"
	kindAlreadyCanceled  = "already_canceled"
	kindConflict         = "conflict"
	kindUpstream         = "upstream"
	kindInternal         = "internal"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Kind: kind, Message: msg}})
}

// writeServiceError maps a booking error to its stable kind and status.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, kindValidation, vErr.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, "not found")
	case errors.Is(err, booking.ErrPastSchedule):
		writeError(w, http.StatusConflict, kindPastSchedule, "this schedule is in the past")
	case errors.Is(err, store.ErrScheduleFull):
		writeError(w, http.StatusConflict, kindCapacityExceeded, "this schedule has no available slots")
	case errors.Is(err, store.ErrAlreadyCanceled):
		writeError(w, http.StatusConflict, kindAlreadyCanceled, "this appointment was already canceled")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, kindConflict, "conflicting write, try again")
	default:
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
	}
}

// logBookingError keeps guard rejections at warn and real failures at error.
func logBookingError(log *slog.Logger, err error, args ...any) {
	var vErr *booking.ValidationError
	expected := errors.As(err, &vErr) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrScheduleFull) ||
		errors.Is(err, store.ErrAlreadyCanceled) ||
		errors.Is(err, store.ErrConflict) ||
		errors.Is(err, booking.ErrPastSchedule)
	if expected {
		log.Warn("request rejected", append([]any{slog.Any("err", err)}, args...)...)
		return
	}
	log.Error("request failed", append([]any{slog.Any("err", err)}, args...)...)
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
