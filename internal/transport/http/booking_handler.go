package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clinicbook/backend/internal/domain"
	"clinicbook/backend/internal/service/booking"
)

type bookingService interface {
	Book(ctx context.Context, in booking.BookInput) (domain.Appointment, error)
	Cancel(ctx context.Context, appointmentID, scheduleID uuid.UUID) error
	ListOpenSchedules(ctx context.Context) ([]domain.Schedule, error)
	ListStaffAppointments(ctx context.Context, staffID string) ([]domain.Appointment, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Appointment, error)
}

type BookingHandler struct {
	svc bookingService
	log *slog.Logger
}

func NewBookingHandler(svc bookingService, log *slog.Logger) *BookingHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BookingHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.booking")),
	}
}

type createAppointmentRequest struct {
	PatientID      string `json:"patient_id"`
	StaffID        string `json:"staff_id"`
	ScheduleID     string `json:"schedule_id"`
	DateTime       string `json:"appointment_date_time"`
	Reason         string `json:"reason"`
	BookedByUserID string `json:"booked_by_user_id"`
}

type createAppointmentResponse struct {
	AppointmentID string `json:"appointment_id"`
}

// CreateAppointment handles POST /api/appointments.
func (h *BookingHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "CreateAppointment"))

	var req createAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"), slog.Any("err", err))
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_schedule_id"))
		writeError(w, http.StatusBadRequest, kindValidation, "schedule_id must be a UUID")
		return
	}
	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_date_time"))
		writeError(w, http.StatusBadRequest, kindValidation, "appointment_date_time must be RFC 3339")
		return
	}

	appt, err := h.svc.Book(r.Context(), booking.BookInput{
		PatientID:      req.PatientID,
		StaffID:        req.StaffID,
		ScheduleID:     scheduleID,
		DateTime:       dateTime,
		Reason:         req.Reason,
		BookedByUserID: req.BookedByUserID,
	})
	if err != nil {
		logBookingError(log, err, slog.String("schedule_id", scheduleID.String()))
		writeServiceError(w, err)
		return
	}

	log.Info("appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("schedule_id", appt.ScheduleID.String()),
		slog.String("booked_by_user_id", appt.BookedByUserID),
	)
	writeJSON(w, http.StatusCreated, createAppointmentResponse{AppointmentID: appt.ID.String()})
}

type cancelAppointmentRequest struct {
	ScheduleID string `json:"schedule_id"`
}

// CancelAppointment handles POST /api/appointments/{id}/cancel.
func (h *BookingHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "CancelAppointment"))

	appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_appointment_id"))
		writeError(w, http.StatusBadRequest, kindValidation, "appointment_id must be a UUID")
		return
	}

	var req cancelAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"), slog.Any("err", err))
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_schedule_id"))
		writeError(w, http.StatusBadRequest, kindValidation, "schedule_id must be a UUID")
		return
	}

	if err := h.svc.Cancel(r.Context(), appointmentID, scheduleID); err != nil {
		logBookingError(log, err,
			slog.String("appointment_id", appointmentID.String()),
			slog.String("schedule_id", scheduleID.String()),
		)
		writeServiceError(w, err)
		return
	}

	log.Info("appointment canceled",
		slog.String("appointment_id", appointmentID.String()),
		slog.String("schedule_id", scheduleID.String()),
	)
	writeJSON(w, http.StatusOK, struct{}{})
}

// ListOpenSchedules handles GET /api/schedules/open. A failed query is a 500,
// never an empty 200.
func (h *BookingHandler) ListOpenSchedules(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "ListOpenSchedules"))

	schedules, err := h.svc.ListOpenSchedules(r.Context())
	if err != nil {
		log.Error("open schedules list failed", slog.Any("err", err))
		writeServiceError(w, err)
		return
	}
	if schedules == nil {
		schedules = []domain.Schedule{}
	}

	log.Debug("open schedules listed", slog.Int("count", len(schedules)))
	writeJSON(w, http.StatusOK, schedules)
}

// ListStaffAppointments handles GET /api/staff/{id}/appointments.
func (h *BookingHandler) ListStaffAppointments(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "ListStaffAppointments"))
	staffID := chi.URLParam(r, "id")

	appts, err := h.svc.ListStaffAppointments(r.Context(), staffID)
	if err != nil {
		logBookingError(log, err, slog.String("staff_id", staffID))
		writeServiceError(w, err)
		return
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}

	log.Debug("staff appointments listed", slog.String("staff_id", staffID), slog.Int("count", len(appts)))
	writeJSON(w, http.StatusOK, appts)
}

// ListUserBookings handles GET /api/users/{id}/bookings.
func (h *BookingHandler) ListUserBookings(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "ListUserBookings"))
	userID := chi.URLParam(r, "id")

	appts, err := h.svc.ListUserBookings(r.Context(), userID)
	if err != nil {
		logBookingError(log, err, slog.String("user_id", userID))
		writeServiceError(w, err)
		return
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}

	log.Debug("user bookings listed", slog.String("user_id", userID), slog.Int("count", len(appts)))
	writeJSON(w, http.StatusOK, appts)
}
