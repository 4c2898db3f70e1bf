package http

import (
	"context"
	"log/slog"
	"net/http"

	"clinicbook/backend/internal/service/archive"
)

type sweepRunner interface {
	Run(ctx context.Context) (archive.Result, error)
}

// SweepHandler exposes the archival sweep as an out-of-band trigger for a
// cron or operator.
type SweepHandler struct {
	sweeper sweepRunner
	log     *slog.Logger
}

func NewSweepHandler(sweeper sweepRunner, log *slog.Logger) *SweepHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SweepHandler{
		sweeper: sweeper,
		log:     log.With(slog.String("component", "http.sweep")),
	}
}

// Run handles POST /api/sweep.
func (h *SweepHandler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.sweeper.Run(r.Context())
	if err != nil {
		h.log.Error("sweep failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, kindInternal, "sweep failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
