package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Freeeeeet/lecture_booking/internal/model"
	"github.com/Freeeeeet/lecture_booking/internal/policy"
	"github.com/Freeeeeet/lecture_booking/internal/service"
)

type errorResponse struct {
	Error             string `json:"error"`
	ConflictingSlotID int64  `json:"conflicting_slot_id,omitempty"`
	CurrentStatus     string `json:"current_status,omitempty"`
}

type responder struct {
	logger *zap.Logger
}

func newResponder(logger *zap.Logger) responder {
	return responder{logger: logger}
}

func (r responder) writeJSON(w http.ResponseWriter, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeServiceError переводит ошибку ядра в HTTP-статус. Неизвестные ошибки
// отдаются как 500 без деталей, подробности остаются в логе.
func (r responder) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var conflict *service.ScheduleConflictError
	if errors.As(err, &conflict) {
		resp.ConflictingSlotID = conflict.SlotID
	}
	var transition *service.TransitionError
	if errors.As(err, &transition) {
		resp.CurrentStatus = string(transition.Current)
	}

	switch {
	case errors.Is(err, model.ErrInvalidInterval), errors.Is(err, service.ErrPastDate):
		r.writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, policy.ErrForbidden):
		r.writeJSON(w, http.StatusForbidden, resp)
	case errors.Is(err, service.ErrLectureNotFound),
		errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		r.writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, service.ErrScheduleConflict),
		errors.Is(err, service.ErrAlreadyBooked),
		errors.Is(err, service.ErrAlreadyExpired),
		errors.Is(err, service.ErrSlotExpired),
		errors.Is(err, service.ErrInvalidTransition):
		r.writeJSON(w, http.StatusConflict, resp)
	default:
		r.logger.Error("Request failed", zap.Error(err))
		r.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (r responder) writeBadRequest(w http.ResponseWriter, msg string) {
	r.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
