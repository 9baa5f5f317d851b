package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

type bookingService interface {
	BookSlot(ctx context.Context, actor model.Actor, lectureID int64, date time.Time, start, end model.TimeOfDay) (*model.Booking, error)
	ConfirmBooking(ctx context.Context, actor model.Actor, bookingID int64) (*model.Booking, error)
	CancelBooking(ctx context.Context, actor model.Actor, bookingID int64) (*model.Booking, error)
	ListBookings(ctx context.Context, actor model.Actor, filter model.BookingFilter) ([]*model.Booking, error)
	Stats(ctx context.Context, actor model.Actor) (map[model.BookingStatus]int64, error)
}

type BookingHandler struct {
	service   bookingService
	responder responder
}

func NewBookingHandler(svc bookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: svc, responder: newResponder(logger)}
}

func (h *BookingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/bookings", h.Create)
	mux.HandleFunc("GET /api/v1/bookings", h.List)
	mux.HandleFunc("GET /api/v1/bookings/stats", h.Stats)
	mux.HandleFunc("PUT /api/v1/bookings/{id}/confirm", h.Confirm)
	mux.HandleFunc("PUT /api/v1/bookings/{id}/cancel", h.Cancel)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	var req struct {
		LectureID int64  `json:"lecture_id"`
		Date      string `json:"date"`
		Start     string `json:"start"`
		End       string `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(w, "invalid request body")
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		h.responder.writeBadRequest(w, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
		return
	}
	start, err := model.ParseTimeOfDay(req.Start)
	if err != nil {
		h.responder.writeBadRequest(w, fmt.Sprintf("invalid start time %q, expected HH:MM", req.Start))
		return
	}
	end, err := model.ParseTimeOfDay(req.End)
	if err != nil {
		h.responder.writeBadRequest(w, fmt.Sprintf("invalid end time %q, expected HH:MM", req.End))
		return
	}

	booking, err := h.service.BookSlot(r.Context(), actor, req.LectureID, date, start, end)
	if err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	var filter model.BookingFilter
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.responder.writeBadRequest(w, "invalid user_id")
			return
		}
		filter.UserID = id
	}
	if v := r.URL.Query().Get("lecture_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.responder.writeBadRequest(w, "invalid lecture_id")
			return
		}
		filter.LectureID = id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = model.BookingStatus(v)
	}

	bookings, err := h.service.ListBookings(r.Context(), actor, filter)
	if err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	h.responder.writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, h.service.ConfirmBooking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, h.service.CancelBooking)
}

func (h *BookingHandler) updateStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, model.Actor, int64) (*model.Booking, error)) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	bookingID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.responder.writeBadRequest(w, "invalid booking id")
		return
	}

	booking, err := op(r.Context(), actor, bookingID)
	if err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	stats, err := h.service.Stats(r.Context(), actor)
	if err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, stats)
}
