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
	"github.com/Freeeeeet/lecture_booking/internal/service"
)

type scheduleService interface {
	CreateSlot(ctx context.Context, actor model.Actor, lectureID int64, date time.Time, start, end model.TimeOfDay) (*model.Slot, error)
	CreateSlotsBatch(ctx context.Context, actor model.Actor, items []service.SlotInput) (int, error)
	DeleteSlot(ctx context.Context, actor model.Actor, slotID int64) error
	ListSlots(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error)
	GetSlot(ctx context.Context, slotID int64) (*model.Slot, error)
}

type ScheduleHandler struct {
	service   scheduleService
	responder responder
}

func NewScheduleHandler(svc scheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{service: svc, responder: newResponder(logger)}
}

func (h *ScheduleHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/schedules", h.Create)
	mux.HandleFunc("POST /api/v1/schedules/batch", h.CreateBatch)
	mux.HandleFunc("GET /api/v1/schedules", h.List)
	mux.HandleFunc("GET /api/v1/schedules/{id}", h.Get)
	mux.HandleFunc("DELETE /api/v1/schedules/{id}", h.Delete)
}

type slotRequest struct {
	LectureID int64  `json:"lecture_id"`
	Date      string `json:"date"`  // YYYY-MM-DD
	Start     string `json:"start"` // HH:MM
	End       string `json:"end"`   // HH:MM
}

func (r slotRequest) toInput() (service.SlotInput, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return service.SlotInput{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", r.Date)
	}
	start, err := model.ParseTimeOfDay(r.Start)
	if err != nil {
		return service.SlotInput{}, fmt.Errorf("invalid start time %q, expected HH:MM", r.Start)
	}
	end, err := model.ParseTimeOfDay(r.End)
	if err != nil {
		return service.SlotInput{}, fmt.Errorf("invalid end time %q, expected HH:MM", r.End)
	}
	return service.SlotInput{LectureID: r.LectureID, Date: date, Start: start, End: end}, nil
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(w, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		h.responder.writeBadRequest(w, err.Error())
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), actor, in.LectureID, in.Date, in.Start, in.End)
	if err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusCreated, slot)
}

func (h *ScheduleHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	var req struct {
		Items []slotRequest `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(w, "invalid request body")
		return
	}

	items := make([]service.SlotInput, 0, len(req.Items))
	for i, item := range req.Items {
		in, err := item.toInput()
		if err != nil {
			h.responder.writeBadRequest(w, fmt.Sprintf("item %d: %s", i, err))
			return
		}
		items = append(items, in)
	}

	created, err := h.service.CreateSlotsBatch(r.Context(), actor, items)
	if err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusCreated, map[string]int{"created": created})
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.SlotFilter{
		IncludeExpired: r.URL.Query().Get("include_expired") == "true",
	}
	if v := r.URL.Query().Get("lecture_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.responder.writeBadRequest(w, "invalid lecture_id")
			return
		}
		filter.LectureID = id
	}
	if v := r.URL.Query().Get("teacher_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.responder.writeBadRequest(w, "invalid teacher_id")
			return
		}
		filter.TeacherID = id
	}

	slots, err := h.service.ListSlots(r.Context(), filter)
	if err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	if slots == nil {
		slots = []*model.Slot{}
	}
	h.responder.writeJSON(w, http.StatusOK, slots)
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.responder.writeBadRequest(w, "invalid slot id")
		return
	}

	slot, err := h.service.GetSlot(r.Context(), slotID)
	if err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusOK, slot)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	slotID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.responder.writeBadRequest(w, "invalid slot id")
		return
	}

	if err := h.service.DeleteSlot(r.Context(), actor, slotID); err != nil {
		h.responder.writeServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(w, http.StatusNoContent, nil)
}
