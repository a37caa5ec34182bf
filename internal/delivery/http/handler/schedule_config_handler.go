package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/delivery/http/middleware"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
	"clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ScheduleConfigHandler struct {
	scheduleConfigUsecase usecase.ScheduleConfigUsecase
	validator             *validator.CustomValidator
}

func NewScheduleConfigHandler(scheduleConfigUsecase usecase.ScheduleConfigUsecase, validator *validator.CustomValidator) *ScheduleConfigHandler {
	return &ScheduleConfigHandler{
		scheduleConfigUsecase: scheduleConfigUsecase,
		validator:             validator,
	}
}

// UpsertSchedule creates or replaces a doctor's working calendar.
// PUT /staff/doctors/{id}/schedule
func (h *ScheduleConfigHandler) UpsertSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	var req dto.UpsertScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleConfigUsecase.UpsertSchedule(r.Context(), actor, doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidWeekday:
			response.Error(w, http.StatusBadRequest, "Unknown weekday name", nil)
		case usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, "Invalid time format, use HH:MM", nil)
		case usecase.ErrInvalidWorkingWindow:
			response.Error(w, http.StatusBadRequest, "End time must be after start time", nil)
		case usecase.ErrInvalidSlotDuration:
			response.Error(w, http.StatusBadRequest, "Slot duration must be positive", nil)
		case usecase.ErrSlotDurationTooCoarse:
			response.Error(w, http.StatusBadRequest, "Slot duration does not fit the working window", nil)
		default:
			response.InternalServerError(w, "Failed to upsert schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule upserted successfully", schedule)
}

// GetSchedule returns a doctor's working calendar.
// GET /doctors/{id}/schedule
func (h *ScheduleConfigHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	schedule, err := h.scheduleConfigUsecase.GetSchedule(r.Context(), doctorID)
	if err != nil {
		switch err {
		case usecase.ErrScheduleNotFound:
			response.NotFound(w, "Schedule config not found")
		default:
			response.InternalServerError(w, "Failed to get schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}
