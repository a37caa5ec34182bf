package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// ScheduleConfigToResponse converts a ScheduleConfig entity to ScheduleConfigResponse DTO
func ScheduleConfigToResponse(cfg *entity.ScheduleConfig) *dto.ScheduleConfigResponse {
	if cfg == nil {
		return nil
	}

	response := &dto.ScheduleConfigResponse{
		ID:                  cfg.ID,
		DoctorID:            cfg.DoctorID,
		AvailableDays:       cfg.AvailableDays,
		StartTime:           cfg.StartTime,
		EndTime:             cfg.EndTime,
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		CreatedAt:           cfg.CreatedAt,
		UpdatedAt:           cfg.UpdatedAt,
	}
	if cfg.Doctor.UserID != uuid.Nil {
		response.Doctor = DoctorProfileToResponse(&cfg.Doctor)
	}
	return response
}
