package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpsertScheduleRequest struct {
	AvailableDays       []string `json:"available_days" validate:"required,min=1,max=7,dive,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	StartTime           string   `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime             string   `json:"end_time" validate:"required"`   // Format: HH:MM
	SlotDurationMinutes int      `json:"slot_duration_minutes" validate:"required,min=5,max=240"`
}

// Response DTOs

type ScheduleConfigResponse struct {
	ID                  int             `json:"id"`
	DoctorID            uuid.UUID       `json:"doctor_id"`
	AvailableDays       []string        `json:"available_days"`
	StartTime           string          `json:"start_time"`
	EndTime             string          `json:"end_time"`
	SlotDurationMinutes int             `json:"slot_duration_minutes"`
	Doctor              *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
