package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest books a visit. scheduled_at is optional: a request
// without a slot gets one assigned at approval time. patient_id is ignored for
// patient callers, who always book for themselves.
type CreateAppointmentRequest struct {
	ClinicID    uuid.UUID `json:"clinic_id" validate:"required"`
	DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
	PatientID   uuid.UUID `json:"patient_id" validate:"omitempty"`
	ScheduledAt string    `json:"scheduled_at" validate:"omitempty"` // Format: YYYY-MM-DD HH:MM
	Notes       string    `json:"notes" validate:"omitempty,max=2000"`
}

type ApproveAppointmentRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"omitempty"` // Format: YYYY-MM-DD HH:MM
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type RescheduleAppointmentRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required"` // Format: YYYY-MM-DD HH:MM
}

type UpdateAppointmentNotesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// ListAppointmentsRequest carries the staff list filters, parsed from query
// parameters.
type ListAppointmentsRequest struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    string
	CreatedBy string
	DateFrom  string
	DateTo    string
	Upcoming  bool
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID        `json:"id"`
	ClinicID        uuid.UUID        `json:"clinic_id"`
	DoctorID        uuid.UUID        `json:"doctor_id"`
	PatientID       uuid.UUID        `json:"patient_id"`
	ScheduledAt     *time.Time       `json:"scheduled_at,omitempty"`
	DurationMinutes int              `json:"duration_minutes"`
	Status          string           `json:"status"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedBy       string           `json:"created_by"`
	Doctor          *DoctorResponse  `json:"doctor,omitempty"`
	Patient         *PatientResponse `json:"patient,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
