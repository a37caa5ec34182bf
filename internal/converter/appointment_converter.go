package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse
// DTO. Doctor and patient summaries are included when the relations are loaded.
func AppointmentToResponse(appt *entity.Appointment) *dto.AppointmentResponse {
	if appt == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appt.ID,
		ClinicID:        appt.ClinicID,
		DoctorID:        appt.DoctorID,
		PatientID:       appt.PatientID,
		ScheduledAt:     appt.ScheduledAt,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		RejectionReason: appt.RejectionReason,
		Notes:           appt.Notes,
		CreatedBy:       appt.CreatedBy,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}

	if appt.Doctor.UserID != uuid.Nil {
		response.Doctor = DoctorProfileToResponse(&appt.Doctor)
	}
	if appt.Patient.UserID != uuid.Nil {
		response.Patient = PatientProfileToResponse(&appt.Patient, &appt.Patient.User)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
