package entity

import (
	"time"

	"github.com/google/uuid"
)

// Event intent kinds, one per successful lifecycle transition.
const (
	IntentAppointmentRequested   = "appointment.requested"
	IntentAppointmentApproved    = "appointment.approved"
	IntentAppointmentRejected    = "appointment.rejected"
	IntentAppointmentRescheduled = "appointment.rescheduled"
	IntentAppointmentCompleted   = "appointment.completed"
	IntentAppointmentCancelled   = "appointment.cancelled"
)

// EventIntent describes a side effect (typically a notification) to be
// delivered by a collaborator outside this service. The state machine emits
// intents but never delivers them itself: a notification outage must never
// roll back a state transition.
type EventIntent struct {
	Kind          string     `json:"kind"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	RecipientID   uuid.UUID  `json:"recipient_id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// NewEventIntent builds an intent for the given appointment addressed to the
// given recipient.
func NewEventIntent(kind string, appt *Appointment, recipientID uuid.UUID) EventIntent {
	return EventIntent{
		Kind:          kind,
		AppointmentID: appt.ID,
		RecipientID:   recipientID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		ScheduledAt:   appt.ScheduledAt,
		OccurredAt:    time.Now(),
	}
}
