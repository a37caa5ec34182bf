package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by the repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    AppointmentStatus // empty = any
	CreatedBy string            // actor role that originated the appointment, empty = any
	DateFrom  *time.Time        // inclusive lower bound on scheduled_at
	DateTo    *time.Time        // exclusive upper bound on scheduled_at
	Upcoming  bool              // only active appointments scheduled from now on
}
