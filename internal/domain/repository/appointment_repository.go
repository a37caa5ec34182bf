package repository

import (
	"context"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository is the narrow storage contract the appointment core
// depends on. Implementations must guarantee that UpdateFrom is atomic with
// respect to the status precondition (compare-and-set) and that slot writes
// are backed by the active-slot uniqueness constraint, so a unique violation
// can be surfaced to the caller as a slot conflict.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)

	// ListActiveForDoctorOnDate returns active (requested/approved/rescheduled)
	// appointments whose scheduled_at falls on the given calendar day, in
	// ascending start order.
	ListActiveForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]entity.Appointment, error)

	// CountActiveAt counts active appointments for the doctor at the exact
	// timestamp, excluding the given appointment id (uuid.Nil excludes none).
	CountActiveAt(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID uuid.UUID) (int64, error)

	// UpdateFrom persists the appointment only if its stored status still
	// equals from. Returns the number of rows affected: 0 means the
	// appointment was transitioned concurrently.
	UpdateFrom(ctx context.Context, appt *entity.Appointment, from entity.AppointmentStatus) (int64, error)

	// UpdateNotes sets the free-text notes without touching lifecycle fields.
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (int64, error)

	List(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
}
