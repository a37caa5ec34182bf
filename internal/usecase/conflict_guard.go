package usecase

import (
	"context"
	"time"

	"clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
)

// ScheduleConflictGuard rejects slot assignments that would double-book a
// doctor. It is a fast pre-check: the active-slot unique index in the
// database is the race-proof authority, so two concurrent approvals that both
// pass the guard still cannot both commit.
type ScheduleConflictGuard struct {
	appointmentRepo repository.AppointmentRepository
}

func NewScheduleConflictGuard(appointmentRepo repository.AppointmentRepository) *ScheduleConflictGuard {
	return &ScheduleConflictGuard{appointmentRepo: appointmentRepo}
}

// Check returns ErrSlotConflict when another active appointment already holds
// the exact timestamp for the doctor. The appointment under transition is
// excluded: re-approving an appointment at its own slot is not a conflict.
func (g *ScheduleConflictGuard) Check(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID uuid.UUID) error {
	count, err := g.appointmentRepo.CountActiveAt(ctx, doctorID, at, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlotConflict
	}
	return nil
}
