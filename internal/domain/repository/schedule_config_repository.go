package repository

import (
	"context"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// ScheduleConfigRepository exposes the doctors' working calendars. The
// appointment core only reads from it; writes belong to staff management.
type ScheduleConfigRepository interface {
	// FindByDoctorID returns nil, nil when the doctor has no configured schedule.
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) (*entity.ScheduleConfig, error)
	Upsert(ctx context.Context, cfg *entity.ScheduleConfig) error
}
