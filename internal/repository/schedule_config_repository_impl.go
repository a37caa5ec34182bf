package repository

import (
	"context"
	"errors"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scheduleConfigRepository struct {
	db *gorm.DB
}

func NewScheduleConfigRepository(db *gorm.DB) domainRepo.ScheduleConfigRepository {
	return &scheduleConfigRepository{db: db}
}

func (r *scheduleConfigRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) (*entity.ScheduleConfig, error) {
	var cfg entity.ScheduleConfig
	err := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// Upsert replaces the doctor's working calendar in place. A doctor has at
// most one calendar, keyed by doctor_id.
func (r *scheduleConfigRepository) Upsert(ctx context.Context, cfg *entity.ScheduleConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "doctor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"available_days", "start_time", "end_time", "slot_duration_minutes", "updated_at",
			}),
		}).
		Create(cfg).Error
}
