package repository

import (
	"context"
	"errors"
	"time"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor.User").
		Preload("Patient.User").
		Where("id = ?", id).
		First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) ListActiveForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]entity.Appointment, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND status IN ? AND scheduled_at >= ? AND scheduled_at < ?",
			doctorID, entity.ActiveStatuses, dayStart, dayEnd).
		Order("scheduled_at ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) CountActiveAt(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND scheduled_at = ? AND status IN ?", doctorID, at, entity.ActiveStatuses)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateFrom is a compare-and-set write: the row is updated only while its
// stored status still equals from, so two concurrent transitions cannot both
// apply. The active-slot unique index makes the slot assignment itself
// race-proof; a violation surfaces here as a pg unique-constraint error.
func (r *appointmentRepository) UpdateFrom(ctx context.Context, appt *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", appt.ID, from).
		Updates(map[string]interface{}{
			"status":           appt.Status,
			"scheduled_at":     appt.ScheduledAt,
			"duration_minutes": appt.DurationMinutes,
			"rejection_reason": appt.RejectionReason,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("notes", notes)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) List(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Preload("Doctor.User").
		Preload("Patient.User")

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.CreatedBy != "" {
			query = query.Where("created_by = ?", filter.CreatedBy)
		}
		if filter.DateFrom != nil {
			query = query.Where("scheduled_at >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("scheduled_at < ?", *filter.DateTo)
		}
		if filter.Upcoming {
			query = query.Where("status IN ? AND scheduled_at >= ?", entity.ActiveStatuses, time.Now())
		}
	}

	order := "created_at DESC"
	if filter != nil && filter.Upcoming {
		order = "scheduled_at ASC"
	}

	var appts []entity.Appointment
	if err := query.Order(order).Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}
