package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	"clinic-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

type AvailabilityUsecase interface {
	ResolveSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	log                *logrus.Logger
	doctorProfileRepo  repository.DoctorProfileRepository
	scheduleConfigRepo repository.ScheduleConfigRepository
	appointmentRepo    repository.AppointmentRepository
	cache              *service.AvailabilityCache
}

func NewAvailabilityUsecase(
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	scheduleConfigRepo repository.ScheduleConfigRepository,
	appointmentRepo repository.AppointmentRepository,
	cache *service.AvailabilityCache,
) AvailabilityUsecase {
	return &availabilityUsecase{
		log:                log,
		doctorProfileRepo:  doctorProfileRepo,
		scheduleConfigRepo: scheduleConfigRepo,
		appointmentRepo:    appointmentRepo,
		cache:              cache,
	}
}

// ResolveSlots computes the bookable slots for a doctor on a given day.
//
// Flow:
// 1. Parse the requested date
// 2. Verify the doctor exists
// 3. Serve from cache when a fresh entry exists
// 4. Partition the doctor's working window into fixed-width slots
// 5. Remove slots already held by active appointments
//
// A doctor without a schedule config, or a day the doctor does not work,
// yields an empty slot list rather than an error.
func (u *availabilityUsecase) ResolveSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if u.cache != nil {
		if slots, ok := u.cache.Get(ctx, doctorID, day); ok {
			return availabilityResponse(doctorID, date, slots), nil
		}
	}

	slots, err := u.computeSlots(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		u.cache.Set(ctx, doctorID, day, slots)
	}

	return availabilityResponse(doctorID, date, slots), nil
}

func (u *availabilityUsecase) computeSlots(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]entity.Slot, error) {
	cfg, err := u.scheduleConfigRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule config for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if cfg == nil || !cfg.WorksOn(day.Weekday()) {
		return []entity.Slot{}, nil
	}

	windows, err := cfg.Windows(day)
	if err != nil {
		u.log.Warnf("Failed to partition working window for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	appointments, err := u.appointmentRepo.ListActiveForDoctorOnDate(ctx, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to list active appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	occupied := make(map[int64]struct{}, len(appointments))
	for _, appt := range appointments {
		if appt.ScheduledAt != nil {
			occupied[appt.ScheduledAt.Unix()] = struct{}{}
		}
	}

	free := make([]entity.Slot, 0, len(windows))
	for _, w := range windows {
		if _, taken := occupied[w.Start.Unix()]; taken {
			continue
		}
		free = append(free, w)
	}
	return free, nil
}

func availabilityResponse(doctorID uuid.UUID, date string, slots []entity.Slot) *dto.AvailabilityResponse {
	return &dto.AvailabilityResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    converter.SlotsToResponses(slots),
		Total:    len(slots),
	}
}
