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

var (
	ErrScheduleNotFound      = errors.New("schedule config not found")
	ErrInvalidTimeFormat     = errors.New("invalid time format, use HH:MM")
	ErrInvalidWorkingWindow  = errors.New("end time must be after start time")
	ErrInvalidWeekday        = errors.New("unknown weekday name")
	ErrInvalidSlotDuration   = errors.New("slot duration must be positive")
	ErrSlotDurationTooCoarse = errors.New("slot duration does not fit the working window")
)

type ScheduleConfigUsecase interface {
	UpsertSchedule(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpsertScheduleRequest) (*dto.ScheduleConfigResponse, error)
	GetSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleConfigResponse, error)
}

type scheduleConfigUsecase struct {
	log                *logrus.Logger
	scheduleConfigRepo repository.ScheduleConfigRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	auditService       service.AuditService
	cache              *service.AvailabilityCache
}

func NewScheduleConfigUsecase(
	log *logrus.Logger,
	scheduleConfigRepo repository.ScheduleConfigRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	cache *service.AvailabilityCache,
) ScheduleConfigUsecase {
	return &scheduleConfigUsecase{
		log:                log,
		scheduleConfigRepo: scheduleConfigRepo,
		doctorProfileRepo:  doctorProfileRepo,
		auditService:       auditService,
		cache:              cache,
	}
}

// UpsertSchedule creates or replaces a doctor's working calendar. Existing
// appointments are never touched: a narrower window only affects slots
// offered from now on.
func (u *scheduleConfigUsecase) UpsertSchedule(ctx context.Context, actor entity.Actor, doctorID uuid.UUID, req *dto.UpsertScheduleRequest) (*dto.ScheduleConfigResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	for _, day := range req.AvailableDays {
		if _, ok := entity.ParseWeekday(day); !ok {
			return nil, ErrInvalidWeekday
		}
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if !end.After(start) {
		return nil, ErrInvalidWorkingWindow
	}
	if req.SlotDurationMinutes <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	if end.Sub(start) < time.Duration(req.SlotDurationMinutes)*time.Minute {
		return nil, ErrSlotDurationTooCoarse
	}

	old, err := u.scheduleConfigRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule config for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	cfg := &entity.ScheduleConfig{
		DoctorID:            doctorID,
		AvailableDays:       req.AvailableDays,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
	}

	if err := u.scheduleConfigRepo.Upsert(ctx, cfg); err != nil {
		u.log.Warnf("Failed to upsert schedule config for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, &actor.ID, entity.AuditActionScheduleUpsert, "schedule_configs", doctorID.String(), old, cfg)

	// The cached slot picture for this doctor is stale for every day now; let
	// entries age out on their short TTL and only force today's out.
	if u.cache != nil {
		u.cache.Invalidate(ctx, doctorID, time.Now())
	}

	u.log.Infof("Schedule config upserted for doctor %s by %s", doctorID, actor.ID)
	return converter.ScheduleConfigToResponse(cfg), nil
}

func (u *scheduleConfigUsecase) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleConfigResponse, error) {
	cfg, err := u.scheduleConfigRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule config for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if cfg == nil {
		return nil, ErrScheduleNotFound
	}
	return converter.ScheduleConfigToResponse(cfg), nil
}
