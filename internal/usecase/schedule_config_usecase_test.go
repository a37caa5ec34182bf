package usecase

import (
	"context"
	"errors"
	"testing"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

func newScheduleFixture() (ScheduleConfigUsecase, *fakeScheduleConfigRepo, uuid.UUID) {
	doctorID := uuid.New()
	schedRepo := &fakeScheduleConfigRepo{}
	doctorRepo := &fakeDoctorProfileRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{
		doctorID: {UserID: doctorID, LicenseNumber: "LIC-300", Specialization: "cardiology"},
	}}

	uc := NewScheduleConfigUsecase(testLogger(), schedRepo, doctorRepo, &fakeAuditService{}, nil)
	return uc, schedRepo, doctorID
}

func validScheduleRequest() *dto.UpsertScheduleRequest {
	return &dto.UpsertScheduleRequest{
		AvailableDays:       []string{"monday", "wednesday"},
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
	}
}

func TestUpsertSchedule(t *testing.T) {
	uc, schedRepo, doctorID := newScheduleFixture()

	resp, err := uc.UpsertSchedule(context.Background(), staffActor(), doctorID, validScheduleRequest())
	if err != nil {
		t.Fatalf("UpsertSchedule failed: %v", err)
	}
	if resp.DoctorID != doctorID {
		t.Errorf("doctor_id = %s, want %s", resp.DoctorID, doctorID)
	}
	if resp.StartTime != "09:00" || resp.EndTime != "12:00" || resp.SlotDurationMinutes != 30 {
		t.Errorf("unexpected schedule fields: %+v", resp)
	}
	if schedRepo.cfg == nil {
		t.Fatal("schedule was not persisted")
	}
}

func TestUpsertScheduleReplacesExisting(t *testing.T) {
	uc, schedRepo, doctorID := newScheduleFixture()
	schedRepo.cfg = &entity.ScheduleConfig{
		DoctorID:            doctorID,
		AvailableDays:       []string{"friday"},
		StartTime:           "13:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 60,
	}

	resp, err := uc.UpsertSchedule(context.Background(), staffActor(), doctorID, validScheduleRequest())
	if err != nil {
		t.Fatalf("UpsertSchedule failed: %v", err)
	}
	if resp.SlotDurationMinutes != 30 {
		t.Errorf("slot duration = %d, want the replacement value 30", resp.SlotDurationMinutes)
	}
	if len(schedRepo.cfg.AvailableDays) != 2 {
		t.Errorf("available days were not replaced: %v", schedRepo.cfg.AvailableDays)
	}
}

func TestUpsertScheduleValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.UpsertScheduleRequest)
		want   error
	}{
		{"unknown weekday", func(r *dto.UpsertScheduleRequest) { r.AvailableDays = []string{"moonday"} }, ErrInvalidWeekday},
		{"bad start time", func(r *dto.UpsertScheduleRequest) { r.StartTime = "9am" }, ErrInvalidTimeFormat},
		{"bad end time", func(r *dto.UpsertScheduleRequest) { r.EndTime = "25:99" }, ErrInvalidTimeFormat},
		{"end before start", func(r *dto.UpsertScheduleRequest) { r.StartTime = "17:00"; r.EndTime = "09:00" }, ErrInvalidWorkingWindow},
		{"end equals start", func(r *dto.UpsertScheduleRequest) { r.EndTime = r.StartTime }, ErrInvalidWorkingWindow},
		{"zero duration", func(r *dto.UpsertScheduleRequest) { r.SlotDurationMinutes = 0 }, ErrInvalidSlotDuration},
		{"duration wider than window", func(r *dto.UpsertScheduleRequest) { r.SlotDurationMinutes = 240 }, ErrSlotDurationTooCoarse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, doctorID := newScheduleFixture()
			req := validScheduleRequest()
			tt.mutate(req)

			_, err := uc.UpsertSchedule(context.Background(), staffActor(), doctorID, req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpsertScheduleUnknownDoctor(t *testing.T) {
	uc, _, _ := newScheduleFixture()

	_, err := uc.UpsertSchedule(context.Background(), staffActor(), uuid.New(), validScheduleRequest())
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("err = %v, want ErrDoctorNotFound", err)
	}
}

func TestGetScheduleNotConfigured(t *testing.T) {
	uc, _, doctorID := newScheduleFixture()

	_, err := uc.GetSchedule(context.Background(), doctorID)
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("err = %v, want ErrScheduleNotFound", err)
	}
}

func TestGetSchedule(t *testing.T) {
	uc, schedRepo, doctorID := newScheduleFixture()
	schedRepo.cfg = &entity.ScheduleConfig{
		ID:                  7,
		DoctorID:            doctorID,
		AvailableDays:       []string{"tuesday"},
		StartTime:           "08:00",
		EndTime:             "10:00",
		SlotDurationMinutes: 20,
	}

	resp, err := uc.GetSchedule(context.Background(), doctorID)
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if resp.ID != 7 || resp.SlotDurationMinutes != 20 {
		t.Errorf("unexpected schedule: %+v", resp)
	}
}
