package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

type availabilityFixture struct {
	usecase   AvailabilityUsecase
	apptRepo  *fakeAppointmentRepo
	schedRepo *fakeScheduleConfigRepo
	doctorID  uuid.UUID
}

func newAvailabilityFixture(cfg *entity.ScheduleConfig) *availabilityFixture {
	doctorID := uuid.New()
	if cfg != nil {
		cfg.DoctorID = doctorID
	}

	apptRepo := newFakeAppointmentRepo()
	schedRepo := &fakeScheduleConfigRepo{cfg: cfg}
	doctorRepo := &fakeDoctorProfileRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{
		doctorID: {UserID: doctorID, LicenseNumber: "LIC-200", Specialization: "dermatology"},
	}}

	uc := NewAvailabilityUsecase(testLogger(), doctorRepo, schedRepo, apptRepo, nil)

	return &availabilityFixture{
		usecase:   uc,
		apptRepo:  apptRepo,
		schedRepo: schedRepo,
		doctorID:  doctorID,
	}
}

func weekdayConfig(start, end string, duration int) *entity.ScheduleConfig {
	return &entity.ScheduleConfig{
		ID:                  1,
		AvailableDays:       []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: duration,
	}
}

func TestResolveSlotsFullWindow(t *testing.T) {
	f := newAvailabilityFixture(weekdayConfig("09:00", "11:00", 30))

	resp, err := f.usecase.ResolveSlots(context.Background(), f.doctorID, "2026-03-02")
	if err != nil {
		t.Fatalf("ResolveSlots failed: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if resp.Total != len(want) {
		t.Fatalf("total = %d, want %d", resp.Total, len(want))
	}
	for i, s := range resp.Slots {
		if got := s.Start.Format("15:04"); got != want[i] {
			t.Errorf("slot %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestResolveSlotsExcludesBooked(t *testing.T) {
	f := newAvailabilityFixture(weekdayConfig("09:00", "11:00", 30))

	booked := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	f.apptRepo.appointments[uuid.New()] = &entity.Appointment{
		ID:          uuid.New(),
		DoctorID:    f.doctorID,
		Status:      entity.AppointmentStatusApproved,
		ScheduledAt: &booked,
	}

	resp, err := f.usecase.ResolveSlots(context.Background(), f.doctorID, "2026-03-02")
	if err != nil {
		t.Fatalf("ResolveSlots failed: %v", err)
	}

	want := []string{"09:00", "10:00", "10:30"}
	if resp.Total != len(want) {
		t.Fatalf("total = %d, want %d: %+v", resp.Total, len(want), resp.Slots)
	}
	for i, s := range resp.Slots {
		if got := s.Start.Format("15:04"); got != want[i] {
			t.Errorf("slot %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestResolveSlotsIgnoresTerminalBookings(t *testing.T) {
	f := newAvailabilityFixture(weekdayConfig("09:00", "10:00", 30))

	cancelled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f.apptRepo.appointments[uuid.New()] = &entity.Appointment{
		ID:          uuid.New(),
		DoctorID:    f.doctorID,
		Status:      entity.AppointmentStatusCancelled,
		ScheduledAt: &cancelled,
	}

	resp, err := f.usecase.ResolveSlots(context.Background(), f.doctorID, "2026-03-02")
	if err != nil {
		t.Fatalf("ResolveSlots failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("cancelled booking should free its slot, total = %d, want 2", resp.Total)
	}
}

func TestResolveSlotsNonWorkingDay(t *testing.T) {
	f := newAvailabilityFixture(weekdayConfig("09:00", "11:00", 30))

	// 2026-03-01 is a Sunday.
	resp, err := f.usecase.ResolveSlots(context.Background(), f.doctorID, "2026-03-01")
	if err != nil {
		t.Fatalf("ResolveSlots failed: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("non-working day should yield no slots, got %d", resp.Total)
	}
	if resp.Slots == nil {
		t.Error("slots must be an empty list, not nil")
	}
}

func TestResolveSlotsNoScheduleConfigured(t *testing.T) {
	f := newAvailabilityFixture(nil)

	resp, err := f.usecase.ResolveSlots(context.Background(), f.doctorID, "2026-03-02")
	if err != nil {
		t.Fatalf("ResolveSlots failed: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("unconfigured doctor should yield no slots, got %d", resp.Total)
	}
}

func TestResolveSlotsUnknownDoctor(t *testing.T) {
	f := newAvailabilityFixture(weekdayConfig("09:00", "11:00", 30))

	_, err := f.usecase.ResolveSlots(context.Background(), uuid.New(), "2026-03-02")
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("err = %v, want ErrDoctorNotFound", err)
	}
}

func TestResolveSlotsBadDate(t *testing.T) {
	f := newAvailabilityFixture(weekdayConfig("09:00", "11:00", 30))

	for _, date := range []string{"", "02-03-2026", "2026/03/02"} {
		_, err := f.usecase.ResolveSlots(context.Background(), f.doctorID, date)
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("date %q: err = %v, want ErrInvalidDate", date, err)
		}
	}
}
