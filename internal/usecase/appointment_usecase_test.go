package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// ---------------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------------

type fakeAppointmentRepo struct {
	appointments  map[uuid.UUID]*entity.Appointment
	createErr     error
	updateErr     error
	forceZeroRows bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[uuid.UUID]*entity.Appointment{}}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appt *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	stored := *appt
	r.appointments[appt.ID] = &stored
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeAppointmentRepo) ListActiveForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, appt := range r.appointments {
		if appt.DoctorID == doctorID && appt.IsActive() && appt.ScheduledAt != nil {
			ay, am, ad := appt.ScheduledAt.Date()
			dy, dm, dd := day.Date()
			if ay == dy && am == dm && ad == dd {
				out = append(out, *appt)
			}
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CountActiveAt(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID uuid.UUID) (int64, error) {
	var count int64
	for _, appt := range r.appointments {
		if appt.ID == excludeID || appt.DoctorID != doctorID || !appt.IsActive() {
			continue
		}
		if appt.ScheduledAt != nil && appt.ScheduledAt.Equal(at) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) UpdateFrom(ctx context.Context, appt *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	if r.forceZeroRows {
		return 0, nil
	}
	stored, ok := r.appointments[appt.ID]
	if !ok || stored.Status != from {
		return 0, nil
	}
	copied := *appt
	r.appointments[appt.ID] = &copied
	return 1, nil
}

func (r *fakeAppointmentRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (int64, error) {
	stored, ok := r.appointments[id]
	if !ok {
		return 0, nil
	}
	stored.Notes = notes
	return 1, nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, appt := range r.appointments {
		if filter.DoctorID != nil && appt.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && appt.PatientID != *filter.PatientID {
			continue
		}
		out = append(out, *appt)
	}
	return out, nil
}

type fakeScheduleConfigRepo struct {
	cfg *entity.ScheduleConfig
}

func (r *fakeScheduleConfigRepo) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) (*entity.ScheduleConfig, error) {
	return r.cfg, nil
}

func (r *fakeScheduleConfigRepo) Upsert(ctx context.Context, cfg *entity.ScheduleConfig) error {
	r.cfg = cfg
	return nil
}

type fakeDoctorProfileRepo struct {
	profiles map[uuid.UUID]*entity.DoctorProfile
}

func (r *fakeDoctorProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	return r.profiles[userID], nil
}

func (r *fakeDoctorProfileRepo) FindAll(ctx context.Context) ([]entity.DoctorProfile, error) {
	var out []entity.DoctorProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeDoctorProfileRepo) Update(ctx context.Context, profile *entity.DoctorProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

type fakePatientProfileRepo struct {
	profiles map[uuid.UUID]*entity.PatientProfile
}

func (r *fakePatientProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.PatientProfile, error) {
	return r.profiles[userID], nil
}

func (r *fakePatientProfileRepo) Update(ctx context.Context, profile *entity.PatientProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

type fakeEventSink struct {
	intents []entity.EventIntent
	err     error
}

func (s *fakeEventSink) Publish(ctx context.Context, intents []entity.EventIntent) error {
	if s.err != nil {
		return s.err
	}
	s.intents = append(s.intents, intents...)
	return nil
}

type fakeAuditService struct {
	actions []string
}

func (s *fakeAuditService) LogCreate(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) LogDelete(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type appointmentFixture struct {
	usecase   AppointmentUsecase
	apptRepo  *fakeAppointmentRepo
	schedRepo *fakeScheduleConfigRepo
	sink      *fakeEventSink
	audit     *fakeAuditService
	doctorID  uuid.UUID
	patientID uuid.UUID
	clinicID  uuid.UUID
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newAppointmentFixture wires an appointment usecase against in-memory fakes
// with one doctor working Monday through Friday 09:00-12:00 in 30m slots.
func newAppointmentFixture() *appointmentFixture {
	doctorID := uuid.New()
	patientID := uuid.New()

	apptRepo := newFakeAppointmentRepo()
	schedRepo := &fakeScheduleConfigRepo{
		cfg: &entity.ScheduleConfig{
			ID:                  1,
			DoctorID:            doctorID,
			AvailableDays:       []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			StartTime:           "09:00",
			EndTime:             "12:00",
			SlotDurationMinutes: 30,
		},
	}
	doctorRepo := &fakeDoctorProfileRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{
		doctorID: {UserID: doctorID, LicenseNumber: "LIC-100", Specialization: "general"},
	}}
	patientRepo := &fakePatientProfileRepo{profiles: map[uuid.UUID]*entity.PatientProfile{
		patientID: {UserID: patientID, NationalID: "3201010101010001"},
	}}
	sink := &fakeEventSink{}
	audit := &fakeAuditService{}

	uc := NewAppointmentUsecase(
		testLogger(),
		apptRepo,
		schedRepo,
		doctorRepo,
		patientRepo,
		NewScheduleConflictGuard(apptRepo),
		sink,
		audit,
		nil,
	)

	return &appointmentFixture{
		usecase:   uc,
		apptRepo:  apptRepo,
		schedRepo: schedRepo,
		sink:      sink,
		audit:     audit,
		doctorID:  doctorID,
		patientID: patientID,
		clinicID:  uuid.New(),
	}
}

func (f *appointmentFixture) seedAppointment(status entity.AppointmentStatus, at *time.Time) *entity.Appointment {
	appt := &entity.Appointment{
		ID:          uuid.New(),
		ClinicID:    f.clinicID,
		DoctorID:    f.doctorID,
		PatientID:   f.patientID,
		Status:      status,
		ScheduledAt: at,
		CreatedBy:   entity.RolePatient,
	}
	if at != nil {
		appt.DurationMinutes = 30
	}
	stored := *appt
	f.apptRepo.appointments[appt.ID] = &stored
	return appt
}

func (f *appointmentFixture) patientActor() entity.Actor {
	return entity.Actor{ID: f.patientID, Role: entity.RolePatient}
}

func (f *appointmentFixture) doctorActor() entity.Actor {
	return entity.Actor{ID: f.doctorID, Role: entity.RoleDoctor}
}

func staffActor() entity.Actor {
	return entity.Actor{ID: uuid.New(), Role: entity.RoleStaff}
}

// mondaySlot is a valid 09:00 slot on a working day.
const mondaySlot = "2026-03-02 09:00"

func mustParseSlot(t *testing.T, s string) time.Time {
	t.Helper()
	at, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t.Fatal(err)
	}
	return at
}

// ---------------------------------------------------------------------------
// CreateAppointment
// ---------------------------------------------------------------------------

func TestCreateAppointmentSlotless(t *testing.T) {
	f := newAppointmentFixture()

	resp, err := f.usecase.CreateAppointment(context.Background(), f.patientActor(), &dto.CreateAppointmentRequest{
		ClinicID: f.clinicID,
		DoctorID: f.doctorID,
		Notes:    "recurring headache",
	})
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}

	if resp.Status != string(entity.AppointmentStatusRequested) {
		t.Errorf("status = %s, want requested", resp.Status)
	}
	if resp.ScheduledAt != nil {
		t.Errorf("slotless request should have no scheduled_at, got %v", resp.ScheduledAt)
	}
	if resp.DurationMinutes != 30 {
		t.Errorf("duration should snapshot the schedule's slot width, got %d", resp.DurationMinutes)
	}
	if resp.CreatedBy != entity.RolePatient {
		t.Errorf("created_by = %s, want patient", resp.CreatedBy)
	}

	if len(f.sink.intents) != 1 {
		t.Fatalf("expected 1 event intent, got %d", len(f.sink.intents))
	}
	intent := f.sink.intents[0]
	if intent.Kind != entity.IntentAppointmentRequested {
		t.Errorf("intent kind = %s, want %s", intent.Kind, entity.IntentAppointmentRequested)
	}
	// The patient acted, so the doctor is notified.
	if intent.RecipientID != f.doctorID {
		t.Errorf("intent recipient = %s, want doctor %s", intent.RecipientID, f.doctorID)
	}
}

func TestCreateAppointmentWithSlot(t *testing.T) {
	f := newAppointmentFixture()

	resp, err := f.usecase.CreateAppointment(context.Background(), f.patientActor(), &dto.CreateAppointmentRequest{
		ClinicID:    f.clinicID,
		DoctorID:    f.doctorID,
		ScheduledAt: mondaySlot,
	})
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}

	want := mustParseSlot(t, mondaySlot)
	if resp.ScheduledAt == nil || !resp.ScheduledAt.Equal(want) {
		t.Errorf("scheduled_at = %v, want %s", resp.ScheduledAt, want)
	}
}

func TestCreateAppointmentBadSlotFormat(t *testing.T) {
	f := newAppointmentFixture()

	_, err := f.usecase.CreateAppointment(context.Background(), f.patientActor(), &dto.CreateAppointmentRequest{
		ClinicID:    f.clinicID,
		DoctorID:    f.doctorID,
		ScheduledAt: "02/03/2026 9am",
	})
	if !errors.Is(err, ErrInvalidSlotTime) {
		t.Errorf("err = %v, want ErrInvalidSlotTime", err)
	}
}

func TestCreateAppointmentSlotOutsideSchedule(t *testing.T) {
	f := newAppointmentFixture()

	tests := []struct {
		name string
		slot string
	}{
		{"off-grid time", "2026-03-02 09:15"},
		{"outside working window", "2026-03-02 14:00"},
		{"non-working day", "2026-03-01 09:00"}, // a Sunday
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.usecase.CreateAppointment(context.Background(), f.patientActor(), &dto.CreateAppointmentRequest{
				ClinicID:    f.clinicID,
				DoctorID:    f.doctorID,
				ScheduledAt: tt.slot,
			})
			if !errors.Is(err, ErrSlotNotBookable) {
				t.Errorf("err = %v, want ErrSlotNotBookable", err)
			}
		})
	}
}

func TestCreateAppointmentSlotConflict(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	f.seedAppointment(entity.AppointmentStatusApproved, &at)

	_, err := f.usecase.CreateAppointment(context.Background(), f.patientActor(), &dto.CreateAppointmentRequest{
		ClinicID:    f.clinicID,
		DoctorID:    f.doctorID,
		ScheduledAt: mondaySlot,
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Errorf("err = %v, want ErrSlotConflict", err)
	}
}

func TestCreateAppointmentStaffNeedsPatientID(t *testing.T) {
	f := newAppointmentFixture()

	_, err := f.usecase.CreateAppointment(context.Background(), staffActor(), &dto.CreateAppointmentRequest{
		ClinicID: f.clinicID,
		DoctorID: f.doctorID,
	})
	if !errors.Is(err, ErrPatientIDRequired) {
		t.Errorf("err = %v, want ErrPatientIDRequired", err)
	}
}

func TestCreateAppointmentUnknownDoctor(t *testing.T) {
	f := newAppointmentFixture()

	_, err := f.usecase.CreateAppointment(context.Background(), f.patientActor(), &dto.CreateAppointmentRequest{
		ClinicID: f.clinicID,
		DoctorID: uuid.New(),
	})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("err = %v, want ErrDoctorNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Approve
// ---------------------------------------------------------------------------

func TestApproveSlotlessRequestWithSuppliedSlot(t *testing.T) {
	f := newAppointmentFixture()
	appt := f.seedAppointment(entity.AppointmentStatusRequested, nil)

	resp, err := f.usecase.Approve(context.Background(), f.doctorActor(), appt.ID, &dto.ApproveAppointmentRequest{
		ScheduledAt: mondaySlot,
	})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	if resp.Status != string(entity.AppointmentStatusApproved) {
		t.Errorf("status = %s, want approved", resp.Status)
	}
	want := mustParseSlot(t, mondaySlot)
	if resp.ScheduledAt == nil || !resp.ScheduledAt.Equal(want) {
		t.Errorf("scheduled_at = %v, want %s", resp.ScheduledAt, want)
	}

	if len(f.sink.intents) != 1 {
		t.Fatalf("expected 1 event intent, got %d", len(f.sink.intents))
	}
	intent := f.sink.intents[0]
	if intent.Kind != entity.IntentAppointmentApproved {
		t.Errorf("intent kind = %s, want %s", intent.Kind, entity.IntentAppointmentApproved)
	}
	// The doctor acted, so the patient is notified.
	if intent.RecipientID != f.patientID {
		t.Errorf("intent recipient = %s, want patient %s", intent.RecipientID, f.patientID)
	}
}

func TestApproveWithoutSlotAnywhere(t *testing.T) {
	f := newAppointmentFixture()
	appt := f.seedAppointment(entity.AppointmentStatusRequested, nil)

	_, err := f.usecase.Approve(context.Background(), f.doctorActor(), appt.ID, &dto.ApproveAppointmentRequest{})
	if !errors.Is(err, ErrSlotRequired) {
		t.Errorf("err = %v, want ErrSlotRequired", err)
	}
}

func TestApproveOwnSlotIsNotAConflict(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	appt := f.seedAppointment(entity.AppointmentStatusRequested, &at)

	resp, err := f.usecase.Approve(context.Background(), f.doctorActor(), appt.ID, &dto.ApproveAppointmentRequest{})
	if err != nil {
		t.Fatalf("approving a request at its own slot must not conflict: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusApproved) {
		t.Errorf("status = %s, want approved", resp.Status)
	}
}

func TestApproveTakenSlotConflicts(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	f.seedAppointment(entity.AppointmentStatusApproved, &at)
	appt := f.seedAppointment(entity.AppointmentStatusRequested, nil)

	_, err := f.usecase.Approve(context.Background(), f.doctorActor(), appt.ID, &dto.ApproveAppointmentRequest{
		ScheduledAt: mondaySlot,
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Errorf("err = %v, want ErrSlotConflict", err)
	}
}

func TestApproveByPatientForbidden(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	appt := f.seedAppointment(entity.AppointmentStatusRequested, &at)

	_, err := f.usecase.Approve(context.Background(), f.patientActor(), appt.ID, &dto.ApproveAppointmentRequest{})
	if !errors.Is(err, ErrActorNotAllowed) {
		t.Errorf("err = %v, want ErrActorNotAllowed", err)
	}
}

func TestApproveByOtherDoctorForbidden(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	appt := f.seedAppointment(entity.AppointmentStatusRequested, &at)

	other := entity.Actor{ID: uuid.New(), Role: entity.RoleDoctor}
	_, err := f.usecase.Approve(context.Background(), other, appt.ID, &dto.ApproveAppointmentRequest{})
	if !errors.Is(err, ErrAppointmentNotOwned) {
		t.Errorf("err = %v, want ErrAppointmentNotOwned", err)
	}
}

func TestApproveLostRaceOnStatus(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	appt := f.seedAppointment(entity.AppointmentStatusRequested, &at)
	f.apptRepo.forceZeroRows = true

	_, err := f.usecase.Approve(context.Background(), f.doctorActor(), appt.ID, &dto.ApproveAppointmentRequest{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestApproveLostRaceOnSlotIndex(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	appt := f.seedAppointment(entity.AppointmentStatusRequested, &at)
	f.apptRepo.updateErr = &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "appointments_doctor_slot_active",
	}

	_, err := f.usecase.Approve(context.Background(), f.doctorActor(), appt.ID, &dto.ApproveAppointmentRequest{})
	if !errors.Is(err, ErrSlotConflict) {
		t.Errorf("err = %v, want ErrSlotConflict", err)
	}
}

func TestApproveTerminalAppointment(t *testing.T) {
	f := newAppointmentFixture()
	appt := f.seedAppointment(entity.AppointmentStatusCancelled, nil)

	_, err := f.usecase.Approve(context.Background(), f.doctorActor(), appt.ID, &dto.ApproveAppointmentRequest{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

// ---------------------------------------------------------------------------
// Reject
// ---------------------------------------------------------------------------

func TestRejectRequiresReason(t *testing.T) {
	f := newAppointmentFixture()
	appt := f.seedAppointment(entity.AppointmentStatusRequested, nil)

	for _, reason := range []string{"", "   "} {
		_, err := f.usecase.Reject(context.Background(), f.doctorActor(), appt.ID, &dto.RejectAppointmentRequest{Reason: reason})
		if !errors.Is(err, ErrRejectionReasonRequired) {
			t.Errorf("reason %q: err = %v, want ErrRejectionReasonRequired", reason, err)
		}
	}
}

func TestRejectRecordsReason(t *testing.T) {
	f := newAppointmentFixture()
	appt := f.seedAppointment(entity.AppointmentStatusRequested, nil)

	resp, err := f.usecase.Reject(context.Background(), f.doctorActor(), appt.ID, &dto.RejectAppointmentRequest{
		Reason: "  fully booked that week  ",
	})
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusRejected) {
		t.Errorf("status = %s, want rejected", resp.Status)
	}
	if resp.RejectionReason != "fully booked that week" {
		t.Errorf("rejection_reason = %q, want trimmed reason", resp.RejectionReason)
	}
}

// ---------------------------------------------------------------------------
// Reschedule
// ---------------------------------------------------------------------------

func TestRescheduleMovesRequestedSlot(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	appt := f.seedAppointment(entity.AppointmentStatusRequested, &at)

	resp, err := f.usecase.Reschedule(context.Background(), staffActor(), appt.ID, &dto.RescheduleAppointmentRequest{
		ScheduledAt: "2026-03-03 10:00",
	})
	if err != nil {
		t.Fatalf("Reschedule failed: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusRescheduled) {
		t.Errorf("status = %s, want rescheduled", resp.Status)
	}
	want := mustParseSlot(t, "2026-03-03 10:00")
	if resp.ScheduledAt == nil || !resp.ScheduledAt.Equal(want) {
		t.Errorf("scheduled_at = %v, want %s", resp.ScheduledAt, want)
	}
}

func TestRescheduleApprovedIsIllegal(t *testing.T) {
	f := newAppointmentFixture()
	at := mustParseSlot(t, mondaySlot)
	appt := f.seedAppointment(entity.AppointmentStatusApproved, &at)

	_, err := f.usecase.Reschedule(context.Background(), staffActor(), appt.ID, &dto.RescheduleAppointmentRequest{
		ScheduledAt: "2026-03-03 10:00",
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

// ---------------------------------------------------------------------------
// Complete
// ---------------------------------------------------------------------------

func TestCompleteBeforeScheduledTime(t *testing.T) {
	f := newAppointmentFixture()
	future := time.Now().Add(2 * time.Hour)
	appt := f.seedAppointment(entity.AppointmentStatusApproved, &future)

	_, err := f.usecase.Complete(context.Background(), f.doctorActor(), appt.ID)
	if !errors.Is(err, ErrAppointmentNotStarted) {
		t.Errorf("err = %v, want ErrAppointmentNotStarted", err)
	}
}

func TestCompleteAfterScheduledTime(t *testing.T) {
	f := newAppointmentFixture()
	past := time.Now().Add(-2 * time.Hour)
	appt := f.seedAppointment(entity.AppointmentStatusApproved, &past)

	resp, err := f.usecase.Complete(context.Background(), f.doctorActor(), appt.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusCompleted) {
		t.Errorf("status = %s, want completed", resp.Status)
	}
}

func TestCompleteByStaffForbidden(t *testing.T) {
	f := newAppointmentFixture()
	past := time.Now().Add(-2 * time.Hour)
	appt := f.seedAppointment(entity.AppointmentStatusApproved, &past)

	_, err := f.usecase.Complete(context.Background(), staffActor(), appt.ID)
	if !errors.Is(err, ErrActorNotAllowed) {
		t.Errorf("err = %v, want ErrActorNotAllowed", err)
	}
}

// ---------------------------------------------------------------------------
// Cancel
// ---------------------------------------------------------------------------

func TestCancelByEachParty(t *testing.T) {
	at := mustParseSlot(t, mondaySlot)

	cases := []struct {
		name  string
		actor func(*appointmentFixture) entity.Actor
	}{
		{"patient", func(f *appointmentFixture) entity.Actor { return f.patientActor() }},
		{"doctor", func(f *appointmentFixture) entity.Actor { return f.doctorActor() }},
		{"staff", func(f *appointmentFixture) entity.Actor { return staffActor() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAppointmentFixture()
			appt := f.seedAppointment(entity.AppointmentStatusApproved, &at)

			resp, err := f.usecase.Cancel(context.Background(), tc.actor(f), appt.ID)
			if err != nil {
				t.Fatalf("Cancel as %s failed: %v", tc.name, err)
			}
			if resp.Status != string(entity.AppointmentStatusCancelled) {
				t.Errorf("status = %s, want cancelled", resp.Status)
			}
		})
	}
}

func TestCancelTerminalIsIllegal(t *testing.T) {
	f := newAppointmentFixture()
	appt := f.seedAppointment(entity.AppointmentStatusCompleted, nil)

	_, err := f.usecase.Cancel(context.Background(), staffActor(), appt.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newAppointmentFixture()

	_, err := f.usecase.Cancel(context.Background(), staffActor(), uuid.New())
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("err = %v, want ErrAppointmentNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

func TestUpdateNotesByPatientForbidden(t *testing.T) {
	f := newAppointmentFixture()
	appt := f.seedAppointment(entity.AppointmentStatusApproved, nil)

	_, err := f.usecase.UpdateNotes(context.Background(), f.patientActor(), appt.ID, &dto.UpdateAppointmentNotesRequest{Notes: "x"})
	if !errors.Is(err, ErrActorNotAllowed) {
		t.Errorf("err = %v, want ErrActorNotAllowed", err)
	}
}

func TestUpdateNotesOnTerminalAppointment(t *testing.T) {
	f := newAppointmentFixture()
	appt := f.seedAppointment(entity.AppointmentStatusCompleted, nil)

	resp, err := f.usecase.UpdateNotes(context.Background(), f.doctorActor(), appt.ID, &dto.UpdateAppointmentNotesRequest{
		Notes: "prescribed rest, follow up in two weeks",
	})
	if err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if resp.Notes != "prescribed rest, follow up in two weeks" {
		t.Errorf("notes = %q", resp.Notes)
	}
}

// ---------------------------------------------------------------------------
// Event publishing stays non-fatal
// ---------------------------------------------------------------------------

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	f := newAppointmentFixture()
	f.sink.err = errors.New("stream unavailable")
	at := mustParseSlot(t, mondaySlot)
	appt := f.seedAppointment(entity.AppointmentStatusRequested, &at)

	resp, err := f.usecase.Approve(context.Background(), f.doctorActor(), appt.ID, &dto.ApproveAppointmentRequest{})
	if err != nil {
		t.Fatalf("a failing event sink must not fail the transition: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusApproved) {
		t.Errorf("status = %s, want approved", resp.Status)
	}
}
