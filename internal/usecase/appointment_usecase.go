package usecase

import (
	"context"
	"errors"
	"strings"
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
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotOwned     = errors.New("appointment does not belong to you")
	ErrInvalidTransition       = errors.New("transition not allowed from current status")
	ErrActorNotAllowed         = errors.New("your role cannot perform this transition")
	ErrSlotConflict            = errors.New("slot is already held by another appointment")
	ErrSlotRequired            = errors.New("a concrete slot is required before approval")
	ErrSlotNotBookable         = errors.New("slot is outside the doctor's working schedule")
	ErrInvalidSlotTime         = errors.New("invalid slot time format, use YYYY-MM-DD HH:MM")
	ErrRejectionReasonRequired = errors.New("rejection reason must not be empty")
	ErrAppointmentNotStarted   = errors.New("appointment cannot be completed before its scheduled time")
	ErrPatientIDRequired       = errors.New("patient_id is required for staff-assisted requests")
	ErrInvalidStatusFilter     = errors.New("invalid status filter")
)

// slotTimeLayout is the wall-clock layout for slot timestamps in requests.
const slotTimeLayout = "2006-01-02 15:04"

// appointmentSlotConstraint is the partial unique index enforcing one active
// appointment per doctor per slot. A 23505 on it means we lost a race.
const appointmentSlotConstraint = "appointments_doctor_slot_active"

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, req *dto.ListAppointmentsRequest) (*dto.AppointmentListResponse, error)
	ListMyAppointments(ctx context.Context, actor entity.Actor, upcoming bool) (*dto.AppointmentListResponse, error)

	Approve(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.ApproveAppointmentRequest) (*dto.AppointmentResponse, error)
	Reject(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RejectAppointmentRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)

	UpdateNotes(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentNotesRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	log                *logrus.Logger
	appointmentRepo    repository.AppointmentRepository
	scheduleConfigRepo repository.ScheduleConfigRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	guard              *ScheduleConflictGuard
	sink               service.EventSink
	auditService       service.AuditService
	cache              *service.AvailabilityCache
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	scheduleConfigRepo repository.ScheduleConfigRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	guard *ScheduleConflictGuard,
	sink service.EventSink,
	auditService service.AuditService,
	cache *service.AvailabilityCache,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:                log,
		appointmentRepo:    appointmentRepo,
		scheduleConfigRepo: scheduleConfigRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		guard:              guard,
		sink:               sink,
		auditService:       auditService,
		cache:              cache,
	}
}

// CreateAppointment registers a new appointment request.
//
// Flow:
//  1. Resolve the patient (patients always book for themselves)
//  2. Verify doctor and patient exist
//  3. If a slot was supplied, validate it against the doctor's working
//     schedule and check for conflicts
//  4. Insert with status "requested"
//  5. Emit the requested event and audit entry
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID := req.PatientID
	if actor.Role == entity.RolePatient {
		patientID = actor.ID
	}
	if patientID == uuid.Nil {
		return nil, ErrPatientIDRequired
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	patient, err := u.patientProfileRepo.FindByUserID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointment := &entity.Appointment{
		ClinicID:  req.ClinicID,
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		Status:    entity.AppointmentStatusRequested,
		Notes:     req.Notes,
		CreatedBy: actor.Role,
	}

	if req.ScheduledAt != "" {
		at, err := time.Parse(slotTimeLayout, req.ScheduledAt)
		if err != nil {
			return nil, ErrInvalidSlotTime
		}
		cfg, err := u.validateSlot(ctx, req.DoctorID, at)
		if err != nil {
			return nil, err
		}
		if err := u.guard.Check(ctx, req.DoctorID, at, uuid.Nil); err != nil {
			return nil, err
		}
		appointment.ScheduledAt = &at
		appointment.DurationMinutes = cfg.SlotDurationMinutes
	} else if cfg, err := u.scheduleConfigRepo.FindByDoctorID(ctx, req.DoctorID); err == nil && cfg != nil {
		// Snapshot the slot width now so later schedule edits do not
		// change the duration of an already-requested appointment.
		appointment.DurationMinutes = cfg.SlotDurationMinutes
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		if isDuplicateKeyError(err, appointmentSlotConstraint) {
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, &actor.ID, entity.AuditActionAppointmentCreate, "appointments", appointment.ID.String(), appointment)
	u.dispatch(ctx, actor, appointment, entity.IntentAppointmentRequested, nil)

	u.log.Infof("Appointment requested: id=%s, doctor=%s, patient=%s", appointment.ID, appointment.DoctorID, appointment.PatientID)
	return u.respond(ctx, appointment)
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, appointment); err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// ListAppointments is the staff-facing list with full filtering.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, req *dto.ListAppointmentsRequest) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		CreatedBy: req.CreatedBy,
		Upcoming:  req.Upcoming,
	}

	if req.Status != "" {
		status := entity.AppointmentStatus(req.Status)
		if !entity.IsValidStatus(status) {
			return nil, ErrInvalidStatusFilter
		}
		filter.Status = status
	}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, ErrInvalidDate
		}
		// Inclusive end of day.
		end := to.Add(24 * time.Hour)
		filter.DateTo = &end
	}

	appointments, err := u.appointmentRepo.List(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// ListMyAppointments returns the calling actor's own appointments, scoped by
// role: patients see appointments they are booked on, doctors see their
// own calendar.
func (u *appointmentUsecase) ListMyAppointments(ctx context.Context, actor entity.Actor, upcoming bool) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{Upcoming: upcoming}
	switch actor.Role {
	case entity.RoleDoctor:
		filter.DoctorID = &actor.ID
	default:
		filter.PatientID = &actor.ID
	}

	appointments, err := u.appointmentRepo.List(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s: %+v", actor.ID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// Approve confirms a requested appointment. When the request carried no slot,
// the approver must supply one here.
func (u *appointmentUsecase) Approve(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.ApproveAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.loadForTransition(ctx, actor, id, entity.EventApprove)
	if err != nil {
		return nil, err
	}

	oldAt := appointment.ScheduledAt
	if req.ScheduledAt != "" {
		at, err := time.Parse(slotTimeLayout, req.ScheduledAt)
		if err != nil {
			return nil, ErrInvalidSlotTime
		}
		cfg, err := u.validateSlot(ctx, appointment.DoctorID, at)
		if err != nil {
			return nil, err
		}
		appointment.ScheduledAt = &at
		appointment.DurationMinutes = cfg.SlotDurationMinutes
	}
	if appointment.ScheduledAt == nil {
		return nil, ErrSlotRequired
	}

	// The appointment's own slot is excluded, so approving a request that
	// already holds its slot does not conflict with itself.
	if err := u.guard.Check(ctx, appointment.DoctorID, *appointment.ScheduledAt, appointment.ID); err != nil {
		return nil, err
	}

	return u.commitTransition(ctx, actor, appointment, entity.AppointmentStatusRequested, entity.AppointmentStatusApproved,
		entity.AuditActionAppointmentApprove, entity.IntentAppointmentApproved, oldAt)
}

// Reject declines a requested appointment. A non-empty reason is mandatory
// and is recorded on the appointment.
func (u *appointmentUsecase) Reject(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RejectAppointmentRequest) (*dto.AppointmentResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}

	appointment, err := u.loadForTransition(ctx, actor, id, entity.EventReject)
	if err != nil {
		return nil, err
	}

	appointment.RejectionReason = reason
	return u.commitTransition(ctx, actor, appointment, entity.AppointmentStatusRequested, entity.AppointmentStatusRejected,
		entity.AuditActionAppointmentReject, entity.IntentAppointmentRejected, appointment.ScheduledAt)
}

// Reschedule moves a still-requested appointment to a new slot. Once an
// appointment is approved it can no longer be rescheduled, only cancelled
// and re-requested.
func (u *appointmentUsecase) Reschedule(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	at, err := time.Parse(slotTimeLayout, req.ScheduledAt)
	if err != nil {
		return nil, ErrInvalidSlotTime
	}

	appointment, err := u.loadForTransition(ctx, actor, id, entity.EventReschedule)
	if err != nil {
		return nil, err
	}

	cfg, err := u.validateSlot(ctx, appointment.DoctorID, at)
	if err != nil {
		return nil, err
	}
	if err := u.guard.Check(ctx, appointment.DoctorID, at, appointment.ID); err != nil {
		return nil, err
	}

	oldAt := appointment.ScheduledAt
	appointment.ScheduledAt = &at
	appointment.DurationMinutes = cfg.SlotDurationMinutes

	return u.commitTransition(ctx, actor, appointment, entity.AppointmentStatusRequested, entity.AppointmentStatusRescheduled,
		entity.AuditActionAppointmentReschedule, entity.IntentAppointmentRescheduled, oldAt)
}

// Complete marks a confirmed appointment as carried out. Only the owning
// doctor may complete, and never before the scheduled time.
func (u *appointmentUsecase) Complete(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.loadForTransition(ctx, actor, id, entity.EventComplete)
	if err != nil {
		return nil, err
	}

	if appointment.ScheduledAt == nil {
		return nil, ErrSlotRequired
	}
	if time.Now().Before(*appointment.ScheduledAt) {
		return nil, ErrAppointmentNotStarted
	}

	return u.commitTransition(ctx, actor, appointment, appointment.Status, entity.AppointmentStatusCompleted,
		entity.AuditActionAppointmentComplete, entity.IntentAppointmentCompleted, nil)
}

// Cancel withdraws an active appointment. Patients and doctors may cancel
// their own appointments, staff may cancel any.
func (u *appointmentUsecase) Cancel(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.loadForTransition(ctx, actor, id, entity.EventCancel)
	if err != nil {
		return nil, err
	}

	return u.commitTransition(ctx, actor, appointment, appointment.Status, entity.AppointmentStatusCancelled,
		entity.AuditActionAppointmentCancel, entity.IntentAppointmentCancelled, appointment.ScheduledAt)
}

// UpdateNotes replaces the clinical notes on an appointment. Notes are
// editable in any status, including terminal ones, but never by patients.
func (u *appointmentUsecase) UpdateNotes(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentNotesRequest) (*dto.AppointmentResponse, error) {
	if actor.Role == entity.RolePatient {
		return nil, ErrActorNotAllowed
	}

	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == entity.RoleDoctor && appointment.DoctorID != actor.ID {
		return nil, ErrAppointmentNotOwned
	}

	rows, err := u.appointmentRepo.UpdateNotes(ctx, id, req.Notes)
	if err != nil {
		u.log.Warnf("Failed to update notes for appointment %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAppointmentNotFound
	}

	u.auditService.LogUpdate(ctx, &actor.ID, entity.AuditActionAppointmentNotesUpdate, "appointments", id.String(),
		map[string]any{"notes": appointment.Notes},
		map[string]any{"notes": req.Notes})

	appointment.Notes = req.Notes
	return converter.AppointmentToResponse(appointment), nil
}

// findAppointment loads by id, mapping absence to ErrAppointmentNotFound.
func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// loadForTransition loads the appointment and checks, in order, that the
// lifecycle edge exists from the current status, that the actor's role may
// take it, and that the actor owns the appointment.
func (u *appointmentUsecase) loadForTransition(ctx context.Context, actor entity.Actor, id uuid.UUID, event entity.AppointmentEvent) (*entity.Appointment, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := entity.NextStatus(appointment.Status, event); !ok {
		return nil, ErrInvalidTransition
	}
	if !entity.EventAllowedFor(appointment.Status, event, actor.Role) {
		return nil, ErrActorNotAllowed
	}
	if err := checkOwnership(actor, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// commitTransition performs the compare-and-set status write plus the shared
// side effects: audit entry, event intent, availability cache invalidation.
func (u *appointmentUsecase) commitTransition(
	ctx context.Context,
	actor entity.Actor,
	appointment *entity.Appointment,
	from, to entity.AppointmentStatus,
	auditAction string,
	intentKind string,
	oldAt *time.Time,
) (*dto.AppointmentResponse, error) {
	appointment.Status = to

	rows, err := u.appointmentRepo.UpdateFrom(ctx, appointment, from)
	if err != nil {
		if isDuplicateKeyError(err, appointmentSlotConstraint) {
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to transition appointment %s to %s: %+v", appointment.ID, to, err)
		return nil, err
	}
	if rows == 0 {
		// The row moved out of `from` under us; treat it like any other
		// illegal edge.
		return nil, ErrInvalidTransition
	}

	u.auditService.LogUpdate(ctx, &actor.ID, auditAction, "appointments", appointment.ID.String(),
		map[string]any{"status": from},
		map[string]any{"status": to, "scheduled_at": appointment.ScheduledAt})
	u.dispatch(ctx, actor, appointment, intentKind, oldAt)

	u.log.Infof("Appointment %s: %s -> %s by %s (%s)", appointment.ID, from, to, actor.ID, actor.Role)
	return u.respond(ctx, appointment)
}

// dispatch publishes the event intent for a transition and drops the
// availability cache for every day whose slot picture changed. Publish
// failure is logged, never returned: the state change already committed.
func (u *appointmentUsecase) dispatch(ctx context.Context, actor entity.Actor, appointment *entity.Appointment, kind string, oldAt *time.Time) {
	recipient := appointment.PatientID
	if actor.Role == entity.RolePatient {
		recipient = appointment.DoctorID
	}

	intents := []entity.EventIntent{entity.NewEventIntent(kind, appointment, recipient)}
	if err := u.sink.Publish(ctx, intents); err != nil {
		u.log.Warnf("Failed to publish event intents for appointment %s (non-fatal): %+v", appointment.ID, err)
	}

	if u.cache == nil {
		return
	}
	if appointment.ScheduledAt != nil {
		u.cache.Invalidate(ctx, appointment.DoctorID, *appointment.ScheduledAt)
	}
	if oldAt != nil && (appointment.ScheduledAt == nil || !sameDay(*oldAt, *appointment.ScheduledAt)) {
		u.cache.Invalidate(ctx, appointment.DoctorID, *oldAt)
	}
}

// respond reloads the appointment with its doctor and patient relations for
// the response, falling back to the bare entity if the reload fails.
func (u *appointmentUsecase) respond(ctx context.Context, appointment *entity.Appointment) (*dto.AppointmentResponse, error) {
	full, err := u.appointmentRepo.FindByID(ctx, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(full), nil
}

// validateSlot checks that a timestamp is the exact start of one of the
// doctor's working-day slots.
func (u *appointmentUsecase) validateSlot(ctx context.Context, doctorID uuid.UUID, at time.Time) (*entity.ScheduleConfig, error) {
	cfg, err := u.scheduleConfigRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule config for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if cfg == nil || !cfg.WorksOn(at.Weekday()) {
		return nil, ErrSlotNotBookable
	}

	windows, err := cfg.Windows(at)
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		if w.Start.Equal(at) {
			return cfg, nil
		}
	}
	return nil, ErrSlotNotBookable
}

// checkOwnership restricts doctors and patients to appointments they are a
// party to. Staff may act on any appointment.
func checkOwnership(actor entity.Actor, appointment *entity.Appointment) error {
	switch actor.Role {
	case entity.RoleDoctor:
		if appointment.DoctorID != actor.ID {
			return ErrAppointmentNotOwned
		}
	case entity.RolePatient:
		if appointment.PatientID != actor.ID {
			return ErrAppointmentNotOwned
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
