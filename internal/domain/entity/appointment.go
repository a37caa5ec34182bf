package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusRequested   AppointmentStatus = "requested"
	AppointmentStatusApproved    AppointmentStatus = "approved"
	AppointmentStatusRejected    AppointmentStatus = "rejected"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
)

// AppointmentEvent represents a requested lifecycle transition
type AppointmentEvent string

const (
	EventApprove    AppointmentEvent = "approve"
	EventReject     AppointmentEvent = "reject"
	EventReschedule AppointmentEvent = "reschedule"
	EventComplete   AppointmentEvent = "complete"
	EventCancel     AppointmentEvent = "cancel"
)

// transition describes one legal edge of the lifecycle: the resulting status
// and the actor roles allowed to trigger it.
type transition struct {
	To    AppointmentStatus
	Roles []string
}

// transitionTable is the single source of truth for the appointment lifecycle.
// Statuses absent from the table (rejected, completed, cancelled) are terminal.
// Edges out of rescheduled are identical to those out of approved: a
// rescheduled appointment still holds a confirmed slot, the label only exists
// so notifications can say "moved" instead of "approved".
var transitionTable = map[AppointmentStatus]map[AppointmentEvent]transition{
	AppointmentStatusRequested: {
		EventApprove:    {To: AppointmentStatusApproved, Roles: []string{RoleDoctor, RoleStaff}},
		EventReject:     {To: AppointmentStatusRejected, Roles: []string{RoleDoctor, RoleStaff}},
		EventReschedule: {To: AppointmentStatusRescheduled, Roles: []string{RoleDoctor, RoleStaff}},
		EventCancel:     {To: AppointmentStatusCancelled, Roles: []string{RolePatient, RoleDoctor, RoleStaff}},
	},
	AppointmentStatusApproved: {
		EventComplete: {To: AppointmentStatusCompleted, Roles: []string{RoleDoctor}},
		EventCancel:   {To: AppointmentStatusCancelled, Roles: []string{RolePatient, RoleDoctor, RoleStaff}},
	},
	AppointmentStatusRescheduled: {
		EventComplete: {To: AppointmentStatusCompleted, Roles: []string{RoleDoctor}},
		EventCancel:   {To: AppointmentStatusCancelled, Roles: []string{RolePatient, RoleDoctor, RoleStaff}},
	},
}

// NextStatus returns the status the event leads to from the given status,
// or false if the edge does not exist.
func NextStatus(from AppointmentStatus, event AppointmentEvent) (AppointmentStatus, bool) {
	edges, ok := transitionTable[from]
	if !ok {
		return "", false
	}
	t, ok := edges[event]
	if !ok {
		return "", false
	}
	return t.To, true
}

// EventAllowedFor reports whether the actor role may trigger the event from
// the given status. Returns false as well when the edge itself is illegal.
func EventAllowedFor(from AppointmentStatus, event AppointmentEvent, role string) bool {
	edges, ok := transitionTable[from]
	if !ok {
		return false
	}
	t, ok := edges[event]
	if !ok {
		return false
	}
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is one of the known lifecycle statuses.
func IsValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusRequested, AppointmentStatusApproved, AppointmentStatusRejected,
		AppointmentStatusRescheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminalStatus reports whether no further transition is legal.
func IsTerminalStatus(s AppointmentStatus) bool {
	_, ok := transitionTable[s]
	return !ok
}

// ActiveStatuses are the statuses that occupy (or intend to occupy) a slot.
// Used by availability resolution and by the conflict guard.
var ActiveStatuses = []AppointmentStatus{
	AppointmentStatusRequested,
	AppointmentStatusApproved,
	AppointmentStatusRescheduled,
}

// Actor is the identity performing a transition, passed explicitly into every
// usecase call instead of being read from ambient session state.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Appointment represents a single clinic visit booking
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ScheduledAt     *time.Time        `gorm:"index" json:"scheduled_at,omitempty"`
	DurationMinutes int               `gorm:"not null;default:0" json:"duration_minutes"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'requested';index" json:"status"`
	RejectionReason string            `gorm:"type:text" json:"rejection_reason,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       string            `gorm:"type:varchar(20);not null" json:"created_by"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsTerminal reports whether the appointment admits no further transitions.
func (a *Appointment) IsTerminal() bool {
	return IsTerminalStatus(a.Status)
}

// IsActive reports whether the appointment occupies or intends to occupy a slot.
func (a *Appointment) IsActive() bool {
	for _, s := range ActiveStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// HasSlot reports whether a concrete date+time has been assigned.
func (a *Appointment) HasSlot() bool {
	return a.ScheduledAt != nil
}
