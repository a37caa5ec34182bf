package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name  string
		from  AppointmentStatus
		event AppointmentEvent
		want  AppointmentStatus
		ok    bool
	}{
		{"approve requested", AppointmentStatusRequested, EventApprove, AppointmentStatusApproved, true},
		{"reject requested", AppointmentStatusRequested, EventReject, AppointmentStatusRejected, true},
		{"reschedule requested", AppointmentStatusRequested, EventReschedule, AppointmentStatusRescheduled, true},
		{"cancel requested", AppointmentStatusRequested, EventCancel, AppointmentStatusCancelled, true},
		{"complete approved", AppointmentStatusApproved, EventComplete, AppointmentStatusCompleted, true},
		{"cancel approved", AppointmentStatusApproved, EventCancel, AppointmentStatusCancelled, true},
		{"complete rescheduled", AppointmentStatusRescheduled, EventComplete, AppointmentStatusCompleted, true},
		{"cancel rescheduled", AppointmentStatusRescheduled, EventCancel, AppointmentStatusCancelled, true},
		{"complete requested is illegal", AppointmentStatusRequested, EventComplete, "", false},
		{"approve approved is illegal", AppointmentStatusApproved, EventApprove, "", false},
		{"reject approved is illegal", AppointmentStatusApproved, EventReject, "", false},
		{"reschedule approved is illegal", AppointmentStatusApproved, EventReschedule, "", false},
		{"cancel rejected is illegal", AppointmentStatusRejected, EventCancel, "", false},
		{"cancel completed is illegal", AppointmentStatusCompleted, EventCancel, "", false},
		{"cancel cancelled is illegal", AppointmentStatusCancelled, EventCancel, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextStatus(tt.from, tt.event)
			if ok != tt.ok {
				t.Fatalf("NextStatus(%s, %s) ok = %v, want %v", tt.from, tt.event, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("NextStatus(%s, %s) = %s, want %s", tt.from, tt.event, got, tt.want)
			}
		})
	}
}

func TestEventAllowedFor(t *testing.T) {
	tests := []struct {
		name  string
		from  AppointmentStatus
		event AppointmentEvent
		role  string
		want  bool
	}{
		{"doctor approves", AppointmentStatusRequested, EventApprove, RoleDoctor, true},
		{"staff approves", AppointmentStatusRequested, EventApprove, RoleStaff, true},
		{"patient cannot approve", AppointmentStatusRequested, EventApprove, RolePatient, false},
		{"patient cancels own request", AppointmentStatusRequested, EventCancel, RolePatient, true},
		{"patient cancels approved", AppointmentStatusApproved, EventCancel, RolePatient, true},
		{"doctor completes", AppointmentStatusApproved, EventComplete, RoleDoctor, true},
		{"staff cannot complete", AppointmentStatusApproved, EventComplete, RoleStaff, false},
		{"patient cannot complete", AppointmentStatusApproved, EventComplete, RolePatient, false},
		{"doctor completes rescheduled", AppointmentStatusRescheduled, EventComplete, RoleDoctor, true},
		{"illegal edge denies every role", AppointmentStatusCompleted, EventCancel, RoleStaff, false},
		{"unknown role denied", AppointmentStatusRequested, EventApprove, "admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EventAllowedFor(tt.from, tt.event, tt.role); got != tt.want {
				t.Errorf("EventAllowedFor(%s, %s, %s) = %v, want %v", tt.from, tt.event, tt.role, got, tt.want)
			}
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	terminal := []AppointmentStatus{
		AppointmentStatusRejected,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	}
	for _, s := range terminal {
		if !IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%s) = false, want true", s)
		}
	}

	live := []AppointmentStatus{
		AppointmentStatusRequested,
		AppointmentStatusApproved,
		AppointmentStatusRescheduled,
	}
	for _, s := range live {
		if IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%s) = true, want false", s)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	valid := []AppointmentStatus{
		AppointmentStatusRequested,
		AppointmentStatusApproved,
		AppointmentStatusRejected,
		AppointmentStatusRescheduled,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	}
	for _, s := range valid {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []AppointmentStatus{"", "pending", "APPROVED"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}

func TestAppointmentIsActive(t *testing.T) {
	for _, s := range ActiveStatuses {
		a := Appointment{Status: s}
		if !a.IsActive() {
			t.Errorf("appointment with status %s should be active", s)
		}
	}
	for _, s := range []AppointmentStatus{AppointmentStatusRejected, AppointmentStatusCompleted, AppointmentStatusCancelled} {
		a := Appointment{Status: s}
		if a.IsActive() {
			t.Errorf("appointment with status %s should not be active", s)
		}
	}
}

func TestAppointmentHasSlot(t *testing.T) {
	var a Appointment
	if a.HasSlot() {
		t.Error("slotless appointment reported a slot")
	}

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a = Appointment{ID: uuid.New(), ScheduledAt: &at}
	if !a.HasSlot() {
		t.Error("appointment with scheduled_at reported no slot")
	}
}
