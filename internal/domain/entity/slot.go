package entity

import "time"

// Slot is a discrete bookable time window of fixed duration, derived from a
// doctor's ScheduleConfig. Slots are compared by exact start time; partial or
// overlapping occupancy is not modeled.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
