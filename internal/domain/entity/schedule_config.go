package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleConfig represents a doctor's working calendar: which weekdays the
// doctor takes appointments, the daily working window, and the fixed slot
// width. One row per doctor, owned and mutated by front-desk staff.
type ScheduleConfig struct {
	ID                  int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"doctor_id"`
	AvailableDays       []string  `gorm:"type:jsonb;serializer:json;not null" json:"available_days"`
	StartTime           string    `gorm:"type:time;not null" json:"start_time"`
	EndTime             string    `gorm:"type:time;not null" json:"end_time"`
	SlotDurationMinutes int       `gorm:"not null" json:"slot_duration_minutes"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (ScheduleConfig) TableName() string {
	return "schedule_configs"
}

// weekdayNames maps lowercase weekday names to time.Weekday.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves a lowercase weekday name ("monday").
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdayNames[name]
	return d, ok
}

// WorksOn reports whether the doctor takes appointments on the given weekday.
func (c *ScheduleConfig) WorksOn(day time.Weekday) bool {
	for _, name := range c.AvailableDays {
		if d, ok := weekdayNames[name]; ok && d == day {
			return true
		}
	}
	return false
}

// Windows partitions the working window [StartTime, EndTime) on the given
// calendar date into consecutive fixed-width slots. A trailing window that
// does not fit entirely before EndTime is dropped, never truncated. The
// returned slots are in ascending start order. No timezone conversion is
// performed: slots carry the wall clock of the supplied date.
func (c *ScheduleConfig) Windows(date time.Time) ([]Slot, error) {
	start, err := time.Parse("15:04", c.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("15:04", c.EndTime)
	if err != nil {
		return nil, err
	}
	if c.SlotDurationMinutes <= 0 || !end.After(start) {
		return nil, nil
	}

	width := time.Duration(c.SlotDurationMinutes) * time.Minute
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, start.Hour(), start.Minute(), 0, 0, date.Location())
	dayEnd := time.Date(y, m, d, end.Hour(), end.Minute(), 0, 0, date.Location())

	var slots []Slot
	for s := dayStart; !s.Add(width).After(dayEnd); s = s.Add(width) {
		slots = append(slots, Slot{Start: s, End: s.Add(width)})
	}
	return slots, nil
}
