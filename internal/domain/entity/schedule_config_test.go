package entity

import (
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("monday")
	if !ok || d != time.Monday {
		t.Fatalf("ParseWeekday(monday) = %v, %v", d, ok)
	}
	if _, ok := ParseWeekday("Monday"); ok {
		t.Error("ParseWeekday should only accept lowercase names")
	}
	if _, ok := ParseWeekday("someday"); ok {
		t.Error("ParseWeekday accepted an unknown name")
	}
}

func TestWorksOn(t *testing.T) {
	cfg := ScheduleConfig{AvailableDays: []string{"monday", "wednesday", "friday"}}

	if !cfg.WorksOn(time.Monday) {
		t.Error("expected doctor to work on Monday")
	}
	if cfg.WorksOn(time.Tuesday) {
		t.Error("expected doctor not to work on Tuesday")
	}
	if cfg.WorksOn(time.Sunday) {
		t.Error("expected doctor not to work on Sunday")
	}
}

func TestWindows(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

	tests := []struct {
		name     string
		start    string
		end      string
		duration int
		want     []string
	}{
		{
			name:  "even partition",
			start: "09:00", end: "11:00", duration: 30,
			want: []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:  "trailing partial slot dropped",
			start: "09:00", end: "10:45", duration: 30,
			want: []string{"09:00", "09:30", "10:00"},
		},
		{
			name:  "window narrower than one slot",
			start: "09:00", end: "09:20", duration: 30,
			want: nil,
		},
		{
			name:  "single slot fills window",
			start: "09:00", end: "09:30", duration: 30,
			want: []string{"09:00"},
		},
		{
			name:  "zero duration yields nothing",
			start: "09:00", end: "17:00", duration: 0,
			want: nil,
		},
		{
			name:  "end before start yields nothing",
			start: "17:00", end: "09:00", duration: 30,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ScheduleConfig{
				StartTime:           tt.start,
				EndTime:             tt.end,
				SlotDurationMinutes: tt.duration,
			}
			slots, err := cfg.Windows(date)
			if err != nil {
				t.Fatalf("Windows returned error: %v", err)
			}
			if len(slots) != len(tt.want) {
				t.Fatalf("got %d slots, want %d", len(slots), len(tt.want))
			}
			for i, s := range slots {
				if got := s.Start.Format("15:04"); got != tt.want[i] {
					t.Errorf("slot %d start = %s, want %s", i, got, tt.want[i])
				}
				wantEnd := s.Start.Add(time.Duration(tt.duration) * time.Minute)
				if !s.End.Equal(wantEnd) {
					t.Errorf("slot %d end = %s, want %s", i, s.End, wantEnd)
				}
			}
		})
	}
}

func TestWindowsCarriesDate(t *testing.T) {
	cfg := ScheduleConfig{StartTime: "08:00", EndTime: "09:00", SlotDurationMinutes: 60}
	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	slots, err := cfg.Windows(date)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 {
		t.Fatalf("got %d slots, want 1", len(slots))
	}
	want := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)
	if !slots[0].Start.Equal(want) {
		t.Errorf("slot start = %s, want %s", slots[0].Start, want)
	}
}
