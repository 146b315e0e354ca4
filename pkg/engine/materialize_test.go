package engine

import (
	"testing"
	"time"

	"github.com/staffrota/roster-api-go/pkg/models"
)

func TestMaterializeDefault24x7(t *testing.T) {
	pos := models.Position{
		ID: "pos-1", Name: "Security Desk", Is24x7: true,
		WeeklyPattern: allWeek(), MinStaffPerShift: 1,
	}
	snap := &Snapshot{Positions: []models.Position{pos}}

	shifts, err := MaterializeShifts("sched-1", day(2), day(2), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shifts) != 3 {
		t.Fatalf("expected 3 slots for a 24x7 day, got %d", len(shifts))
	}

	wantStarts := []int{6, 14, 22}
	for i, sh := range shifts {
		if sh.EmployeeID != nil {
			t.Errorf("slot %d should be unassigned", i)
		}
		if sh.StartTime.Hour() != wantStarts[i] {
			t.Errorf("slot %d: expected start hour %d, got %d", i, wantStarts[i], sh.StartTime.Hour())
		}
		if got := sh.DurationHours(); got != 8.0 {
			t.Errorf("slot %d: expected 8 hours, got %f", i, got)
		}
	}

	// Night rotation ends 06:00 the next day.
	night := shifts[2]
	if night.EndTime.Day() != night.StartTime.Day()+1 {
		t.Errorf("night slot should end on the next day, got %v", night.EndTime)
	}
}

func TestMaterializeDefaultDailyHours(t *testing.T) {
	pos := models.Position{
		ID: "pos-1", Name: "Front Office",
		WeeklyPattern: weekdaysOnly(), DailyHours: 6, MinStaffPerShift: 1,
	}
	snap := &Snapshot{Positions: []models.Position{pos}}

	shifts, err := MaterializeShifts("sched-1", day(2), day(2), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(shifts))
	}
	if shifts[0].StartTime.Hour() != 8 || shifts[0].EndTime.Hour() != 14 {
		t.Errorf("expected 08:00-14:00, got %v-%v", shifts[0].StartTime, shifts[0].EndTime)
	}
}

func TestMaterializeTemplates(t *testing.T) {
	pos := models.Position{
		ID: "pos-1", Name: "Ward", WeeklyPattern: allWeek(), MinStaffPerShift: 1,
	}
	snap := &Snapshot{
		Positions: []models.Position{pos},
		Templates: []models.ShiftTemplate{
			{ID: "tpl-1", PositionID: "pos-1", DayOfWeek: 1, StartTime: "07:30", EndTime: "15:30", MinStaff: 2, IsActive: true},
			{ID: "tpl-2", PositionID: "pos-1", DayOfWeek: 1, StartTime: "22:00", EndTime: "06:00", MinStaff: 1, IsActive: true},
		},
	}

	// day(2) is a Monday (DayOfWeek 1).
	shifts, err := MaterializeShifts("sched-1", day(2), day(2), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// minStaff 2 + minStaff 1: one row per staffing need.
	if len(shifts) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(shifts))
	}

	if !shifts[0].StartTime.Equal(shifts[1].StartTime) {
		t.Errorf("the two day-template slots should share a window")
	}
	if shifts[0].StartTime.Minute() != 30 {
		t.Errorf("expected template minutes to carry, got %v", shifts[0].StartTime)
	}

	night := shifts[2]
	if night.StartTime.Hour() != 22 {
		t.Fatalf("expected night template last, got start %v", night.StartTime)
	}
	if !night.EndTime.Equal(day(3).Add(6 * time.Hour)) {
		t.Errorf("midnight-crossing template should end 06:00 next day, got %v", night.EndTime)
	}
}

func TestMaterializeSkipsUncoveredDays(t *testing.T) {
	pos := models.Position{
		ID: "pos-1", Name: "Front Office",
		WeeklyPattern: models.WeeklyPattern{Mon: true}, DailyHours: 8, MinStaffPerShift: 1,
	}
	snap := &Snapshot{Positions: []models.Position{pos}}

	// Monday through Sunday: only Monday requires coverage.
	shifts, err := MaterializeShifts("sched-1", day(2), day(8), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(shifts))
	}
	if !shifts[0].ShiftDate.Equal(day(2)) {
		t.Errorf("expected slot on Monday, got %v", shifts[0].ShiftDate)
	}
}

func TestMaterializeOrderingAndDeterminism(t *testing.T) {
	posA := models.Position{ID: "pos-a", Name: "A", WeeklyPattern: allWeek(), DailyHours: 8, MinStaffPerShift: 1}
	posB := models.Position{ID: "pos-b", Name: "B", WeeklyPattern: allWeek(), DailyHours: 8, MinStaffPerShift: 2}
	snap := &Snapshot{Positions: []models.Position{posA, posB}}

	first, err := MaterializeShifts("sched-1", day(2), day(3), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := MaterializeShifts("sched-1", day(2), day(3), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 6 || len(second) != 6 {
		t.Fatalf("expected 6 slots per run, got %d and %d", len(first), len(second))
	}

	// Date first, then position declaration order.
	wantPositions := []string{"pos-a", "pos-b", "pos-b", "pos-a", "pos-b", "pos-b"}
	for i, sh := range first {
		if sh.PositionID != wantPositions[i] {
			t.Errorf("slot %d: expected %s, got %s", i, wantPositions[i], sh.PositionID)
		}
	}

	for i := range first {
		if !first[i].StartTime.Equal(second[i].StartTime) || first[i].PositionID != second[i].PositionID {
			t.Errorf("slot %d differs between identical runs", i)
		}
	}
}

func TestMaterializeEqualTemplateTimes(t *testing.T) {
	pos := models.Position{ID: "pos-1", Name: "Ward", WeeklyPattern: allWeek(), MinStaffPerShift: 1}
	snap := &Snapshot{
		Positions: []models.Position{pos},
		Templates: []models.ShiftTemplate{
			{ID: "tpl-1", PositionID: "pos-1", DayOfWeek: 1, StartTime: "08:00", EndTime: "08:00", MinStaff: 1, IsActive: true},
		},
	}

	shifts, err := MaterializeShifts("sched-1", day(2), day(2), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(shifts))
	}
	// Equal clock times do not wrap to the next day; the window is empty.
	if !shifts[0].EndTime.Equal(shifts[0].StartTime) {
		t.Errorf("expected a zero-length same-day window, got %v-%v",
			shifts[0].StartTime, shifts[0].EndTime)
	}
}

func TestMaterializeMalformedTemplate(t *testing.T) {
	pos := models.Position{ID: "pos-1", Name: "Ward", WeeklyPattern: allWeek(), MinStaffPerShift: 1}
	snap := &Snapshot{
		Positions: []models.Position{pos},
		Templates: []models.ShiftTemplate{
			{ID: "tpl-1", PositionID: "pos-1", DayOfWeek: 1, StartTime: "26:00", EndTime: "06:00", MinStaff: 1, IsActive: true},
		},
	}

	if _, err := MaterializeShifts("sched-1", day(2), day(2), snap); err == nil {
		t.Fatal("expected an error for a malformed template clock time")
	}
}
