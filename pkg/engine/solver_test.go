package engine

import (
	"errors"
	"testing"

	"github.com/staffrota/roster-api-go/pkg/models"
)

func TestAssignEightHourDayCap(t *testing.T) {
	// One 24x7 position, no templates, one eligible employee: the materializer
	// yields three 8-hour slots for the day, but the daily cap allows only one
	// of them to be assigned.
	emp := activeEmployee("emp-1", 1760, 0)
	pos := models.Position{
		ID: "pos-1", Name: "Security Desk", Is24x7: true,
		WeeklyPattern: allWeek(), MinStaffPerShift: 1,
	}
	snap := &Snapshot{
		Employees:   []models.Employee{emp},
		Positions:   []models.Position{pos},
		Eligibility: eligibleFor("pos-1", emp),
	}

	shifts, err := MaterializeShifts("sched-1", day(2), day(2), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shifts) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(shifts))
	}

	store := &fakeStore{}
	if err := NewGreedyAssigner(store, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assigned := 0
	for _, sh := range shifts {
		if sh.EmployeeID != nil {
			assigned++
		}
	}
	if assigned != 1 {
		t.Errorf("expected exactly 1 assigned slot under the 8-hour cap, got %d", assigned)
	}
	if shifts[0].EmployeeID == nil || *shifts[0].EmployeeID != "emp-1" {
		t.Errorf("expected the first chronological slot to be assigned")
	}
	if store.assignments != 1 {
		t.Errorf("expected 1 persisted assignment, got %d", store.assignments)
	}
}

func TestAssignUnavailableWindow(t *testing.T) {
	emp := activeEmployee("emp-1", 1760, 0)
	snap := &Snapshot{
		Employees:   []models.Employee{emp},
		Eligibility: eligibleFor("pos-1", emp),
		Availability: []models.AvailabilityWindow{{
			ID: "win-1", EmployeeID: "emp-1",
			StartDatetime:    day(2),
			EndDatetime:      day(3),
			AvailabilityType: models.AvailabilityUnavailable,
		}},
	}
	shifts := []*models.Shift{slot("pos-1", day(2), 8, 16)}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts[0].EmployeeID != nil {
		t.Errorf("employee with an overlapping unavailable window must never be selected")
	}
}

func TestAssignPrefersLowerHours(t *testing.T) {
	rested := activeEmployee("emp-b-rested", 1760, 0)
	loaded := activeEmployee("emp-a-loaded", 1760, 400)
	snap := &Snapshot{
		Employees:   []models.Employee{loaded, rested},
		Eligibility: eligibleFor("pos-1", loaded, rested),
	}
	shifts := []*models.Shift{slot("pos-1", day(2), 8, 16)}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts[0].EmployeeID == nil || *shifts[0].EmployeeID != "emp-b-rested" {
		t.Errorf("expected the lower-hours employee despite later ID, got %v", shifts[0].EmployeeID)
	}
}

func TestAssignTieBreakLowestID(t *testing.T) {
	a := activeEmployee("emp-a", 1760, 0)
	b := activeEmployee("emp-b", 1760, 0)
	snap := &Snapshot{
		Employees:   []models.Employee{b, a},
		Eligibility: eligibleFor("pos-1", b, a),
	}
	shifts := []*models.Shift{slot("pos-1", day(2), 8, 16)}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts[0].EmployeeID == nil || *shifts[0].EmployeeID != "emp-a" {
		t.Errorf("equal scores must resolve to the lowest employee ID, got %v", shifts[0].EmployeeID)
	}
}

func TestAssignPreferredWindowOutweighsHours(t *testing.T) {
	keen := activeEmployee("emp-keen", 1760, 40)
	fresh := activeEmployee("emp-fresh", 1760, 0)
	snap := &Snapshot{
		Employees:   []models.Employee{keen, fresh},
		Eligibility: eligibleFor("pos-1", keen, fresh),
		Availability: []models.AvailabilityWindow{{
			ID: "win-1", EmployeeID: "emp-keen",
			StartDatetime:    day(2),
			EndDatetime:      day(3),
			AvailabilityType: models.AvailabilityPreferred,
		}},
	}
	shifts := []*models.Shift{slot("pos-1", day(2), 8, 16)}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// +50 for the preferred window dwarfs the -0.4 hours handicap.
	if shifts[0].EmployeeID == nil || *shifts[0].EmployeeID != "emp-keen" {
		t.Errorf("preferred-window employee should win, got %v", shifts[0].EmployeeID)
	}
}

func TestAssignRestPeriod(t *testing.T) {
	emp := activeEmployee("emp-1", 1760, 0)
	snap := &Snapshot{
		Employees:   []models.Employee{emp},
		Eligibility: eligibleFor("pos-1", emp),
	}
	// 22:00-06:00, then 08:00-16:00 the next day: only 2 hours of rest.
	shifts := []*models.Shift{
		slot("pos-1", day(2), 22, 6),
		slot("pos-1", day(3), 8, 16),
	}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts[0].EmployeeID == nil {
		t.Fatalf("first slot should be assigned")
	}
	if shifts[1].EmployeeID != nil {
		t.Errorf("second slot violates the 11-hour rest minimum and must stay unassigned")
	}
}

func TestAssignRestPeriodExactBoundary(t *testing.T) {
	emp := activeEmployee("emp-1", 1760, 0)
	snap := &Snapshot{
		Employees:   []models.Employee{emp},
		Eligibility: eligibleFor("pos-1", emp),
	}
	// 06:00-14:00, then 01:00-09:00 the next day: exactly 11 hours of rest.
	shifts := []*models.Shift{
		slot("pos-1", day(2), 6, 14),
		slot("pos-1", day(3), 1, 9),
	}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts[1].EmployeeID == nil {
		t.Errorf("exactly 11 hours of rest satisfies the minimum")
	}
}

func TestAssignYearlyQuota(t *testing.T) {
	emp := activeEmployee("emp-1", 10, 4)
	snap := &Snapshot{
		Employees:   []models.Employee{emp},
		Eligibility: eligibleFor("pos-1", emp),
	}
	// 4 used + 8 > 10: over quota.
	shifts := []*models.Shift{slot("pos-1", day(2), 8, 16)}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts[0].EmployeeID != nil {
		t.Errorf("assignment exceeding the yearly quota must be rejected")
	}
}

func TestAssignNoEligibleEmployees(t *testing.T) {
	snap := &Snapshot{
		Employees: []models.Employee{activeEmployee("emp-1", 1760, 0)},
		// No eligibility relation for pos-1.
	}
	shifts := []*models.Shift{slot("pos-1", day(2), 8, 16)}

	store := &fakeStore{}
	if err := NewGreedyAssigner(store, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("a coverage gap is not an error: %v", err)
	}
	if shifts[0].EmployeeID != nil {
		t.Errorf("slot must pass through unassigned")
	}
	if store.assignments != 0 {
		t.Errorf("nothing should be persisted for an unfilled slot")
	}
}

func TestAssignInactiveEmployeeExcluded(t *testing.T) {
	emp := activeEmployee("emp-1", 1760, 0)
	emp.IsActive = false
	snap := &Snapshot{
		Employees:   []models.Employee{emp},
		Eligibility: eligibleFor("pos-1", emp),
	}
	shifts := []*models.Shift{slot("pos-1", day(2), 8, 16)}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts[0].EmployeeID != nil {
		t.Errorf("inactive employees are not candidates")
	}
}

func TestAssignNightRotation(t *testing.T) {
	// Two employees, two night slots on different days: the night-shift
	// penalty should rotate the second night to the other employee.
	a := activeEmployee("emp-a", 1760, 0)
	b := activeEmployee("emp-b", 1760, 0)
	snap := &Snapshot{
		Employees:   []models.Employee{a, b},
		Eligibility: eligibleFor("pos-1", a, b),
	}
	shifts := []*models.Shift{
		slot("pos-1", day(2), 22, 6),
		slot("pos-1", day(3), 22, 6),
	}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts[0].EmployeeID == nil || shifts[1].EmployeeID == nil {
		t.Fatalf("both night slots should be filled")
	}
	if *shifts[0].EmployeeID == *shifts[1].EmployeeID {
		t.Errorf("consecutive nights should rotate between employees, both went to %s", *shifts[0].EmployeeID)
	}
}

func TestAssignPersistenceFailure(t *testing.T) {
	emp := activeEmployee("emp-1", 1760, 0)
	snap := &Snapshot{
		Employees:   []models.Employee{emp},
		Eligibility: eligibleFor("pos-1", emp),
	}
	shifts := []*models.Shift{slot("pos-1", day(2), 8, 16)}

	store := &fakeStore{failOp: "assignment"}
	err := NewGreedyAssigner(store, nil).Assign(snap, shifts)
	if err == nil {
		t.Fatal("expected a persistence error")
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Errorf("expected *PersistenceError, got %T", err)
	}
}

func TestAssignChronologicalWithinPosition(t *testing.T) {
	emp := activeEmployee("emp-1", 1760, 0)
	snap := &Snapshot{
		Employees:   []models.Employee{emp},
		Eligibility: eligibleFor("pos-1", emp),
	}
	// Deliberately out of order: the solver must sort before assigning, so
	// the earliest slot wins the only assignable spot of the day.
	late := slot("pos-1", day(2), 14, 22)
	early := slot("pos-1", day(2), 6, 14)
	shifts := []*models.Shift{late, early}

	if err := NewGreedyAssigner(&fakeStore{}, nil).Assign(snap, shifts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if early.EmployeeID == nil {
		t.Errorf("chronologically first slot should be assigned")
	}
	if late.EmployeeID != nil {
		t.Errorf("later slot exceeds the daily cap and must stay unassigned")
	}
}
