package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staffrota/roster-api-go/pkg/models"
)

// Default coverage synthesized for positions without templates. A 24x7
// position gets three contiguous 8-hour windows; anything else gets a single
// window from 08:00 lasting the position's daily-hours figure.
var defaultRotations = [][2]int{{6, 14}, {14, 22}, {22, 6}}

const defaultDayStartHour = 8

// MaterializeShifts expands each position's weekly coverage pattern and
// templates into concrete unassigned shift slots for every day in
// [start, end] inclusive. A window needing N staff yields N separate slots.
// Output order is date, then position declaration order, then template order;
// identical inputs always produce the same slots in the same order.
func MaterializeShifts(scheduleID string, start, end time.Time, snap *Snapshot) ([]*models.Shift, error) {
	var shifts []*models.Shift

	first := dayStart(start)
	last := dayStart(end)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		for i := range snap.Positions {
			pos := &snap.Positions[i]
			if !pos.WeeklyPattern.On(day.Weekday()) {
				continue
			}

			templates := snap.TemplatesFor(pos.ID, day.Weekday())
			if len(templates) == 0 {
				shifts = append(shifts, defaultSlots(scheduleID, pos, day)...)
				continue
			}

			for _, tpl := range templates {
				startTime, endTime, err := templateWindow(tpl, day)
				if err != nil {
					return nil, fmt.Errorf("position %q: %w", pos.Name, err)
				}
				shifts = append(shifts,
					makeSlots(scheduleID, pos.ID, day, startTime, endTime, tpl.MinStaff)...)
			}
		}
	}

	return shifts, nil
}

func defaultSlots(scheduleID string, pos *models.Position, day time.Time) []*models.Shift {
	if pos.Is24x7 {
		var out []*models.Shift
		for _, rot := range defaultRotations {
			startTime := day.Add(time.Duration(rot[0]) * time.Hour)
			endTime := day.Add(time.Duration(rot[1]) * time.Hour)
			if rot[1] <= rot[0] {
				endTime = endTime.AddDate(0, 0, 1)
			}
			out = append(out,
				makeSlots(scheduleID, pos.ID, day, startTime, endTime, pos.MinStaffPerShift)...)
		}
		return out
	}

	startTime := day.Add(defaultDayStartHour * time.Hour)
	endTime := startTime.Add(time.Duration(pos.DailyHours * float64(time.Hour)))
	return makeSlots(scheduleID, pos.ID, day, startTime, endTime, pos.MinStaffPerShift)
}

// ValidateClockTime checks an "HH:MM" clock string.
func ValidateClockTime(s string) error {
	_, _, err := parseClock(s)
	return err
}

// templateWindow resolves a template's clock times against a concrete day.
// An end time strictly earlier than the start means the window crosses
// midnight and ends the next day; an end equal to the start yields a
// zero-length same-day window.
func templateWindow(tpl models.ShiftTemplate, day time.Time) (time.Time, time.Time, error) {
	startH, startM, err := parseClock(tpl.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endH, endM, err := parseClock(tpl.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	startTime := day.Add(time.Duration(startH)*time.Hour + time.Duration(startM)*time.Minute)
	endDay := day
	if endH < startH || (endH == startH && endM < startM) {
		endDay = day.AddDate(0, 0, 1)
	}
	endTime := endDay.Add(time.Duration(endH)*time.Hour + time.Duration(endM)*time.Minute)

	return startTime, endTime, nil
}

func makeSlots(scheduleID, positionID string, day, start, end time.Time, minStaff int) []*models.Shift {
	out := make([]*models.Shift, 0, minStaff)
	for i := 0; i < minStaff; i++ {
		out = append(out, &models.Shift{
			ID:         uuid.NewString(),
			ScheduleID: scheduleID,
			PositionID: positionID,
			EmployeeID: nil,
			ShiftDate:  day,
			StartTime:  start,
			EndTime:    end,
			Status:     models.ShiftStatusScheduled,
		})
	}
	return out
}

func parseClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("malformed clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("malformed clock time %q", s)
	}
	return h, m, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
