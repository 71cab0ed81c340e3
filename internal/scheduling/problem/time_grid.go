package problem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/schedulecore/masterschedule/internal/models"
)

// GridCell is one bookable period on one weekday in the canonical
// time-slot grid (spec §4.1 step 2).
type GridCell struct {
	DayOfWeek    int
	StartTime    string
	EndTime      string
	PeriodNumber int
	IsLunch      bool
}

// weekdays is the default Mon-Fri replication; block/rotating variants
// alternate which weekdays a given period is offered on.
var weekdays = []int{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}

// buildGrid generates the canonical weekly time-slot grid: periods of
// periodMinutes separated by passingMinutes, starting at firstPeriodStart,
// stopping at or before schoolEnd, with a lunch block inserted at
// lunchStart for lunchMinutes when enabled. Block/rotating schedule types
// alternate periods across odd/even days by halving the per-day period
// count and interleaving which half appears on which weekday parity.
func buildGrid(scheduleType models.ScheduleType, firstPeriodStart, schoolEnd string, periodMinutes, passingMinutes int, lunchEnabled bool, lunchStart string, lunchMinutes int) ([]GridCell, error) {
	if err := validateTimeOrder(firstPeriodStart, schoolEnd); err != nil {
		return nil, err
	}
	if periodMinutes < 5 {
		return nil, fmt.Errorf("period_duration must be >= 5 minutes")
	}

	basePeriods, err := buildDayPeriods(firstPeriodStart, schoolEnd, periodMinutes, passingMinutes, lunchEnabled, lunchStart, lunchMinutes)
	if err != nil {
		return nil, err
	}

	var grid []GridCell
	switch scheduleType {
	case models.ScheduleTypeBlock, models.ScheduleTypeRotating:
		for _, day := range weekdays {
			parity := day % 2
			for i, p := range basePeriods {
				if i%2 != parity {
					continue
				}
				grid = append(grid, GridCell{DayOfWeek: day, StartTime: p.StartTime, EndTime: p.EndTime, PeriodNumber: p.PeriodNumber, IsLunch: p.IsLunch})
			}
		}
	default:
		for _, day := range weekdays {
			for _, p := range basePeriods {
				grid = append(grid, GridCell{DayOfWeek: day, StartTime: p.StartTime, EndTime: p.EndTime, PeriodNumber: p.PeriodNumber, IsLunch: p.IsLunch})
			}
		}
	}

	return grid, nil
}

// buildDayPeriods lays out one weekday's periods in chronological order,
// inserting the lunch block at the requested time if it falls within the
// school day.
func buildDayPeriods(firstPeriodStart, schoolEnd string, periodMinutes, passingMinutes int, lunchEnabled bool, lunchStart string, lunchMinutes int) ([]GridCell, error) {
	startMin, err := parseClock(firstPeriodStart)
	if err != nil {
		return nil, fmt.Errorf("first_period_start_time: %w", err)
	}
	endMin, err := parseClock(schoolEnd)
	if err != nil {
		return nil, fmt.Errorf("school_end_time: %w", err)
	}

	var lunchStartMin int
	if lunchEnabled {
		lunchStartMin, err = parseClock(lunchStart)
		if err != nil {
			return nil, fmt.Errorf("lunch_start_time: %w", err)
		}
	}

	var periods []GridCell
	period := 1
	cursor := startMin
	for cursor+periodMinutes <= endMin {
		if lunchEnabled && cursor <= lunchStartMin && lunchStartMin < cursor+periodMinutes+passingMinutes {
			periods = append(periods, GridCell{StartTime: formatClock(lunchStartMin), EndTime: formatClock(lunchStartMin + lunchMinutes), IsLunch: true})
			cursor = lunchStartMin + lunchMinutes
			continue
		}
		periods = append(periods, GridCell{StartTime: formatClock(cursor), EndTime: formatClock(cursor + periodMinutes), PeriodNumber: period})
		period++
		cursor += periodMinutes + passingMinutes
	}

	return periods, nil
}

func validateTimeOrder(start, end string) error {
	s, err := parseClock(start)
	if err != nil {
		return err
	}
	e, err := parseClock(end)
	if err != nil {
		return err
	}
	if s >= e {
		return fmt.Errorf("first_period_start_time must be before school_end_time")
	}
	return nil
}

func parseClock(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return h*60 + m, nil
}

func formatClock(totalMinutes int) string {
	h := totalMinutes / 60
	m := totalMinutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
