package models

import "time"

// SpecialCondition is a constraint attached to an individual entity
// (teacher, student, course, or room) that the fitness evaluator and
// conflict detector both enforce.
type SpecialCondition struct {
	ID            string            `db:"id" json:"id"`
	TargetKind    ConditionTarget   `db:"target_kind" json:"target_kind"`
	TargetID      string            `db:"target_id" json:"target_id"`
	ConditionType ConditionType     `db:"condition_type" json:"condition_type"`
	Severity      ConditionSeverity `db:"severity" json:"severity"`
	DayOfWeek     *int              `db:"day_of_week" json:"day_of_week,omitempty"`
	StartTime     *string           `db:"start_time" json:"start_time,omitempty"`
	EndTime       *string           `db:"end_time" json:"end_time,omitempty"`
	PenaltyWeight float64           `db:"penalty_weight" json:"penalty_weight"`
	PairingRef    *string           `db:"pairing_ref" json:"pairing_ref,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
}

// IsHard reports whether this condition contributes to H rather than S.
func (c *SpecialCondition) IsHard() bool {
	return c.Severity == SeverityHard
}

// Covers reports whether the condition's time window contains the given
// (day, start, end) interval. A condition with no time window covers
// everything for its target (e.g. NO_FIRST_PERIOD is evaluated structurally,
// not via this helper).
func (c *SpecialCondition) Covers(dayOfWeek int, startTime, endTime string) bool {
	if c.DayOfWeek != nil && *c.DayOfWeek != dayOfWeek {
		return false
	}
	if c.StartTime == nil || c.EndTime == nil {
		return true
	}
	return startTime < *c.EndTime && *c.StartTime < endTime
}
