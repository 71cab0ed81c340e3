package dto

import (
	"time"

	"github.com/schedulecore/masterschedule/internal/models"
)

// LunchWaveConfig describes one wave the caller wants provisioned as part
// of a generation request's multi-lunch configuration.
type LunchWaveConfig struct {
	WaveOrder             int    `json:"wave_order" validate:"required,min=1"`
	StartTime             string `json:"start_time" validate:"required"`
	Duration              int    `json:"duration" validate:"required,min=5"`
	MaxCapacity           int    `json:"max_capacity" validate:"required,min=1"`
	GradeLevelRestriction *int   `json:"grade_level_restriction,omitempty"`
}

// GenerationRequest is the external-facing request schema from spec §6:
// all times are ISO-8601 local ("HH:MM"), all durations in minutes.
type GenerationRequest struct {
	ScheduleName string              `json:"schedule_name" validate:"required"`
	ScheduleType models.ScheduleType `json:"schedule_type" validate:"required"`
	StartDate    time.Time           `json:"start_date" validate:"required"`
	EndDate      time.Time           `json:"end_date" validate:"required"`

	SchoolStartTime       string `json:"school_start_time" validate:"required"`
	FirstPeriodStartTime  string `json:"first_period_start_time" validate:"required"`
	SchoolEndTime         string `json:"school_end_time" validate:"required"`
	PeriodDuration        int    `json:"period_duration" validate:"required,min=5"`
	PassingPeriodDuration int    `json:"passing_period_duration" validate:"min=0"`

	EnableLunch           bool                          `json:"enable_lunch"`
	LunchStartTime        string                        `json:"lunch_start_time"`
	LunchDuration         int                           `json:"lunch_duration"`
	EnableMultipleLunches bool                          `json:"enable_multiple_lunches"`
	LunchWaveCount        int                           `json:"lunch_wave_count"`
	LunchAssignmentMethod models.LunchAssignmentMethod  `json:"lunch_assignment_method"`
	LunchWaveConfigs      []LunchWaveConfig             `json:"lunch_wave_configs"`

	MaxConsecutiveHours     int `json:"max_consecutive_hours" validate:"min=0"`
	MaxDailyHours           int `json:"max_daily_hours" validate:"min=0"`
	OptimizationTimeSeconds int `json:"optimization_time_seconds" validate:"min=0"`

	// GA overrides; zero values fall back to pkg/config.SolverConfig defaults.
	PopulationSize  int     `json:"population_size,omitempty"`
	MaxGenerations  int     `json:"max_generations,omitempty"`
	MutationRate    float64 `json:"mutation_rate,omitempty"`
	CrossoverRate   float64 `json:"crossover_rate,omitempty"`
	EliteSize       int     `json:"elite_size,omitempty"`
	TournamentSize  int     `json:"tournament_size,omitempty"`
	StagnationLimit int     `json:"stagnation_limit,omitempty"`
	TargetFitness   *int    `json:"target_fitness,omitempty"`
	Parallel        *bool   `json:"parallel,omitempty"`
	ThreadPoolSize  int     `json:"thread_pool_size,omitempty"`
}

// AnalyzeRequest is the subset of GenerationRequest the pre-schedule
// analyzer needs — no optimization budget, since C5 never runs the GA.
type AnalyzeRequest struct {
	ScheduleType          models.ScheduleType `json:"schedule_type" validate:"required"`
	SchoolStartTime       string              `json:"school_start_time" validate:"required"`
	FirstPeriodStartTime  string              `json:"first_period_start_time" validate:"required"`
	SchoolEndTime         string              `json:"school_end_time" validate:"required"`
	PeriodDuration        int                 `json:"period_duration" validate:"required,min=5"`
	PassingPeriodDuration int                 `json:"passing_period_duration" validate:"min=0"`
	EnableLunch           bool                `json:"enable_lunch"`
	LunchStartTime        string              `json:"lunch_start_time"`
	LunchDuration         int                 `json:"lunch_duration"`
}

// HardSoftScore mirrors fitness.HardSoftScore for the wire representation,
// keeping internal/dto free of an import on internal/scheduling/fitness.
type HardSoftScore struct {
	Hard int `json:"hard"`
	Soft int `json:"soft"`
}

// OptimizationResult is the GA solver's terminal report (spec §4.5).
type OptimizationResult struct {
	Status              models.OptimizationStatus `json:"status"`
	ScheduleID          string                    `json:"schedule_id"`
	InitialFitness      HardSoftScore             `json:"initial_fitness"`
	FinalFitness        HardSoftScore             `json:"final_fitness"`
	BestFitness         HardSoftScore             `json:"best_fitness"`
	ImprovementPercent  float64                   `json:"improvement_percent"`
	GenerationsExecuted int                       `json:"generations_executed"`
	FinalConflictCount  int                       `json:"final_conflict_count"`
	RuntimeSeconds      float64                   `json:"runtime_seconds"`
	ErrorDetail         string                    `json:"error_detail,omitempty"`
}

// ConflictRecord is the wire representation of models.Conflict.
type ConflictRecord struct {
	ID                  string   `json:"id"`
	Type                string   `json:"type"`
	Severity            string   `json:"severity"`
	Category            string   `json:"category"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	SuggestedResolution string   `json:"suggested_resolution"`
	AffectedSlotIDs     []string `json:"affected_slot_ids,omitempty"`
	AffectedTeacherIDs  []string `json:"affected_teacher_ids,omitempty"`
	AffectedStudentIDs  []string `json:"affected_student_ids,omitempty"`
	AffectedRoomIDs     []string `json:"affected_room_ids,omitempty"`
	AffectedCourseIDs   []string `json:"affected_course_ids,omitempty"`
	DetectedAt          string   `json:"detected_at"`
	IsResolved          bool     `json:"is_resolved"`
	IsIgnored           bool     `json:"is_ignored"`
}

// ProgressUpdate is the payload passed to a caller-supplied ProgressReporter
// at each log_frequency generation boundary (spec §4.5).
type ProgressUpdate struct {
	Generation      int     `json:"generation"`
	MaxGenerations  int     `json:"max_generations"`
	AvgFitness      float64 `json:"avg_fitness"`
	BestFitness     int     `json:"best_fitness"`
	Conflicts       int     `json:"conflicts"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	StagnationCount int     `json:"stagnation_count"`
}
