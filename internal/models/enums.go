package models

// RoomType enumerates the physical kind of a room.
type RoomType string

const (
	RoomTypeClassroom  RoomType = "classroom"
	RoomTypeLab        RoomType = "lab"
	RoomTypeScienceLab RoomType = "science_lab"
	RoomTypeGym        RoomType = "gym"
	RoomTypeAuditorium RoomType = "auditorium"
	RoomTypeLibrary    RoomType = "library"
	RoomTypeCafeteria  RoomType = "cafeteria"
	RoomTypeOffice     RoomType = "office"
)

// SchedulePeriod enumerates the academic calendar unit a schedule covers.
type SchedulePeriod string

const (
	SchedulePeriodSemester  SchedulePeriod = "semester"
	SchedulePeriodTrimester SchedulePeriod = "trimester"
	SchedulePeriodQuarter   SchedulePeriod = "quarter"
	SchedulePeriodAnnual    SchedulePeriod = "annual"
)

// ScheduleType enumerates the period-rotation pattern a schedule follows.
type ScheduleType string

const (
	ScheduleTypeTraditional ScheduleType = "traditional"
	ScheduleTypeBlock       ScheduleType = "block"
	ScheduleTypeRotating    ScheduleType = "rotating"
	ScheduleTypeModular     ScheduleType = "modular"
	ScheduleTypeTrimester   ScheduleType = "trimester"
	ScheduleTypeQuarter     ScheduleType = "quarter"
	ScheduleTypeFlexMod     ScheduleType = "flex_mod"
)

// ScheduleStatus enumerates the lifecycle state of a Schedule.
type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "draft"
	ScheduleStatusPublished ScheduleStatus = "published"
	ScheduleStatusArchived  ScheduleStatus = "archived"
)

// SlotStatus enumerates the lifecycle state of a ScheduleSlot.
type SlotStatus string

const (
	SlotStatusUnassigned SlotStatus = "unassigned"
	SlotStatusAssigned   SlotStatus = "assigned"
	SlotStatusLocked     SlotStatus = "locked"
)

// ConditionTarget enumerates the kind of entity a SpecialCondition attaches to.
type ConditionTarget string

const (
	ConditionTargetTeacher ConditionTarget = "teacher"
	ConditionTargetStudent ConditionTarget = "student"
	ConditionTargetCourse  ConditionTarget = "course"
	ConditionTargetRoom    ConditionTarget = "room"
)

// ConditionType enumerates the rule a SpecialCondition expresses.
type ConditionType string

const (
	ConditionUnavailableTime    ConditionType = "unavailable_time"
	ConditionRequiredTime       ConditionType = "required_time"
	ConditionPreferredTime      ConditionType = "preferred_time"
	ConditionAvoidTime          ConditionType = "avoid_time"
	ConditionRoomRequired       ConditionType = "room_required"
	ConditionConsecutivePeriods ConditionType = "consecutive_periods"
	ConditionPairedTeaching     ConditionType = "paired_teaching"
	ConditionNoFirstPeriod      ConditionType = "no_first_period"
	ConditionNoLastPeriod       ConditionType = "no_last_period"
)

// ConditionSeverity enumerates how strictly a SpecialCondition is enforced.
type ConditionSeverity string

const (
	SeverityHard       ConditionSeverity = "hard"
	SeverityMedium     ConditionSeverity = "medium"
	SeveritySoft       ConditionSeverity = "soft"
	SeverityPreference ConditionSeverity = "preference"
)

// ConflictSeverity enumerates the severity of a detected Conflict.
type ConflictSeverity string

const (
	ConflictSeverityLow      ConflictSeverity = "LOW"
	ConflictSeverityMedium   ConflictSeverity = "MEDIUM"
	ConflictSeverityHigh     ConflictSeverity = "HIGH"
	ConflictSeverityCritical ConflictSeverity = "CRITICAL"
)

// ConflictCategory enumerates the dimension a Conflict was detected along.
type ConflictCategory string

const (
	CategoryTime     ConflictCategory = "TIME"
	CategoryRoom     ConflictCategory = "ROOM"
	CategoryTeacher  ConflictCategory = "TEACHER"
	CategoryStudent  ConflictCategory = "STUDENT"
	CategoryCourse   ConflictCategory = "COURSE"
	CategoryResource ConflictCategory = "RESOURCE"
	CategoryPolicy   ConflictCategory = "POLICY"
)

// LunchAssignmentMethod enumerates how students are partitioned into lunch waves.
type LunchAssignmentMethod string

const (
	LunchMethodByGradeLevel LunchAssignmentMethod = "BY_GRADE_LEVEL"
	LunchMethodAlphabetical LunchAssignmentMethod = "ALPHABETICAL"
	LunchMethodBalanced     LunchAssignmentMethod = "BALANCED"
	LunchMethodRandom       LunchAssignmentMethod = "RANDOM"
	LunchMethodByStudentID  LunchAssignmentMethod = "BY_STUDENT_ID"
	LunchMethodManual       LunchAssignmentMethod = "MANUAL"
)

// OptimizationStatus enumerates the GA solver run's terminal or in-flight state.
type OptimizationStatus string

const (
	StatusPending   OptimizationStatus = "PENDING"
	StatusRunning   OptimizationStatus = "RUNNING"
	StatusCompleted OptimizationStatus = "COMPLETED"
	StatusFailed    OptimizationStatus = "FAILED"
	StatusCancelled OptimizationStatus = "CANCELLED"
	StatusTimeout   OptimizationStatus = "TIMEOUT"
	StatusPartial   OptimizationStatus = "PARTIAL"
)

// Weekday indices used by ScheduleSlot.DayOfWeek; zero-based Mon-Fri to keep
// grid generation and mutation's random-day operator in lockstep.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)
