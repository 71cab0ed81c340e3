// Package lunch implements the lunch-wave assigner (C7): it partitions
// students into capacity- and grade-limited waves under one of six
// caller-chosen methods, and pairs each wave with a supervising teacher.
package lunch

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/schedulecore/masterschedule/internal/models"
)

// AssignmentResult is the output of one assignment pass.
type AssignmentResult struct {
	Assignments map[string]string // studentID -> waveID
	Unassigned  []string          // students no wave accepts by grade, or MANUAL students with no usable entry
}

// Assign partitions students into waves per spec §4.6. Students present in
// locked and already carrying a LunchWaveID keep that assignment untouched
// — except under MANUAL, where an explicit entry in manual always wins
// over a locked prior assignment (Open Question: MANUAL is the one
// method that exists specifically to let an operator override a pin).
func Assign(method models.LunchAssignmentMethod, students []models.Student, waves []models.LunchWave, manual map[string]string, locked map[string]bool, rng *rand.Rand) AssignmentResult {
	remaining := make(map[string]int, len(waves))
	waveByID := make(map[string]*models.LunchWave, len(waves))
	for i := range waves {
		waveByID[waves[i].ID] = &waves[i]
		remaining[waves[i].ID] = waves[i].MaxCapacity
	}

	result := AssignmentResult{Assignments: make(map[string]string, len(students))}

	var pending []models.Student
	for _, s := range students {
		if method != models.LunchMethodManual && locked[s.ID] && s.LunchWaveID != nil {
			if wave, ok := waveByID[*s.LunchWaveID]; ok {
				result.Assignments[s.ID] = wave.ID
				remaining[wave.ID]--
				continue
			}
		}
		pending = append(pending, s)
	}

	switch method {
	case models.LunchMethodManual:
		assignManual(&result, pending, manual, waveByID, remaining, locked)
	case models.LunchMethodByGradeLevel:
		assignByGradeLevel(&result, pending, waves, remaining)
	case models.LunchMethodAlphabetical:
		assignProportional(&result, pending, waves, remaining, func(s models.Student) string { return s.FullName })
	case models.LunchMethodByStudentID:
		assignProportional(&result, pending, waves, remaining, func(s models.Student) string { return s.ID })
	case models.LunchMethodRandom:
		assignRandom(&result, pending, waves, remaining, rng)
	case models.LunchMethodBalanced:
		fallthrough
	default:
		assignBalanced(&result, pending, waves, remaining)
	}

	return result
}

// Rebalance re-runs Assign with the same locked set; locked students' prior
// waves are carried forward untouched, so rebalancing only ever moves
// students that were never pinned down.
func Rebalance(method models.LunchAssignmentMethod, students []models.Student, waves []models.LunchWave, manual map[string]string, locked map[string]bool, rng *rand.Rand) AssignmentResult {
	return Assign(method, students, waves, manual, locked, rng)
}

func assignManual(result *AssignmentResult, students []models.Student, manual map[string]string, waveByID map[string]*models.LunchWave, remaining map[string]int, locked map[string]bool) {
	for _, s := range students {
		waveID, ok := manual[s.ID]
		if !ok {
			if locked[s.ID] && s.LunchWaveID != nil {
				waveID = *s.LunchWaveID
			} else {
				result.Unassigned = append(result.Unassigned, s.ID)
				continue
			}
		}
		wave, ok := waveByID[waveID]
		if !ok || !wave.AcceptsGrade(s.GradeLevel) {
			result.Unassigned = append(result.Unassigned, s.ID)
			continue
		}
		// The target wave is explicit under MANUAL; place even over
		// capacity and let H-LUNCH-CAP report the overflow rather than
		// refusing the operator's override.
		result.Assignments[s.ID] = waveID
		remaining[waveID]--
	}
}

func assignByGradeLevel(result *AssignmentResult, students []models.Student, waves []models.LunchWave, remaining map[string]int) {
	ordered := sortedByWaveOrder(waves)
	for _, s := range students {
		placed := false
		for _, wave := range ordered {
			if wave.AcceptsGrade(s.GradeLevel) && remaining[wave.ID] > 0 {
				result.Assignments[s.ID] = wave.ID
				remaining[wave.ID]--
				placed = true
				break
			}
		}
		if !placed {
			// every eligible wave is already full; place into the first
			// eligible one anyway so H-LUNCH-CAP can report the overflow
			// instead of leaving the student unassigned.
			for _, wave := range ordered {
				if wave.AcceptsGrade(s.GradeLevel) {
					result.Assignments[s.ID] = wave.ID
					remaining[wave.ID]--
					placed = true
					break
				}
			}
		}
		if !placed {
			result.Unassigned = append(result.Unassigned, s.ID)
		}
	}
}

// assignProportional partitions students, sorted by key, into wave-order
// segments sized to each wave's remaining capacity — used by both
// ALPHABETICAL (key = full name) and BY_STUDENT_ID (key = id).
func assignProportional(result *AssignmentResult, students []models.Student, waves []models.LunchWave, remaining map[string]int, key func(models.Student) string) {
	ordered := sortedByWaveOrder(waves)
	sorted := make([]models.Student, len(students))
	copy(sorted, students)
	sort.Slice(sorted, func(i, j int) bool { return key(sorted[i]) < key(sorted[j]) })

	placed := make(map[string]bool, len(sorted))
	for _, wave := range ordered {
		quota := remaining[wave.ID]
		for _, s := range sorted {
			if quota <= 0 {
				break
			}
			if placed[s.ID] || !wave.AcceptsGrade(s.GradeLevel) {
				continue
			}
			result.Assignments[s.ID] = wave.ID
			remaining[wave.ID]--
			placed[s.ID] = true
			quota--
		}
	}
	for _, s := range sorted {
		if placed[s.ID] {
			continue
		}
		// quotas are exhausted for every eligible wave; fall back to the
		// wave with the most remaining capacity (even if already
		// negative) so the student still gets placed and H-LUNCH-CAP can
		// catch the overflow.
		waveID, ok := bestEligibleWave(waves, s.GradeLevel, remaining)
		if !ok {
			result.Unassigned = append(result.Unassigned, s.ID)
			continue
		}
		result.Assignments[s.ID] = waveID
		remaining[waveID]--
		placed[s.ID] = true
	}
}

func assignBalanced(result *AssignmentResult, students []models.Student, waves []models.LunchWave, remaining map[string]int) {
	sorted := make([]models.Student, len(students))
	copy(sorted, students)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, s := range sorted {
		// "place each into the wave with the most remaining capacity
		// eligible by grade" has no floor-at-zero clause: once every
		// eligible wave is full, the student still goes to whichever one
		// has the least overflow, and H-LUNCH-CAP reports it.
		waveID, ok := bestEligibleWave(waves, s.GradeLevel, remaining)
		if !ok {
			result.Unassigned = append(result.Unassigned, s.ID)
			continue
		}
		result.Assignments[s.ID] = waveID
		remaining[waveID]--
	}
}

// bestEligibleWave returns the grade-eligible wave with the most remaining
// capacity, even if that capacity is zero or negative (already overbooked).
// It only reports !ok when no wave accepts the student's grade at all.
func bestEligibleWave(waves []models.LunchWave, gradeLevel int, remaining map[string]int) (string, bool) {
	bestID := ""
	bestRemaining := math.MinInt
	found := false
	for _, wave := range waves {
		if !wave.AcceptsGrade(gradeLevel) {
			continue
		}
		if !found || remaining[wave.ID] > bestRemaining {
			bestRemaining = remaining[wave.ID]
			bestID = wave.ID
			found = true
		}
	}
	return bestID, found
}

func assignRandom(result *AssignmentResult, students []models.Student, waves []models.LunchWave, remaining map[string]int, rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for _, s := range students {
		var eligible []string
		for _, wave := range waves {
			if wave.AcceptsGrade(s.GradeLevel) && remaining[wave.ID] > 0 {
				eligible = append(eligible, wave.ID)
			}
		}
		if len(eligible) == 0 {
			// no wave has room left; fall back to any grade-eligible wave
			// so the student is still placed and H-LUNCH-CAP can catch
			// the overflow, instead of leaving them unassigned.
			for _, wave := range waves {
				if wave.AcceptsGrade(s.GradeLevel) {
					eligible = append(eligible, wave.ID)
				}
			}
		}
		if len(eligible) == 0 {
			result.Unassigned = append(result.Unassigned, s.ID)
			continue
		}
		waveID := eligible[rng.Intn(len(eligible))]
		result.Assignments[s.ID] = waveID
		remaining[waveID]--
	}
}

func sortedByWaveOrder(waves []models.LunchWave) []models.LunchWave {
	out := make([]models.LunchWave, len(waves))
	copy(out, waves)
	sort.Slice(out, func(i, j int) bool { return out[i].WaveOrder < out[j].WaveOrder })
	return out
}

// TeacherAssignment pairs a supervising teacher with the wave they cover.
type TeacherAssignment struct {
	TeacherID string
	WaveID    string
}

// AssignTeachers gives every wave at least one supervising teacher, drawn
// round-robin in id order from teachers not marked duty-free.
func AssignTeachers(teachers []models.Teacher, waves []models.LunchWave, dutyFree map[string]bool) []TeacherAssignment {
	var eligible []models.Teacher
	for _, t := range teachers {
		if !dutyFree[t.ID] {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	ordered := sortedByWaveOrder(waves)
	assignments := make([]TeacherAssignment, 0, len(ordered))
	for i, wave := range ordered {
		teacher := eligible[i%len(eligible)]
		assignments = append(assignments, TeacherAssignment{TeacherID: teacher.ID, WaveID: wave.ID})
	}
	return assignments
}

// AreAssignmentsValid reports the invariant from spec §4.6: every student
// placed, no wave over capacity, and every wave covered by a teacher.
func AreAssignmentsValid(students []models.Student, waves []models.LunchWave, result AssignmentResult, teacherAssignments []TeacherAssignment) bool {
	if len(result.Unassigned) > 0 {
		return false
	}

	counts := make(map[string]int, len(waves))
	for _, s := range students {
		waveID, ok := result.Assignments[s.ID]
		if !ok {
			return false
		}
		counts[waveID]++
	}
	for _, wave := range waves {
		if counts[wave.ID] > wave.MaxCapacity {
			return false
		}
	}

	coveredWaves := make(map[string]bool, len(teacherAssignments))
	for _, ta := range teacherAssignments {
		coveredWaves[ta.WaveID] = true
	}
	for _, wave := range waves {
		if !coveredWaves[wave.ID] {
			return false
		}
	}
	return true
}
