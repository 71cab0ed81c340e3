package solver

import (
	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
)

// Individual is one candidate assignment in the population: an ordered
// slot list plus its memoized score. Crossover and mutation always produce
// a new Individual rather than mutating one in place, clearing Scored so
// the next evaluation pass recomputes it.
type Individual struct {
	Slots  []models.ScheduleSlot
	Score  fitness.HardSoftScore
	Scored bool
}

func cloneIndividual(src Individual) Individual {
	return Individual{Slots: cloneSlots(src.Slots), Score: src.Score, Scored: src.Scored}
}

func cloneSlots(src []models.ScheduleSlot) []models.ScheduleSlot {
	out := make([]models.ScheduleSlot, len(src))
	copy(out, src)
	return out
}
