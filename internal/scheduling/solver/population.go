package solver

import (
	"math/rand"
	"sort"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
)

var weekdayList = []int{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}

// seedGreedy implements spec §4.5's individual-0 rule: for each unassigned
// slot, pick the first compatible teacher and room by id order, and spread
// a course's occurrences across distinct weekdays at that day's first open
// period.
func seedGreedy(p *problem.Problem) []models.ScheduleSlot {
	slots := cloneSlots(p.Slots)

	cellsByDay := make(map[int][]problem.GridCell)
	var days []int
	for _, cell := range p.Grid {
		if cell.IsLunch {
			continue
		}
		if _, ok := cellsByDay[cell.DayOfWeek]; !ok {
			days = append(days, cell.DayOfWeek)
		}
		cellsByDay[cell.DayOfWeek] = append(cellsByDay[cell.DayOfWeek], cell)
	}
	sort.Ints(days)

	occurrence := make(map[string]int)
	for i := range slots {
		courseID := slots[i].CourseID
		occ := occurrence[courseID]
		occurrence[courseID] = occ + 1

		if teachers := p.TeacherCompat[courseID]; len(teachers) > 0 {
			slots[i].TeacherID = teachers[0]
		}
		if rooms := p.RoomCompat[courseID]; len(rooms) > 0 {
			slots[i].RoomID = rooms[0]
		}
		if len(days) > 0 {
			day := days[occ%len(days)]
			if cells := cellsByDay[day]; len(cells) > 0 {
				cell := cells[0]
				slots[i].DayOfWeek = day
				slots[i].StartTime = cell.StartTime
				slots[i].EndTime = cell.EndTime
				slots[i].PeriodNumber = cell.PeriodNumber
			}
		}
		slots[i].Status = models.SlotStatusAssigned
	}
	return slots
}

// initPopulation builds the starting population: individual 0 is the
// caller-provided current assignment, or a greedy seed if none exists;
// individuals 1..P-1 are copies with 30% of slots mutated.
func initPopulation(p *problem.Problem, cfg Config, rng *rand.Rand, current []models.ScheduleSlot) []Individual {
	base := current
	if len(base) == 0 {
		base = seedGreedy(p)
	}

	size := cfg.PopulationSize
	if size < 1 {
		size = 1
	}
	population := make([]Individual, size)
	population[0] = Individual{Slots: cloneSlots(base)}
	for i := 1; i < size; i++ {
		slots := cloneSlots(base)
		mutateSlots(rng, slots, p.Grid, 0.30)
		population[i] = Individual{Slots: slots}
	}
	return population
}

func nonLunchCells(grid []problem.GridCell) []problem.GridCell {
	cells := make([]problem.GridCell, 0, len(grid))
	for _, cell := range grid {
		if !cell.IsLunch {
			cells = append(cells, cell)
		}
	}
	return cells
}

// mutateSlots applies, independently to each slot with probability rate,
// one of the three operators from spec §4.5: random day reassignment,
// random grid-cell reassignment, or a swap of (day, start, end) with
// another slot. It never touches teacher or room assignments, so every
// mutated slot remains within its course's pre-computed compatibility set.
func mutateSlots(rng *rand.Rand, slots []models.ScheduleSlot, grid []problem.GridCell, rate float64) {
	if len(slots) == 0 {
		return
	}
	cells := nonLunchCells(grid)

	for i := range slots {
		if rng.Float64() >= rate {
			continue
		}
		switch rng.Intn(3) {
		case 0:
			slots[i].DayOfWeek = weekdayList[rng.Intn(len(weekdayList))]
		case 1:
			if len(cells) == 0 {
				continue
			}
			cell := cells[rng.Intn(len(cells))]
			slots[i].DayOfWeek = cell.DayOfWeek
			slots[i].StartTime = cell.StartTime
			slots[i].EndTime = cell.EndTime
			slots[i].PeriodNumber = cell.PeriodNumber
		case 2:
			j := rng.Intn(len(slots))
			slots[i].DayOfWeek, slots[j].DayOfWeek = slots[j].DayOfWeek, slots[i].DayOfWeek
			slots[i].StartTime, slots[j].StartTime = slots[j].StartTime, slots[i].StartTime
			slots[i].EndTime, slots[j].EndTime = slots[j].EndTime, slots[i].EndTime
			slots[i].PeriodNumber, slots[j].PeriodNumber = slots[j].PeriodNumber, slots[i].PeriodNumber
		}
	}
}

// crossover implements the uniform single-point operator: with probability
// rate, clone p1 and for every slot index at or past a random crossover
// point, overwrite (day, start, end, room) with p2's values while keeping
// p1's teacher. Below rate, the offspring is a plain clone of p1.
func crossover(rng *rand.Rand, p1, p2 Individual, rate float64) Individual {
	child := cloneIndividual(p1)
	if len(child.Slots) == 0 || rng.Float64() >= rate {
		return child
	}

	point := rng.Intn(len(child.Slots))
	for i := point; i < len(child.Slots); i++ {
		child.Slots[i].DayOfWeek = p2.Slots[i].DayOfWeek
		child.Slots[i].StartTime = p2.Slots[i].StartTime
		child.Slots[i].EndTime = p2.Slots[i].EndTime
		child.Slots[i].PeriodNumber = p2.Slots[i].PeriodNumber
		child.Slots[i].RoomID = p2.Slots[i].RoomID
	}
	child.Scored = false
	return child
}

// tournamentSelect picks `size` individuals uniformly at random and
// returns a copy of the best by score.
func tournamentSelect(rng *rand.Rand, population []Individual, size int) Individual {
	if size < 1 {
		size = 1
	}
	best := population[rng.Intn(len(population))]
	for i := 1; i < size; i++ {
		candidate := population[rng.Intn(len(population))]
		if candidate.Score.Better(best.Score) {
			best = candidate
		}
	}
	return cloneIndividual(best)
}

// nextGeneration copies the top elite_size individuals unchanged, then
// fills the remainder via tournament selection, crossover and mutation.
func nextGeneration(rng *rand.Rand, p *problem.Problem, cfg Config, population []Individual) []Individual {
	ranked := make([]Individual, len(population))
	copy(ranked, population)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score.Better(ranked[j].Score) })

	size := cfg.PopulationSize
	if size < 1 {
		size = len(population)
	}
	next := make([]Individual, 0, size)

	eliteCount := cfg.EliteSize
	if eliteCount > len(ranked) {
		eliteCount = len(ranked)
	}
	for i := 0; i < eliteCount; i++ {
		next = append(next, cloneIndividual(ranked[i]))
	}

	tournamentSize := cfg.TournamentSize
	if tournamentSize < 1 {
		tournamentSize = 1
	}
	for len(next) < size {
		parent1 := tournamentSelect(rng, population, tournamentSize)
		parent2 := tournamentSelect(rng, population, tournamentSize)
		child := crossover(rng, parent1, parent2, cfg.CrossoverRate)
		mutateSlots(rng, child.Slots, p.Grid, cfg.MutationRate)
		child.Scored = false
		next = append(next, child)
	}
	return next
}
