package solver

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/schedulecore/masterschedule/internal/dto"
	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
)

// ProgressReporter is the caller-supplied sink invoked at each
// log_frequency generation boundary; Report must not block the solver for
// long, per spec §4.5.
type ProgressReporter interface {
	Report(update dto.ProgressUpdate)
}

// ProgressReporterFunc adapts a plain function to ProgressReporter.
type ProgressReporterFunc func(dto.ProgressUpdate)

// Report invokes f.
func (f ProgressReporterFunc) Report(update dto.ProgressUpdate) { f(update) }

// RunResult bundles the solver's terminal report with the best individual's
// slots (only populated when the caller should write them back) and the
// findings behind its final score, for the conflict detector to reuse.
type RunResult struct {
	Result   dto.OptimizationResult
	Slots    []models.ScheduleSlot
	Findings []fitness.Finding
}

// Run evolves a population against p until a termination condition from
// spec §4.5 fires. current is the schedule's existing assignment (may be
// empty, in which case individual 0 is greedy-seeded). Cancelling ctx is
// observed only at generation boundaries.
func Run(ctx context.Context, p *problem.Problem, cfg Config, current []models.ScheduleSlot, weights fitness.Weights, reporter ProgressReporter) RunResult {
	start := time.Now()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	population := initPopulation(p, cfg, rng, current)
	evaluateAll(p, weights, population, cfg.Parallel, cfg.ThreadPoolSize)

	initialScore := population[0].Score
	best := bestOf(population)

	status := models.StatusRunning
	generationsSinceImprovement := 0
	generationsExecuted := 0

	maxGenerations := cfg.MaxGenerations
	if maxGenerations <= 0 {
		maxGenerations = 1
	}

generationLoop:
	for gen := 0; gen < maxGenerations; gen++ {
		select {
		case <-ctx.Done():
			status = models.StatusCancelled
			break generationLoop
		default:
		}
		if cfg.MaxRuntimeSeconds > 0 && time.Since(start) >= cfg.MaxRuntime() {
			status = models.StatusTimeout
			break generationLoop
		}
		if cfg.StagnationLimit > 0 && generationsSinceImprovement >= cfg.StagnationLimit {
			status = models.StatusCompleted
			break generationLoop
		}
		if targetReached(cfg, best.Score) {
			status = models.StatusCompleted
			break generationLoop
		}

		population = nextGeneration(rng, p, cfg, population)
		evaluateAll(p, weights, population, cfg.Parallel, cfg.ThreadPoolSize)
		generationsExecuted++

		improved := false
		for i := range population {
			if population[i].Score.Better(best.Score) {
				best = cloneIndividual(population[i])
				improved = true
			}
		}
		if improved {
			generationsSinceImprovement = 0
		} else {
			generationsSinceImprovement++
		}

		if reporter != nil && cfg.LogFrequency > 0 && (gen+1)%cfg.LogFrequency == 0 {
			reporter.Report(dto.ProgressUpdate{
				Generation:      gen + 1,
				MaxGenerations:  maxGenerations,
				AvgFitness:      averageSoft(population),
				BestFitness:     best.Score.Soft,
				Conflicts:       -best.Score.Hard,
				ElapsedSeconds:  time.Since(start).Seconds(),
				StagnationCount: generationsSinceImprovement,
			})
		}
	}

	if status == models.StatusRunning {
		status = models.StatusCompleted
	}

	finalScore, findings := fitness.Evaluate(p, best.Slots, weights)

	result := dto.OptimizationResult{
		Status:              status,
		ScheduleID:          p.ScheduleID,
		InitialFitness:      dto.HardSoftScore{Hard: initialScore.Hard, Soft: initialScore.Soft},
		FinalFitness:        dto.HardSoftScore{Hard: finalScore.Hard, Soft: finalScore.Soft},
		BestFitness:         dto.HardSoftScore{Hard: best.Score.Hard, Soft: best.Score.Soft},
		ImprovementPercent:  improvementPercent(initialScore, finalScore),
		GenerationsExecuted: generationsExecuted,
		FinalConflictCount:  len(findings),
		RuntimeSeconds:      time.Since(start).Seconds(),
	}

	// The solver only writes back a partially-evolved population when the
	// run reached a terminal state with a trustworthy best individual;
	// a TIMEOUT or FAILED run leaves the caller's existing schedule alone.
	var slotsOut []models.ScheduleSlot
	if status == models.StatusCompleted || status == models.StatusCancelled {
		slotsOut = best.Slots
	}

	return RunResult{Result: result, Slots: slotsOut, Findings: findings}
}

func bestOf(population []Individual) Individual {
	best := cloneIndividual(population[0])
	for i := 1; i < len(population); i++ {
		if population[i].Score.Better(best.Score) {
			best = cloneIndividual(population[i])
		}
	}
	return best
}

func targetReached(cfg Config, score fitness.HardSoftScore) bool {
	if cfg.TargetFitness == nil {
		return false
	}
	return score.Feasible() && score.Soft >= *cfg.TargetFitness
}

func averageSoft(population []Individual) float64 {
	if len(population) == 0 {
		return 0
	}
	var sum float64
	for _, ind := range population {
		sum += float64(ind.Score.Soft)
	}
	return sum / float64(len(population))
}

func improvementPercent(initial, final fitness.HardSoftScore) float64 {
	if initial.Soft == 0 {
		if final.Soft == 0 {
			return 0
		}
		return 100
	}
	return (float64(final.Soft-initial.Soft) / math.Abs(float64(initial.Soft))) * 100
}

// evaluateAll scores every unscored individual, fanning the work out
// across a worker pool bounded by workers when parallel is set — the same
// channel-plus-waitgroup idiom pkg/jobs.Queue uses for its dispatcher,
// adapted here to a synchronous join since the GA needs every individual's
// score back before selection can run.
func evaluateAll(p *problem.Problem, weights fitness.Weights, population []Individual, parallel bool, workers int) {
	pending := make([]int, 0, len(population))
	for i := range population {
		if !population[i].Scored {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}

	if workers < 1 {
		workers = 1
	}
	if !parallel || workers == 1 || len(pending) == 1 {
		for _, i := range pending {
			scoreOne(p, weights, &population[i])
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scoreOne(p, weights, &population[i])
			}
		}()
	}
	for _, i := range pending {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func scoreOne(p *problem.Problem, weights fitness.Weights, ind *Individual) {
	score, _ := fitness.Evaluate(p, ind.Slots, weights)
	ind.Score = score
	ind.Scored = true
}
