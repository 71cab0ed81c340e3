// Package solver implements the GA scheduler (C6): it evolves a population
// of candidate assignments against a fitness.Evaluate score until one of
// spec §4.5's termination conditions fires, then returns the best
// individual's slots for the caller to persist.
package solver

import (
	"time"

	"github.com/schedulecore/masterschedule/pkg/config"
)

// Config is the GA's tunable parameter set. Every field except
// TargetFitness defaults from pkg/config.SolverConfig; every field except
// LogFrequency may be overridden per-request via dto.GenerationRequest
// (MaxRuntimeSeconds by the service, from OptimizationTimeSeconds).
type Config struct {
	PopulationSize    int
	MaxGenerations    int
	MutationRate      float64
	CrossoverRate     float64
	EliteSize         int
	TournamentSize    int
	MaxRuntimeSeconds int
	StagnationLimit   int
	LogFrequency      int
	Parallel          bool
	ThreadPoolSize    int
	TargetFitness     *int
}

// FromSolverConfig builds a Config from the service-wide default, applying
// zero-value overrides (the GenerationRequest convention: an unset field
// means "use the configured default").
func FromSolverConfig(base config.SolverConfig, populationSize, maxGenerations int, mutationRate, crossoverRate float64, eliteSize, tournamentSize, stagnationLimit int, targetFitness *int, parallel *bool, threadPoolSize int) Config {
	c := Config{
		PopulationSize:    base.PopulationSize,
		MaxGenerations:    base.MaxGenerations,
		MutationRate:      base.MutationRate,
		CrossoverRate:     base.CrossoverRate,
		EliteSize:         base.EliteSize,
		TournamentSize:    base.TournamentSize,
		MaxRuntimeSeconds: base.MaxRuntimeSeconds,
		StagnationLimit:   base.StagnationLimit,
		LogFrequency:      base.LogFrequency,
		Parallel:          base.Parallel,
		ThreadPoolSize:    base.ThreadPoolSize,
		TargetFitness:     targetFitness,
	}
	if populationSize > 0 {
		c.PopulationSize = populationSize
	}
	if maxGenerations > 0 {
		c.MaxGenerations = maxGenerations
	}
	if mutationRate > 0 {
		c.MutationRate = mutationRate
	}
	if crossoverRate > 0 {
		c.CrossoverRate = crossoverRate
	}
	if eliteSize > 0 {
		c.EliteSize = eliteSize
	}
	if tournamentSize > 0 {
		c.TournamentSize = tournamentSize
	}
	if stagnationLimit > 0 {
		c.StagnationLimit = stagnationLimit
	}
	if parallel != nil {
		c.Parallel = *parallel
	}
	if threadPoolSize > 0 {
		c.ThreadPoolSize = threadPoolSize
	}
	return c
}

// MaxRuntime returns the configured wall-clock cap as a Duration.
func (c Config) MaxRuntime() time.Duration {
	return time.Duration(c.MaxRuntimeSeconds) * time.Second
}
