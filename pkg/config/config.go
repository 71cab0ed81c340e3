package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Solver   SolverConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig carries every GA/analyzer default named in the scheduling
// core spec so operators can retune a run without a code change.
type SolverConfig struct {
	PopulationSize     int
	MaxGenerations     int
	MutationRate       float64
	CrossoverRate      float64
	EliteSize          int
	TournamentSize     int
	MaxRuntimeSeconds  int
	StagnationLimit    int
	LogFrequency       int
	Parallel           bool
	ThreadPoolSize     int
	ProposalTTL        time.Duration
	CompatCacheEnabled bool
	CompatCacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		PopulationSize:     v.GetInt("SOLVER_POPULATION_SIZE"),
		MaxGenerations:     v.GetInt("SOLVER_MAX_GENERATIONS"),
		MutationRate:       v.GetFloat64("SOLVER_MUTATION_RATE"),
		CrossoverRate:      v.GetFloat64("SOLVER_CROSSOVER_RATE"),
		EliteSize:          v.GetInt("SOLVER_ELITE_SIZE"),
		TournamentSize:     v.GetInt("SOLVER_TOURNAMENT_SIZE"),
		MaxRuntimeSeconds:  v.GetInt("SOLVER_MAX_RUNTIME_SECONDS"),
		StagnationLimit:    v.GetInt("SOLVER_STAGNATION_LIMIT"),
		LogFrequency:       v.GetInt("SOLVER_LOG_FREQUENCY"),
		Parallel:           v.GetBool("SOLVER_PARALLEL"),
		ThreadPoolSize:     v.GetInt("SOLVER_THREAD_POOL_SIZE"),
		ProposalTTL:        parseDuration(v.GetString("SOLVER_PROPOSAL_TTL"), 30*time.Minute),
		CompatCacheEnabled: v.GetBool("SOLVER_COMPAT_CACHE_ENABLED"),
		CompatCacheTTL:     parseDuration(v.GetString("SOLVER_COMPAT_CACHE_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "masterschedule")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_POPULATION_SIZE", 100)
	v.SetDefault("SOLVER_MAX_GENERATIONS", 1000)
	v.SetDefault("SOLVER_MUTATION_RATE", 0.10)
	v.SetDefault("SOLVER_CROSSOVER_RATE", 0.80)
	v.SetDefault("SOLVER_ELITE_SIZE", 5)
	v.SetDefault("SOLVER_TOURNAMENT_SIZE", 3)
	v.SetDefault("SOLVER_MAX_RUNTIME_SECONDS", 300)
	v.SetDefault("SOLVER_STAGNATION_LIMIT", 50)
	v.SetDefault("SOLVER_LOG_FREQUENCY", 10)
	v.SetDefault("SOLVER_PARALLEL", true)
	v.SetDefault("SOLVER_THREAD_POOL_SIZE", 4)
	v.SetDefault("SOLVER_PROPOSAL_TTL", "30m")
	v.SetDefault("SOLVER_COMPAT_CACHE_ENABLED", false)
	v.SetDefault("SOLVER_COMPAT_CACHE_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
