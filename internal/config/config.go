package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/optimizer"
	"github.com/aristath/quantum-solver/internal/modules/simulator"
	"github.com/aristath/quantum-solver/internal/modules/solver"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the runs database
	Port     int
	LogLevel string
	DevMode  bool

	// Simulator
	MaxQubits int

	// Solve defaults, overridable per request
	DefaultShots       int
	DefaultSampleShots int
	DefaultLayers      int
	MaxIterations      int
	OptimizerStarts    int

	// Run retention window in days; 0 disables pruning
	RetentionDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic
	dataDir := getEnv("DATA_DIR", "")
	if dataDir == "" {
		if _, err := os.Stat("../data"); err == nil {
			dataDir = "../data"
		} else {
			dataDir = "./data"
		}
	}

	cfg := &Config{
		DataDir:            dataDir,
		Port:               getEnvAsInt("PORT", 8080),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		MaxQubits:          getEnvAsInt("SIMULATOR_MAX_QUBITS", simulator.DefaultMaxQubits),
		DefaultShots:       getEnvAsInt("DEFAULT_SHOTS", optimizer.DefaultShots),
		DefaultSampleShots: getEnvAsInt("DEFAULT_SAMPLE_SHOTS", solver.DefaultSampleShots),
		DefaultLayers:      getEnvAsInt("DEFAULT_LAYERS", 1),
		MaxIterations:      getEnvAsInt("OPTIMIZER_MAX_ITERATIONS", optimizer.DefaultMaxIterations),
		OptimizerStarts:    getEnvAsInt("OPTIMIZER_STARTS", optimizer.DefaultStarts),
		RetentionDays:      getEnvAsInt("RUN_RETENTION_DAYS", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SolveDefaults returns the environment-sourced solve defaults as a solver
// config. Request fields left zero resolve against these.
func (c *Config) SolveDefaults() solver.Config {
	return solver.Config{
		Layers:        c.DefaultLayers,
		Shots:         c.DefaultShots,
		SampleShots:   c.DefaultSampleShots,
		MaxIterations: c.MaxIterations,
		Starts:        c.OptimizerStarts,
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return domain.NewInvalidArgument("PORT", "%d outside (0, 65535]", c.Port)
	}
	if c.MaxQubits <= 0 {
		return domain.NewInvalidArgument("SIMULATOR_MAX_QUBITS", "%d must be positive", c.MaxQubits)
	}
	if c.RetentionDays < 0 {
		return domain.NewInvalidArgument("RUN_RETENTION_DAYS", "%d must not be negative", c.RetentionDays)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
