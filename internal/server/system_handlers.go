package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/quantum-solver/internal/backend"
	"github.com/aristath/quantum-solver/internal/database"
	"github.com/aristath/quantum-solver/internal/scheduler"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	runsDB    *database.DB
	backend   backend.Backend
	scheduler *scheduler.Scheduler
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, runsDB *database.DB, b backend.Backend, sched *scheduler.Scheduler) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		runsDB:    runsDB,
		backend:   b,
		scheduler: sched,
	}
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Backend        string  `json:"backend"`
	MaxQubits      int     `json:"max_qubits"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemUsedPercent float64 `json:"mem_used_percent"`
	MemUsedMB      uint64  `json:"mem_used_mb"`
	LastUpdated    string  `json:"last_updated"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, memPercent, memUsedMB := h.hostUsage()

	response := SystemStatusResponse{
		Backend:        h.backend.Name(),
		MaxQubits:      h.backend.Capabilities().MaxQubits,
		CPUPercent:     cpuAvg,
		MemUsedPercent: memPercent,
		MemUsedMB:      memUsedMB,
		LastUpdated:    time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(h.log, w, http.StatusOK, response)
}

// hostUsage samples CPU and memory. Failures degrade to zeros: a status
// endpoint should not error because a probe did.
func (h *SystemHandlers) hostUsage() (float64, float64, uint64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}
	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuAvg, 0, 0
	}

	return cpuAvg, memStat.UsedPercent, memStat.Used / 1024 / 1024
}

// DatabaseStatsResponse represents runs database statistics
type DatabaseStatsResponse struct {
	Name         string `json:"name"`
	SizeBytes    int64  `json:"size_bytes"`
	WALSizeBytes int64  `json:"wal_size_bytes"`
	PageCount    int64  `json:"page_count"`
}

// HandleDatabaseStats handles GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.runsDB.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		http.Error(w, "Failed to get database stats", http.StatusInternalServerError)
		return
	}

	writeJSON(h.log, w, http.StatusOK, DatabaseStatsResponse{
		Name:         h.runsDB.Name(),
		SizeBytes:    stats.SizeBytes,
		WALSizeBytes: stats.WALSizeBytes,
		PageCount:    stats.PageCount,
	})
}

// JobsStatusResponse represents scheduler job status
type JobsStatusResponse struct {
	TotalJobs int                 `json:"total_jobs"`
	Jobs      []scheduler.JobInfo `json:"jobs"`
}

// HandleJobsStatus handles GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := h.scheduler.Jobs()
	writeJSON(h.log, w, http.StatusOK, JobsStatusResponse{
		TotalJobs: len(jobs),
		Jobs:      jobs,
	})
}
