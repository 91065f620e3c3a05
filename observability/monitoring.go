package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// ProcessStats is one sample of the server process.
type ProcessStats struct {
	PID        int32   `json:"pid"`
	Status     string  `json:"status"`
	CPUPercent float64 `json:"cpu_percent"`
	RSSBytes   uint64  `json:"rss_bytes"`
	NumThreads int32   `json:"num_threads"`
}

// MonitoringStats aggregates what /debug/stats shows.
type MonitoringStats struct {
	Process       ProcessStats `json:"process"`
	AllocMemMb    uint64       `json:"alloc_mem_mb"`
	NumGC         uint32       `json:"num_gc"`
	NumGoroutines int          `json:"num_goroutines"`
	OnlineUsers   int          `json:"online_users"`
	Delivered     uint64       `json:"pushes_delivered"`
	Failed        uint64       `json:"pushes_failed"`
	Offline       uint64       `json:"pushes_offline"`
	Dropped       uint64       `json:"events_dropped"`
	SampledAt     time.Time    `json:"sampled_at"`
}

// DeliveryCounters reads live delivery figures at sample time.
type DeliveryCounters struct {
	OnlineUsers func() int
	Delivered   func() uint64
	Failed      func() uint64
	Offline     func() uint64
	Dropped     func() uint64
}

type MonitoringManager struct {
	log      *slog.Logger
	mu       sync.RWMutex
	latest   MonitoringStats
	counters DeliveryCounters
}

func NewMonitoringManager(log *slog.Logger, counters DeliveryCounters) *MonitoringManager {
	return &MonitoringManager{log: log, counters: counters}
}

// Record stores a process sample together with runtime and delivery figures.
func (mm *MonitoringManager) Record(process ProcessStats) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := MonitoringStats{
		Process:       process,
		AllocMemMb:    mem.Alloc / 1024 / 1024,
		NumGC:         mem.NumGC,
		NumGoroutines: runtime.NumGoroutine(),
		SampledAt:     time.Now().UTC(),
	}
	if c := mm.counters; c.OnlineUsers != nil {
		stats.OnlineUsers = c.OnlineUsers()
	}
	stats.Delivered = read(mm.counters.Delivered)
	stats.Failed = read(mm.counters.Failed)
	stats.Offline = read(mm.counters.Offline)
	stats.Dropped = read(mm.counters.Dropped)

	mm.mu.Lock()
	mm.latest = stats
	mm.mu.Unlock()
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latest
}

func read(fn func() uint64) uint64 {
	if fn == nil {
		return 0
	}
	return fn()
}
