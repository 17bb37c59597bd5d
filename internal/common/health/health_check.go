package health

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Status represents the overall health of the application
type Status struct {
	Status    string                 `json:"status"` // "healthy" or "degraded"
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Duration  int64                  `json:"duration_ms"`
}

// Checker provides health check functionality
type Checker struct {
	db        *gorm.DB
	version   string
	startTime time.Time
	mu        sync.RWMutex
	lastCheck string
}

// NewChecker creates a new health checker
func NewChecker(db *gorm.DB, version string) *Checker {
	return &Checker{
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}

// Check performs a complete health check
func (hc *Checker) Check() Status {
	start := time.Now()
	status := Status{
		Timestamp: start,
		Version:   hc.version,
		Checks:    make(map[string]interface{}),
	}

	dbHealthy, dbCheck := hc.checkDatabase()
	status.Checks["database"] = dbCheck

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memoryMB := m.Alloc / 1024 / 1024
	status.Checks["memory"] = map[string]interface{}{
		"healthy":      memoryMB < 500,
		"allocated_mb": memoryMB,
		"sys_mb":       m.Sys / 1024 / 1024,
		"num_gc":       m.NumGC,
	}

	goroutines := runtime.NumGoroutine()
	status.Checks["goroutines"] = map[string]interface{}{
		"count":   goroutines,
		"healthy": goroutines < 10000,
	}

	status.Checks["uptime_seconds"] = int64(time.Since(hc.startTime).Seconds())

	if dbHealthy && memoryMB < 500 && goroutines < 10000 {
		status.Status = "healthy"
	} else {
		status.Status = "degraded"
	}
	status.Duration = time.Since(start).Milliseconds()

	hc.mu.Lock()
	hc.lastCheck = status.Status
	hc.mu.Unlock()

	return status
}

func (hc *Checker) checkDatabase() (bool, interface{}) {
	if hc.db == nil {
		return false, map[string]interface{}{
			"healthy": false,
			"error":   "database not initialized",
		}
	}

	start := time.Now()
	sqlDB, err := hc.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return false, map[string]interface{}{
			"healthy": false,
			"error":   fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return true, map[string]interface{}{
		"healthy":    true,
		"latency_ms": time.Since(start).Milliseconds(),
	}
}

// IsReady returns true if the system is ready to serve traffic
func (hc *Checker) IsReady() bool {
	if hc.db == nil {
		return false
	}
	sqlDB, err := hc.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

// IsAlive returns true while the process is able to respond at all
func (hc *Checker) IsAlive() bool {
	return true
}
