package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis      bool      `json:"redis"`
	RedisInUse bool      `json:"redisInUse"`
	Extraction string    `json:"extraction"` // "live" or "sample"
	CheckedAt  time.Time `json:"checkedAt"`
}

// HealthMonitor keeps the latest health snapshot.
type HealthMonitor struct {
	mu     sync.RWMutex
	status HealthStatus
	redis  *redis.Client
}

func NewHealthMonitor(redisClient *redis.Client, extractionMode string) *HealthMonitor {
	return &HealthMonitor{
		redis: redisClient,
		status: HealthStatus{
			RedisInUse: redisClient != nil,
			Extraction: extractionMode,
		},
	}
}

// Status returns latest stored health snapshot.
func (h *HealthMonitor) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Check pings dependencies once and stores the result.
func (h *HealthMonitor) Check(ctx context.Context) HealthStatus {
	healthy := false
	if h.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		healthy = h.redis.Ping(pingCtx).Err() == nil
		cancel()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.Redis = healthy
	h.status.CheckedAt = time.Now()
	return h.status
}

// Start performs periodic health checks until ctx is done.
func (h *HealthMonitor) Start(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		h.Check(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Check(ctx)
			}
		}
	}()
}
