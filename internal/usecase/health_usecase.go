package usecase

import (
	"context"
	"time"
)

// Pinger is satisfied by *redis.Client
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	redis Pinger
}

// NewHealthUsecase reports the rate limit store state. A nil pinger
// means the limiter runs in memory.
func NewHealthUsecase(redis Pinger) HealthUsecase {
	return &healthUsecase{redis: redis}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{
		"status": "ok",
		"redis":  "disabled",
	}
	if u.redis == nil {
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := u.redis.Ping(ctx); err != nil {
		// Limiter falls back to memory, so the site keeps serving
		result["status"] = "degraded"
		result["redis"] = "unreachable"
		return result
	}
	result["redis"] = "ok"
	return result
}
