package health

import (
	"context"
	"time"

	"github.com/muhammadheryan/artisanhub/model"
	redisrepo "github.com/muhammadheryan/artisanhub/repository/redis"
	"github.com/muhammadheryan/artisanhub/utils/logger"
	"go.uber.org/zap"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	checkTimeout = 2 * time.Second
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthApp interface {
	Check(ctx context.Context) *model.HealthResponse
}

type HealthAppImpl struct {
	db        Pinger
	redisRepo redisrepo.Repository
}

func NewHealthApp(db Pinger, redisRepo redisrepo.Repository) HealthApp {
	return &HealthAppImpl{db: db, redisRepo: redisRepo}
}

func (s *HealthAppImpl) Check(ctx context.Context) *model.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp := &model.HealthResponse{
		Status: StatusOK,
		Checks: map[string]string{},
	}

	resp.Checks["mysql"] = s.probe(ctx, "mysql", s.db.PingContext)
	resp.Checks["redis"] = s.probe(ctx, "redis", s.redisRepo.Ping)

	for _, v := range resp.Checks {
		if v != StatusOK {
			resp.Status = StatusDegraded
		}
	}
	return resp
}

func (s *HealthAppImpl) probe(ctx context.Context, name string, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		logger.Warn("[HealthCheck] dependency unavailable", zap.String("dependency", name), zap.String("error", err.Error()))
		return "unavailable"
	}
	return StatusOK
}
