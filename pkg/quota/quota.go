package quota

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Resource identifies a countable planner resource.
type Resource string

const (
	ResourcePlans Resource = "plans"
	ResourceTasks Resource = "tasks"
	ResourceLogs  Resource = "logs"
)

// Limits holds the free-tier ceilings per resource. Zero disables the
// check for that resource.
type Limits struct {
	MaxPlans int
	MaxTasks int
	MaxLogs  int
}

// CountProvider supplies live per-user resource counts.
type CountProvider interface {
	CountPlans(ctx context.Context, userID string) (int, error)
	CountTasks(ctx context.Context, userID string) (int, error)
	CountLogs(ctx context.Context, userID string) (int, error)
}

// Service gates resource creation against free-tier limits.
type Service struct {
	counts CountProvider
	limits Limits
	logger *zap.Logger
}

func NewService(counts CountProvider, limits Limits, logger *zap.Logger) *Service {
	return &Service{
		counts: counts,
		limits: limits,
		logger: logger,
	}
}

// Allowed reports whether the user may create one more unit of the given
// resource under the free tier.
func (s *Service) Allowed(ctx context.Context, userID string, resource Resource) (bool, error) {
	var (
		total int
		limit int
		err   error
	)

	switch resource {
	case ResourcePlans:
		limit = s.limits.MaxPlans
		total, err = s.counts.CountPlans(ctx, userID)
	case ResourceTasks:
		limit = s.limits.MaxTasks
		total, err = s.counts.CountTasks(ctx, userID)
	case ResourceLogs:
		limit = s.limits.MaxLogs
		total, err = s.counts.CountLogs(ctx, userID)
	default:
		return false, fmt.Errorf("unknown resource kind: %s", resource)
	}

	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", resource, err)
	}

	if limit <= 0 {
		return true, nil
	}

	allowed := total < limit
	if !allowed {
		s.logger.Info("Free-tier limit reached",
			zap.String("user_id", userID),
			zap.String("resource", string(resource)),
			zap.Int("total", total),
			zap.Int("limit", limit),
		)
	}
	return allowed, nil
}
