package services

import (
	"context"
	"fmt"

	"github.com/arriendo-app/api/internal/auth"
	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/repository"
)

// DashboardService defines the interface for portfolio statistics.
type DashboardService interface {
	// Stats returns the landlord session's portfolio summary.
	Stats(ctx context.Context, sess auth.Session) (*repository.DashboardStats, error)
}

// dashboardService is the concrete implementation of DashboardService.
type dashboardService struct {
	stats repository.StatsRepository
	log   *logger.Logger
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(stats repository.StatsRepository, log *logger.Logger) DashboardService {
	return &dashboardService{
		stats: stats,
		log:   log,
	}
}

func (s *dashboardService) Stats(ctx context.Context, sess auth.Session) (*repository.DashboardStats, error) {
	if !sess.IsLandlord() {
		return nil, fmt.Errorf("%w: dashboard is landlord-only", ErrForbidden)
	}

	stats, err := s.stats.ForLandlord(ctx, sess.UserID)
	if err != nil {
		s.log.Error("Failed to compute dashboard stats", err, map[string]interface{}{
			"landlord_id": sess.UserID,
		})
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
