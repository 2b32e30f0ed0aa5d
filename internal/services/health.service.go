package services

import (
	"context"

	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
)

type HealthService struct {
	db *pg.DB
}

func NewHealthService(db *pg.DB) *HealthService {
	return &HealthService{db: db}
}

// Get pings the database over the read connection.
func (s *HealthService) Get(ctx context.Context) error {
	return s.db.Read(ctx).WithContext(ctx).Exec("SELECT 1").Error
}
