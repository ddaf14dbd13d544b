package service

import (
	"context"

	"go-asset-ledger/internal/repository"

	"gorm.io/gorm"
)

type DashboardService interface {
	GetStats(ctx context.Context) (*repository.Stats, error)
}

type dashboardService struct {
	search repository.SearchRepository
}

func NewDashboardService(db *gorm.DB) DashboardService {
	return &dashboardService{search: repository.NewSearchRepo(db)}
}

func (s *dashboardService) GetStats(ctx context.Context) (*repository.Stats, error) {
	return s.search.Stats(ctx)
}
