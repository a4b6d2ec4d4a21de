package subscription

import (
	"context"

	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

type ListSubscriptions struct {
	repo domain.Repository
}

func NewListSubscriptions(repo domain.Repository) *ListSubscriptions {
	return &ListSubscriptions{repo: repo}
}

func (uc *ListSubscriptions) Execute(ctx context.Context) ([]models.MonthlyClient, error) {
	return uc.repo.ListActive(ctx)
}
