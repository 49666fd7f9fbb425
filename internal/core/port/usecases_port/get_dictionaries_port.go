package usecases_port

import (
	"context"

	"qwiksale-search-service/internal/core/domain"
)

type GetDictionariesUseCase interface {
	Execute(ctx context.Context, names []string) (map[domain.FacetDimension][]domain.FacetBucket, error)
}
