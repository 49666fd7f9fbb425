package usecases_port

import (
	"context"

	"qwiksale-search-service/internal/core/domain"
)

type SearchListingsUseCase interface {
	Execute(ctx context.Context, req domain.SearchRequest) (*domain.SearchResultPage, error)
}
