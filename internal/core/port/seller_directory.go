package port

import (
	"context"

	"github.com/google/uuid"

	"qwiksale-search-service/internal/core/domain"
)

// SellerDirectoryPort fetches loosely-typed seller records by id batch.
// Callers pass only the distinct seller ids of the current result page.
type SellerDirectoryPort interface {
	GetSellerRecords(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]domain.SellerRecord, error)
}
