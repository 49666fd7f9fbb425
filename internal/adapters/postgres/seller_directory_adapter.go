package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"qwiksale-search-service/internal/contextkeys"
	"qwiksale-search-service/internal/core/domain"
	"qwiksale-search-service/internal/core/port"
)

// SellerDirectoryAdapter batch-fetches the loosely-typed seller profiles
// used for badge resolution. The profile column is JSONB with no schema
// guarantee; interpreting it is the domain resolver's job.
type SellerDirectoryAdapter struct {
	pool *pgxpool.Pool
}

func NewSellerDirectoryAdapter(pool *pgxpool.Pool) (*SellerDirectoryAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &SellerDirectoryAdapter{pool: pool}, nil
}

func (a *SellerDirectoryAdapter) GetSellerRecords(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]domain.SellerRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "SellerDirectoryAdapter",
		"method":       "GetSellerRecords",
		"seller_count": len(sellerIDs),
	})

	records := make(map[uuid.UUID]domain.SellerRecord, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return records, nil
	}

	query := `SELECT id, COALESCE(profile, '{}'::jsonb) FROM sellers WHERE id = ANY($1)`
	rows, err := a.pool.Query(ctx, query, sellerIDs)
	if err != nil {
		repoLogger.Error("Failed to query seller records", err, nil)
		return nil, fmt.Errorf("failed to get seller records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var profile map[string]interface{}
		if err := rows.Scan(&id, &profile); err != nil {
			return nil, fmt.Errorf("failed to scan seller record: %w", err)
		}
		records[id] = domain.SellerRecord(profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	repoLogger.Debug("Seller records fetched", port.Fields{"found_count": len(records)})
	return records, nil
}
