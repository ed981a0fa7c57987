// internal/adapter/storage/analysis_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"datescout/internal/domain/event"
)

// ErrNotFound is returned when a stored analysis does not exist
var ErrNotFound = errors.New("not found")

// AnalysisStore persists completed analysis results for later retrieval
type AnalysisStore struct {
	db *pgxpool.Pool
}

// NewAnalysisStore creates a new analysis store
func NewAnalysisStore(db *pgxpool.Pool) *AnalysisStore {
	return &AnalysisStore{
		db: db,
	}
}

// SaveResult stores one analysis result. Results are immutable; the insert
// is idempotent on the run ID.
func (s *AnalysisStore) SaveResult(ctx context.Context, result *event.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error marshaling analysis result: %w", err)
	}

	query := `
		INSERT INTO analyses (id, city, category, analyzed_at, result)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = s.db.Exec(ctx, query,
		result.ID,
		result.Params.City,
		result.Params.Category,
		result.AnalyzedAt,
		payload,
	)
	if err != nil {
		return fmt.Errorf("error saving analysis result: %w", err)
	}

	return nil
}

// GetResult retrieves a stored analysis result by run ID
func (s *AnalysisStore) GetResult(ctx context.Context, id string) (*event.AnalysisResult, error) {
	query := `SELECT result FROM analyses WHERE id = $1`

	var payload []byte
	if err := s.db.QueryRow(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading analysis result: %w", err)
	}

	var result event.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling analysis result: %w", err)
	}

	return &result, nil
}
