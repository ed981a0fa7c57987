// internal/adapter/storage/event_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"datescout/internal/domain/event"
)

// EventStore persists normalized events fetched from providers so later
// analyses for the same city can run against cached data
type EventStore struct {
	db *pgxpool.Pool
}

// NewEventStore creates a new event store
func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{
		db: db,
	}
}

// SaveEvents upserts a batch of events keyed by source id
func (s *EventStore) SaveEvents(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	query := `
		INSERT INTO events (
			id, title, description, date, end_date, city, venue,
			category, subcategory, attendees, source, url, image_url,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, $15
		)
		ON CONFLICT (id) DO UPDATE
		SET
			title = $2,
			description = $3,
			date = $4,
			end_date = $5,
			city = $6,
			venue = $7,
			category = $8,
			subcategory = $9,
			attendees = $10,
			url = $12,
			image_url = $13,
			updated_at = $15
	`

	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for _, e := range events {
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		batch.Queue(query,
			e.ID, e.Title, e.Description, e.Date, e.EndDate, e.City, e.Venue,
			e.Category, e.Subcategory, e.Attendees, e.Source, e.URL, e.ImageURL,
			createdAt, now,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error upserting event: %w", err)
		}
	}

	return nil
}

// FindEvents returns stored events for a city within a date range,
// inclusive on both ends
func (s *EventStore) FindEvents(ctx context.Context, city string, from, to time.Time) ([]event.Event, error) {
	query := `
		SELECT id, title, description, date, end_date, city, venue,
		       category, subcategory, attendees, source, url, image_url,
		       created_at, updated_at
		FROM events
		WHERE LOWER(city) = LOWER($1)
		  AND date >= $2
		  AND date <= $3
		ORDER BY date, id
	`

	rows, err := s.db.Query(ctx, query, city, from, to)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Date, &e.EndDate, &e.City, &e.Venue,
			&e.Category, &e.Subcategory, &e.Attendees, &e.Source, &e.URL, &e.ImageURL,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}
