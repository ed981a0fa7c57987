// internal/adapter/provider/store.go

package provider

import (
	"context"
	"time"

	"datescout/internal/adapter/storage"
	"datescout/internal/domain/event"
)

// StoreProvider serves previously persisted events as an additional
// source, so an analysis still has data when the live feeds are down or
// rate limited. Like any other provider, its failure only degrades the
// analysis.
type StoreProvider struct {
	store *storage.EventStore
}

// NewStoreProvider creates a provider backed by the event store
func NewStoreProvider(store *storage.EventStore) *StoreProvider {
	return &StoreProvider{
		store: store,
	}
}

// Name returns the source identifier stamped on fetched events
func (p *StoreProvider) Name() string {
	return "cache"
}

// Fetch returns cached events for a city within a date range. The category
// filter is left to the matcher, which also considers related categories.
func (p *StoreProvider) Fetch(ctx context.Context, city string, from, to time.Time, category string) ([]event.Event, error) {
	return p.store.FindEvents(ctx, city, from, to)
}
