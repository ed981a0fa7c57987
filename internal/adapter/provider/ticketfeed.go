// internal/adapter/provider/ticketfeed.go

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"datescout/internal/domain/event"
)

// TicketFeedClient fetches listings from the TicketHub bulk feed. The feed
// returns a flat array with its own field naming; normalization into
// event.Event happens at this boundary.
type TicketFeedClient struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

// ticketFeedItem mirrors one raw feed entry
type ticketFeedItem struct {
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	Desc      string `json:"desc,omitempty"`
	Date      string `json:"date"`
	CityName  string `json:"city_name"`
	VenueName string `json:"venue_name,omitempty"`
	Genre     string `json:"genre"`
	Subgenre  string `json:"subgenre,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
	URL       string `json:"url,omitempty"`
	Img       string `json:"img,omitempty"`
}

// NewTicketFeedClient creates a TicketHub feed provider
func NewTicketFeedClient(baseURL, apiKey string, timeout time.Duration) *TicketFeedClient {
	return &TicketFeedClient{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		APIKey:     apiKey,
	}
}

// Name returns the source identifier stamped on fetched events
func (c *TicketFeedClient) Name() string {
	return "ticketfeed"
}

// Fetch returns normalized events for a city within a date range. The feed
// has no category filter; filtering happens downstream in the matcher.
func (c *TicketFeedClient) Fetch(ctx context.Context, city string, from, to time.Time, category string) ([]event.Event, error) {
	query := url.Values{}
	query.Set("city", city)
	query.Set("start", from.Format("2006-01-02"))
	query.Set("end", to.Format("2006-01-02"))
	if c.APIKey != "" {
		query.Set("key", c.APIKey)
	}

	endpoint := fmt.Sprintf("%s/feed/listings?%s", c.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "datescout/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach TicketHub feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TicketHub feed returned status code %d", resp.StatusCode)
	}

	var items []ticketFeedItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode TicketHub feed: %w", err)
	}

	events := make([]event.Event, 0, len(items))
	for _, item := range items {
		date, err := parseFlexibleDate(item.Date)
		if err != nil {
			continue
		}
		events = append(events, event.Event{
			ID:          "tf-" + item.SKU,
			Title:       item.Title,
			Description: item.Desc,
			Date:        date,
			City:        item.CityName,
			Venue:       item.VenueName,
			Category:    item.Genre,
			Subcategory: item.Subgenre,
			Attendees:   item.Capacity,
			Source:      c.Name(),
			URL:         item.URL,
			ImageURL:    item.Img,
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		})
	}

	return events, nil
}
