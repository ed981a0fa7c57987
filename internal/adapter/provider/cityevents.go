// internal/adapter/provider/cityevents.go

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"datescout/internal/domain/event"
)

// CityEventsClient fetches event listings from the CityEvents API. The
// provider-specific response shape is normalized here; the engine only
// ever sees event.Event records.
type CityEventsClient struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

// cityEventsResponse mirrors the raw CityEvents payload
type cityEventsResponse struct {
	Events []cityEventsRecord `json:"events"`
	Next   string             `json:"next,omitempty"`
}

type cityEventsRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Summary        string `json:"summary"`
	StartsAt       string `json:"starts_at"`
	EndsAt         string `json:"ends_at,omitempty"`
	Topic          string `json:"topic"`
	Subtopic       string `json:"subtopic,omitempty"`
	ExpectedGuests int    `json:"expected_guests,omitempty"`
	Link           string `json:"link,omitempty"`
	CoverImage     string `json:"cover_image,omitempty"`
	Location       struct {
		City  string `json:"city"`
		Venue string `json:"venue,omitempty"`
	} `json:"location"`
}

// NewCityEventsClient creates a CityEvents provider
func NewCityEventsClient(baseURL, apiKey string, timeout time.Duration) *CityEventsClient {
	return &CityEventsClient{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		APIKey:     apiKey,
	}
}

// Name returns the source identifier stamped on fetched events
func (c *CityEventsClient) Name() string {
	return "cityevents"
}

// Fetch returns normalized events for a city within a date range,
// following the API's pagination cursor until exhausted
func (c *CityEventsClient) Fetch(ctx context.Context, city string, from, to time.Time, category string) ([]event.Event, error) {
	var events []event.Event

	cursor := ""
	for {
		page, next, err := c.fetchPage(ctx, city, from, to, category, cursor)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)
		if next == "" {
			break
		}
		cursor = next
	}

	return events, nil
}

func (c *CityEventsClient) fetchPage(ctx context.Context, city string, from, to time.Time, category, cursor string) ([]event.Event, string, error) {
	query := url.Values{}
	query.Set("city", city)
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", to.Format("2006-01-02"))
	if category != "" {
		query.Set("topic", category)
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	endpoint := fmt.Sprintf("%s/v2/events?%s", c.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	req.Header.Set("User-Agent", "datescout/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to reach CityEvents API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("CityEvents API returned status code %d", resp.StatusCode)
	}

	var payload cityEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("failed to decode CityEvents response: %w", err)
	}

	events := make([]event.Event, 0, len(payload.Events))
	for _, record := range payload.Events {
		normalized, err := c.normalize(record)
		if err != nil {
			// A single malformed record is dropped, not fatal to the page.
			continue
		}
		events = append(events, normalized)
	}

	return events, payload.Next, nil
}

// normalize converts a raw CityEvents record into the engine's event shape
func (c *CityEventsClient) normalize(record cityEventsRecord) (event.Event, error) {
	date, err := parseFlexibleDate(record.StartsAt)
	if err != nil {
		return event.Event{}, fmt.Errorf("invalid starts_at %q: %w", record.StartsAt, err)
	}

	id := record.ID
	if id == "" {
		id = uuid.New().String()
	}

	e := event.Event{
		ID:          id,
		Title:       record.Name,
		Description: record.Summary,
		Date:        date,
		City:        record.Location.City,
		Venue:       record.Location.Venue,
		Category:    record.Topic,
		Subcategory: record.Subtopic,
		Attendees:   record.ExpectedGuests,
		Source:      c.Name(),
		URL:         record.Link,
		ImageURL:    record.CoverImage,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if record.EndsAt != "" {
		if end, err := parseFlexibleDate(record.EndsAt); err == nil {
			e.EndDate = &end
		}
	}

	return e, nil
}

// parseFlexibleDate accepts the date formats seen across provider feeds
func parseFlexibleDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}
