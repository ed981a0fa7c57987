// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Analysis    AnalysisConfig
	Providers   ProvidersConfig
	Overlap     OverlapConfig
	Venue       VenueConfig
	Logging     LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// AnalysisConfig holds the tunable constants of the conflict-analysis
// engine. The scoring and ranking heuristics read everything from here so
// the weights can be adjusted without touching algorithm structure.
type AnalysisConfig struct {
	// Candidate generation
	OffsetDays  int
	SweepStride int

	// Competing-event scoring
	TopCompetitors                int
	SignificanceVenueWeight       int
	SignificanceImageWeight       int
	SignificanceDescriptionWeight int
	BaseContribution              float64
	CategoryBonus                 float64
	VenueBonus                    float64
	ImageBonus                    float64
	DescriptionBonus              float64
	TailContribution              float64
	LongDescriptionLength         int

	// Attendee-size multiplier
	LargeAttendeeThreshold   int
	MediumAttendeeThreshold  int
	LargeAttendeeMultiplier  float64
	MediumAttendeeMultiplier float64

	// Risk classification and ranking
	RiskLowMax         float64
	RiskMediumMax      float64
	BackfillThreshold  float64
	MaxRecommendations int
	MaxHighRisk        int
	MaxReasons         int

	// Deduplication
	TitleSimilarityThreshold float64

	// Event publishing
	EventsTopic       string
	ProgressBatchSize int
}

// ProvidersConfig holds event-data provider configuration
type ProvidersConfig struct {
	CityEventsBaseURL string
	CityEventsAPIKey  string
	TicketFeedBaseURL string
	TicketFeedAPIKey  string
	RequestTimeout    time.Duration
}

// OverlapConfig holds audience-overlap predictor configuration
type OverlapConfig struct {
	PredictionTimeout    time.Duration
	PrimaryWeight        float64
	FallbackWeight       float64
	HighOverlapThreshold float64
}

// VenueConfig holds venue-intelligence configuration
type VenueConfig struct {
	DefaultCapacity         int
	HighUtilizationFraction float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "datescout"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Analysis: AnalysisConfig{
			OffsetDays:                    getEnvAsInt("ANALYSIS_OFFSET_DAYS", 7),
			SweepStride:                   getEnvAsInt("ANALYSIS_SWEEP_STRIDE", 3),
			TopCompetitors:                getEnvAsInt("ANALYSIS_TOP_COMPETITORS", 5),
			SignificanceVenueWeight:       getEnvAsInt("ANALYSIS_SIGNIFICANCE_VENUE_WEIGHT", 2),
			SignificanceImageWeight:       getEnvAsInt("ANALYSIS_SIGNIFICANCE_IMAGE_WEIGHT", 1),
			SignificanceDescriptionWeight: getEnvAsInt("ANALYSIS_SIGNIFICANCE_DESCRIPTION_WEIGHT", 1),
			BaseContribution:              getEnvAsFloat("ANALYSIS_BASE_CONTRIBUTION", 20.0),
			CategoryBonus:                 getEnvAsFloat("ANALYSIS_CATEGORY_BONUS", 30.0),
			VenueBonus:                    getEnvAsFloat("ANALYSIS_VENUE_BONUS", 15.0),
			ImageBonus:                    getEnvAsFloat("ANALYSIS_IMAGE_BONUS", 10.0),
			DescriptionBonus:              getEnvAsFloat("ANALYSIS_DESCRIPTION_BONUS", 5.0),
			TailContribution:              getEnvAsFloat("ANALYSIS_TAIL_CONTRIBUTION", 15.0),
			LongDescriptionLength:         getEnvAsInt("ANALYSIS_LONG_DESCRIPTION_LENGTH", 50),
			LargeAttendeeThreshold:        getEnvAsInt("ANALYSIS_LARGE_ATTENDEE_THRESHOLD", 1000),
			MediumAttendeeThreshold:       getEnvAsInt("ANALYSIS_MEDIUM_ATTENDEE_THRESHOLD", 500),
			LargeAttendeeMultiplier:       getEnvAsFloat("ANALYSIS_LARGE_ATTENDEE_MULTIPLIER", 1.2),
			MediumAttendeeMultiplier:      getEnvAsFloat("ANALYSIS_MEDIUM_ATTENDEE_MULTIPLIER", 1.1),
			RiskLowMax:                    getEnvAsFloat("ANALYSIS_RISK_LOW_MAX", 30.0),
			RiskMediumMax:                 getEnvAsFloat("ANALYSIS_RISK_MEDIUM_MAX", 60.0),
			BackfillThreshold:             getEnvAsFloat("ANALYSIS_BACKFILL_THRESHOLD", 50.0),
			MaxRecommendations:            getEnvAsInt("ANALYSIS_MAX_RECOMMENDATIONS", 3),
			MaxHighRisk:                   getEnvAsInt("ANALYSIS_MAX_HIGH_RISK", 3),
			MaxReasons:                    getEnvAsInt("ANALYSIS_MAX_REASONS", 3),
			TitleSimilarityThreshold:      getEnvAsFloat("ANALYSIS_TITLE_SIMILARITY_THRESHOLD", 0.8),
			EventsTopic:                   getEnv("ANALYSIS_EVENTS_TOPIC", "analysis"),
			ProgressBatchSize:             getEnvAsInt("ANALYSIS_PROGRESS_BATCH_SIZE", 5),
		},
		Providers: ProvidersConfig{
			CityEventsBaseURL: getEnv("PROVIDER_CITYEVENTS_BASE_URL", "https://api.cityevents.example.com"),
			CityEventsAPIKey:  getEnv("PROVIDER_CITYEVENTS_API_KEY", ""),
			TicketFeedBaseURL: getEnv("PROVIDER_TICKETFEED_BASE_URL", "https://feed.tickethub.example.com"),
			TicketFeedAPIKey:  getEnv("PROVIDER_TICKETFEED_API_KEY", ""),
			RequestTimeout:    getEnvAsDuration("PROVIDER_REQUEST_TIMEOUT", 10*time.Second),
		},
		Overlap: OverlapConfig{
			PredictionTimeout:    getEnvAsDuration("OVERLAP_PREDICTION_TIMEOUT", 5*time.Second),
			PrimaryWeight:        getEnvAsFloat("OVERLAP_PRIMARY_WEIGHT", 0.5),
			FallbackWeight:       getEnvAsFloat("OVERLAP_FALLBACK_WEIGHT", 0.3),
			HighOverlapThreshold: getEnvAsFloat("OVERLAP_HIGH_THRESHOLD", 0.6),
		},
		Venue: VenueConfig{
			DefaultCapacity:         getEnvAsInt("VENUE_DEFAULT_CAPACITY", 1000),
			HighUtilizationFraction: getEnvAsFloat("VENUE_HIGH_UTILIZATION_FRACTION", 0.85),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Analysis.RiskLowMax >= config.Analysis.RiskMediumMax {
		return fmt.Errorf("risk thresholds must be increasing: low max %.1f >= medium max %.1f",
			config.Analysis.RiskLowMax, config.Analysis.RiskMediumMax)
	}
	if config.Analysis.TopCompetitors <= 0 {
		return fmt.Errorf("top competitors must be positive")
	}
	if config.Overlap.PrimaryWeight < 0 || config.Overlap.FallbackWeight < 0 {
		return fmt.Errorf("overlap weights must be non-negative")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
