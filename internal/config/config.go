package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

var (
	ErrEmptyEnvironmentVariable = errors.New("empty environment variable")
	ErrInvalidBusinessHours     = errors.New("invalid business hours")
)

// Config holds all application configuration
type Config struct {
	OpenAI     OpenAIConfig
	Twilio     TwilioConfig
	Business   BusinessConfig
	Restaurant RestaurantConfig
	Timeouts   TimeoutConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Mail       MailConfig
	Transcript TranscriptConfig
	Server     ServerConfig
}

// OpenAIConfig holds settings for the realtime AI endpoint
type OpenAIConfig struct {
	APIKey             string
	BaseURL            string // REST base, e.g. https://api.openai.com/v1
	RealtimeURL        string // WebSocket base, e.g. wss://api.openai.com/v1/realtime
	Model              string
	Voice              string
	AudioFormat        string // audio/pcmu, audio/pcma or audio/pcm
	Instructions       string
	TranscriptionModel string
	WebhookSecret      string
}

// TwilioConfig holds telephony provider credentials and callback settings
type TwilioConfig struct {
	AccountSID       string
	AuthToken        string
	FromNumber       string
	PublicBaseURL    string // externally reachable base for callbacks and media stream
	ValidateWebhooks bool
}

// BusinessConfig holds the business-action collaborator endpoints
type BusinessConfig struct {
	PrimaryURL string
	LegacyURL  string
	Timeout    time.Duration
}

// TimeWindow is an opening window expressed in minutes after midnight.
type TimeWindow struct {
	Open  int
	Close int
}

// Contains reports whether minute-of-day m falls inside the window.
// Windows that close after midnight (e.g. 19:00-01:00) wrap around.
func (w TimeWindow) Contains(m int) bool {
	if w.Close >= w.Open {
		return m >= w.Open && m <= w.Close
	}
	return m >= w.Open || m <= w.Close
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Open/60, w.Open%60, w.Close/60, w.Close%60)
}

// RestaurantConfig holds business rules applied to tool calls
type RestaurantConfig struct {
	StaffPhone         string
	BusinessHours      []TimeWindow
	MinGuests          int
	MaxGuests          int
	DefaultLanguage    string
	SupportedLanguages []string
	TimeZone           *time.Location
}

// TimeoutConfig holds the bounded waits used across a call
type TimeoutConfig struct {
	HangupGraceDelay    time.Duration // heuristic: lets trailing speech play before hang-up
	TransferGraceWindow time.Duration // teardown deferral while a hand-off is forming
	StaffAcceptTimeout  time.Duration // IVR keypress wait on the staff leg
	AIHandshakeTimeout  time.Duration // max wait for session.updated before tool registration
	AcceptTimeout       time.Duration // budget for the provider accept, retries included
	CallbackSecret      string
}

// RedisConfig holds optional Redis settings used for cross-replica dedup
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// KafkaConfig holds optional call-event streaming configuration
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// MailConfig holds settings for failed hand-off notices
type MailConfig struct {
	ResendAPIKey  string
	DefaultSender string
	ManagerEmail  string
}

// TranscriptConfig holds the local transcript sink address
type TranscriptConfig struct {
	SinkURL string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}
	var err error

	// AI endpoint
	if cfg.OpenAI.APIKey, err = requireEnv("OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	cfg.OpenAI.BaseURL = getEnvWithDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	cfg.OpenAI.RealtimeURL = getEnvWithDefault("OPENAI_REALTIME_URL", "wss://api.openai.com/v1/realtime")
	cfg.OpenAI.Model = getEnvWithDefault("OPENAI_MODEL", "gpt-realtime")
	cfg.OpenAI.Voice = getEnvWithDefault("OPENAI_VOICE", "marin")
	cfg.OpenAI.AudioFormat = getEnvWithDefault("AI_AUDIO_FORMAT", "audio/pcmu")
	cfg.OpenAI.Instructions = getEnvWithDefault("AI_INSTRUCTIONS", "You are the phone host of the restaurant. Be brief and warm.")
	cfg.OpenAI.TranscriptionModel = getEnvWithDefault("AI_TRANSCRIPTION_MODEL", "gpt-4o-transcribe")
	cfg.OpenAI.WebhookSecret = os.Getenv("OPENAI_WEBHOOK_SECRET")

	// Telephony
	cfg.Twilio.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.Twilio.FromNumber = os.Getenv("TWILIO_FROM_NUMBER")
	if cfg.Twilio.PublicBaseURL, err = requireEnv("PUBLIC_BASE_URL"); err != nil {
		return nil, err
	}
	cfg.Twilio.PublicBaseURL = strings.TrimRight(cfg.Twilio.PublicBaseURL, "/")
	if cfg.Twilio.ValidateWebhooks, err = parseBool("TWILIO_VALIDATE_WEBHOOKS", "false"); err != nil {
		return nil, err
	}

	// Business-action collaborator
	if cfg.Business.PrimaryURL, err = requireEnv("BUSINESS_API_URL"); err != nil {
		return nil, err
	}
	cfg.Business.LegacyURL = os.Getenv("BUSINESS_API_LEGACY_URL")
	if cfg.Business.Timeout, err = parseDuration("BUSINESS_API_TIMEOUT", "8s"); err != nil {
		return nil, err
	}

	// Restaurant rules
	cfg.Restaurant.StaffPhone = os.Getenv("STAFF_PHONE_NUMBER")
	if cfg.Restaurant.BusinessHours, err = ParseBusinessHours(getEnvWithDefault("BUSINESS_HOURS", "12:00-16:00,19:00-23:30")); err != nil {
		return nil, err
	}
	if cfg.Restaurant.MinGuests, err = parseInt("MIN_GUESTS", "1"); err != nil {
		return nil, err
	}
	if cfg.Restaurant.MaxGuests, err = parseInt("MAX_GUESTS", "12"); err != nil {
		return nil, err
	}
	if cfg.Restaurant.MinGuests > cfg.Restaurant.MaxGuests {
		return nil, fmt.Errorf("MIN_GUESTS (%d) exceeds MAX_GUESTS (%d)", cfg.Restaurant.MinGuests, cfg.Restaurant.MaxGuests)
	}
	cfg.Restaurant.DefaultLanguage = getEnvWithDefault("DEFAULT_LANGUAGE", "es")
	cfg.Restaurant.SupportedLanguages = splitList(getEnvWithDefault("SUPPORTED_LANGUAGES", "es,en,fr"))
	if cfg.Restaurant.TimeZone, err = time.LoadLocation(getEnvWithDefault("RESTAURANT_TIMEZONE", "Europe/Madrid")); err != nil {
		return nil, fmt.Errorf("failed to parse RESTAURANT_TIMEZONE: %w", err)
	}

	// Timeouts
	if cfg.Timeouts.HangupGraceDelay, err = parseDuration("HANGUP_GRACE_DELAY", "3200ms"); err != nil {
		return nil, err
	}
	if cfg.Timeouts.TransferGraceWindow, err = parseDuration("TRANSFER_GRACE_WINDOW", "10s"); err != nil {
		return nil, err
	}
	if cfg.Timeouts.StaffAcceptTimeout, err = parseDuration("STAFF_ACCEPT_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.Timeouts.AIHandshakeTimeout, err = parseDuration("AI_HANDSHAKE_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.Timeouts.AcceptTimeout, err = parseDuration("ACCEPT_TIMEOUT", "800ms"); err != nil {
		return nil, err
	}
	if cfg.Timeouts.CallbackSecret, err = requireEnv("CALLBACK_SIGNING_SECRET"); err != nil {
		return nil, err
	}

	// Redis (optional)
	if cfg.Redis.Enabled, err = parseBool("REDIS_ENABLED", "false"); err != nil {
		return nil, err
	}
	cfg.Redis.Host = getEnvWithDefault("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = parseInt("REDIS_PORT", "6379"); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = parseInt("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	// Kafka (optional)
	cfg.Kafka.Brokers = os.Getenv("KAFKA_BROKERS")
	cfg.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", "call-events")

	// Mail (optional)
	cfg.Mail.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Mail.DefaultSender = os.Getenv("DEFAULT_EMAIL_SENDER_ADDRESS")
	cfg.Mail.ManagerEmail = os.Getenv("MANAGER_EMAIL")

	cfg.Transcript.SinkURL = os.Getenv("TRANSCRIPT_SINK_URL")

	// Server configuration
	if cfg.Server.Port, err = parseInt("SERVER_PORT", "8080"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EscalationEnabled reports whether hand-off to staff can be attempted at all.
func (c *Config) EscalationEnabled() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.FromNumber != "" && c.Restaurant.StaffPhone != ""
}

// ParseBusinessHours parses "HH:MM-HH:MM[,HH:MM-HH:MM...]" into windows.
func ParseBusinessHours(raw string) ([]TimeWindow, error) {
	var windows []TimeWindow
	for _, part := range splitList(raw) {
		bounds := strings.Split(part, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBusinessHours, part)
		}
		open, err := ParseClock(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidBusinessHours, part, err)
		}
		closing, err := ParseClock(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidBusinessHours, part, err)
		}
		windows = append(windows, TimeWindow{Open: open, Close: closing})
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: no windows configured", ErrInvalidBusinessHours)
	}
	return windows, nil
}

// ParseClock parses a strict 24h "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("hour out of range in %q", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("minute out of range in %q", s)
	}
	return h*60 + m, nil
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseInt(key, defaultValue string) (int, error) {
	v, err := strconv.Atoi(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}

func parseBool(key, defaultValue string) (bool, error) {
	v, err := strconv.ParseBool(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	v, err := time.ParseDuration(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
