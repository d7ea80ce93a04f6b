package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Message  MessageConfig  `yaml:"message"`
	Screener ScreenerConfig `yaml:"screener"`
	Dedup    DedupConfig    `yaml:"dedup"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address" env:"HTTP_ADDRESS"`
	Port           string          `yaml:"port" env:"PORT"`
	ReadTimeout    time.Duration   `yaml:"readTimeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout" env:"HTTP_WRITE_TIMEOUT"`
	AllowedOrigins []string        `yaml:"allowedOrigins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" env:"HTTP_RATE_LIMIT_ENABLED"`
	RequestsPerMinute int  `yaml:"requestsPerMinute" env:"HTTP_RATE_LIMIT_RPM"`
	Burst             int  `yaml:"burst" env:"HTTP_RATE_LIMIT_BURST"`
}

// LLMConfig contains the completion API settings.
type LLMConfig struct {
	Provider       string        `yaml:"provider" env:"LLM_PROVIDER"`
	APIKey         string        `yaml:"apiKey" env:"OPENAI_API_KEY"`
	BaseURL        string        `yaml:"baseUrl" env:"OPENAI_BASE_URL"`
	Model          string        `yaml:"model" env:"OPENAI_MODEL"`
	MaxTokens      int           `yaml:"maxTokens" env:"OPENAI_MAX_TOKENS"`
	Temperature    float32       `yaml:"temperature" env:"OPENAI_TEMPERATURE"`
	MaxInputLength int           `yaml:"maxInputLength" env:"OPENAI_MAX_TEXT_LENGTH"`
	Timeout        time.Duration `yaml:"timeout" env:"OPENAI_TIMEOUT"`
	SystemPrompt   string        `yaml:"systemPrompt" env:"OPENAI_SYSTEM_PROMPT"`
}

// TwilioConfig holds the messaging credentials and the recipient list.
type TwilioConfig struct {
	AccountSID    string `yaml:"accountSid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken     string `yaml:"authToken" env:"TWILIO_AUTH_TOKEN"`
	From          string `yaml:"from" env:"TWILIO_WHATSAPP_NUMBER"`
	RecipientsRaw string `yaml:"recipients" env:"WHATSAPP_RECIPIENTS"`
	DelaySeconds  int    `yaml:"delaySeconds" env:"DELAY_BETWEEN_REQUESTS"`

	// Recipients is derived from RecipientsRaw during Load.
	Recipients []string `yaml:"-"`
}

// Delay returns the pause inserted between two sends.
func (t TwilioConfig) Delay() time.Duration {
	return time.Duration(t.DelaySeconds) * time.Second
}

// MessageConfig shapes the outbound WhatsApp body.
type MessageConfig struct {
	Footer    string `yaml:"footer" env:"MESSAGE_FOOTER"`
	MaxLength int    `yaml:"maxLength" env:"MESSAGE_MAX_LENGTH"`
}

// ScreenerConfig controls the live announcement source.
type ScreenerConfig struct {
	BaseURL      string        `yaml:"baseUrl" env:"SCREENER_BASE_URL"`
	PageURL      string        `yaml:"pageUrl" env:"SCREENER_URL"`
	CookieHeader string        `yaml:"cookieHeader" env:"SCREENER_COOKIE_HEADER"`
	Timeout      time.Duration `yaml:"timeout" env:"SCREENER_TIMEOUT"`
}

// DedupConfig controls duplicate announcement suppression.
type DedupConfig struct {
	Enabled    bool          `yaml:"enabled" env:"DEDUP_ENABLED"`
	TTL        time.Duration `yaml:"ttl" env:"DEDUP_TTL"`
	ReserveTTL time.Duration `yaml:"reserveTtl" env:"DEDUP_RESERVE_TTL"`
	Valkey     ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the dedup cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled" env:"DEDUP_VALKEY_ENABLED"`
	Addr    string `yaml:"addr" env:"DEDUP_VALKEY_ADDR"`
	Prefix  string `yaml:"prefix" env:"DEDUP_VALKEY_PREFIX"`
}

// ScheduleConfig drives the optional periodic run.
type ScheduleConfig struct {
	Cron     string        `yaml:"cron" env:"SCHEDULE_CRON"`
	Timeout  time.Duration `yaml:"timeout" env:"SCHEDULE_TIMEOUT"`
	Timezone string        `yaml:"timezone" env:"SCHEDULE_TIMEZONE"`
}

// Load reads configuration from a YAML file, a .env file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.resolve()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv populates unset variables from ENV_FILE (default .env) when the file exists.
func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) resolve() {
	if port := strings.TrimSpace(c.HTTP.Port); port != "" {
		c.HTTP.Address = ":" + strings.TrimPrefix(port, ":")
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Twilio.Recipients = ParseRecipients(c.Twilio.RecipientsRaw)
}

// ParseRecipients splits a comma separated list, trimming blanks and keeping order.
func ParseRecipients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if phone := strings.TrimSpace(part); phone != "" {
			out = append(out, phone)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 3 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             5,
			},
		},
		LLM: LLMConfig{
			Provider:       "http",
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-3.5-turbo",
			MaxTokens:      1000,
			Temperature:    0.3,
			MaxInputLength: 12000,
			Timeout:        60 * time.Second,
			SystemPrompt:   "You are a professional financial analyst. Provide concise, clear summaries suitable for WhatsApp messages.",
		},
		Twilio: TwilioConfig{
			From:         "whatsapp:+14155238886",
			DelaySeconds: 2,
		},
		Message: MessageConfig{
			Footer:    "*Powered by FinVarta AI*",
			MaxLength: 1600,
		},
		Screener: ScreenerConfig{
			BaseURL: "https://www.screener.in",
			Timeout: 20 * time.Second,
		},
		Dedup: DedupConfig{
			Enabled:    true,
			TTL:        7 * 24 * time.Hour,
			ReserveTTL: 15 * time.Minute,
			Valkey: ValkeyConfig{
				Prefix: "relay",
			},
		},
		Schedule: ScheduleConfig{
			Timeout:  10 * time.Minute,
			Timezone: "UTC",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}

	var missing []string
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if strings.TrimSpace(c.Twilio.AccountSID) == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if strings.TrimSpace(c.Twilio.AuthToken) == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if len(c.Twilio.Recipients) == 0 {
		missing = append(missing, "WHATSAPP_RECIPIENTS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	switch c.LLM.Provider {
	case "http", "sdk":
	default:
		return fmt.Errorf("llm.provider must be http or sdk, got %q", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxInputLength <= 0 {
		return errors.New("llm.maxInputLength must be positive")
	}
	if strings.TrimSpace(c.Twilio.From) == "" {
		return errors.New("twilio.from cannot be empty")
	}
	if c.Twilio.DelaySeconds < 0 {
		return errors.New("twilio.delaySeconds cannot be negative")
	}
	if c.Message.MaxLength < 0 {
		return errors.New("message.maxLength cannot be negative")
	}
	if strings.TrimSpace(c.Screener.BaseURL) == "" {
		return errors.New("screener.baseUrl cannot be empty")
	}
	if c.Dedup.TTL < 0 {
		return errors.New("dedup.ttl cannot be negative")
	}
	if c.Dedup.ReserveTTL < 0 {
		return errors.New("dedup.reserveTtl cannot be negative")
	}
	if c.Dedup.Valkey.Enabled && strings.TrimSpace(c.Dedup.Valkey.Addr) == "" {
		return errors.New("dedup.valkey.addr cannot be empty when valkey is enabled")
	}
	return nil
}
