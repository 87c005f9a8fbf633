package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/leofalp/askgpt/providers/completion"
	slogobs "github.com/leofalp/askgpt/providers/observability/slog"
)

// ErrMissingAPIKey is returned by Validate when no credential was configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set (use the environment, a .env file or -api-key)")

type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	MaxTokens      int
	RequestTimeout time.Duration
	ListenAddr     string
	LogLevel       slog.Level
	LenientDecode  bool

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// LoadDotEnv loads variables from the given files (".env" when none are
// given) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// Load builds a Config from environment defaults overridden by flags parsed
// from args (without the program name). It does not validate.
func Load(name string, args []string) (*Config, error) {
	cfg := &Config{}
	flags := flag.NewFlagSet(name, flag.ContinueOnError)

	flags.StringVar(&cfg.APIKey, "api-key", getEnv("OPENAI_API_KEY", ""), "bearer credential for the completion service")
	flags.StringVar(&cfg.BaseURL, "base-url", getEnv("OPENAI_API_BASE_URL", completion.DefaultBaseURL), "completion service base URL")
	flags.StringVar(&cfg.Model, "model", getEnv("ASKGPT_MODEL", completion.DefaultModel), "model identifier")
	flags.Float64Var(&cfg.Temperature, "temperature", getEnvFloat("ASKGPT_TEMPERATURE", float64(completion.DefaultTemperature)), "sampling temperature")
	flags.IntVar(&cfg.MaxTokens, "max-tokens", getEnvInt("ASKGPT_MAX_TOKENS", completion.DefaultMaxTokens), "maximum output length in tokens")
	flags.DurationVar(&cfg.RequestTimeout, "timeout", getEnvDuration("ASKGPT_REQUEST_TIMEOUT", 60*time.Second), "per-exchange timeout (0 disables)")
	flags.StringVar(&cfg.ListenAddr, "listen-addr", getEnv("ASKGPT_LISTEN_ADDR", ":8080"), "HTTP listen address for serve")
	flags.BoolVar(&cfg.LenientDecode, "lenient", getEnvBool("ASKGPT_LENIENT_DECODE", false), "repair malformed JSON responses before decoding")
	logLevel := flags.String("log-level", "", "DEBUG, INFO, WARN or ERROR (default from ASKGPT_LOG_LEVEL / LOG_LEVEL)")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	cfg.Args = flags.Args()

	cfg.LogLevel = slogobs.GetLogLevelFromEnv()
	if *logLevel != "" {
		cfg.LogLevel = slogobs.ParseLogLevel(*logLevel)
	}

	return cfg, nil
}

// Validate reports configuration that would make every exchange fail.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", c.Temperature)
	}
	return nil
}

// ProviderOptions translates the config into completion options.
func (c *Config) ProviderOptions() []completion.Option {
	return []completion.Option{
		completion.WithAPIKey(c.APIKey),
		completion.WithBaseURL(c.BaseURL),
		completion.WithModel(c.Model),
		completion.WithTemperature(float32(c.Temperature)),
		completion.WithMaxTokens(c.MaxTokens),
		completion.WithLenientDecoding(c.LenientDecode),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}
