package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"rsc.io/getopt"

	"github.com/kabili207/asakusa-tools/pkg/api"
)

const (
	EnvRootURL  = "ASAKUSA_ROOT_URL"
	EnvAPIKey   = "ASAKUSA_API_KEY"
	EnvLogLevel = "ASAKUSA_LOG_LEVEL"

	DefaultRootURL = api.DefaultRootURL
)

// Config holds the settings shared by the command line tools.
type Config struct {
	RootURL  string
	APIKey   string
	RoomID   string
	LogLevel string
}

// Load reads configuration from the environment, loading a .env file
// first when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		RootURL:  getEnv(EnvRootURL, DefaultRootURL),
		APIKey:   os.Getenv(EnvAPIKey),
		LogLevel: getEnv(EnvLogLevel, "info"),
	}
}

// RegisterFlags binds the shared flags to fs, using the loaded values as
// defaults.
func (c *Config) RegisterFlags(fs *getopt.FlagSet) {
	fs.StringVar(&c.RootURL, "server", c.RootURL, "the AsakusaSatellite root URL")
	fs.Alias("s", "server")

	fs.StringVar(&c.APIKey, "key", c.APIKey, "API key (defaults to $"+EnvAPIKey+")")
	fs.Alias("k", "key")

	fs.StringVar(&c.RoomID, "room", c.RoomID, "room ID")
	fs.Alias("r", "room")

	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate(requireRoom bool) error {
	var problems []string

	if c.RootURL == "" {
		problems = append(problems, "Server URL is required")
	} else if u, err := url.ParseRequestURI(c.RootURL); err != nil || u.Host == "" {
		problems = append(problems, "Not a valid server URL\n\tMust be a full URL such as https://example.com/")
	}

	if c.APIKey == "" {
		problems = append(problems, "API key required. Please pass the --key parameter or set the "+EnvAPIKey+" environment variable")
	}

	if requireRoom && c.RoomID == "" {
		problems = append(problems, "Room ID is required")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("Invalid log level: %s", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "\n"))
	}
	return nil
}

// Logger returns a logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
