package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-form-filler/internal/questions"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8004
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB
	DefaultSessionTTL  = time.Hour

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable read by the server
	EnvPrefix = "FORM_FILLER"
)

// Config holds all configuration for the form filler
type Config struct {
	// Server configuration
	Mode           string // "server" or "stdio"
	Host           string
	Port           int
	AllowedOrigins []string

	// Forms directory used by the file based MCP tools
	FormsDirectory string

	// Question generation
	Provider      string
	Model         string
	OpenRouterKey string
	OpenRouterURL string
	AnthropicKey  string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum upload size in bytes
	SessionTTL  time.Duration
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:           ModeStdio, // Default to stdio mode for MCP compatibility
		Host:           DefaultHost,
		Port:           DefaultPort,
		FormsDirectory: currentDir,
		Provider:       questions.ProviderOpenRouter,
		OpenRouterURL:  questions.OpenRouterBaseURL,
		Version:        "1.0.0",
		ServerName:     "mcp-form-filler",
		LogLevel:       DefaultLogLevel,
		MaxFileSize:    DefaultMaxFileSize,
		SessionTTL:     DefaultSessionTTL,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
// A .env file in the working directory is loaded first; variables already
// set in the environment win over it.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.FormsDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.FormsDirectory); err == nil {
			cfg.FormsDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.FormsDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("provider", cfg.Provider)
	viper.SetDefault("model", cfg.Model)
	viper.SetDefault("sessionttl", cfg.SessionTTL)
	viper.SetDefault("origins", cfg.AllowedOrigins)
	viper.SetDefault("openrouter_url", cfg.OpenRouterURL)

	// API keys keep the names the hosted services document
	_ = viper.BindEnv("openrouter_key", EnvPrefix+"_OPENROUTER_KEY", "OPENROUTER_API_KEY", "My_api_key")
	_ = viper.BindEnv("anthropic_key", EnvPrefix+"_ANTHROPIC_KEY", "ANTHROPIC_API_KEY")
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for the HTTP backend")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.FormsDirectory, "Directory containing HTML and PDF forms")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum upload size in bytes")
	pflag.String("provider", cfg.Provider, "Question provider (openrouter, anthropic, fallback)")
	pflag.String("model", cfg.Model, "Model used by the question provider (provider default when empty)")
	pflag.Duration("sessionttl", cfg.SessionTTL, "How long an idle session is kept")
	pflag.StringSlice("origins", cfg.AllowedOrigins, "Extra CORS origins allowed besides browser extensions")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxfilesize",
		"provider", "model", "sessionttl", "origins",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Form Filler - detect, question and fill HTML and PDF forms\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                      "+
			"# MCP over stdio, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/forms                 "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server                        # HTTP backend on 127.0.0.1:8004\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --provider=anthropic   # questions from Claude\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FORM_FILLER_MODE           Server mode\n")
		fmt.Fprintf(os.Stderr, "  FORM_FILLER_HOST           Server host\n")
		fmt.Fprintf(os.Stderr, "  FORM_FILLER_PORT           Server port\n")
		fmt.Fprintf(os.Stderr, "  FORM_FILLER_DIR            Forms directory\n")
		fmt.Fprintf(os.Stderr, "  FORM_FILLER_LOGLEVEL       Log level\n")
		fmt.Fprintf(os.Stderr, "  FORM_FILLER_MAXFILESIZE    Maximum upload size\n")
		fmt.Fprintf(os.Stderr, "  FORM_FILLER_PROVIDER       Question provider\n")
		fmt.Fprintf(os.Stderr, "  FORM_FILLER_OPENROUTER_KEY OpenRouter API key (also OPENROUTER_API_KEY)\n")
		fmt.Fprintf(os.Stderr, "  ANTHROPIC_API_KEY          Anthropic API key\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.FormsDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Provider = strings.ToLower(viper.GetString("provider"))
	cfg.Model = viper.GetString("model")
	cfg.SessionTTL = viper.GetDuration("sessionttl")
	cfg.AllowedOrigins = viper.GetStringSlice("origins")
	cfg.OpenRouterURL = viper.GetString("openrouter_url")
	cfg.OpenRouterKey = viper.GetString("openrouter_key")
	cfg.AnthropicKey = viper.GetString("anthropic_key")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters when listening
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.FormsDirectory == "" {
		return errors.New("forms directory cannot be empty")
	}

	// Create the forms directory on first use
	if _, err := os.Stat(c.FormsDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.FormsDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create forms directory %s: %w", c.FormsDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access forms directory %s: %w", c.FormsDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	switch c.Provider {
	case questions.ProviderOpenRouter, questions.ProviderAnthropic, questions.ProviderFallback:
	default:
		return fmt.Errorf("invalid provider: %s (must be one of: openrouter, anthropic, fallback)", c.Provider)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// AIConfigured reports whether the selected provider has an API key
func (c *Config) AIConfigured() bool {
	switch c.Provider {
	case questions.ProviderOpenRouter:
		return c.OpenRouterKey != ""
	case questions.ProviderAnthropic:
		return c.AnthropicKey != ""
	default:
		return false
	}
}

// QuestionOptions returns the provider settings for questions.New
func (c *Config) QuestionOptions() questions.Options {
	return questions.Options{
		Provider:      c.Provider,
		Model:         c.Model,
		OpenRouterKey: c.OpenRouterKey,
		OpenRouterURL: c.OpenRouterURL,
		AnthropicKey:  c.AnthropicKey,
	}
}

// String returns a string representation of the configuration. API keys
// are reported as set or unset only.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, FormsDirectory: %s, LogLevel: %s, "+
		"MaxFileSize: %d, Provider: %s, AIConfigured: %t, SessionTTL: %s}",
		c.Mode, c.Host, c.Port, c.FormsDirectory, c.LogLevel,
		c.MaxFileSize, c.Provider, c.AIConfigured(), c.SessionTTL)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
