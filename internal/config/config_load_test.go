package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var envVars = []string{
	"FORM_FILLER_MODE",
	"FORM_FILLER_HOST",
	"FORM_FILLER_PORT",
	"FORM_FILLER_DIR",
	"FORM_FILLER_LOGLEVEL",
	"FORM_FILLER_MAXFILESIZE",
	"FORM_FILLER_PROVIDER",
	"FORM_FILLER_SESSIONTTL",
	"FORM_FILLER_OPENROUTER_KEY",
	"FORM_FILLER_ANTHROPIC_KEY",
	"OPENROUTER_API_KEY",
	"My_api_key",
	"ANTHROPIC_API_KEY",
}

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

func clearEnvVars() {
	for _, name := range envVars {
		os.Unsetenv(name)
	}
}

// prepare isolates one LoadFromFlags call: fresh flags, clean environment
// and a working directory without a .env file.
func prepare(t *testing.T, args ...string) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	})

	t.Chdir(t.TempDir())
	os.Args = append([]string{"mcp-form-filler"}, args...)
	resetFlags()
	clearEnvVars()
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	prepare(t)

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Port != 8004 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8004)
	}
	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 50*1024*1024)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("LoadFromFlags() SessionTTL = %v, want %v", cfg.SessionTTL, time.Hour)
	}
	if cfg.AIConfigured() {
		t.Error("LoadFromFlags() AIConfigured should be false without keys")
	}
	if !filepath.IsAbs(cfg.FormsDirectory) {
		t.Errorf("LoadFromFlags() FormsDirectory = %v, want absolute path", cfg.FormsDirectory)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantMode     string
		wantHost     string
		wantPort     int
		wantLogLevel string
		wantProvider string
		wantTTL      time.Duration
	}{
		{
			name:         "server mode",
			args:         []string{"--mode=server"},
			wantMode:     "server",
			wantHost:     "127.0.0.1",
			wantPort:     8004,
			wantLogLevel: "info",
			wantProvider: "openrouter",
			wantTTL:      time.Hour,
		},
		{
			name:         "custom host and port",
			args:         []string{"--mode=server", "--host=0.0.0.0", "--port=9090"},
			wantMode:     "server",
			wantHost:     "0.0.0.0",
			wantPort:     9090,
			wantLogLevel: "info",
			wantProvider: "openrouter",
			wantTTL:      time.Hour,
		},
		{
			name:         "debug logging with anthropic",
			args:         []string{"--loglevel=debug", "--provider=Anthropic"},
			wantMode:     "stdio",
			wantHost:     "127.0.0.1",
			wantPort:     8004,
			wantLogLevel: "debug",
			wantProvider: "anthropic",
			wantTTL:      time.Hour,
		},
		{
			name:         "short sessions",
			args:         []string{"--sessionttl=10m"},
			wantMode:     "stdio",
			wantHost:     "127.0.0.1",
			wantPort:     8004,
			wantLogLevel: "info",
			wantProvider: "openrouter",
			wantTTL:      10 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prepare(t, tt.args...)

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Mode != tt.wantMode {
				t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, tt.wantHost)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, tt.wantPort)
			}
			if cfg.LogLevel != tt.wantLogLevel {
				t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, tt.wantLogLevel)
			}
			if cfg.Provider != tt.wantProvider {
				t.Errorf("LoadFromFlags() Provider = %v, want %v", cfg.Provider, tt.wantProvider)
			}
			if cfg.SessionTTL != tt.wantTTL {
				t.Errorf("LoadFromFlags() SessionTTL = %v, want %v", cfg.SessionTTL, tt.wantTTL)
			}
		})
	}
}

func TestLoadFromFlags_Origins(t *testing.T) {
	prepare(t, "--origins=http://localhost:3000,https://forms.example")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	want := []string{"http://localhost:3000", "https://forms.example"}
	if strings.Join(cfg.AllowedOrigins, " ") != strings.Join(want, " ") {
		t.Errorf("LoadFromFlags() AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	prepare(t)
	os.Setenv("FORM_FILLER_MODE", "server")
	os.Setenv("FORM_FILLER_HOST", "192.168.1.1")
	os.Setenv("FORM_FILLER_PORT", "3000")
	os.Setenv("FORM_FILLER_LOGLEVEL", "warn")
	os.Setenv("FORM_FILLER_MAXFILESIZE", "2000000")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "server")
	}
	if cfg.Host != "192.168.1.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, "192.168.1.1")
	}
	if cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 3000)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.MaxFileSize != 2000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 2000000)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	prepare(t, "--mode=stdio", "--host=localhost", "--port=8888")
	os.Setenv("FORM_FILLER_MODE", "server")
	os.Setenv("FORM_FILLER_HOST", "192.168.1.1")
	os.Setenv("FORM_FILLER_PORT", "3000")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, "stdio")
	}
	if cfg.Host != "localhost" {
		t.Errorf("LoadFromFlags() Host = %v, want %v (should override env)", cfg.Host, "localhost")
	}
	if cfg.Port != 8888 {
		t.Errorf("LoadFromFlags() Port = %v, want %v (should override env)", cfg.Port, 8888)
	}
}

func TestLoadFromFlags_APIKeys(t *testing.T) {
	tests := []struct {
		name           string
		env            map[string]string
		wantOpenRouter string
		wantAnthropic  string
	}{
		{
			name:           "prefixed key wins",
			env:            map[string]string{"FORM_FILLER_OPENROUTER_KEY": "a", "OPENROUTER_API_KEY": "b"},
			wantOpenRouter: "a",
		},
		{
			name:           "service name",
			env:            map[string]string{"OPENROUTER_API_KEY": "b", "My_api_key": "c"},
			wantOpenRouter: "b",
		},
		{
			name:           "legacy name",
			env:            map[string]string{"My_api_key": "c"},
			wantOpenRouter: "c",
		},
		{
			name:          "anthropic",
			env:           map[string]string{"ANTHROPIC_API_KEY": "d"},
			wantAnthropic: "d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prepare(t)
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}
			if cfg.OpenRouterKey != tt.wantOpenRouter {
				t.Errorf("LoadFromFlags() OpenRouterKey = %q, want %q", cfg.OpenRouterKey, tt.wantOpenRouter)
			}
			if cfg.AnthropicKey != tt.wantAnthropic {
				t.Errorf("LoadFromFlags() AnthropicKey = %q, want %q", cfg.AnthropicKey, tt.wantAnthropic)
			}
		})
	}
}

func TestLoadFromFlags_DotEnv(t *testing.T) {
	prepare(t)
	os.Setenv("FORM_FILLER_HOST", "10.0.0.1")

	dotenv := "FORM_FILLER_PORT=9191\nFORM_FILLER_HOST=0.0.0.0\nOPENROUTER_API_KEY=from-file\n"
	if err := os.WriteFile(".env", []byte(dotenv), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Port != 9191 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 9191)
	}
	if cfg.Host != "10.0.0.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v (environment wins over .env)", cfg.Host, "10.0.0.1")
	}
	if cfg.OpenRouterKey != "from-file" {
		t.Errorf("LoadFromFlags() OpenRouterKey = %q, want %q", cfg.OpenRouterKey, "from-file")
	}
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "mode", args: []string{"--mode=invalid"}, wantErr: "mode must be either 'stdio' or 'server'"},
		{name: "port", args: []string{"--mode=server", "--port=99999"}, wantErr: "port must be between 1 and 65535"},
		{name: "log level", args: []string{"--loglevel=invalid"}, wantErr: "invalid log level"},
		{name: "provider", args: []string{"--provider=nope"}, wantErr: "invalid provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prepare(t, tt.args...)

			_, err := LoadFromFlags()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromFlags() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	prepare(t, "--version")

	_, err := LoadFromFlags()
	if err == nil || err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}
