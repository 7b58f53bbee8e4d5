package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/a3tai/mcp-form-filler/internal/config"
	"github.com/a3tai/mcp-form-filler/internal/pdf"
	"github.com/a3tai/mcp-form-filler/internal/session"
)

const testVersion = "1.2.3"

func captureVersion(t *testing.T) string {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		printVersion()
		w.Close()
	}()

	var buf bytes.Buffer
	io.Copy(&buf, r)
	<-done
	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	tests := []struct {
		name      string
		version   string
		buildTime string
		gitCommit string
		expected  []string
	}{
		{
			name:      "build flags set",
			version:   testVersion,
			buildTime: "2023-12-01_10:30:00",
			gitCommit: "abc123",
			expected: []string{
				"MCP Form Filler",
				"Version: " + testVersion,
				"Build Time: 2023-12-01_10:30:00",
				"Git Commit: abc123",
				"Built with:",
			},
		},
		{
			name:      "defaults",
			version:   "dev",
			buildTime: "unknown",
			gitCommit: "unknown",
			expected: []string{
				"MCP Form Filler",
				"Version: dev",
				"Build Time: unknown",
				"Git Commit: unknown",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, buildTime, gitCommit = tt.version, tt.buildTime, tt.gitCommit

			output := captureVersion(t)
			for _, expected := range tt.expected {
				if !strings.Contains(output, expected) {
					t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
				}
			}
		})
	}
}

func TestNewHTTPServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = "server"
	cfg.Port = 9123
	cfg.Provider = "fallback"
	cfg.Version = testVersion

	pdfService, err := pdf.NewService(cfg.MaxFileSize, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	httpServer, err := newHTTPServer(cfg, pdfService, session.NewStore(time.Hour, nil), nil)
	if err != nil {
		t.Fatalf("newHTTPServer() error = %v", err)
	}
	if httpServer.Addr != cfg.Address() {
		t.Errorf("Addr = %s, want %s", httpServer.Addr, cfg.Address())
	}

	ts := httptest.NewServer(httpServer.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "healthy" || health.Version != testVersion {
		t.Errorf("health = %+v, want healthy %s", health, testVersion)
	}
}

func TestNewHTTPServer_UnknownProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider = "nope"

	pdfService, err := pdf.NewService(cfg.MaxFileSize, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	if _, err := newHTTPServer(cfg, pdfService, session.NewStore(time.Hour, nil), nil); err == nil {
		t.Error("newHTTPServer() expected error for unknown provider")
	}
}
