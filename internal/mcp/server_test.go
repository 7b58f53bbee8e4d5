package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/mcp-form-filler/internal/config"
	"github.com/a3tai/mcp-form-filler/internal/pdf"
	"github.com/a3tai/mcp-form-filler/internal/pdf/pdftest"
)

const contactForm = `<html><body>
<form id="contact" action="/send">
  <label for="email">Email</label><input type="email" id="email" name="email">
  <input type="checkbox" name="topics" value="billing">
  <input type="checkbox" name="topics" value="support">
</form>
</body></html>`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.FormsDirectory = dir
	cfg.ServerName = "test-server"
	cfg.Provider = "fallback"

	pdfService, err := pdf.NewService(1024*1024, dir, nil)
	if err != nil {
		t.Fatalf("failed to create PDF service: %v", err)
	}

	server, err := NewServer(cfg, pdfService, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return server, dir
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	server, _ := newTestServer(t)

	if server.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
	if server.snapshot == nil {
		t.Error("snapshot should default to the headless browser")
	}

	if _, err := NewServer(config.DefaultConfig(), nil, nil); err == nil {
		t.Error("expected error for nil pdfService")
	}
}

func TestHandleDetectForms(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleDetectForms(context.Background(), callRequest(map[string]interface{}{
		"html": contactForm,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	text := extractTextFromResult(result)
	for _, want := range []string{"Found 1 form(s)", "#contact", `email [text] "Email"`, "options: billing, support"} {
		if !strings.Contains(text, want) {
			t.Errorf("result should contain %q, got:\n%s", want, text)
		}
	}
}

func TestHandleDetectForms_Sources(t *testing.T) {
	server, dir := newTestServer(t)
	if err := os.WriteFile(filepath.Join(dir, "contact.html"), []byte(contactForm), 0o600); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}
	server.snapshot = func(_ context.Context, url string) (string, error) {
		if url == "https://down.example" {
			return "", errors.New("navigation failed")
		}
		return contactForm, nil
	}

	tests := []struct {
		name      string
		args      map[string]interface{}
		wantError string
	}{
		{name: "file in forms directory", args: map[string]interface{}{"path": "contact.html"}},
		{name: "rendered url", args: map[string]interface{}{"url": "https://forms.example"}},
		{name: "no source", args: map[string]interface{}{}, wantError: "exactly one"},
		{name: "two sources", args: map[string]interface{}{"html": contactForm, "path": "contact.html"}, wantError: "exactly one"},
		{name: "escaping path", args: map[string]interface{}{"path": "../../etc/passwd"}, wantError: "security validation failed"},
		{name: "missing file", args: map[string]interface{}{"path": "missing.html"}, wantError: "failed to open"},
		{name: "browser failure", args: map[string]interface{}{"url": "https://down.example"}, wantError: "navigation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handleDetectForms(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			text := extractTextFromResult(result)
			if tt.wantError == "" {
				if result.IsError || !strings.Contains(text, "Found 1 form(s)") {
					t.Errorf("unexpected result: %s", text)
				}
				return
			}
			if !result.IsError || !strings.Contains(text, tt.wantError) {
				t.Errorf("expected error containing %q, got: %s", tt.wantError, text)
			}
		})
	}
}

func TestHandleExtractFormHTML(t *testing.T) {
	server, _ := newTestServer(t)

	result, _ := server.handleExtractFormHTML(context.Background(), callRequest(map[string]interface{}{
		"html": contactForm,
	}))
	text := extractTextFromResult(result)
	if !strings.HasPrefix(text, `<form id="contact" action="/send">`) {
		t.Errorf("unexpected form html: %s", text)
	}

	result, _ = server.handleExtractFormHTML(context.Background(), callRequest(map[string]interface{}{
		"html": "<p>none</p>",
	}))
	if text := extractTextFromResult(result); text != "No forms found" {
		t.Errorf("expected 'No forms found', got %q", text)
	}
}

func TestHandleFillForm(t *testing.T) {
	server, _ := newTestServer(t)

	result, _ := server.handleFillForm(context.Background(), callRequest(map[string]interface{}{
		"html":    contactForm,
		"answers": `{"email":"ada@example.com","topics":["support"]}`,
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	text := extractTextFromResult(result)
	if !strings.Contains(text, "Successfully filled 3 form fields") {
		t.Errorf("unexpected message: %s", text)
	}
	if !strings.Contains(text, `value="ada@example.com"`) {
		t.Errorf("filled html should carry the email: %s", text)
	}
	if !strings.Contains(text, `value="support" checked=""`) {
		t.Errorf("support should be checked: %s", text)
	}
}

func TestHandleFillForm_WritesOutput(t *testing.T) {
	server, dir := newTestServer(t)

	result, _ := server.handleFillForm(context.Background(), callRequest(map[string]interface{}{
		"html":    contactForm,
		"answers": `{"email":"ada@example.com"}`,
		"output":  "filled.html",
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	written, err := os.ReadFile(filepath.Join(dir, "filled.html"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(written), `value="ada@example.com"`) {
		t.Errorf("written html not filled: %s", written)
	}
}

func TestHandleFillForm_BadAnswers(t *testing.T) {
	server, _ := newTestServer(t)

	for _, answers := range []string{"not json", `["a"]`, `{"a":[["nested"]]}`} {
		result, _ := server.handleFillForm(context.Background(), callRequest(map[string]interface{}{
			"html":    contactForm,
			"answers": answers,
		}))
		if !result.IsError {
			t.Errorf("expected error for answers %s", answers)
		}
	}

	result, _ := server.handleFillForm(context.Background(), callRequest(map[string]interface{}{
		"html": contactForm,
	}))
	if !result.IsError {
		t.Error("expected error when answers are missing")
	}
}

func TestHandlePDFTools(t *testing.T) {
	server, dir := newTestServer(t)
	if err := os.WriteFile(filepath.Join(dir, "application.pdf"), pdftest.FormPDF(), 0o600); err != nil {
		t.Fatalf("failed to write pdf: %v", err)
	}

	result, _ := server.handlePDFFormFields(context.Background(), callRequest(map[string]interface{}{
		"path": "application.pdf",
	}))
	text := extractTextFromResult(result)
	for _, want := range []string{"Found 5 form field(s)", "1. full_name (text, page 1)", "Options: US, Canada", "Value: Ada Lovelace"} {
		if !strings.Contains(text, want) {
			t.Errorf("pdf_form_fields should contain %q, got:\n%s", want, text)
		}
	}

	result, _ = server.handlePDFReadText(context.Background(), callRequest(map[string]interface{}{
		"path": "application.pdf",
	}))
	text = extractTextFromResult(result)
	if !strings.Contains(text, "Pages: 1") || !strings.Contains(text, "Application Form") {
		t.Errorf("unexpected pdf_read_text result: %s", text)
	}

	result, _ = server.handlePDFFillForm(context.Background(), callRequest(map[string]interface{}{
		"path":    "application.pdf",
		"answers": `{"unknown":"x"}`,
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}
	if _, err := os.Stat(filepath.Join(dir, "application_filled.pdf")); err != nil {
		t.Errorf("filled copy not written: %v", err)
	}

	result, _ = server.handlePDFFormFields(context.Background(), callRequest(map[string]interface{}{}))
	if !result.IsError {
		t.Error("expected error when path is missing")
	}
}

func TestHandleServerInfo(t *testing.T) {
	server, dir := newTestServer(t)

	result, _ := server.handleServerInfo(context.Background(), callRequest(nil))
	text := extractTextFromResult(result)

	for _, want := range []string{
		"test-server v1.0.0",
		"Forms Directory: " + dir,
		"Max File Size: 1 MB",
		"fallback (no API key, using fallback questions)",
		"• detect_forms: Find every fillable form",
		"• pdf_fill_form:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("server info should contain %q, got:\n%s", want, text)
		}
	}
}

// Helper function to extract text from a CallToolResult
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
