package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/browser"
	"github.com/a3tai/mcp-form-filler/internal/config"
	"github.com/a3tai/mcp-form-filler/internal/descriptions"
	"github.com/a3tai/mcp-form-filler/internal/dom"
	"github.com/a3tai/mcp-form-filler/internal/pdf"
	"github.com/a3tai/mcp-form-filler/internal/pdf/security"
	"github.com/a3tai/mcp-form-filler/internal/webform"
)

// Snapshotter renders a live page to HTML
type Snapshotter func(ctx context.Context, url string) (string, error)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	paths      *security.PathValidator
	snapshot   Snapshotter
	mcpServer  *server.MCPServer
	logger     *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger *zap.Logger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := security.NewPathValidator(cfg.FormsDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		paths:      paths,
		mcpServer:  mcpServer,
		logger:     logger,
		snapshot: func(ctx context.Context, url string) (string, error) {
			return browser.Snapshot(ctx, url, browser.Options{Logger: logger})
		},
	}

	s.registerTools()

	return s, nil
}

// pageSourceOptions are shared by the tools that read an HTML page
func pageSourceOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("html",
			mcp.Description("Inline HTML of the page"),
		),
		mcp.WithString("path",
			mcp.Description("HTML file inside the forms directory"),
		),
		mcp.WithString("url",
			mcp.Description("Live page to render in headless Chrome"),
		),
	}
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	detectOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("detect_forms")),
	}, pageSourceOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("detect_forms", detectOpts...), s.handleDetectForms)

	extractOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("extract_form_html")),
	}, pageSourceOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("extract_form_html", extractOpts...), s.handleExtractFormHTML)

	fillOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("fill_form")),
		mcp.WithString("answers",
			mcp.Required(),
			mcp.Description(`JSON object of field name to value, e.g. {"email":"a@b.com","days":["mon","tue"]}`),
		),
		mcp.WithString("output",
			mcp.Description("Write the filled HTML to this file inside the forms directory"),
		),
	}, pageSourceOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("fill_form", fillOpts...), s.handleFillForm)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_form_fields",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_form_fields")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	), s.handlePDFFormFields)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_fill_form",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_fill_form")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF form"),
		),
		mcp.WithString("answers",
			mcp.Required(),
			mcp.Description(`JSON object of field name to value, e.g. {"full_name":"Ada Lovelace","agree":"yes"}`),
		),
		mcp.WithString("output",
			mcp.Description("Output path (defaults to <name>_filled.pdf)"),
		),
	), s.handlePDFFillForm)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_read_text",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_read_text")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	), s.handlePDFReadText)

	s.mcpServer.AddTool(mcp.NewTool(
		"form_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("form_server_info")),
	), s.handleServerInfo)
}

// loadPage builds a document from exactly one of html, path or url
func (s *Server) loadPage(ctx context.Context, request mcp.CallToolRequest) (*dom.Document, error) {
	markup := request.GetString("html", "")
	path := request.GetString("path", "")
	url := request.GetString("url", "")

	sources := 0
	for _, v := range []string{markup, path, url} {
		if v != "" {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("provide exactly one of html, path or url")
	}

	switch {
	case path != "":
		resolved, err := s.paths.Resolve(path)
		if err != nil {
			return nil, fmt.Errorf("security validation failed: %w", err)
		}
		f, err := os.Open(resolved) // #nosec G304 -- path confined by the path validator
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return dom.Parse(f)
	case url != "":
		rendered, err := s.snapshot(ctx, url)
		if err != nil {
			return nil, err
		}
		return dom.ParseString(rendered)
	default:
		return dom.ParseString(markup)
	}
}

func parseAnswers(raw string) (webform.AnswerMap, error) {
	var answers webform.AnswerMap
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("answers must be a JSON object: %w", err)
	}
	return answers, nil
}

// Handler functions
func (s *Server) handleDetectForms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.loadPage(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := webform.NewPage(doc, s.logger).DetectForms()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFormReport(report)), nil
}

func (s *Server) handleExtractFormHTML(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	doc, err := s.loadPage(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	markup, err := webform.NewPage(doc, s.logger).ExtractFormHTML()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if markup == "" {
		return mcp.NewToolResultText("No forms found"), nil
	}
	return mcp.NewToolResultText(markup), nil
}

func (s *Server) handleFillForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("answers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answers, err := parseAnswers(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.loadPage(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := webform.NewPage(doc, s.logger).FillForm(answers)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	markup, err := doc.HTML()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := result.Message + "\n"
	if output := request.GetString("output", ""); output != "" {
		resolved, err := s.paths.Resolve(output)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("security validation failed: %v", err)), nil
		}
		if err := os.WriteFile(resolved, []byte(markup), 0o600); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write %s: %v", output, err)), nil
		}
		responseText += fmt.Sprintf("Output: %s\n", resolved)
		return mcp.NewToolResultText(responseText), nil
	}

	responseText += "\nHTML:\n" + markup
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFFormFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFFormFields(pdf.PDFFormFieldsRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPDFFormFieldsResult(result)), nil
}

func (s *Server) handlePDFFillForm(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := request.RequireString("answers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answers, err := parseAnswers(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFFillForm(pdf.PDFFillFormRequest{
		Path:    path,
		Answers: answers.Strings(),
		Output:  request.GetString("output", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("%s\n", result.Message)
	responseText += fmt.Sprintf("Input: %s\n", result.Path)
	responseText += fmt.Sprintf("Output: %s\n", result.Output)
	responseText += fmt.Sprintf("Fields filled: %d\n", result.FieldsFilled)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFReadText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFReadText(pdf.PDFReadTextRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Successfully read PDF: %s\n", result.Path)
	responseText += fmt.Sprintf("Pages: %d\n", result.Pages)
	responseText += fmt.Sprintf("Size: %d bytes\n", result.Size)
	if strings.TrimSpace(result.Content) == "" {
		responseText += "\nNo extractable text. The document may be scanned.\n"
		return mcp.NewToolResultText(responseText), nil
	}
	responseText += "\nContent:\n" + result.Content
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Formatting methods
func formatFormReport(report webform.FormReport) string {
	if report.FormsFound == 0 {
		return "No fillable forms found"
	}

	text := fmt.Sprintf("Found %d form(s)\n", report.FormsFound)
	for i, form := range report.Forms {
		text += fmt.Sprintf("\n%d. %s (%s)\n", i+1, form.Name, form.ID)
		text += fmt.Sprintf("   Selector: %s\n", form.Selector)
		if form.Action != "" {
			text += fmt.Sprintf("   Action: %s %s\n", form.Method, form.Action)
		}
		text += "   Fields:\n"
		for _, field := range form.Fields {
			text += fmt.Sprintf("   • %s [%s] %q", field.Name, field.Kind, field.Label)
			if len(field.Options) > 0 {
				values := make([]string, 0, len(field.Options))
				for _, opt := range field.Options {
					values = append(values, opt.Value)
				}
				text += fmt.Sprintf(" options: %s", strings.Join(values, ", "))
			}
			if field.CurrentValue != nil && *field.CurrentValue != "" {
				text += fmt.Sprintf(" value: %q", *field.CurrentValue)
			}
			text += "\n"
		}
	}
	return text
}

func formatPDFFormFieldsResult(result *pdf.PDFFormFieldsResult) string {
	if result.Total == 0 {
		return fmt.Sprintf("No form fields found in %s", result.Path)
	}

	text := fmt.Sprintf("Found %d form field(s) in %s\n\n", result.Total, result.Path)
	for i, field := range result.Fields {
		text += fmt.Sprintf("%d. %s (%s, page %d)", i+1, field.Name, field.Type, field.Page)
		if field.ReadOnly {
			text += " read-only"
		}
		if field.Required {
			text += " required"
		}
		text += "\n"
		if len(field.Options) > 0 {
			text += fmt.Sprintf("   Options: %s\n", strings.Join(field.Options, ", "))
		}
		if field.Value != "" {
			text += fmt.Sprintf("   Value: %s\n", field.Value)
		}
	}
	return text
}

func (s *Server) formatServerInfo() string {
	provider := s.config.Provider
	if !s.config.AIConfigured() {
		provider += " (no API key, using fallback questions)"
	}

	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Forms Directory: %s\n", s.paths.GetConfiguredDirectory())
	text += fmt.Sprintf("Max File Size: %d MB\n", s.pdfService.GetMaxFileSize()/(1024*1024))
	text += fmt.Sprintf("Question Provider: %s\n\n", provider)

	text += "Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		summary, _, _ := strings.Cut(descriptions.GetToolDescription(name), "\n")
		text += fmt.Sprintf("• %s: %s\n", name, summary)
	}
	return text
}

// Run serves MCP over standard I/O until the client disconnects
func (s *Server) Run(_ context.Context) error {
	s.logger.Info("Starting MCP form filler in stdio mode",
		zap.String("directory", s.paths.GetConfiguredDirectory()))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
