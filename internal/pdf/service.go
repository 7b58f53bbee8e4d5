package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/pdf/security"
)

// Service handles PDF form operations on uploads and on files inside the
// configured directory
type Service struct {
	maxFileSize   int64
	validator     *Validator
	pathValidator *security.PathValidator
	logger        *zap.Logger
}

// NewService creates a new PDF service
func NewService(maxFileSize int64, configuredDirectory string, logger *zap.Logger) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		pathValidator: pathValidator,
		logger:        logger,
	}, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// Directory returns the directory file operations are confined to
func (s *Service) Directory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

// Analyze validates an upload and extracts its fields and text.
// ErrNoFields is returned when the form has nothing to fill.
func (s *Service) Analyze(filename string, data []byte) (*Document, error) {
	if err := s.validator.ValidateUpload(filename, data); err != nil {
		return nil, err
	}

	fields, err := ExtractFields(data)
	if err != nil {
		s.logger.Warn("Field extraction failed", zap.String("file", filename), zap.Error(err))
		return nil, ErrNoFields
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	text := ExtractText(data)
	s.logger.Info("Analyzed PDF upload",
		zap.String("file", filename),
		zap.Int("fields", len(fields)),
		zap.Int("text_chars", len(text)))

	return &Document{Fields: fields, Text: text}, nil
}

// Fill fills data and falls back to the original bytes when that fails
func (s *Service) Fill(data []byte, answers map[string]string) []byte {
	out, err := Fill(data, answers)
	if err != nil {
		s.logger.Warn("PDF fill failed, returning original document", zap.Error(err))
	}
	return out
}

func (s *Service) readFile(path string) (string, []byte, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.validator.ValidateFile(resolved); err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(resolved) // #nosec G304 -- path confined by the path validator
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return resolved, data, nil
}

// PDFFormFields lists the fields of a PDF on disk
func (s *Service) PDFFormFields(req PDFFormFieldsRequest) (*PDFFormFieldsResult, error) {
	path, data, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}

	fields, err := ExtractFields(data)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []FormField{}
	}

	return &PDFFormFieldsResult{Path: path, Fields: fields, Total: len(fields)}, nil
}

// PDFFillForm fills a PDF on disk and writes the result. Without an explicit
// output the result goes next to the input as <name>_filled.pdf.
func (s *Service) PDFFillForm(req PDFFillFormRequest) (*PDFFillFormResult, error) {
	path, data, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}

	output := req.Output
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + "_filled.pdf"
	}
	output, err = s.pathValidator.Resolve(output)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	fields, err := ExtractFields(data)
	if err != nil {
		return nil, err
	}
	matched := MatchAnswers(fields, req.Answers)

	filled, fillErr := Fill(data, req.Answers)
	if err := os.WriteFile(output, filled, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write filled PDF: %w", err)
	}

	result := &PDFFillFormResult{
		Path:         path,
		Output:       output,
		FieldsFilled: matched,
		Message:      fmt.Sprintf("Successfully filled %d form fields", matched),
	}
	if fillErr != nil {
		s.logger.Warn("PDF fill failed, wrote original document", zap.String("path", path), zap.Error(fillErr))
		result.FieldsFilled = 0
		result.Message = fmt.Sprintf("Could not fill form, original copied: %v", fillErr)
	}
	return result, nil
}

// PDFReadText extracts the text of a PDF on disk
func (s *Service) PDFReadText(req PDFReadTextRequest) (*PDFReadTextResult, error) {
	path, data, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}

	text, pages, err := extractText(data)
	if err != nil {
		return nil, err
	}

	return &PDFReadTextResult{
		Path:    path,
		Content: text,
		Pages:   pages,
		Size:    int64(len(data)),
	}, nil
}
