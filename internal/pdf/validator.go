package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Upload validation errors
var (
	ErrNoFileName = errors.New("no file selected")
	ErrNotPDF     = errors.New("file must be a PDF")
	ErrEmptyFile  = errors.New("file is empty")
	ErrTooLarge   = errors.New("file too large")
	ErrInvalidPDF = errors.New("invalid PDF file")
)

// Validator checks PDF uploads and files against size and format limits
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateUpload checks an uploaded file held in memory
func (v *Validator) ValidateUpload(filename string, data []byte) error {
	if filename == "" {
		return ErrNoFileName
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return ErrNotPDF
	}
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if int64(len(data)) > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrTooLarge, len(data), v.maxFileSize)
	}
	if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return nil
}

// ValidateFile checks a PDF on disk
func (v *Validator) ValidateFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("%w: %s", ErrNotPDF, filePath)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, filePath)
	}
	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrTooLarge, fileInfo.Size(), v.maxFileSize)
	}

	f, _, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	defer f.Close()

	return nil
}
