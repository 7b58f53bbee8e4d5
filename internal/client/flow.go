package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/a3tai/mcp-form-filler/internal/webform"
)

// Mode is what a flow fills
type Mode string

const (
	ModePDF     Mode = "pdf"
	ModeWebsite Mode = "website"
)

// MaxImageSize is the largest image a flow uploads
const MaxImageSize = 5 * 1024 * 1024

// Flow errors
var (
	ErrNoSession      = errors.New("no active session")
	ErrEmptyAnswer    = errors.New("please enter an answer")
	ErrCompleted      = errors.New("all questions are answered")
	ErrNotCompleted   = errors.New("questions remain unanswered")
	ErrInvalidImage   = errors.New("image must be a PNG, JPEG or GIF")
	ErrImageTooLarge  = errors.New("image file is too large, max 5MB")
	ErrWrongFlowMode  = errors.New("operation not available in this mode")
	ErrNoFormsToParse = errors.New("no form HTML provided")
)

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// Flow is the state of one question and answer run against the backend
type Flow struct {
	client *Client

	Mode        Mode
	SessionID   string
	FileName    string
	TotalFields int
	Answered    int
	Question    *Question
	Fields      []FieldSummary
	Done        bool
}

// NewFlow returns an idle flow
func NewFlow(c *Client) *Flow {
	return &Flow{client: c}
}

// Reset forgets the current session
func (f *Flow) Reset() {
	*f = Flow{client: f.client}
}

// StartPDF uploads a PDF form and asks the first question
func (f *Flow) StartPDF(ctx context.Context, filename string, data []byte) (*Question, error) {
	f.Reset()
	up, err := f.client.UploadPDF(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	f.Mode = ModePDF
	f.FileName = filename
	f.SessionID = up.SessionID
	f.TotalFields = up.TotalFields
	return f.start(ctx)
}

// StartWebsite analyzes website form markup and asks the first question
func (f *Flow) StartWebsite(ctx context.Context, formHTML string, forms []webform.FormDescriptor,
) (*Question, error) {
	f.Reset()
	if strings.TrimSpace(formHTML) == "" {
		return nil, ErrNoFormsToParse
	}
	analysis, err := f.client.AnalyzeWebsiteForm(ctx, formHTML, forms)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	f.Mode = ModeWebsite
	f.SessionID = analysis.SessionID
	f.TotalFields = analysis.TotalFields
	f.Fields = analysis.Fields
	return f.start(ctx)
}

func (f *Flow) start(ctx context.Context) (*Question, error) {
	turn, err := f.client.StartSession(ctx, f.SessionID)
	if err != nil {
		return nil, fmt.Errorf("session start failed: %w", err)
	}
	return f.apply(turn), nil
}

// Answer sends a typed answer. It returns the next question, or nil once
// every field is answered.
func (f *Flow) Answer(ctx context.Context, text string) (*Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyAnswer
	}
	answer := webform.Scalar(text)
	return f.send(ctx, &answer)
}

// Skip moves past the current field without answering it
func (f *Flow) Skip(ctx context.Context) (*Question, error) {
	return f.send(ctx, nil)
}

// UploadImage attaches an image to the current field and moves on
func (f *Flow) UploadImage(ctx context.Context, filename string, data []byte) (*Question, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	if !imageTypes[http.DetectContentType(data)] {
		return nil, ErrInvalidImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	field := "signature"
	if f.Question != nil && f.Question.FieldName != "" {
		field = f.Question.FieldName
	}
	if err := f.client.UploadImage(ctx, f.SessionID, field, filename, data); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	// the upload already stored the answer; advancing must not overwrite it
	return f.send(ctx, nil)
}

func (f *Flow) send(ctx context.Context, answer *webform.Answer) (*Question, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	turn, err := f.client.NextQuestion(ctx, f.SessionID, answer)
	if err != nil {
		return nil, err
	}
	f.Answered++
	return f.apply(turn), nil
}

func (f *Flow) ready() error {
	if f.SessionID == "" {
		return ErrNoSession
	}
	if f.Done {
		return ErrCompleted
	}
	return nil
}

func (f *Flow) apply(turn *Turn) *Question {
	if turn.Completed || turn.Question == nil {
		f.Done = true
		f.Question = nil
		return nil
	}
	f.Question = turn.Question
	if turn.Question.Total > 0 {
		f.TotalFields = turn.Question.Total
	}
	return f.Question
}

// Progress is the share of answered fields in percent
func (f *Flow) Progress() int {
	if f.Done {
		return 100
	}
	if f.TotalFields == 0 {
		return 0
	}
	return int(math.Round(float64(f.Answered) / float64(f.TotalFields) * 100))
}

// DownloadPDF fetches the filled PDF of a completed PDF flow. The session
// ends on the backend.
func (f *Flow) DownloadPDF(ctx context.Context) ([]byte, error) {
	if err := f.finished(ModePDF); err != nil {
		return nil, err
	}
	data, err := f.client.GeneratePDF(ctx, f.SessionID)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	return data, nil
}

// WebsiteAnswers fetches the answers of a completed website flow
func (f *Flow) WebsiteAnswers(ctx context.Context) (webform.AnswerMap, error) {
	if err := f.finished(ModeWebsite); err != nil {
		return nil, err
	}
	values, err := f.client.FillWebsiteForm(ctx, f.SessionID)
	if err != nil {
		return nil, err
	}
	return values.Values, nil
}

func (f *Flow) finished(mode Mode) error {
	if f.SessionID == "" {
		return ErrNoSession
	}
	if f.Mode != mode {
		return ErrWrongFlowMode
	}
	if !f.Done {
		return ErrNotCompleted
	}
	return nil
}
