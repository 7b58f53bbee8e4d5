// Package session keeps the state of one question and answer run over a
// PDF or website form. Sessions live in memory only.
package session

import (
	"sync"
	"time"

	"github.com/a3tai/mcp-form-filler/internal/questions"
	"github.com/a3tai/mcp-form-filler/internal/webform"
)

// Kind tells what a session fills
type Kind string

// Session kinds
const (
	KindPDF     Kind = "pdf"
	KindWebsite Kind = "website"
)

// Image is a file uploaded for a field, typically a signature
type Image struct {
	Filename string
	Data     []byte
}

// Session is one form filling run. Fields are fixed at creation; the cursor
// and the answers change as questions are answered.
type Session struct {
	ID          string
	Kind        Kind
	Fields      []questions.Field
	CreatedAt   time.Time
	OriginalPDF []byte
	PDFText     string
	FormHTML    string

	mu      sync.Mutex
	current int
	answers webform.AnswerMap
	images  map[string]Image
}

// Step is the field the cursor points at, numbered from 1
type Step struct {
	Field   questions.Field
	Current int
	Total   int
}

// Context returns the text questions are generated against
func (s *Session) Context() string {
	if s.Kind == KindPDF {
		return s.PDFText
	}
	return s.FormHTML
}

// Start rewinds the cursor to the first field. ok is false when the
// session has no fields.
func (s *Session) Start() (Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = 0
	return s.step()
}

// Advance stores answer for the current field, unless answer is nil, and
// moves to the next field. ok is false once every field has been visited.
func (s *Session) Advance(answer *webform.Answer) (Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if answer != nil && s.current < len(s.Fields) {
		if name := s.Fields[s.current].Name; name != "" {
			s.answers[name] = *answer
		}
	}
	if s.current < len(s.Fields) {
		s.current++
	}
	return s.step()
}

func (s *Session) step() (Step, bool) {
	if s.current >= len(s.Fields) {
		return Step{}, false
	}
	return Step{
		Field:   s.Fields[s.current],
		Current: s.current + 1,
		Total:   len(s.Fields),
	}, true
}

// Answers returns a copy of the answers given so far
func (s *Session) Answers() webform.AnswerMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(webform.AnswerMap, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// SetAnswer records an answer out of sequence
func (s *Session) SetAnswer(field string, answer webform.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[field] = answer
}

// AttachImage stores an uploaded image and marks the field as answered
func (s *Session) AttachImage(field string, img Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.images[field] = img
	s.answers[field] = webform.Scalar("[IMAGE_UPLOADED: " + img.Filename + "]")
}

// Image returns the image uploaded for field
func (s *Session) Image(field string) (Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.images[field]
	return img, ok
}
