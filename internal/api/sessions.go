package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/pdf"
	"github.com/a3tai/mcp-form-filler/internal/questions"
	"github.com/a3tai/mcp-form-filler/internal/session"
	"github.com/a3tai/mcp-form-filler/internal/webform"
)

// multipartOverhead is allowed on top of the file size for form encoding
const multipartOverhead = 1 << 20

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type nextQuestionRequest struct {
	SessionID string          `json:"session_id"`
	Answer    json.RawMessage `json:"answer"`
}

type questionPayload struct {
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
	FieldName   string `json:"field_name"`
	Current     int    `json:"current"`
	Total       int    `json:"total"`
}

type questionResponse struct {
	SessionID string          `json:"session_id"`
	Question  questionPayload `json:"question"`
}

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, s.tooLargeMessage())
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUploadSize+1))
	if err != nil {
		s.logger.Error("PDF upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Upload failed: %v", err))
		return
	}

	doc, err := s.pdf.Analyze(header.Filename, data)
	switch {
	case err == nil:
	case errors.Is(err, pdf.ErrNoFileName):
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	case errors.Is(err, pdf.ErrNotPDF):
		writeError(w, http.StatusBadRequest, "File must be a PDF")
		return
	case errors.Is(err, pdf.ErrTooLarge):
		writeError(w, http.StatusBadRequest, s.tooLargeMessage())
		return
	case errors.Is(err, pdf.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, "File is empty")
		return
	case errors.Is(err, pdf.ErrInvalidPDF), errors.Is(err, pdf.ErrNoFields):
		writeError(w, http.StatusBadRequest, "No fillable fields found in PDF")
		return
	default:
		s.logger.Error("PDF upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Upload failed: %v", err))
		return
	}

	fields := make([]questions.Field, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		fields = append(fields, questions.Field{
			Name:    f.Name,
			Type:    f.Type.QuestionType(),
			Options: f.Options,
		})
	}

	sess := s.sessions.Create(session.Params{
		Kind:        session.KindPDF,
		Fields:      fields,
		OriginalPDF: data,
		PDFText:     doc.Text,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":   sess.ID,
		"total_fields": len(fields),
		"message":      "PDF uploaded successfully",
	})
}

func (s *Server) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum %dMB.", s.opts.MaxUploadSize/(1024*1024))
}

// lookupSession writes the 404 itself when the session is unknown
func (s *Server) lookupSession(w http.ResponseWriter, id string) (*session.Session, bool) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadSize, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	sess, ok := s.lookupSession(w, req.SessionID)
	if !ok {
		return
	}

	step, ok := sess.Start()
	if !ok {
		writeError(w, http.StatusBadRequest, "No fields to process")
		return
	}
	writeJSON(w, http.StatusOK, s.ask(r.Context(), sess, step))
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	var req nextQuestionRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadSize, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	sess, ok := s.lookupSession(w, req.SessionID)
	if !ok {
		return
	}

	var answer *webform.Answer
	if len(req.Answer) > 0 && string(req.Answer) != "null" {
		var a webform.Answer
		if err := json.Unmarshal(req.Answer, &a); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid answer: %v", err))
			return
		}
		answer = &a
	}

	step, ok := sess.Advance(answer)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"completed": true})
		return
	}
	writeJSON(w, http.StatusOK, s.ask(r.Context(), sess, step))
}

// ask phrases the question for step; generation problems never fail the request
func (s *Server) ask(ctx context.Context, sess *session.Session, step session.Step) questionResponse {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QuestionTimeout)
	defer cancel()

	q, err := s.generator.Generate(ctx, step.Field, sess.Context())
	if err != nil {
		s.logger.Warn("Question generation failed",
			zap.String("session_id", sess.ID),
			zap.String("field", step.Field.Name),
			zap.Error(err))
		q = questions.Simple(step.Field.Name)
	}

	return questionResponse{
		SessionID: sess.ID,
		Question: questionPayload{
			Text:        q.Text,
			Explanation: q.Explanation,
			FieldName:   step.Field.Name,
			Current:     step.Current,
			Total:       step.Total,
		},
	}
}

func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadSize, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	sess, ok := s.lookupSession(w, req.SessionID)
	if !ok {
		return
	}

	if sess.Kind != session.KindPDF {
		writeError(w, http.StatusBadRequest, "This is not a PDF form session")
		return
	}
	answers := sess.Answers()
	if len(answers) == 0 {
		writeError(w, http.StatusBadRequest, "No answers provided")
		return
	}
	if len(sess.OriginalPDF) == 0 {
		writeError(w, http.StatusBadRequest, "Original PDF not found")
		return
	}

	filled := s.pdf.Fill(sess.OriginalPDF, answers.Strings())
	s.sessions.Delete(sess.ID)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment;filename=completed_form.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(filled)
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r.URL.Query().Get("session_id"))
	if !ok {
		return
	}
	fieldName := r.URL.Query().Get("field_name")
	if fieldName == "" {
		fieldName = "signature"
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("Image upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sess.AttachImage(fieldName, session.Image{Filename: header.Filename, Data: data})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Image uploaded successfully",
	})
}
