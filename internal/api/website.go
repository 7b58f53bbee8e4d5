package api

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/questions"
	"github.com/a3tai/mcp-form-filler/internal/session"
	"github.com/a3tai/mcp-form-filler/internal/webform"
)

type analyzeWebsiteRequest struct {
	FormHTML  string                   `json:"form_html"`
	FormsData []webform.FormDescriptor `json:"forms_data"`
}

type fieldSummary struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

func (s *Server) handleAnalyzeWebsiteForm(w http.ResponseWriter, r *http.Request) {
	var req analyzeWebsiteRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadSize, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.FormHTML == "" {
		writeError(w, http.StatusBadRequest, "No form HTML provided")
		return
	}

	var descriptors []webform.FieldDescriptor
	if len(req.FormsData) > 0 {
		descriptors = webform.CollectFields(req.FormsData)
	} else {
		var err error
		descriptors, err = webform.FieldsFromHTML(req.FormHTML)
		if err != nil {
			s.logger.Error("Website form analysis failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if len(descriptors) == 0 {
		writeError(w, http.StatusBadRequest, "No form fields detected")
		return
	}
	s.logger.Info("Extracted fields from website form", zap.Int("fields", len(descriptors)))

	fields := make([]questions.Field, 0, len(descriptors))
	summary := make([]fieldSummary, 0, len(descriptors))
	for _, d := range descriptors {
		options := make([]string, 0, len(d.Options))
		for _, opt := range d.Options {
			options = append(options, opt.Value)
		}
		fields = append(fields, questions.Field{
			Name:    d.Name,
			Type:    string(d.Kind),
			Label:   d.Label,
			Options: options,
		})
		summary = append(summary, fieldSummary{Name: d.Name, Label: d.Label, Type: string(d.Kind)})
	}

	sess := s.sessions.Create(session.Params{
		Kind:     session.KindWebsite,
		Fields:   fields,
		FormHTML: req.FormHTML,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":   sess.ID,
		"form_type":    string(session.KindWebsite),
		"total_fields": len(fields),
		"fields":       summary,
	})
}

func (s *Server) handleFillWebsiteForm(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadSize, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	sess, ok := s.lookupSession(w, req.SessionID)
	if !ok {
		return
	}
	if sess.Kind != session.KindWebsite {
		writeError(w, http.StatusBadRequest, "This is not a website form session")
		return
	}

	answers := sess.Answers()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"field_values": answers,
		"message":      fmt.Sprintf("Successfully processed %d fields", len(answers)),
	})
}
