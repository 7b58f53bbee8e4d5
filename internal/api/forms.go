package api

import (
	"net/http"

	"github.com/a3tai/mcp-form-filler/internal/dom"
	"github.com/a3tai/mcp-form-filler/internal/webform"
)

type pageRequest struct {
	HTML    string            `json:"html"`
	Answers webform.AnswerMap `json:"answers"`
}

type fillResponse struct {
	webform.Response
	HTML string `json:"html,omitempty"`
}

// runPage parses the posted page and runs one content action on it
func (s *Server) runPage(w http.ResponseWriter, r *http.Request, action string) (*webform.Page, webform.Response, bool) {
	var req pageRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadSize, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, webform.Response{}, false
	}
	if req.HTML == "" {
		writeError(w, http.StatusBadRequest, "No HTML provided")
		return nil, webform.Response{}, false
	}

	doc, err := dom.ParseString(req.HTML)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, webform.Response{}, false
	}

	page := webform.NewPage(doc, s.logger)
	return page, page.Handle(webform.Request{Action: action, Answers: req.Answers}), true
}

func (s *Server) handleDetectForms(w http.ResponseWriter, r *http.Request) {
	if _, resp, ok := s.runPage(w, r, webform.ActionDetectForms); ok {
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleExtractFormHTML(w http.ResponseWriter, r *http.Request) {
	if _, resp, ok := s.runPage(w, r, webform.ActionExtractFormHTML); ok {
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleFillForm(w http.ResponseWriter, r *http.Request) {
	page, resp, ok := s.runPage(w, r, webform.ActionFillForm)
	if !ok {
		return
	}

	out := fillResponse{Response: resp}
	if resp.Success {
		markup, err := page.Document().HTML()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out.HTML = markup
	}
	writeJSON(w, http.StatusOK, out)
}
