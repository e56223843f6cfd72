package http

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/usecase"
)

func (s *Server) searchCases(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var kind usecase.CaseSearchKind
	var input string
	switch {
	case query.Get("title") != "":
		kind, input = usecase.CaseSearchByTitle, query.Get("title")
	case query.Get("number") != "":
		kind, input = usecase.CaseSearchByNumber, query.Get("number")
	default:
		handleError(w, r, goerr.New("either title or number is required",
			goerr.T(errs.TagInvalidRequest)))
		return
	}

	found, err := s.uc.SearchCases(r.Context(), kind, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"values": found})
}

type createCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TemplateID  string `json:"template_id,omitempty"`
}

func (s *Server) createCase(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Title == "" {
		handleError(w, r, goerr.New("title is required", goerr.T(errs.TagInvalidRequest)))
		return
	}

	tmpl, err := s.findTemplate(r.Context(), req.TemplateID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.uc.CreateCase(r.Context(), cases.NewFromTemplate(r.Context(), tmpl, req.Title, req.Description))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, created)
}

func (s *Server) findTemplate(ctx context.Context, id string) (*cases.Template, error) {
	if id == "" {
		return nil, nil
	}

	templates, err := s.uc.ListCaseTemplates(ctx)
	if err != nil {
		return nil, err
	}
	for _, tmpl := range templates {
		if tmpl.ID.String() == id {
			return tmpl, nil
		}
	}
	return nil, goerr.New("case template not found",
		goerr.T(errs.TagNotFound), goerr.V("template_id", id))
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.uc.ListCaseTemplates(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"values": templates})
}
