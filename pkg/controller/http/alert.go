package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/domain/types"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errs.Handle(r.Context(), goerr.Wrap(err, "failed to encode response"))
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(errs.TagInvalidRequest))
	}
	return nil
}

type listAlertsResponse struct {
	Values alert.Alerts `json:"values"`
	Total  int          `json:"total"`
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, goerr.Wrap(err, "invalid pageSize", goerr.T(errs.TagInvalidRequest)))
			return
		}
		if err := s.uc.SetPageSize(ctx, size); err != nil {
			handleError(w, r, err)
			return
		}
	}

	if raw := r.URL.Query().Get("sort"); raw != "" {
		sort := strings.Split(raw, ",")
		if err := s.uc.SetSort(ctx, sort); err != nil {
			handleError(w, r, err)
			return
		}
	}

	if err := s.uc.Search(ctx); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, listAlertsResponse{
		Values: s.uc.List().Values(),
		Total:  s.uc.List().Total(),
	})
}

type filterRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) addFilterValue(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.AddFilterValue(r.Context(), req.Field, req.Value); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{
		"query": s.uc.Filtering().BuildQuery(),
	})
}

func (s *Server) removeFilter(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	if err := s.uc.RemoveFilter(r.Context(), field); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{
		"query": s.uc.Filtering().BuildQuery(),
	})
}

func (s *Server) clearFilters(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.ClearFilters(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{
		"query": s.uc.Filtering().BuildQuery(),
	})
}

type bulkRequest struct {
	IDs []types.AlertID `json:"ids"`
}

func (r *bulkRequest) validate() error {
	if len(r.IDs) == 0 {
		return goerr.New("ids must not be empty", goerr.T(errs.TagInvalidRequest))
	}
	return nil
}

func (s *Server) bulkFollow(follow bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			handleError(w, r, err)
			return
		}

		if err := s.uc.BulkFollowIDs(r.Context(), req.IDs, follow); err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]int{"count": len(req.IDs)})
	}
}

func (s *Server) bulkMarkAsRead(markAsRead bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			handleError(w, r, err)
			return
		}

		if err := s.uc.BulkMarkAsReadIDs(r.Context(), req.IDs, markAsRead); err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]int{"count": len(req.IDs)})
	}
}

func (s *Server) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.BulkDeleteIDs(r.Context(), req.IDs); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]int{"count": len(req.IDs)})
}

type bulkMergeRequest struct {
	IDs    []types.AlertID `json:"ids"`
	CaseID types.CaseID    `json:"case_id"`
}

func (s *Server) bulkMerge(w http.ResponseWriter, r *http.Request) {
	var req bulkMergeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if len(req.IDs) == 0 {
		handleError(w, r, goerr.New("ids must not be empty", goerr.T(errs.TagInvalidRequest)))
		return
	}
	if err := req.CaseID.Validate(); err != nil {
		handleError(w, r, goerr.Wrap(err, "invalid case_id", goerr.T(errs.TagInvalidRequest)))
		return
	}

	merged, err := s.uc.MergeAlertsInto(r.Context(), req.IDs, req.CaseID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"data": merged})
}
