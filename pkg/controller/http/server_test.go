package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	server "github.com/secmon-lab/triage/pkg/controller/http"
	"github.com/secmon-lab/triage/pkg/domain/interfaces"
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/model/filter"
	"github.com/secmon-lab/triage/pkg/domain/types"
	"github.com/secmon-lab/triage/pkg/repository/memory"
	"github.com/secmon-lab/triage/pkg/usecase"
)

type testServer struct {
	handler http.Handler
	repo    *memory.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := memory.New()
	uc, err := usecase.New(context.Background(), repo, repo, repo)
	gt.NoError(t, err)

	return &testServer{
		handler: server.New(uc),
		repo:    repo,
	}
}

func (s *testServer) seedAlert(t *testing.T, a *alert.Alert) *alert.Alert {
	t.Helper()
	if a.ID == types.EmptyAlertID {
		a.ID = types.NewAlertID()
	}
	if a.Status == "" {
		a.Status = types.AlertStatusNew
	}
	gt.NoError(t, s.repo.PutAlert(context.Background(), a))
	return a
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	gt.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (s *testServer) alertStatus(t *testing.T, id types.AlertID) types.AlertStatus {
	t.Helper()
	result := gt.R1(s.repo.Search(context.Background(), interfaces.SearchRequest{LoadAll: true})).NoError(t)
	for _, a := range result.Values {
		if a.ID == id {
			return a.Status
		}
	}
	t.Fatalf("alert %s not found", id)
	return ""
}

func TestListAlerts(t *testing.T) {
	s := newTestServer(t)
	s.seedAlert(t, &alert.Alert{Title: "unread", Status: types.AlertStatusNew})
	s.seedAlert(t, &alert.Alert{Title: "read", Status: types.AlertStatusIgnored})

	rec := s.do(t, http.MethodGet, "/api/alerts", nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	body := decodeBody[struct {
		Values []struct {
			Title string `json:"title"`
		} `json:"values"`
		Total int `json:"total"`
	}](t, rec)

	// The default filter set hides read alerts.
	gt.Equal(t, body.Total, 1)
	gt.Equal(t, body.Values[0].Title, "unread")
}

func TestListAlerts_SortParamPersisted(t *testing.T) {
	s := newTestServer(t)
	s.seedAlert(t, &alert.Alert{Title: "x"})

	rec := s.do(t, http.MethodGet, "/api/alerts?sort=%2Bseverity,-date", nil)
	gt.Equal(t, rec.Code, http.StatusOK)

	// The sort survives in the saved filter context, not just in the
	// live list.
	saved := gt.R1(s.repo.GetContext(context.Background(), filter.ContextKey)).NoError(t)
	gt.NotNil(t, saved)
	gt.Equal(t, saved.Sort, []string{"+severity", "-date"})
}

func TestListAlerts_InvalidPageSize(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/alerts?pageSize=many", nil)
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestFilterEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("add filter value", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/alerts/filters", map[string]string{
			"field": "tags", "value": "apt",
		})
		gt.Equal(t, rec.Code, http.StatusOK)

		body := decodeBody[map[string]string](t, rec)
		gt.Equal(t, body["query"], `(status:"New" OR status:"Updated") AND (tags:"apt")`)
	})

	t.Run("remove filter", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/api/alerts/filters/tags", nil)
		gt.Equal(t, rec.Code, http.StatusOK)

		body := decodeBody[map[string]string](t, rec)
		gt.Equal(t, body["query"], `(status:"New" OR status:"Updated")`)
	})

	t.Run("clear restores defaults", func(t *testing.T) {
		gt.Equal(t, s.do(t, http.MethodDelete, "/api/alerts/filters/status", nil).Code, http.StatusOK)

		rec := s.do(t, http.MethodDelete, "/api/alerts/filters", nil)
		gt.Equal(t, rec.Code, http.StatusOK)

		body := decodeBody[map[string]string](t, rec)
		gt.Equal(t, body["query"], `(status:"New" OR status:"Updated")`)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/alerts/filters", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})
}

func TestBulkEndpoints(t *testing.T) {
	t.Run("follow", func(t *testing.T) {
		s := newTestServer(t)
		a := s.seedAlert(t, &alert.Alert{Title: "x"})

		rec := s.do(t, http.MethodPost, "/api/alerts/bulk/follow", map[string]any{
			"ids": []types.AlertID{a.ID},
		})
		gt.Equal(t, rec.Code, http.StatusOK)

		result := gt.R1(s.repo.Search(context.Background(), interfaces.SearchRequest{LoadAll: true})).NoError(t)
		gt.True(t, result.Values[0].Follow)
	})

	t.Run("read and unread", func(t *testing.T) {
		s := newTestServer(t)
		a := s.seedAlert(t, &alert.Alert{Title: "x", Status: types.AlertStatusUpdated})

		gt.Equal(t, s.do(t, http.MethodPost, "/api/alerts/bulk/read", map[string]any{
			"ids": []types.AlertID{a.ID},
		}).Code, http.StatusOK)
		gt.Equal(t, s.alertStatus(t, a.ID), types.AlertStatusIgnored)

		gt.Equal(t, s.do(t, http.MethodPost, "/api/alerts/bulk/unread", map[string]any{
			"ids": []types.AlertID{a.ID},
		}).Code, http.StatusOK)
		gt.Equal(t, s.alertStatus(t, a.ID), types.AlertStatusNew)
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestServer(t)
		a := s.seedAlert(t, &alert.Alert{Title: "x"})

		rec := s.do(t, http.MethodPost, "/api/alerts/bulk/delete", map[string]any{
			"ids": []types.AlertID{a.ID},
		})
		gt.Equal(t, rec.Code, http.StatusOK)

		result := gt.R1(s.repo.Search(context.Background(), interfaces.SearchRequest{LoadAll: true})).NoError(t)
		gt.Equal(t, len(result.Values), 0)
	})

	t.Run("empty ids are rejected", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/alerts/bulk/follow", map[string]any{
			"ids": []types.AlertID{},
		})
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("unknown alert fails the batch", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/alerts/bulk/delete", map[string]any{
			"ids": []types.AlertID{types.NewAlertID()},
		})
		gt.Equal(t, rec.Code, http.StatusNotFound)
	})
}

func TestBulkMerge(t *testing.T) {
	t.Run("merges into an existing case", func(t *testing.T) {
		s := newTestServer(t)
		a := s.seedAlert(t, &alert.Alert{Title: "x"})
		created := gt.R1(s.repo.CreateCase(context.Background(), cases.New(context.Background(), "Investigation", ""))).NoError(t)

		rec := s.do(t, http.MethodPost, "/api/alerts/bulk/merge", map[string]any{
			"ids":     []types.AlertID{a.ID},
			"case_id": created.ID,
		})
		gt.Equal(t, rec.Code, http.StatusOK)

		body := decodeBody[struct {
			Data struct {
				AlertIDs []types.AlertID `json:"alert_ids"`
			} `json:"data"`
		}](t, rec)
		gt.Equal(t, body.Data.AlertIDs, []types.AlertID{a.ID})
		gt.Equal(t, s.alertStatus(t, a.ID), types.AlertStatusImported)
	})

	t.Run("unknown case", func(t *testing.T) {
		s := newTestServer(t)
		a := s.seedAlert(t, &alert.Alert{Title: "x"})

		rec := s.do(t, http.MethodPost, "/api/alerts/bulk/merge", map[string]any{
			"ids":     []types.AlertID{a.ID},
			"case_id": types.NewCaseID(),
		})
		gt.Equal(t, rec.Code, http.StatusNotFound)
	})

	t.Run("malformed case id", func(t *testing.T) {
		s := newTestServer(t)
		a := s.seedAlert(t, &alert.Alert{Title: "x"})

		rec := s.do(t, http.MethodPost, "/api/alerts/bulk/merge", map[string]any{
			"ids":     []types.AlertID{a.ID},
			"case_id": "not-a-uuid",
		})
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})
}

func TestCaseEndpoints(t *testing.T) {
	t.Run("create and search", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/cases", map[string]string{
			"title": "Phishing wave",
		})
		gt.Equal(t, rec.Code, http.StatusCreated)

		created := decodeBody[struct {
			ID     types.CaseID     `json:"id"`
			Number types.CaseNumber `json:"number"`
		}](t, rec)
		gt.Equal(t, created.Number, types.CaseNumber(1))

		rec = s.do(t, http.MethodGet, "/api/cases?title=phish", nil)
		gt.Equal(t, rec.Code, http.StatusOK)

		found := decodeBody[struct {
			Values []struct {
				ID types.CaseID `json:"id"`
			} `json:"values"`
		}](t, rec)
		gt.Equal(t, len(found.Values), 1)
		gt.Equal(t, found.Values[0].ID, created.ID)
	})

	t.Run("search by number", func(t *testing.T) {
		s := newTestServer(t)
		created := gt.R1(s.repo.CreateCase(context.Background(), cases.New(context.Background(), "first", ""))).NoError(t)

		rec := s.do(t, http.MethodGet, "/api/cases?number=1", nil)
		gt.Equal(t, rec.Code, http.StatusOK)

		found := decodeBody[struct {
			Values []struct {
				ID types.CaseID `json:"id"`
			} `json:"values"`
		}](t, rec)
		gt.Equal(t, len(found.Values), 1)
		gt.Equal(t, found.Values[0].ID, created.ID)
	})

	t.Run("short title search", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodGet, "/api/cases?title=ab", nil)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("missing search input", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodGet, "/api/cases", nil)
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("create without title", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/cases", map[string]string{
			"description": "no title",
		})
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("create from template", func(t *testing.T) {
		s := newTestServer(t)
		tmpl := &cases.Template{
			ID:          types.NewTemplateID(),
			Name:        "Phishing investigation",
			TitlePrefix: "[Phishing]",
			Severity:    types.SeverityHigh,
		}
		gt.NoError(t, s.repo.PutTemplate(context.Background(), tmpl))

		rec := s.do(t, http.MethodGet, "/api/cases/templates", nil)
		gt.Equal(t, rec.Code, http.StatusOK)

		listed := decodeBody[struct {
			Values []struct {
				ID types.TemplateID `json:"id"`
			} `json:"values"`
		}](t, rec)
		gt.Equal(t, len(listed.Values), 1)

		rec = s.do(t, http.MethodPost, "/api/cases", map[string]string{
			"title":       "wave",
			"template_id": tmpl.ID.String(),
		})
		gt.Equal(t, rec.Code, http.StatusCreated)

		created := decodeBody[struct {
			Title    string         `json:"title"`
			Severity types.Severity `json:"severity"`
		}](t, rec)
		gt.Equal(t, created.Title, "[Phishing] wave")
		gt.Equal(t, created.Severity, types.SeverityHigh)
	})

	t.Run("unknown template", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/cases", map[string]string{
			"title":       "wave",
			"template_id": types.NewTemplateID().String(),
		})
		gt.Equal(t, rec.Code, http.StatusNotFound)
	})
}
