package listview_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/triage/pkg/domain/interfaces"
	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/model/errs"
	"github.com/secmon-lab/triage/pkg/domain/types"
	"github.com/secmon-lab/triage/pkg/service/listview"
)

// stubClient answers Search from a per-call function so tests can shape
// each response, including blocking it.
type stubClient struct {
	mu       sync.Mutex
	search   func(ctx context.Context, req interfaces.SearchRequest) (*interfaces.SearchResult, error)
	requests []interfaces.SearchRequest
}

func (c *stubClient) Search(ctx context.Context, req interfaces.SearchRequest) (*interfaces.SearchResult, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	fn := c.search
	c.mu.Unlock()
	return fn(ctx, req)
}

func (c *stubClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func (c *stubClient) Follow(context.Context, types.AlertID) error       { return nil }
func (c *stubClient) Unfollow(context.Context, types.AlertID) error     { return nil }
func (c *stubClient) MarkAsRead(context.Context, types.AlertID) error   { return nil }
func (c *stubClient) MarkAsUnread(context.Context, types.AlertID) error { return nil }
func (c *stubClient) BulkRemove(context.Context, []types.AlertID) error { return nil }
func (c *stubClient) BulkMergeInto(context.Context, []types.AlertID, types.CaseID) (*cases.Case, error) {
	return nil, nil
}

func fixedResult(titles ...string) func(context.Context, interfaces.SearchRequest) (*interfaces.SearchResult, error) {
	values := make(alert.Alerts, len(titles))
	for i, title := range titles {
		values[i] = &alert.Alert{ID: types.NewAlertID(), Title: title}
	}
	return func(context.Context, interfaces.SearchRequest) (*interfaces.SearchResult, error) {
		return &interfaces.SearchResult{Values: values, Total: len(values)}, nil
	}
}

func titles(values alert.Alerts) []string {
	out := make([]string, len(values))
	for i, a := range values {
		out[i] = a.Title
	}
	return out
}

func TestList_Refresh(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{search: fixedResult("a", "b")}
	list := listview.New(client, listview.WithPageSize(25), listview.WithSort([]string{"+severity"}))

	gt.Equal(t, list.Status(), listview.StatusIdle)
	gt.NoError(t, list.Refresh(ctx))

	gt.Equal(t, list.Status(), listview.StatusReady)
	gt.Equal(t, titles(list.Values()), []string{"a", "b"})
	gt.Equal(t, list.Total(), 2)

	req := client.requests[0]
	gt.Equal(t, req.PageSize, 25)
	gt.Equal(t, req.Sort, []string{"+severity"})
	gt.False(t, req.LoadAll)
}

func TestList_ApplyQuerySkipsIdentical(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{search: fixedResult("a")}
	list := listview.New(client)

	gt.NoError(t, list.ApplyQuery(ctx, `(status:"New")`))
	gt.NoError(t, list.ApplyQuery(ctx, `(status:"New")`))
	gt.Equal(t, client.calls(), 1)

	gt.NoError(t, list.ApplyQuery(ctx, `(status:"Updated")`))
	gt.Equal(t, client.calls(), 2)
}

func TestList_FailedRefreshKeepsLastPage(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{search: fixedResult("a", "b")}
	list := listview.New(client)

	gt.NoError(t, list.Refresh(ctx))

	client.mu.Lock()
	client.search = func(context.Context, interfaces.SearchRequest) (*interfaces.SearchResult, error) {
		return nil, errors.New("store unavailable")
	}
	client.mu.Unlock()

	gt.Error(t, list.Refresh(ctx))
	gt.Equal(t, titles(list.Values()), []string{"a", "b"})
	gt.Equal(t, list.Status(), listview.StatusReady)
}

func TestList_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	client := &stubClient{}
	client.search = func(_ context.Context, req interfaces.SearchRequest) (*interfaces.SearchResult, error) {
		if req.Filter == "slow" {
			close(started)
			<-release
			return &interfaces.SearchResult{
				Values: alert.Alerts{&alert.Alert{ID: types.NewAlertID(), Title: "stale"}},
				Total:  1,
			}, nil
		}
		return &interfaces.SearchResult{
			Values: alert.Alerts{&alert.Alert{ID: types.NewAlertID(), Title: "fresh"}},
			Total:  1,
		}, nil
	}

	list := listview.New(client)

	var wg sync.WaitGroup
	wg.Add(1)
	var slowErr error
	go func() {
		defer wg.Done()
		slowErr = list.ApplyQuery(ctx, "slow")
	}()

	// Wait for the slow fetch to be in flight before superseding it.
	<-started
	gt.NoError(t, list.ApplyQuery(ctx, "fresh"))

	close(release)
	wg.Wait()

	gt.True(t, errors.Is(slowErr, errs.ErrStaleQuery))
	gt.Equal(t, titles(list.Values()), []string{"fresh"})
}

func TestToggleSort(t *testing.T) {
	t.Run("new column starts ascending", func(t *testing.T) {
		gt.Equal(t, listview.ToggleSort([]string{"-date"}, "title"), []string{"+title"})
	})
	t.Run("ascending column flips to descending", func(t *testing.T) {
		gt.Equal(t, listview.ToggleSort([]string{"+title"}, "title"), []string{"-title"})
	})
	t.Run("descending column flips to ascending", func(t *testing.T) {
		gt.Equal(t, listview.ToggleSort([]string{"-title"}, "title"), []string{"+title"})
	})
	t.Run("empty sort starts ascending", func(t *testing.T) {
		gt.Equal(t, listview.ToggleSort(nil, "severity"), []string{"+severity"})
	})
}

func TestList_SortByField(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{search: fixedResult("a")}
	list := listview.New(client, listview.WithSort([]string{"-date"}))

	next, err := list.SortByField(ctx, "severity")
	gt.NoError(t, err)
	gt.Equal(t, next, []string{"+severity"})
	gt.Equal(t, list.Sort(), []string{"+severity"})

	next, err = list.SortByField(ctx, "severity")
	gt.NoError(t, err)
	gt.Equal(t, next, []string{"-severity"})
	gt.Equal(t, client.calls(), 2)
}

func TestList_OnReplace(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{search: fixedResult("a")}

	replaced := 0
	list := listview.New(client, listview.WithOnReplace(func() { replaced++ }))

	gt.NoError(t, list.Refresh(ctx))
	gt.Equal(t, replaced, 1)

	client.mu.Lock()
	client.search = func(context.Context, interfaces.SearchRequest) (*interfaces.SearchResult, error) {
		return nil, errors.New("store unavailable")
	}
	client.mu.Unlock()

	// A failed refresh does not fire the callback.
	gt.Error(t, list.Refresh(ctx))
	gt.Equal(t, replaced, 1)
}

func TestList_OnReplaceReadsList(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{search: fixedResult("a", "b")}

	// The selection-reset callback in the usecase layer reads the list
	// back; it must see the fresh page without blocking.
	var seenValues int
	var seenTotal int
	var list *listview.List
	list = listview.New(client, listview.WithOnReplace(func() {
		seenValues = len(list.Values())
		seenTotal = list.Total()
	}))

	done := make(chan error, 1)
	go func() {
		done <- list.Refresh(ctx)
	}()

	select {
	case err := <-done:
		gt.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("refresh did not complete; callback blocked on the list")
	}

	gt.Equal(t, seenValues, 2)
	gt.Equal(t, seenTotal, 2)
}
