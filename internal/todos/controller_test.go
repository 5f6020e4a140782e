package todos

import (
	"context"
	"errors"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/api/apitest"
	"github.com/idilsaglam/tada/internal/model"
)

func newTestController(t *testing.T, seed ...model.Item) (Controller, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t, seed...)
	return New(api.New(srv.BaseURL()), Config{}), srv
}

// downAPI fails every call as if the network were gone.
type downAPI struct{ calls int }

var errDown = errors.New("connection refused")

func (d *downAPI) List(context.Context) ([]model.Item, error) {
	d.calls++
	return nil, errDown
}

func (d *downAPI) Create(context.Context, string) error {
	d.calls++
	return errDown
}

func (d *downAPI) Update(context.Context, int64, model.Patch) error {
	d.calls++
	return errDown
}

func (d *downAPI) Delete(context.Context, int64) error {
	d.calls++
	return errDown
}

func TestInitialRefreshEmpty(t *testing.T) {
	c, srv := newTestController(t)
	assert.False(t, c.Loading())

	cmd := c.Refresh()
	require.NotNil(t, cmd)
	assert.True(t, c.Loading())

	c.Settle(cmd)
	assert.False(t, c.Loading())
	assert.Empty(t, c.Items())
	assert.Equal(t, 1, c.Revision())
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/todos"))
}

func TestCreateTrimsAndClearsDraft(t *testing.T) {
	c, srv := newTestController(t)
	c.SetDraft("  Buy milk  ")

	cmd := c.Create()
	require.NotNil(t, cmd)
	c.Settle(cmd)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.JSONEq(t, `{"title":"Buy milk"}`, reqs[0].Body)
	assert.Equal(t, http.MethodGet, reqs[1].Method)

	assert.Empty(t, c.Draft())
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "Buy milk", c.Items()[0].Title)
	assert.NoError(t, c.Err())
}

func TestCreateBlankIsNoop(t *testing.T) {
	c, srv := newTestController(t)
	for _, draft := range []string{"", "   ", "\t\n"} {
		c.SetDraft(draft)
		assert.Nil(t, c.Create(), "draft %q", draft)
		assert.Equal(t, draft, c.Draft())
	}
	assert.Empty(t, srv.Requests())
	assert.False(t, c.Loading())
}

func TestCreateFailureKeepsDraftAndSkipsRefresh(t *testing.T) {
	c, srv := newTestController(t)
	srv.Fail(http.MethodPost, "/todos", http.StatusInternalServerError)
	c.SetDraft("Buy milk")

	c.Settle(c.Create())

	assert.Equal(t, "Buy milk", c.Draft())
	assert.Equal(t, 0, srv.Count(http.MethodGet, "/todos"))
	assert.Equal(t, 0, c.Revision())
	var se *api.StatusError
	require.ErrorAs(t, c.Err(), &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestToggleSendsFlippedDone(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 5, Title: "X"})
	c.Settle(c.Refresh())
	item, ok := c.Item(5)
	require.True(t, ok)

	c.Settle(c.ToggleDone(item))

	assert.Equal(t, 1, srv.Count(http.MethodPatch, "/todos/5"))
	assert.JSONEq(t, `{"done":true}`, srv.Requests()[1].Body)
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/todos"))
	item, _ = c.Item(5)
	assert.True(t, item.Done)
}

func TestToggleRefreshesEvenWhenPatchFails(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 5, Title: "X"})
	srv.Fail(http.MethodPatch, "/todos/5", http.StatusInternalServerError)

	c.Settle(c.ToggleDone(model.Item{ID: 5, Title: "X"}))

	assert.Equal(t, 1, srv.Count(http.MethodGet, "/todos"))
	assert.False(t, c.Loading())
	require.Error(t, c.Err())
	item, ok := c.Item(5)
	require.True(t, ok)
	assert.False(t, item.Done)
}

func TestRenameGuards(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 5, Title: "X"})
	item := model.Item{ID: 5, Title: "X"}

	assert.Nil(t, c.Rename(item, "X"))
	assert.Nil(t, c.Rename(item, "  X  "))
	assert.Nil(t, c.Rename(item, ""))
	assert.Nil(t, c.Rename(item, "   "))
	assert.Empty(t, srv.Requests())
}

func TestRenameSendsTrimmedTitle(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 5, Title: "X"})

	c.Settle(c.Rename(model.Item{ID: 5, Title: "X"}, "  Y "))

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/todos/5", reqs[0].Path)
	assert.JSONEq(t, `{"title":"Y"}`, reqs[0].Body)
	item, _ := c.Item(5)
	assert.Equal(t, "Y", item.Title)
}

func TestRenameTwiceWithSameValueAppliesOnce(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 5, Title: "X"})
	c.Settle(c.Refresh())

	for range 2 {
		item, _ := c.Item(5)
		c.Settle(c.Rename(item, "Y"))
	}

	assert.Equal(t, 1, srv.Count(http.MethodPatch, "/todos/5"))
}

func TestRemoveRefreshesEvenWhenDeleteFails(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 1, Title: "a"}, model.Item{ID: 2, Title: "b"})
	c.Settle(c.Refresh())

	c.Settle(c.Remove(model.Item{ID: 2}))
	assert.Len(t, c.Items(), 1)

	c.Settle(c.Remove(model.Item{ID: 99}))
	assert.Equal(t, 3, srv.Count(http.MethodGet, "/todos"))
	assert.Len(t, c.Items(), 1)
	require.Error(t, c.Err())
}

func TestLoadingClearsOnFailedRefresh(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 1, Title: "a"})
	c.Settle(c.Refresh())
	require.Len(t, c.Items(), 1)

	srv.Fail(http.MethodGet, "/todos", http.StatusBadGateway)
	cmd := c.Refresh()
	assert.True(t, c.Loading())
	c.Settle(cmd)
	assert.False(t, c.Loading())
	assert.Len(t, c.Items(), 1, "failed refresh keeps the last snapshot")

	srv.ClearFailures()
	srv.Malformed(true)
	c.Settle(c.Refresh())
	assert.False(t, c.Loading())

	down := &downAPI{}
	c2 := New(down, Config{})
	c2.Settle(c2.Refresh())
	assert.False(t, c2.Loading())
	assert.ErrorIs(t, c2.Err(), errDown)
	assert.Equal(t, 1, down.calls)
}

func TestOverlappingRefreshesStayLoadingUntilLast(t *testing.T) {
	c, _ := newTestController(t)
	first := c.Refresh()
	second := c.Refresh()

	c.Update(first())
	assert.True(t, c.Loading())
	c.Update(second())
	assert.False(t, c.Loading())
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 1, Title: "a"}, model.Item{ID: 2, Title: "b"})
	c.Settle(c.Refresh())
	require.Len(t, c.Items(), 2)

	require.NoError(t, api.New(srv.BaseURL()).Delete(context.Background(), 1))
	require.NoError(t, api.New(srv.BaseURL()).Create(context.Background(), "c"))
	c.Settle(c.Refresh())

	assert.Equal(t, srv.Items(), c.Items())
	assert.Equal(t, []string{"c", "b"}, titles(c.Items()))
}

func TestLastRefreshToCompleteWins(t *testing.T) {
	c, srv := newTestController(t, model.Item{ID: 1, Title: "a"})
	stale := c.Refresh()
	staleMsg := stale()

	require.NoError(t, api.New(srv.BaseURL()).Create(context.Background(), "b"))
	fresh := c.Refresh()
	c.Update(fresh())
	c.Update(staleMsg)

	assert.Equal(t, []string{"a"}, titles(c.Items()))
}

func TestItemsReturnsCopy(t *testing.T) {
	c, _ := newTestController(t, model.Item{ID: 1, Title: "a"})
	c.Settle(c.Refresh())

	items := c.Items()
	items[0].Title = "mutated"
	item, _ := c.Item(1)
	assert.Equal(t, "a", item.Title)
}

func TestUpdateIgnoresForeignMessages(t *testing.T) {
	c, _ := newTestController(t)
	assert.Nil(t, c.Update(tea.WindowSizeMsg{Width: 10, Height: 10}))
	assert.Equal(t, 0, c.Revision())
}

func titles(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}
