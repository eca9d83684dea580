package menu_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mchmarny/rightkit/pkg/dispatch"
	"github.com/mchmarny/rightkit/pkg/menu"
)

type recordingExecutor struct {
	reqs []dispatch.Request
	err  error
}

func (r *recordingExecutor) Execute(_ context.Context, req dispatch.Request) error {
	r.reqs = append(r.reqs, req)
	return r.err
}

func TestHandler_ServesMenu(t *testing.T) {
	c := qt.New(t)
	cache := menu.NewCache(&countingLoader{cfg: sampleConfig()}, nil)

	rec := httptest.NewRecorder()
	cache.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Header().Get("Content-Type"), qt.Equals, "application/json")

	var m menu.Menu
	c.Assert(json.NewDecoder(rec.Body).Decode(&m), qt.IsNil)
	c.Assert(m.Items, qt.HasLen, 3)

	rec = httptest.NewRecorder()
	cache.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/menu", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusMethodNotAllowed)
}

func TestDispatchHandler(t *testing.T) {
	c := qt.New(t)
	cache := menu.NewCache(&countingLoader{cfg: sampleConfig()}, nil)
	cache.BuildMenu(context.Background())

	post := func(exec menu.Executor, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		cache.DispatchHandler(exec).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/dispatch", strings.NewReader(body)))
		return rec
	}

	c.Run("by label", func(c *qt.C) {
		exec := &recordingExecutor{}
		rec := post(exec, `{"label":"Text File","target":"/tmp","selected":["/tmp/x"]}`)
		c.Assert(rec.Code, qt.Equals, http.StatusAccepted)
		c.Assert(exec.reqs, qt.HasLen, 1)
		c.Assert(exec.reqs[0].Action.Wire(), qt.Equals, "createEmptyFile|txt")
		c.Assert(exec.reqs[0].TargetDir, qt.Equals, "/tmp")
		c.Assert(exec.reqs[0].Selected, qt.DeepEquals, []string{"/tmp/x"})
	})

	c.Run("by id", func(c *qt.C) {
		exec := &recordingExecutor{}
		rec := post(exec, `{"id":"cut"}`)
		c.Assert(rec.Code, qt.Equals, http.StatusAccepted)
		c.Assert(exec.reqs[0].Action.Wire(), qt.Equals, "cutFile|")
	})

	c.Run("unknown label", func(c *qt.C) {
		rec := post(&recordingExecutor{}, `{"label":"Nope"}`)
		c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	})

	c.Run("empty selection", func(c *qt.C) {
		rec := post(&recordingExecutor{}, `{}`)
		c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	})

	c.Run("bad body", func(c *qt.C) {
		rec := post(&recordingExecutor{}, `{`)
		c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	})

	c.Run("execution failure", func(c *qt.C) {
		rec := post(&recordingExecutor{err: errors.New("disk full")}, `{"id":"txt"}`)
		c.Assert(rec.Code, qt.Equals, http.StatusUnprocessableEntity)
		c.Assert(rec.Body.String(), qt.Contains, "disk full")
	})
}

func TestInvalidateHandler(t *testing.T) {
	c := qt.New(t)
	l := &countingLoader{cfg: sampleConfig()}
	cache := menu.NewCache(l, nil)
	cache.BuildMenu(context.Background())

	calls := 0
	rec := httptest.NewRecorder()
	cache.InvalidateHandler(func() { calls++ }).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invalidate", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)
	c.Assert(calls, qt.Equals, 1)
	c.Assert(cache.State(), qt.Equals, menu.Stale)

	cache.BuildMenu(context.Background())
	c.Assert(l.loads, qt.Equals, 2)
}
