package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mchmarny/rightkit/pkg/dispatch"
	"github.com/mchmarny/rightkit/pkg/model"
)

// Executor runs a resolved selection.
type Executor interface {
	Execute(ctx context.Context, req dispatch.Request) error
}

// Selection is the body of a dispatch request. Either Label or ID names the item.
type Selection struct {
	Label    string   `json:"label,omitempty"`
	ID       string   `json:"id,omitempty"`
	Target   string   `json:"target,omitempty"`
	Selected []string `json:"selected,omitempty"`
}

// maxSelectionBytes bounds the dispatch request body.
const maxSelectionBytes = 1 << 20

// Handler returns an HTTP handler that responds with the built menu as JSON.
func (c *Cache) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		slog.Debug("handling menu request", "url", r.URL.Path)
		writeJSON(w, http.StatusOK, c.BuildMenu(r.Context()))
	})
}

// InvalidateHandler marks the cache stale on POST.
func (c *Cache) InvalidateHandler(count func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		c.Invalidate()
		if count != nil {
			count()
		}
		slog.Info("menu invalidated", "source", "http")
		w.WriteHeader(http.StatusNoContent)
	})
}

// DispatchHandler resolves a selection against the last built menu and runs it.
func (c *Cache) DispatchHandler(exec Executor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var sel Selection
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectionBytes)).Decode(&sel); err != nil {
			writeError(w, http.StatusBadRequest, "invalid selection")
			return
		}

		action, err := c.resolveSelection(sel)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		err = exec.Execute(r.Context(), dispatch.Request{
			Action:    action,
			TargetDir: sel.Target,
			Selected:  sel.Selected,
		})
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"action": action.Wire(),
				"error":  err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{"action": action.Wire()})
	})
}

var errNoSelection = errors.New("selection needs a label or an id")

func (c *Cache) resolveSelection(sel Selection) (model.Action, error) {
	switch {
	case sel.ID != "":
		if a, ok := c.ResolveID(sel.ID); ok {
			return a, nil
		}
		return model.Action{}, fmt.Errorf("no action for id %q", sel.ID)
	case sel.Label != "":
		if a, ok := c.Resolve(sel.Label); ok {
			return a, nil
		}
		return model.Action{}, fmt.Errorf("no action for label %q", sel.Label)
	default:
		return model.Action{}, errNoSelection
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	slog.Error("handling error response",
		"status", status,
		"message", message,
	)
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
