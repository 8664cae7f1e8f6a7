package main

import (
	"math/rand/v2"
	"net/http"
	"sync/atomic"
)

const (
	initialHitCount = 6
	bumpSuccessRate = 0.8
)

// hitCounter backs the optimistic UI demo: the client increments its copy
// immediately and rolls back if the server reports failure.
type hitCounter struct {
	count atomic.Int64
	// succeeds decides whether a bump goes through. Swappable for tests.
	succeeds func() bool
}

func newHitCounter(initial int64) *hitCounter {
	c := &hitCounter{succeeds: func() bool { return rand.Float64() < bumpSuccessRate }}
	c.count.Store(initial)
	return c
}

// Bump increments the counter unless the simulated failure kicks in.
func (c *hitCounter) Bump() bool {
	if !c.succeeds() {
		return false
	}
	c.count.Add(1)
	return true
}

func (c *hitCounter) Value() int64 {
	return c.count.Load()
}

type hitCountPage struct {
	Count int64
}

// GET /optimistic-ui
func optimisticUIHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		app.renderHTML(w, r, http.StatusOK, "hit_count", hitCountPage{Count: app.hits.Value()})
	}
}

// GET /bump-count
func bumpCountHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		ok := app.hits.Bump()
		outcome := "success"
		if !ok {
			outcome = "failure"
		}
		app.metrics.BumpsTotal.WithLabelValues(outcome).Inc()
		writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
	}
}
