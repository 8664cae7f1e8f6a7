package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Query parameter names of the two facets. Underscore, not dash.
const (
	industryParam = "industry"
	sunSignParam  = "sun_sign"
)

var errInvalidQueryEncoding = errors.New("query parameter is not valid UTF-8")

// FilterQuery holds the selected values of each facet, in the order they
// arrived on the wire. Duplicates are kept.
type FilterQuery struct {
	Industry []string
	SunSign  []string
}

// FilterContext is everything the filter template gets to see. The JSON names
// are the keys templates rely on; there are no others.
type FilterContext struct {
	Profiles          []Profile `json:"profiles"`
	CheckedIndustries []string  `json:"checked_industries"`
	CheckedSunSigns   []string  `json:"checked_sun_signs"`
	AllSunSigns       []string  `json:"all_sun_signs"`
}

// parseFilterQuery reads the repeated industry and sun_sign parameters from a
// raw query string. Other parameters are ignored.
func parseFilterQuery(rawQuery string) (FilterQuery, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return FilterQuery{}, fmt.Errorf("parsing query: %w", err)
	}

	q := FilterQuery{
		Industry: values[industryParam],
		SunSign:  values[sunSignParam],
	}
	for _, facet := range [][]string{q.Industry, q.SunSign} {
		for _, v := range facet {
			if !utf8.ValidString(v) {
				return FilterQuery{}, errInvalidQueryEncoding
			}
		}
	}
	return q, nil
}

// facetMatches reports whether value satisfies a facet: an empty facet
// matches everything, otherwise the value has to be one of the selections.
func facetMatches(selected map[string]struct{}, value string) bool {
	if len(selected) == 0 {
		return true
	}
	_, ok := selected[value]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// evaluateFilter returns the profiles matching q, in the order of profiles.
// Facets are ANDed together, values within a facet are ORed, comparison is
// exact.
func evaluateFilter(profiles []Profile, q FilterQuery) []Profile {
	industries := toSet(q.Industry)
	signs := toSet(q.SunSign)

	matches := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if facetMatches(industries, p.Industry) && facetMatches(signs, p.SunSign) {
			matches = append(matches, p)
		}
	}
	return matches
}

// buildFilterContext assembles the render context. Every list is non-nil so
// that it renders (and serialises) as empty rather than missing.
func buildFilterContext(matches []Profile, q FilterQuery) FilterContext {
	ctx := FilterContext{
		Profiles:          matches,
		CheckedIndustries: append([]string{}, q.Industry...),
		CheckedSunSigns:   append([]string{}, q.SunSign...),
		AllSunSigns:       sunSigns(),
	}
	if ctx.Profiles == nil {
		ctx.Profiles = []Profile{}
	}
	return ctx
}

// GET /profiles/filter?industry=...&sun_sign=...
func filterHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		if err := app.latency.Delay(r.Context()); err != nil {
			app.logger.Debug("filter request cancelled during delay", zap.Error(err))
			return
		}

		q, err := parseFilterQuery(r.URL.RawQuery)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_query")
			return
		}

		ctx, span := tracer.Start(r.Context(), "profiles.filter")
		defer span.End()

		// The snapshot is taken and the lock released before evaluating.
		snapshot := app.store.Snapshot()
		matches := evaluateFilter(snapshot, q)
		span.SetAttributes(
			attribute.StringSlice("filter.industry", q.Industry),
			attribute.StringSlice("filter.sun_sign", q.SunSign),
			attribute.Int("filter.matches", len(matches)),
		)

		app.renderHTML(w, r.WithContext(ctx), http.StatusOK, "filter", buildFilterContext(matches, q))
	}
}
