package main

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStoreProfiles(t *testing.T) []Profile {
	t.Helper()
	profiles, err := loadSeedProfiles()
	require.NoError(t, err)
	return profiles
}

func usernames(profiles []Profile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Username)
	}
	return out
}

// isSubsequence reports whether sub appears in seq in the same relative order.
func isSubsequence(sub, seq []Profile) bool {
	i := 0
	for _, p := range seq {
		if i < len(sub) && sub[i] == p {
			i++
		}
	}
	return i == len(sub)
}

func TestParseFilterQuery(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		industry  []string
		sunSign   []string
		expectErr bool
	}{
		{name: "no params", raw: ""},
		{name: "single industry", raw: "industry=tech", industry: []string{"tech"}},
		{
			name:     "repeated keys keep wire order",
			raw:      "industry=tech&sun_sign=Virgo&industry=finance",
			industry: []string{"tech", "finance"},
			sunSign:  []string{"Virgo"},
		},
		{name: "duplicates are kept", raw: "industry=tech&industry=tech", industry: []string{"tech", "tech"}},
		{name: "values are decoded", raw: "industry=e%2Dcommerce&sun_sign=Sagittarius", industry: []string{"e-commerce"}, sunSign: []string{"Sagittarius"}},
		{name: "plus decodes to space", raw: "industry=big+tech", industry: []string{"big tech"}},
		{name: "empty value", raw: "industry=", industry: []string{""}},
		{name: "key without value", raw: "industry", industry: []string{""}},
		{name: "unknown params ignored", raw: "page=2&sort=name&industry=tech", industry: []string{"tech"}},
		{name: "dash spelling is not the facet", raw: "sun-sign=Virgo"},
		{name: "non UTF-8 value", raw: "industry=%FF%FE", expectErr: true},
		{name: "non UTF-8 sun sign", raw: "sun_sign=%C3%28", expectErr: true},
		{name: "malformed escape", raw: "industry=%zz", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := parseFilterQuery(tt.raw)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.industry, q.Industry)
			assert.Equal(t, tt.sunSign, q.SunSign)
		})
	}
}

func TestEvaluateFilterSeedScenarios(t *testing.T) {
	seed := seedStoreProfiles(t)
	tech := []string{"stevejobs", "jeffbezos", "billgates", "markzuckerberg", "sundarpichai", "larrypage", "satyanadella", "timcook"}

	tests := []struct {
		name     string
		query    FilterQuery
		expected []string
	}{
		{name: "S1 no facets", query: FilterQuery{}, expected: usernames(seed)},
		{name: "S2 tech", query: FilterQuery{Industry: []string{"tech"}}, expected: tech},
		{
			name:     "S3 tech or finance",
			query:    FilterQuery{Industry: []string{"tech", "finance"}},
			expected: []string{"stevejobs", "jeffbezos", "billgates", "warrenbuffett", "markzuckerberg", "sundarpichai", "larrypage", "satyanadella", "timcook"},
		},
		{name: "S4 Virgo", query: FilterQuery{SunSign: []string{"Virgo"}}, expected: []string{"warrenbuffett", "jackma"}},
		{name: "S5 tech and Virgo", query: FilterQuery{Industry: []string{"tech"}, SunSign: []string{"Virgo"}}, expected: []string{}},
		{name: "S6 unknown industry", query: FilterQuery{Industry: []string{"nonexistent"}}, expected: []string{}},
		{name: "facets are not crossed", query: FilterQuery{Industry: []string{"Pisces"}}, expected: []string{}},
		{name: "sun sign routed to its facet", query: FilterQuery{SunSign: []string{"Pisces"}}, expected: []string{"stevejobs"}},
		{name: "case sensitive", query: FilterQuery{Industry: []string{"Tech"}}, expected: []string{}},
		{name: "empty string matches nothing in seed", query: FilterQuery{Industry: []string{""}}, expected: []string{}},
		{name: "duplicates behave like a set", query: FilterQuery{Industry: []string{"tech", "tech"}}, expected: tech},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluateFilter(seed, tt.query)
			assert.Equal(t, tt.expected, usernames(got))
		})
	}

	assert.Len(t, seed, 12)
}

func TestEvaluateFilterEmptyStringMatchesEmptyAttribute(t *testing.T) {
	profiles := []Profile{
		{Username: "a", Industry: ""},
		{Username: "b", Industry: "tech"},
	}
	got := evaluateFilter(profiles, FilterQuery{Industry: []string{""}})
	assert.Equal(t, []string{"a"}, usernames(got))
}

func randomQuery(r *rand.Rand) FilterQuery {
	industries := append(slices.Clone(knownIndustries), "nonexistent", "")
	signs := append(sunSigns(), "Ophiuchus")
	var q FilterQuery
	for range r.IntN(4) {
		q.Industry = append(q.Industry, industries[r.IntN(len(industries))])
	}
	for range r.IntN(4) {
		q.SunSign = append(q.SunSign, signs[r.IntN(len(signs))])
	}
	return q
}

func randomStore(r *rand.Rand) []Profile {
	signs := sunSigns()
	n := r.IntN(30)
	out := make([]Profile, 0, n)
	for i := range n {
		out = append(out, Profile{
			Username: "user" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			SunSign:  signs[r.IntN(len(signs))],
			Industry: knownIndustries[r.IntN(len(knownIndustries))],
		})
	}
	return out
}

func TestEvaluateFilterProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		store := randomStore(r)
		q := randomQuery(r)

		got := evaluateFilter(store, q)

		// Empty query is the identity.
		require.Equal(t, store, append([]Profile{}, evaluateFilter(store, FilterQuery{})...))

		// Output is a subsequence of the store.
		require.True(t, isSubsequence(got, store), "result is not a subsequence of the store")

		// Every match satisfies both facets.
		for _, p := range got {
			require.True(t, len(q.Industry) == 0 || slices.Contains(q.Industry, p.Industry))
			require.True(t, len(q.SunSign) == 0 || slices.Contains(q.SunSign, p.SunSign))
		}

		// Widening a non-empty facet never loses results.
		wider := FilterQuery{
			Industry: append(slices.Clone(q.Industry), knownIndustries[r.IntN(len(knownIndustries))]),
			SunSign:  slices.Clone(q.SunSign),
		}
		if len(q.Industry) > 0 {
			require.True(t, isSubsequence(got, evaluateFilter(store, wider)), "widening industry lost results")
		}

		// Deterministic.
		require.Equal(t, got, evaluateFilter(store, q))
	}
}

func TestEvaluateFilterDoesNotAliasInput(t *testing.T) {
	seed := seedStoreProfiles(t)
	got := evaluateFilter(seed, FilterQuery{})
	got[0].Username = "changed"
	assert.Equal(t, "stevejobs", seed[0].Username)
}

func TestBuildFilterContext(t *testing.T) {
	t.Run("echoes selections in order with duplicates", func(t *testing.T) {
		q := FilterQuery{Industry: []string{"tech", "finance", "tech"}, SunSign: []string{"Virgo"}}
		ctx := buildFilterContext(nil, q)

		assert.Equal(t, []string{"tech", "finance", "tech"}, ctx.CheckedIndustries)
		assert.Equal(t, []string{"Virgo"}, ctx.CheckedSunSigns)
		assert.Equal(t, sunSigns(), ctx.AllSunSigns)
		assert.NotNil(t, ctx.Profiles)
		assert.Empty(t, ctx.Profiles)
	})

	t.Run("all sun signs are independent of the query", func(t *testing.T) {
		ctx := buildFilterContext(nil, FilterQuery{SunSign: []string{"Virgo"}})
		ctx.AllSunSigns[0] = "mutated"
		assert.Equal(t, "Capricorn", allSunSigns[0])
		assert.Len(t, buildFilterContext(nil, FilterQuery{}).AllSunSigns, 12)
	})

	t.Run("has exactly the four documented keys", func(t *testing.T) {
		queries := []FilterQuery{
			{},
			{Industry: []string{"tech"}},
			{Industry: []string{"nonexistent"}, SunSign: []string{"Virgo", "Leo"}},
		}
		for _, q := range queries {
			raw, err := json.Marshal(buildFilterContext(evaluateFilter(seedStoreProfiles(t), q), q))
			require.NoError(t, err)

			var keys map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(raw, &keys))
			assert.Len(t, keys, 4)
			for _, key := range []string{"profiles", "checked_industries", "checked_sun_signs", "all_sun_signs"} {
				require.Contains(t, keys, key)
				assert.NotEqual(t, "null", string(keys[key]), "key %s serialised as null", key)
			}
		}
	})
}

func TestFilterHandler(t *testing.T) {
	app := newTestApp(t)
	handler := app.routes()

	tests := []struct {
		name       string
		target     string
		profiles   []string
		industries []string
		signs      []string
		tech       string
	}{
		{
			name:     "S1 no params",
			target:   "/profiles/filter",
			profiles: []string{"stevejobs", "jeffbezos", "billgates", "warrenbuffett", "markzuckerberg", "sundarpichai", "larrypage", "satyanadella", "timcook", "jackma", "lebronjames", "satoshinakamoto"},
			tech:     "no",
		},
		{
			name:       "S2 tech",
			target:     "/profiles/filter?industry=tech",
			profiles:   []string{"stevejobs", "jeffbezos", "billgates", "markzuckerberg", "sundarpichai", "larrypage", "satyanadella", "timcook"},
			industries: []string{"tech"},
			tech:       "yes",
		},
		{
			name:       "S3 tech and finance",
			target:     "/profiles/filter?industry=tech&industry=finance",
			profiles:   []string{"stevejobs", "jeffbezos", "billgates", "warrenbuffett", "markzuckerberg", "sundarpichai", "larrypage", "satyanadella", "timcook"},
			industries: []string{"tech", "finance"},
			tech:       "yes",
		},
		{
			name:     "S4 Virgo",
			target:   "/profiles/filter?sun_sign=Virgo",
			profiles: []string{"warrenbuffett", "jackma"},
			signs:    []string{"Virgo"},
			tech:     "no",
		},
		{
			name:       "S5 tech Virgo",
			target:     "/profiles/filter?industry=tech&sun_sign=Virgo",
			industries: []string{"tech"},
			signs:      []string{"Virgo"},
			tech:       "yes",
		},
		{
			name:       "S6 nonexistent",
			target:     "/profiles/filter?industry=nonexistent",
			industries: []string{"nonexistent"},
			tech:       "no",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

			got := sections(w.Body.String())
			assert.Equal(t, tt.profiles, nilIfEmpty(got["profiles"]))
			assert.Equal(t, tt.industries, nilIfEmpty(got["industries"]))
			assert.Equal(t, tt.signs, nilIfEmpty(got["signs"]))
			assert.Equal(t, sunSigns(), got["all"])
			assert.Equal(t, []string{tt.tech}, got["tech"])
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestFilterHandlerIsIdempotent(t *testing.T) {
	app := newTestApp(t, withTemplates(fstest.MapFS{
		"filter.html.tmpl": {Data: []byte(`{{range .Profiles}}{{.Username}}|{{.ProfilePicB64}}|{{.Description}}{{end}}{{range .AllSunSigns}}{{if contains $.CheckedSunSigns .}}[{{.}}]{{end}}{{end}}`)},
	}))
	handler := app.routes()

	get := func() string {
		req := httptest.NewRequest(http.MethodGet, "/profiles/filter?industry=tech&sun_sign=Pisces&sun_sign=Scorpio", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}

	first := get()
	assert.Equal(t, first, get())
	assert.Contains(t, first, "[Pisces][Scorpio]")
}

func TestFilterHandlerErrors(t *testing.T) {
	t.Run("non UTF-8 value is a client error", func(t *testing.T) {
		app := newTestApp(t)
		req := httptest.NewRequest(http.MethodGet, "/profiles/filter?industry=%FF", nil)
		w := httptest.NewRecorder()
		app.routes().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		app := newTestApp(t)
		req := httptest.NewRequest(http.MethodPost, "/profiles/filter", nil)
		w := httptest.NewRecorder()
		app.routes().ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("helper misuse is a server error", func(t *testing.T) {
		app := newTestApp(t, withTemplates(fstest.MapFS{
			"filter.html.tmpl": {Data: []byte(`{{if contains .CheckedIndustries}}x{{end}}`)},
		}))
		req := httptest.NewRequest(http.MethodGet, "/profiles/filter", nil)
		w := httptest.NewRecorder()
		app.routes().ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "No needle given")
	})

	t.Run("missing template is a server error", func(t *testing.T) {
		app := newTestApp(t, withTemplates(fstest.MapFS{}))
		req := httptest.NewRequest(http.MethodGet, "/profiles/filter", nil)
		w := httptest.NewRecorder()
		app.routes().ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "template not found")
	})
}

// blockingDelay never finishes on its own.
type blockingDelay struct{ started chan struct{} }

func (d blockingDelay) Delay(ctx context.Context) error {
	close(d.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestFilterHandlerCancelledDuringDelay(t *testing.T) {
	delay := blockingDelay{started: make(chan struct{})}
	app := newTestApp(t, withLatency(delay))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/profiles/filter?industry=tech", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		filterHandler(app).ServeHTTP(w, req)
		close(done)
	}()

	<-delay.started
	cancel()
	<-done

	assert.Empty(t, w.Body.String())
	assert.Equal(t, 12, app.store.Len())
}

func TestFilterSeesNewProfiles(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Append(Profile{Username: "newcomer", Industry: "tech", SunSign: "Virgo"}))

	req := httptest.NewRequest(http.MethodGet, "/profiles/filter?industry=tech&sun_sign=Virgo", nil)
	w := httptest.NewRecorder()
	app.routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"newcomer"}, sections(w.Body.String())["profiles"])
}
