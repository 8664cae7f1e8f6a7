package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds everything the handlers share. It is built once in main.
type App struct {
	cfg      Config
	logger   *zap.Logger
	store    *ProfileStore
	hits     *hitCounter
	renderer *Renderer
	validate *validator.Validate
	metrics  *Metrics
	gatherer prometheus.Gatherer

	// latency delays the filter endpoint, slowLatency the description
	// fragment. Both are noDelay in production.
	latency     Delayer
	slowLatency Delayer
}

// newApp seeds the store and wires the collaborators. Templates are read
// from templates; reg receives the metrics and is served on /metrics.
func newApp(cfg Config, logger *zap.Logger, templates fs.FS, reg *prometheus.Registry) (*App, error) {
	seed, err := loadSeedProfiles()
	if err != nil {
		return nil, fmt.Errorf("loading seed profiles: %w", err)
	}
	store, err := NewProfileStore(seed)
	if err != nil {
		return nil, fmt.Errorf("seeding store: %w", err)
	}

	metrics := NewMetrics(reg)
	metrics.StoredProfiles.Set(float64(store.Len()))
	store.OnChange(func(size int) {
		metrics.StoredProfiles.Set(float64(size))
	})

	app := &App{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		hits:        newHitCounter(initialHitCount),
		renderer:    NewRenderer(templates, templateFuncs()),
		validate:    newValidator(),
		metrics:     metrics,
		gatherer:    reg,
		latency:     noDelay{},
		slowLatency: noDelay{},
	}
	if !cfg.Production() {
		app.latency = newUniformDelay(cfg.FilterDelayMin, cfg.FilterDelayMax)
		app.slowLatency = newUniformDelay(cfg.DescriptionDelayMin, cfg.DescriptionDelayMax)
	}
	return app, nil
}

// routes builds the full handler tree, middleware included.
func (app *App) routes() http.Handler {
	mux := http.NewServeMux()

	// Pages and fragments
	mux.Handle("/", indexHandler(app))
	mux.Handle("/optimistic-ui", optimisticUIHandler(app))
	mux.Handle("/bump-count", bumpCountHandler(app))
	mux.Handle("/profiles", profilesHandler(app))
	mux.Handle("/profiles/", profilesDispatcher(app)) // filter, new, find, {username}[/description|/edit]
	mux.Handle("/username-availability/", usernameAvailabilityHandler(app))

	// Static assets, relative to the working tree
	mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.FS(os.DirFS(app.cfg.PublicDir)))))
	mux.Handle("/css/", http.StripPrefix("/css/", http.FileServer(http.FS(os.DirFS(app.cfg.CSSDir)))))

	// Operations
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.HandlerFor(app.gatherer, promhttp.HandlerOpts{}))

	// request id -> logging/metrics -> recover -> mux
	return withRequestID(withRequestLogging(app.logger, app.metrics, withRecover(app.logger, mux)))
}
