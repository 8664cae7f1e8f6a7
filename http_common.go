package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	contentTypeHTML        = "text/html; charset=utf-8"
	contentTypeTurboStream = "text/vnd.turbo-stream.html; charset=utf-8"
)

// --- Response helpers ---
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// render runs a template and writes the result with the given content type.
// Template failures become a 500 carrying the template error message.
func (app *App) render(w http.ResponseWriter, r *http.Request, status int, contentType, name string, data any) {
	body, err := app.renderer.Render(r.Context(), name, data)
	if err != nil {
		app.logger.Error("error rendering template",
			zap.String("template", name),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeBody(w, status, contentType, body)
}

func (app *App) renderHTML(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	app.render(w, r, status, contentTypeHTML, name, data)
}

// notFoundData is what the not_found template renders.
type notFoundData struct {
	Username string
}

func (app *App) renderNotFound(w http.ResponseWriter, r *http.Request, username string) {
	app.renderHTML(w, r, http.StatusNotFound, "not_found", notFoundData{Username: username})
}

// lookupProfile finds username or renders the 404 page. The bool reports
// whether the caller should continue.
func (app *App) lookupProfile(w http.ResponseWriter, r *http.Request, username string) (Profile, bool) {
	p, err := app.store.Find(username)
	if errors.Is(err, ErrProfileNotFound) {
		app.renderNotFound(w, r, username)
		return Profile{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "lookup_failed")
		return Profile{}, false
	}
	return p, true
}

// pathParts splits a request path into segments, ignoring leading and
// trailing slashes.
func pathParts(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
