package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Upper bound for POST /profiles/new bodies; pictures travel inline as base64.
const maxProfileBodyBytes = 5 << 20

type createProfilePage struct {
	SunSigns   []string
	Industries []string
}

type profilesPage struct {
	Profiles []Profile
}

type editProfilePage struct {
	Profile    Profile
	SunSigns   []string
	Industries []string
}

// GET /
func indexHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		app.renderHTML(w, r, http.StatusOK, "index", createProfilePage{
			SunSigns:   sunSigns(),
			Industries: knownIndustries,
		})
	}
}

// GET /profiles
func profilesHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		app.renderHTML(w, r, http.StatusOK, "profiles", profilesPage{Profiles: app.store.Snapshot()})
	}
}

// Dispatcher for /profiles/* to route filter, new, find and per-user pages
func profilesDispatcher(app *App) http.HandlerFunc {
	filter := filterHandler(app)
	create := newProfileHandler(app)
	find := DataLoaderMiddleware(app.store)(findProfilesHandler(app))
	detail := profileDetailHandler(app)
	description := profileDescriptionHandler(app)
	edit := profileEditHandler(app)

	return func(w http.ResponseWriter, r *http.Request) {
		parts := pathParts(r.URL.Path)
		if len(parts) < 2 || parts[0] != "profiles" {
			http.NotFound(w, r)
			return
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "filter":
				filter.ServeHTTP(w, r)
			case "new":
				create.ServeHTTP(w, r)
			case "find":
				find.ServeHTTP(w, r)
			default:
				detail.ServeHTTP(w, r)
			}
			return
		}
		if len(parts) == 3 {
			switch parts[2] {
			case "description":
				description.ServeHTTP(w, r)
			case "edit":
				edit.ServeHTTP(w, r)
			default:
				http.NotFound(w, r)
			}
			return
		}
		http.NotFound(w, r)
	}
}

// GET /profiles/{username}
func profileDetailHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		p, ok := app.lookupProfile(w, r, pathParts(r.URL.Path)[1])
		if !ok {
			return
		}
		app.renderHTML(w, r, http.StatusOK, "profile", p)
	}
}

// GET /profiles/{username}/description
// Deliberately slow so the page can show a lazy-loaded turbo frame.
func profileDescriptionHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		if err := app.slowLatency.Delay(r.Context()); err != nil {
			app.logger.Debug("description request cancelled during delay", zap.Error(err))
			return
		}
		p, ok := app.lookupProfile(w, r, pathParts(r.URL.Path)[1])
		if !ok {
			return
		}
		app.renderHTML(w, r, http.StatusOK, "description", p)
	}
}

// GET /profiles/{username}/edit
func profileEditHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		p, ok := app.lookupProfile(w, r, pathParts(r.URL.Path)[1])
		if !ok {
			return
		}
		app.renderHTML(w, r, http.StatusOK, "edit", editProfilePage{
			Profile:    p,
			SunSigns:   sunSigns(),
			Industries: knownIndustries,
		})
	}
}

// POST /profiles/new (JSON body)
// Failures answer {"success": false, "error": ...} so the form controller can
// show its error state.
func newProfileHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxProfileBodyBytes)
		var req newProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid_json"})
			return
		}
		req.normalize()

		if err := app.validate.Struct(req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"success": false,
				"error":   "invalid_fields",
				"fields":  validationFields(err),
			})
			return
		}

		if err := app.store.Append(req.profile()); err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": "username_taken"})
				return
			}
			app.logger.Error("error storing profile", zap.String("username", req.Username), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "store_failed"})
			return
		}

		app.logger.Info("profile created", zap.String("username", req.Username))
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// GET /username-availability/{username}
func usernameAvailabilityHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		parts := pathParts(r.URL.Path)
		if len(parts) != 2 || parts[0] != "username-availability" || parts[1] == "" {
			writeError(w, http.StatusBadRequest, "missing_username")
			return
		}
		username := parts[1]
		isValid := validUsername(username) && !app.store.Exists(username)
		writeJSON(w, http.StatusOK, map[string]bool{"isValid": isValid})
	}
}
