package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type findFragment struct {
	Profiles []Profile
}

// submittedUsernames reads the username[] form field, falling back to a plain
// "username" field. Blank entries are dropped; order is kept.
func submittedUsernames(r *http.Request) []string {
	raw := r.PostForm["username[]"]
	if len(raw) == 0 {
		raw = r.PostForm["username"]
	}
	usernames := make([]string, 0, len(raw))
	for _, u := range raw {
		if u != "" {
			usernames = append(usernames, u)
		}
	}
	return usernames
}

// POST /profiles/find (form body username[])
// Answers with a turbo-stream fragment appending every known profile; unknown
// usernames are skipped.
func findProfilesHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_form")
			return
		}

		loaders := GetDataLoadersFromContext(r.Context())
		if loaders == nil {
			loaders = NewDataLoaders(app.store)
		}

		usernames := submittedUsernames(r)
		found := make([]Profile, 0, len(usernames))
		if len(usernames) > 0 {
			profiles, errs := loaders.ProfileLoader.LoadMany(r.Context(), usernames)()
			for i, p := range profiles {
				if errs != nil && errs[i] != nil {
					if !errors.Is(errs[i], ErrProfileNotFound) {
						app.logger.Warn("error loading profile",
							zap.String("username", usernames[i]),
							zap.Error(errs[i]))
					}
					continue
				}
				found = append(found, p)
			}
		}

		app.render(w, r, http.StatusOK, contentTypeTurboStream, "find", findFragment{Profiles: found})
	}
}
