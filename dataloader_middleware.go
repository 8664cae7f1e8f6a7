package main

import (
	"net/http"
)

// DataLoaderMiddleware creates middleware that injects dataloaders into the request context
func DataLoaderMiddleware(store *ProfileStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// New loaders per request, so a batch never serves a stale snapshot
			dataloaders := NewDataLoaders(store)

			ctx := WithDataLoaders(r.Context(), dataloaders)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
