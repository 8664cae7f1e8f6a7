package main

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"
)

// DataLoaderContextKey is the key used to store dataloaders in context
type DataLoaderContextKey string

const dataLoaderKey DataLoaderContextKey = "dataloader"

// DataLoaders holds the per-request loaders
type DataLoaders struct {
	ProfileLoader *dataloader.Loader[string, Profile]
}

// NewDataLoaders creates new dataloaders reading from store
func NewDataLoaders(store *ProfileStore) *DataLoaders {
	return &DataLoaders{
		ProfileLoader: dataloader.NewBatchedLoader(profileBatchFn(store), dataloader.WithWait[string, Profile](2*time.Millisecond)),
	}
}

// GetDataLoadersFromContext retrieves dataloaders from context
func GetDataLoadersFromContext(ctx context.Context) *DataLoaders {
	if dl, ok := ctx.Value(dataLoaderKey).(*DataLoaders); ok {
		return dl
	}
	return nil
}

// WithDataLoaders adds dataloaders to context
func WithDataLoaders(ctx context.Context, dl *DataLoaders) context.Context {
	return context.WithValue(ctx, dataLoaderKey, dl)
}

// profileBatchFn resolves a batch of usernames against a single snapshot of
// the store. Unknown usernames resolve to ErrProfileNotFound.
func profileBatchFn(store *ProfileStore) dataloader.BatchFunc[string, Profile] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[Profile] {
		results := make([]*dataloader.Result[Profile], len(keys))
		if err := ctx.Err(); err != nil {
			for i := range results {
				results[i] = &dataloader.Result[Profile]{Error: err}
			}
			return results
		}

		byUsername := make(map[string]Profile)
		for _, p := range store.Snapshot() {
			byUsername[p.Username] = p
		}

		for i, key := range keys {
			if p, ok := byUsername[key]; ok {
				results[i] = &dataloader.Result[Profile]{Data: p}
			} else {
				results[i] = &dataloader.Result[Profile]{Error: ErrProfileNotFound}
			}
		}
		return results
	}
}
