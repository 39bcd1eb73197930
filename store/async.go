package store

import (
	"context"
	"sync"
)

// InsertResult is delivered by InsertAsync.
type InsertResult struct {
	ID  int64
	Err error
}

// ListResult is delivered by ListAllAsync.
type ListResult struct {
	Profiles []Profile
	Err      error
}

// AsyncStore runs store operations on their own goroutines and hands the
// results back on channels, so interactive callers never block on disk I/O.
//
//	async := store.NewAsync(s)
//	res := <-async.InsertAsync(ctx, p)
//	if res.Err != nil {
//	    ...
//	}
type AsyncStore struct {
	store *Store
	wg    sync.WaitGroup
}

// NewAsync wraps s. The caller keeps ownership of s.
func NewAsync(s *Store) *AsyncStore {
	return &AsyncStore{store: s}
}

// InsertAsync inserts p in the background. The channel receives exactly one
// result and is then closed.
func (a *AsyncStore) InsertAsync(ctx context.Context, p Profile) <-chan InsertResult {
	resultChan := make(chan InsertResult, 1)
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()
		id, err := a.store.Insert(ctx, p)
		resultChan <- InsertResult{ID: id, Err: err}
		close(resultChan)
	}()

	return resultChan
}

// ListAllAsync lists every profile in the background.
func (a *AsyncStore) ListAllAsync(ctx context.Context) <-chan ListResult {
	resultChan := make(chan ListResult, 1)
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()
		profiles, err := a.store.ListAll(ctx)
		resultChan <- ListResult{Profiles: profiles, Err: err}
		close(resultChan)
	}()

	return resultChan
}

// Wait blocks until every dispatched operation has finished. Nothing may be
// dispatched while Wait is running. Dispatching again after it returns is fine.
func (a *AsyncStore) Wait() {
	a.wg.Wait()
}
