package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"eventgo/internal/apiclient"
)

// Doer is the transport a resource needs. *apiclient.Client implements it.
type Doer interface {
	Do(ctx context.Context, r apiclient.Request) (*apiclient.Response, error)
}

// Resource is a uniform CRUD client for one backend collection.
type Resource[T any] struct {
	doer Doer
	path string
}

// NewResource binds a collection path such as "/events".
func NewResource[T any](doer Doer, path string) *Resource[T] {
	return &Resource[T]{doer: doer, path: "/" + strings.Trim(path, "/")}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List issues GET {path}.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.Query(ctx, nil)
}

// Get issues GET {path}/{id}.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	return call[T](ctx, r.doer, apiclient.Request{Method: http.MethodGet, Path: r.itemPath(id)})
}

// Create issues POST {path}.
func (r *Resource[T]) Create(ctx context.Context, data any) (T, error) {
	return call[T](ctx, r.doer, apiclient.Request{Method: http.MethodPost, Path: r.path, Body: data})
}

// Update issues PUT {path}/{id}. An *apiclient.Form payload goes out as
// multipart/form-data, anything else as JSON.
func (r *Resource[T]) Update(ctx context.Context, id string, data any) (T, error) {
	return call[T](ctx, r.doer, apiclient.Request{Method: http.MethodPut, Path: r.itemPath(id), Body: data})
}

// Delete issues DELETE {path}/{id}.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.doer.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: r.itemPath(id)})
	return Normalize(err)
}

// DeleteMultiple deletes every id concurrently and waits for all of them.
// The first failure is returned; deletes that already succeeded stay deleted
// and the remaining ones are not cancelled.
func (r *Resource[T]) DeleteMultiple(ctx context.Context, ids []string) error {
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			return r.Delete(ctx, id)
		})
	}
	return g.Wait()
}

// Search issues GET {path}?q={query}.
func (r *Resource[T]) Search(ctx context.Context, query string) ([]T, error) {
	return r.Query(ctx, url.Values{"q": {query}})
}

// FilterByStatus issues GET {path}?status={status}.
func (r *Resource[T]) FilterByStatus(ctx context.Context, status string) ([]T, error) {
	return r.Query(ctx, url.Values{"status": {status}})
}

// Query issues GET {path} with arbitrary query parameters.
func (r *Resource[T]) Query(ctx context.Context, params url.Values) ([]T, error) {
	return call[[]T](ctx, r.doer, apiclient.Request{Method: http.MethodGet, Path: r.path, Query: params})
}

func call[V any](ctx context.Context, doer Doer, req apiclient.Request) (V, error) {
	var out V
	resp, err := doer.Do(ctx, req)
	if err != nil {
		return out, Normalize(err)
	}
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, decodeError(resp.Status, err)
	}
	return out, nil
}
