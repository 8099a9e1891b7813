// Package store exposes the hierarchical record store the whole system is
// built on: a path-addressed tree of JSON documents supporting get, set
// (overwrite), update (shallow merge), push (append with a generated child
// key) and a single-path atomic transform.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("record not found")

type Store interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Set overwrites the document at path, creating it if absent.
	Set(ctx context.Context, path string, value any) error

	// Update shallow-merges fields into the document at path, creating it
	// from the fields if absent.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Push appends value as a new child of path under a generated key and
	// returns the key.
	Push(ctx context.Context, path string, value any) (string, error)

	// Children returns the documents stored directly under path, keyed by
	// child key. A path with no children yields an empty map.
	Children(ctx context.Context, path string) (map[string]json.RawMessage, error)

	// ChildKeys returns the direct child keys of path, including implicit
	// interior nodes that only exist because documents live below them
	// (e.g. the uids under "attendance" when documents sit at
	// attendance/{uid}/{date}).
	ChildKeys(ctx context.Context, path string) ([]string, error)

	// Transform atomically applies fn to the document at path and stores
	// the result. fn receives nil when no document exists. An error from
	// fn aborts the write and is returned unchanged.
	Transform(ctx context.Context, path string, fn func(current json.RawMessage) (any, error)) error
}

func splitPath(path string) (parent, key string) {
	trimmed := strings.Trim(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return "", trimmed
	}
	return trimmed[:idx], trimmed[idx+1:]
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "/" + key
}
