package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names used by the lifecycle managers.
const (
	CollectionTickets       = "tickets"
	CollectionRegistrations = "warranty_registrations"
	CollectionClaims        = "warranty_claims"
	CollectionComplaints    = "complaints"
	CollectionReviews       = "reviews"
	CollectionChangeLog     = "change_log"
)

// ErrNotFound signals an unknown id within a collection.
var ErrNotFound = errors.New("entity not found")

// EntityStore is the narrow key-value persistence boundary the managers
// depend on. Entities are stored as JSON documents keyed by logical
// collection name and id; Put is an upsert.
type EntityStore interface {
	GetAll(ctx context.Context, collection string) ([]json.RawMessage, error)
	GetByID(ctx context.Context, collection, id string) (json.RawMessage, error)
	Put(ctx context.Context, collection, id string, entity any) error
	Delete(ctx context.Context, collection, id string) error
}

// Collection gives typed access to one logical collection of an EntityStore.
type Collection[T any] struct {
	store EntityStore
	name  string
}

// NewCollection binds a typed view onto a store collection.
func NewCollection[T any](store EntityStore, name string) Collection[T] {
	return Collection[T]{store: store, name: name}
}

// Name returns the logical collection name.
func (c Collection[T]) Name() string {
	return c.name
}

// All decodes every entity in the collection.
func (c Collection[T]) All(ctx context.Context) ([]T, error) {
	raws, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var entity T
		if err := json.Unmarshal(raw, &entity); err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// Get decodes a single entity by id. Returns ErrNotFound for unknown ids.
func (c Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	raw, err := c.store.GetByID(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	var entity T
	if err := json.Unmarshal(raw, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Put upserts the entity under the given id.
func (c Collection[T]) Put(ctx context.Context, id string, entity *T) error {
	return c.store.Put(ctx, c.name, id, entity)
}

// Delete removes the entity. Deleting an unknown id is not an error.
func (c Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}
