package repositories

import (
	"context"

	"OdontoSystem/database"

	"github.com/pkg/errors"
)

// tableRepository implements the row operations shared by every table.
type tableRepository[T any] struct {
	store database.Store
	table string
}

func newTableRepository[T any](store database.Store, table string) tableRepository[T] {
	return tableRepository[T]{store: store, table: table}
}

func (r tableRepository[T]) list(ctx context.Context, q *database.Query) ([]T, error) {
	rows := []T{}
	if err := r.store.Select(ctx, r.table, q, &rows); err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", r.table)
	}
	return rows, nil
}

func (r tableRepository[T]) first(ctx context.Context, q *database.Query) (*T, error) {
	var rows []T
	if err := r.store.Select(ctx, r.table, q.Limit(1), &rows); err != nil {
		return nil, errors.Wrapf(err, "failed to query %s", r.table)
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(database.ErrNotFound, "%s", r.table)
	}
	return &rows[0], nil
}

func (r tableRepository[T]) get(ctx context.Context, id string) (*T, error) {
	return r.first(ctx, database.ByID(id))
}

func (r tableRepository[T]) insert(ctx context.Context, row *T) error {
	if err := r.store.Insert(ctx, r.table, row); err != nil {
		return errors.Wrapf(err, "failed to create %s row", r.table)
	}
	return nil
}

func (r tableRepository[T]) update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	var rows []T
	if err := r.store.Update(ctx, r.table, database.ByID(id), patch, &rows); err != nil {
		return nil, errors.Wrapf(err, "failed to update %s row", r.table)
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(database.ErrNotFound, "%s", r.table)
	}
	return &rows[0], nil
}

func (r tableRepository[T]) delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.table, database.ByID(id)); err != nil {
		return errors.Wrapf(err, "failed to delete %s row", r.table)
	}
	return nil
}
