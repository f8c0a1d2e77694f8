package posgrest

import (
	"context"

	"gorm.io/gorm"
)

// repository is a generic GORM-based repository implementation.
// It provides the keyed lookups and upserts shared by the entity stores.
type repository[T interface{}] struct {
	db *gorm.DB
}

// New creates a new generic repository instance for type T.
// The repository uses the provided GORM database connection for all operations.
func New[T interface{}](db *gorm.DB) *repository[T] {
	return &repository[T]{
		db,
	}
}

// Create inserts a new entity into the database.
func (r *repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// Save inserts the entity when its primary key is empty and updates every column otherwise.
func (r *repository[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// FirstBy retrieves the single entity matching all the given column values.
func (r *repository[T]) FirstBy(ctx context.Context, conds map[string]interface{}) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where(conds).Take(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ExistsBy reports whether any entity matches all the given column values.
func (r *repository[T]) ExistsBy(ctx context.Context, conds map[string]interface{}) (bool, error) {
	var count int64
	var entity T
	if err := r.db.WithContext(ctx).Model(&entity).Where(conds).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
