package repository

import (
	"context"
	"errors"

	"tasteid/internal/models"

	"gorm.io/gorm"
)

// ItemRepository defines the interface for item data operations.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*models.Item, error)
	GetByCollection(ctx context.Context, collectionID string) ([]models.Item, error)
	FirstByPosition(ctx context.Context, collectionID string) (*models.Item, error)
	FindInCollection(ctx context.Context, collectionID, externalID string, mediaType models.MediaType) (*models.Item, error)
	CountByCollection(ctx context.Context, collectionID string) (int64, error)
	Create(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id string) error
	ReindexPositions(ctx context.Context, collectionID string) error
}

// itemRepository implements ItemRepository
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *itemRepository) GetByCollection(ctx context.Context, collectionID string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *itemRepository) FirstByPosition(ctx context.Context, collectionID string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("position ASC").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *itemRepository) FindInCollection(ctx context.Context, collectionID, externalID string, mediaType models.MediaType) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("collection_id = ? AND external_id = ? AND type = ?", collectionID, externalID, mediaType).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *itemRepository) CountByCollection(ctx context.Context, collectionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("collection_id = ?", collectionID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ReindexPositions rewrites item positions to the dense sequence 0..N-1 in
// current position order. Only rows whose stored position differs from the new
// index are written. Callers that derive state from the first item (the cover
// image) must run this to completion before reading it.
func (r *itemRepository) ReindexPositions(ctx context.Context, collectionID string) error {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	for i := range items {
		if items[i].Position == i {
			continue
		}
		err := r.db.WithContext(ctx).Model(&models.Item{}).
			Where("id = ?", items[i].ID).
			Update("position", i).Error
		if err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}
