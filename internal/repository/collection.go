package repository

import (
	"context"
	"errors"

	"tasteid/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository defines the interface for collection data operations.
// Position and cover-image writes happen only through the handlers built on
// top of this interface; no other write path exists.
type CollectionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	GetByUser(ctx context.Context, userID string) ([]models.Collection, error)
	GetByUserAndName(ctx context.Context, userID, name string) (*models.Collection, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	UsedPositions(ctx context.Context, userID string) ([]int, error)
	Create(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id string) error
	UpdateCoverImage(ctx context.Context, id string, image *string) error
}

// collectionRepository implements CollectionRepository
type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&collection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &collection, nil
}

func (r *collectionRepository) GetByUser(ctx context.Context, userID string) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&collections).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collections, nil
}

func (r *collectionRepository) GetByUserAndName(ctx context.Context, userID, name string) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &collection, nil
}

func (r *collectionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Collection{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// UsedPositions returns the grid slots currently occupied by the user's
// collections. Deletes leave gaps, so slot allocation must scan this set
// rather than rely on the count.
func (r *collectionRepository) UsedPositions(ctx context.Context, userID string) ([]int, error) {
	var positions []int
	err := r.db.WithContext(ctx).Model(&models.Collection{}).
		Where("user_id = ?", userID).
		Pluck("position", &positions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return positions, nil
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	if err := r.db.WithContext(ctx).Create(collection).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the collection and all its items in one transaction. Other
// collections keep their slots: the grid is user-arranged, not compacted.
func (r *collectionRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Collection{}, "id = ?", id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectionRepository) UpdateCoverImage(ctx context.Context, id string, image *string) error {
	err := r.db.WithContext(ctx).Model(&models.Collection{}).
		Where("id = ?", id).
		Update("cover_image", image).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
