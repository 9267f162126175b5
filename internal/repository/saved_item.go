package repository

import (
	"context"

	"tasteid/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedItemRepository defines the interface for saved-item data operations.
type SavedItemRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.SavedItem, error)
	Upsert(ctx context.Context, item *models.SavedItem) error
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// savedItemRepository implements SavedItemRepository
type savedItemRepository struct {
	db *gorm.DB
}

// NewSavedItemRepository creates a new saved item repository
func NewSavedItemRepository(db *gorm.DB) SavedItemRepository {
	return &savedItemRepository{db: db}
}

func (r *savedItemRepository) ListByUser(ctx context.Context, userID string) ([]models.SavedItem, error) {
	var items []models.SavedItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

// Upsert inserts the saved item or, when a row for (user_id, external_id, type)
// already exists, refreshes its title, image and metadata. This always runs on
// save, even when the corresponding collection item already existed, so the row
// reflects the latest upstream data.
func (r *savedItemRepository) Upsert(ctx context.Context, item *models.SavedItem) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "external_id"},
				{Name: "type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"title", "image", "metadata"}),
		}).
		Create(item).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the saved item if it belongs to the user. Returns false when
// no matching row existed.
func (r *savedItemRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SavedItem{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
