package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormHistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *GormHistoryStore {
	return &GormHistoryStore{db: db}
}

// ListByOwner returns the owner's rows, most recent first.
func (s *GormHistoryStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.SearchHistory, error) {
	entries := make([]models.SearchHistory, 0)
	err := s.db.WithContext(ctx).
		Scopes(models.OwnedBy(ownerID)).
		Order("searched_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

func (s *GormHistoryStore) Create(ctx context.Context, entry *models.SearchHistory) error {
	return classify(s.db.WithContext(ctx).Create(entry).Error)
}

func (s *GormHistoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.SearchHistory, error) {
	var entry models.SearchHistory
	if err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &entry, nil
}

// FindByIDs returns whichever of ids exist, regardless of owner.
func (s *GormHistoryStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.SearchHistory, error) {
	entries := make([]models.SearchHistory, 0, len(ids))
	if len(ids) == 0 {
		return entries, nil
	}
	if err := s.db.WithContext(ctx).Select("id", "user_id").Where("id IN ?", ids).Find(&entries).Error; err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

func (s *GormHistoryStore) DeleteOwned(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Scopes(models.OwnedBy(ownerID)).
		Where("id IN ?", ids).
		Delete(&models.SearchHistory{})
	if result.Error != nil {
		return 0, classify(result.Error)
	}
	return result.RowsAffected, nil
}
