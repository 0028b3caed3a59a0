package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrHistoryNotFound     = apperror.NotFound("History entry not found")
	ErrHistoryForbidden    = apperror.Forbidden("You do not have permission to access this history entry")
	ErrDeleteForbidden     = apperror.Forbidden("You do not have permission to delete these entries")
	ErrSomeHistoryNotFound = apperror.NotFound("Some history entries were not found")
)

type HistoryService struct {
	history store.HistoryStore
	metrics metrics.Recorder
}

func NewHistoryService(history store.HistoryStore, rec metrics.Recorder) *HistoryService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &HistoryService{history: history, metrics: rec}
}

func (s *HistoryService) List(ctx context.Context, caller auth.Identity) ([]dto.HistoryEntryResponse, error) {
	entries, err := s.history.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewHistoryListResponse(entries), nil
}

func (s *HistoryService) Create(ctx context.Context, caller auth.Identity, req *dto.CreateHistoryRequest) (*dto.HistoryEntryResponse, error) {
	entry := &models.SearchHistory{
		ID:        uuid.New(),
		UserID:    caller.ID,
		IPAddress: *req.IPAddress,
		GeoData:   datatypes.NewJSONType(req.GeoData.Model()),
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return nil, err
	}
	resp := dto.NewHistoryEntryResponse(entry)
	return &resp, nil
}

// Get returns the entry if caller owns it. Existence is checked first, so a
// non-owner learns the entry exists (403 rather than 404).
func (s *HistoryService) Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (*dto.HistoryEntryResponse, error) {
	entry, err := s.history.FindByID(ctx, id)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, err
	}
	if entry.UserID != caller.ID {
		return nil, ErrHistoryForbidden
	}
	resp := dto.NewHistoryEntryResponse(entry)
	return &resp, nil
}

// DeleteMany removes every listed entry or none of them. Ownership is
// checked before existence; the delete itself is filtered by owner again.
func (s *HistoryService) DeleteMany(ctx context.Context, caller auth.Identity, ids []uuid.UUID) (int64, error) {
	found, err := s.history.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	for _, entry := range found {
		if entry.UserID != caller.ID {
			slog.Warn("bulk delete touched foreign history entries",
				"user_id", caller.ID.String(), "requested", len(ids))
			return 0, ErrDeleteForbidden
		}
	}
	if len(found) < len(ids) {
		return 0, ErrSomeHistoryNotFound
	}

	deleted, err := s.history.DeleteOwned(ctx, caller.ID, ids)
	if err != nil {
		return 0, err
	}
	s.metrics.RecordHistoryDeleted(deleted)
	return deleted, nil
}

// DeletedMessage words the bulk delete result for count entries.
func DeletedMessage(count int64) string {
	noun := "entries"
	if count == 1 {
		noun = "entry"
	}
	return fmt.Sprintf("Successfully deleted %d history %s", count, noun)
}
