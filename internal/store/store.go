// Package store persists users and search history in Postgres through GORM.
// Driver failures leave this package as *apperror.Error values.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = apperror.NotFound("Record not found")

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type HistoryStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.SearchHistory, error)
	Create(ctx context.Context, entry *models.SearchHistory) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SearchHistory, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.SearchHistory, error)
	// DeleteOwned removes the listed rows that belong to ownerID in one statement.
	DeleteOwned(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int64, error)
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgDataExceptionClass  = "22"
)

// classify converts driver and ORM errors into tagged application errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return apperror.Conflict(conflictField(pgErr), err)
		case pgErr.Code == pgForeignKeyViolation:
			return apperror.Wrap(apperror.KindForeignKey, "Invalid reference to related record", err)
		case pgErr.Code == pgNotNullViolation, strings.HasPrefix(pgErr.Code, pgDataExceptionClass):
			return apperror.Wrap(apperror.KindInvalidData, "Invalid data provided", err)
		}
	}

	if errors.Is(err, gorm.ErrInvalidData) || errors.Is(err, gorm.ErrInvalidField) ||
		errors.Is(err, gorm.ErrInvalidValue) || errors.Is(err, gorm.ErrModelValueRequired) {
		return apperror.Wrap(apperror.KindInvalidData, "Invalid data provided", err)
	}

	return fmt.Errorf("store: %w", err)
}

// conflictField names the column behind a unique violation, reading the
// "Key (email)=(...)" detail first and the index name second.
func conflictField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if rest, ok := strings.CutPrefix(pgErr.Detail, "Key ("); ok {
		if field, _, ok := strings.Cut(rest, ")"); ok && field != "" {
			return field
		}
	}
	if i := strings.LastIndex(pgErr.ConstraintName, "_"); i >= 0 && i < len(pgErr.ConstraintName)-1 {
		return pgErr.ConstraintName[i+1:]
	}
	return ""
}
