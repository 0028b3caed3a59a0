package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/models"
	"github.com/google/uuid"
)

type GeolocationInput struct {
	IP            *string `json:"ip" validate:"required"`
	Hostname      *string `json:"hostname"`
	City          *string `json:"city" validate:"required"`
	Region        *string `json:"region" validate:"required"`
	Country       *string `json:"country" validate:"required"`
	Loc           *string `json:"loc" validate:"required"`
	Org           *string `json:"org" validate:"required"`
	Postal        *string `json:"postal"`
	Timezone      *string `json:"timezone" validate:"required"`
	ASN           *string `json:"asn"`
	ASName        *string `json:"as_name"`
	ASDomain      *string `json:"as_domain"`
	CountryCode   *string `json:"country_code"`
	ContinentCode *string `json:"continent_code"`
	Continent     *string `json:"continent"`
}

// Model copies the payload verbatim; absent optional fields become empty.
func (g *GeolocationInput) Model() models.GeolocationData {
	return models.GeolocationData{
		IP:            deref(g.IP),
		Hostname:      deref(g.Hostname),
		City:          deref(g.City),
		Region:        deref(g.Region),
		Country:       deref(g.Country),
		Loc:           deref(g.Loc),
		Org:           deref(g.Org),
		Postal:        deref(g.Postal),
		Timezone:      deref(g.Timezone),
		ASN:           deref(g.ASN),
		ASName:        deref(g.ASName),
		ASDomain:      deref(g.ASDomain),
		CountryCode:   deref(g.CountryCode),
		ContinentCode: deref(g.ContinentCode),
		Continent:     deref(g.Continent),
	}
}

type CreateHistoryRequest struct {
	IPAddress *string           `json:"ip_address" validate:"required,ip"`
	GeoData   *GeolocationInput `json:"geo_data" validate:"required"`
}

type DeleteHistoryRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// HistoryEntryResponse is a history row as its owner sees it; the owner id is never exposed.
type HistoryEntryResponse struct {
	ID         uuid.UUID              `json:"id"`
	IPAddress  string                 `json:"ipAddress"`
	GeoData    models.GeolocationData `json:"geoData"`
	SearchedAt time.Time              `json:"searchedAt"`
}

func NewHistoryEntryResponse(e *models.SearchHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:         e.ID,
		IPAddress:  e.IPAddress,
		GeoData:    e.GeoData.Data(),
		SearchedAt: e.SearchedAt,
	}
}

func NewHistoryListResponse(entries []models.SearchHistory) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewHistoryEntryResponse(&entries[i]))
	}
	return out
}

// UUIDs parses IDs. Only call it on a request that passed validation; the
// uuid rule has already rejected anything uuid.MustParse would panic on.
func (r *DeleteHistoryRequest) UUIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		ids = append(ids, uuid.MustParse(raw))
	}
	return ids
}

type DeleteHistoryResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
