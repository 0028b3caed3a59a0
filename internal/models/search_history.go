package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GeolocationData is the ipinfo-style lookup result stored verbatim with each search.
type GeolocationData struct {
	IP            string `json:"ip"`
	Hostname      string `json:"hostname,omitempty"`
	City          string `json:"city"`
	Region        string `json:"region"`
	Country       string `json:"country"`
	Loc           string `json:"loc"`
	Org           string `json:"org"`
	Postal        string `json:"postal,omitempty"`
	Timezone      string `json:"timezone"`
	ASN           string `json:"asn,omitempty"`
	ASName        string `json:"as_name,omitempty"`
	ASDomain      string `json:"as_domain,omitempty"`
	CountryCode   string `json:"country_code,omitempty"`
	ContinentCode string `json:"continent_code,omitempty"`
	Continent     string `json:"continent,omitempty"`
}

type SearchHistory struct {
	ID         uuid.UUID                           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID                           `gorm:"type:uuid;not null;index:idx_search_histories_user_searched,priority:1" json:"-"`
	IPAddress  string                              `gorm:"size:45;not null" json:"ipAddress"`
	GeoData    datatypes.JSONType[GeolocationData] `gorm:"type:jsonb;not null" json:"geoData"`
	SearchedAt time.Time                           `gorm:"not null;autoCreateTime;index:idx_search_histories_user_searched,priority:2,sort:desc" json:"searchedAt"`
}

func (SearchHistory) TableName() string {
	return "search_histories"
}

// OwnedBy returns a GORM scope that restricts a query to one owner's rows.
func OwnedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
