package entity

import (
	"strings"
	"time"

	"doctor-discovery/pkg/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor is a searchable doctor profile.
// Rating and ReviewCount are derived from reviews and only change when a review is added.
type Doctor struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Specialty   string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Email       string          `gorm:"type:varchar(255)" json:"email"`
	Phone       string          `gorm:"type:varchar(30)" json:"phone"`
	Address     string          `gorm:"type:text" json:"address"`
	City        string          `gorm:"type:varchar(100);index" json:"city"`
	Latitude    *float64        `gorm:"type:double precision" json:"lat,omitempty"`
	Longitude   *float64        `gorm:"type:double precision" json:"lng,omitempty"`
	Bio         string          `gorm:"type:text" json:"bio"`
	Education   string          `gorm:"type:text" json:"education"`
	Experience  int             `gorm:"not null;default:0" json:"experience"`
	Rating      decimal.Decimal `gorm:"type:numeric(2,1);not null;default:0" json:"rating"`
	ReviewCount int             `gorm:"not null;default:0" json:"review_count"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Location returns the doctor's coordinates. ok is false when either one is unknown.
func (d *Doctor) Location() (point geo.Point, ok bool) {
	if d.Latitude == nil || d.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *d.Latitude, Lng: *d.Longitude}, true
}

// MentionsText reports whether text occurs, case-insensitively, in the
// bio, specialty, education or name of the doctor.
func (d *Doctor) MentionsText(text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return false
	}
	return containsFold(d.Bio, needle) ||
		containsFold(d.Specialty, needle) ||
		containsFold(d.Education, needle) ||
		containsFold(d.Name, needle)
}

// ApplyRating stores the aggregate of the doctor's reviews.
func (d *Doctor) ApplyRating(sum, count int64) {
	d.Rating = RatingFromTotals(sum, count)
	d.ReviewCount = int(count)
}

// containsFold reports whether needle (already lower case) occurs in s ignoring case
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}
