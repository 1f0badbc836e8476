package entity

import (
	"doctor-discovery/pkg/geo"

	"github.com/shopspring/decimal"
)

// SortKey selects the ordering of a doctor result set
type SortKey string

const (
	SortRatingDesc    SortKey = "rating-desc"
	SortDistanceAsc   SortKey = "distance-asc"
	SortNameAsc       SortKey = "name-asc"
	SortSpecialtyAsc  SortKey = "specialty-asc"
	DefaultSortKey            = SortRatingDesc
	AllSpecialties            = "all"
	NoRatingThreshold         = "0"
	AnyDistance               = "all"
)

// ValidSortKey reports whether k is a supported ordering
func ValidSortKey(k SortKey) bool {
	switch k {
	case SortRatingDesc, SortDistanceAsc, SortNameAsc, SortSpecialtyAsc:
		return true
	}
	return false
}

// SearchFilter is the normalized input of one doctor search.
// Form sentinels ("all", "0", blanks) have already been removed: an empty
// string or zero value means the filter is not set.
type SearchFilter struct {
	Symptoms      string
	Location      string
	Specialty     string
	MinRating     decimal.Decimal
	Origin        *geo.Point
	MaxDistanceKm float64
	SortBy        SortKey
}

// HasSymptoms reports whether a symptom filter is set
func (f *SearchFilter) HasSymptoms() bool {
	return f.Symptoms != ""
}

// HasLocation reports whether a location filter is set
func (f *SearchFilter) HasLocation() bool {
	return f.Location != ""
}

// RankedDoctor is a doctor in a result set, annotated with its distance from
// the search origin when one was given.
type RankedDoctor struct {
	Doctor     Doctor
	DistanceKm *float64
}
