package service

import (
	"sort"

	"doctor-discovery/internal/domain/entity"
	"doctor-discovery/pkg/geo"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DoctorRanker annotates and orders doctor result sets. It holds no state.
type DoctorRanker struct {
	tag language.Tag
}

func NewDoctorRanker() *DoctorRanker {
	return &DoctorRanker{tag: language.English}
}

// Annotate wraps doctors, attaching their distance from origin when it is set.
// Doctors without coordinates get no distance.
func (r *DoctorRanker) Annotate(doctors []entity.Doctor, origin *geo.Point) []entity.RankedDoctor {
	ranked := make([]entity.RankedDoctor, len(doctors))
	for i := range doctors {
		ranked[i].Doctor = doctors[i]
		if origin == nil {
			continue
		}
		if location, ok := doctors[i].Location(); ok {
			km := geo.Distance(*origin, location)
			ranked[i].DistanceKm = &km
		}
	}
	return ranked
}

// WithinRadius keeps the doctors with a known distance of at most maxKm
func (r *DoctorRanker) WithinRadius(ranked []entity.RankedDoctor, maxKm float64) []entity.RankedDoctor {
	kept := make([]entity.RankedDoctor, 0, len(ranked))
	for _, d := range ranked {
		if d.DistanceKm != nil && *d.DistanceKm <= maxKm {
			kept = append(kept, d)
		}
	}
	return kept
}

// Sort returns a newly ordered copy of ranked.
// distance-asc falls back to rating-desc when no doctor has a distance;
// otherwise doctors without one come last in input order.
// Unknown keys keep the input order.
func (r *DoctorRanker) Sort(ranked []entity.RankedDoctor, key entity.SortKey) []entity.RankedDoctor {
	sorted := make([]entity.RankedDoctor, len(ranked))
	copy(sorted, ranked)

	if key == entity.SortDistanceAsc && !anyDistance(sorted) {
		key = entity.SortRatingDesc
	}

	switch key {
	case entity.SortRatingDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Doctor.Rating.GreaterThan(sorted[j].Doctor.Rating)
		})
	case entity.SortDistanceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i].DistanceKm, sorted[j].DistanceKm
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return *a < *b
		})
	case entity.SortNameAsc:
		c := collate.New(r.tag)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Doctor.Name, sorted[j].Doctor.Name) < 0
		})
	case entity.SortSpecialtyAsc:
		c := collate.New(r.tag)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Doctor.Specialty, sorted[j].Doctor.Specialty) < 0
		})
	}

	return sorted
}

// Rank annotates doctors against origin and orders them by key
func (r *DoctorRanker) Rank(doctors []entity.Doctor, key entity.SortKey, origin *geo.Point) []entity.RankedDoctor {
	return r.Sort(r.Annotate(doctors, origin), key)
}

func anyDistance(ranked []entity.RankedDoctor) bool {
	for _, d := range ranked {
		if d.DistanceKm != nil {
			return true
		}
	}
	return false
}
