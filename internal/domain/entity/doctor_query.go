package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DoctorQuery is a domain-level predicate over doctor records.
// Used by repository layer to avoid coupling with delivery DTOs.
//
// Filter groups are combined with AND. The location group matches city OR
// address, the symptom group matches bio, specialty, education or name
// containing the text OR a specialty from SymptomSpecialties. All string
// fields are lower case.
type DoctorQuery struct {
	Specialty          string          // substring of specialty (ILIKE)
	MinRating          decimal.Decimal // zero means no threshold
	Location           string          // substring of city or address (ILIKE)
	Symptoms           string          // substring of bio/specialty/education/name
	SymptomSpecialties []string        // specialties suggested by the symptom lexicon
}

// IsEmpty reports whether the query matches every record
func (q *DoctorQuery) IsEmpty() bool {
	return q == nil || (q.Specialty == "" && q.MinRating.IsZero() && q.Location == "" && q.Symptoms == "")
}

// Matches evaluates the query against a single doctor in memory.
// It must agree with the SQL translation in the repository.
func (q *DoctorQuery) Matches(d *Doctor) bool {
	if q == nil {
		return true
	}
	if q.Specialty != "" && !containsFold(d.Specialty, strings.ToLower(q.Specialty)) {
		return false
	}
	if !q.MinRating.IsZero() && d.Rating.LessThan(q.MinRating) {
		return false
	}
	if q.Location != "" {
		location := strings.ToLower(q.Location)
		if !containsFold(d.City, location) && !containsFold(d.Address, location) {
			return false
		}
	}
	if q.Symptoms != "" && !d.MentionsText(q.Symptoms) && !q.hasSymptomSpecialty(d.Specialty) {
		return false
	}
	return true
}

func (q *DoctorQuery) hasSymptomSpecialty(specialty string) bool {
	for _, s := range q.SymptomSpecialties {
		if strings.EqualFold(s, specialty) {
			return true
		}
	}
	return false
}
