package repository

import (
	"strings"

	"doctor-discovery/internal/domain/entity"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring ILIKE match, escaping wildcards
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// applyDoctorQuery translates the query into WHERE clauses.
// The result must select exactly the doctors accepted by DoctorQuery.Matches.
func applyDoctorQuery(db *gorm.DB, q *entity.DoctorQuery) *gorm.DB {
	if q.IsEmpty() {
		return db
	}

	if q.Specialty != "" {
		db = db.Where("doctors.specialty ILIKE ?", likePattern(q.Specialty))
	}

	if !q.MinRating.IsZero() {
		db = db.Where("doctors.rating >= ?", q.MinRating)
	}

	if q.Location != "" {
		pattern := likePattern(q.Location)
		group := db.Session(&gorm.Session{NewDB: true}).
			Where("doctors.city ILIKE ?", pattern).
			Or("doctors.address ILIKE ?", pattern)
		db = db.Where(group)
	}

	if q.Symptoms != "" {
		pattern := likePattern(q.Symptoms)
		group := db.Session(&gorm.Session{NewDB: true}).
			Where("doctors.bio ILIKE ?", pattern).
			Or("doctors.specialty ILIKE ?", pattern).
			Or("doctors.education ILIKE ?", pattern).
			Or("doctors.name ILIKE ?", pattern)
		if len(q.SymptomSpecialties) > 0 {
			lowered := make([]string, len(q.SymptomSpecialties))
			for i, s := range q.SymptomSpecialties {
				lowered[i] = strings.ToLower(s)
			}
			group = group.Or("LOWER(doctors.specialty) IN ?", lowered)
		}
		db = db.Where(group)
	}

	return db
}
