package service

import (
	"strings"

	"doctor-discovery/internal/domain/entity"
)

// DoctorQueryBuilder turns a normalized search filter into a doctor predicate
type DoctorQueryBuilder struct {
	lexicon *SymptomLexicon
}

func NewDoctorQueryBuilder(lexicon *SymptomLexicon) *DoctorQueryBuilder {
	return &DoctorQueryBuilder{lexicon: lexicon}
}

func (b *DoctorQueryBuilder) Build(filter entity.SearchFilter) *entity.DoctorQuery {
	query := &entity.DoctorQuery{
		Specialty: normalizeTerm(filter.Specialty),
		MinRating: filter.MinRating,
		Location:  normalizeTerm(filter.Location),
		Symptoms:  normalizeTerm(filter.Symptoms),
	}

	if query.Symptoms != "" {
		for _, specialty := range b.lexicon.Specialties(query.Symptoms) {
			query.SymptomSpecialties = append(query.SymptomSpecialties, strings.ToLower(specialty))
		}
	}

	return query
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
