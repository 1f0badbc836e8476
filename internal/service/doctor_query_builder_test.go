package service

import (
	"testing"

	"doctor-discovery/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDoctorQueryBuilder_Build(t *testing.T) {
	builder := NewDoctorQueryBuilder(DefaultSymptomLexicon())

	q := builder.Build(entity.SearchFilter{
		Symptoms:  "  Headache ",
		Location:  " Boston",
		Specialty: "CARDIO",
		MinRating: decimal.NewFromInt(4),
	})

	assert.Equal(t, "headache", q.Symptoms)
	assert.Equal(t, "boston", q.Location)
	assert.Equal(t, "cardio", q.Specialty)
	assert.True(t, q.MinRating.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, []string{"neurology", "general practice"}, q.SymptomSpecialties)
}

func TestDoctorQueryBuilder_EmptyFilter(t *testing.T) {
	builder := NewDoctorQueryBuilder(DefaultSymptomLexicon())

	q := builder.Build(entity.SearchFilter{})

	assert.True(t, q.IsEmpty())
	assert.Nil(t, q.SymptomSpecialties)
}

func TestDoctorQueryBuilder_HeadacheScenario(t *testing.T) {
	builder := NewDoctorQueryBuilder(DefaultSymptomLexicon())
	neurologist := entity.Doctor{Name: "Dr. N", Specialty: "Neurology", Rating: decimal.RequireFromString("4.7")}
	cardiologist := entity.Doctor{Name: "Dr. C", Specialty: "Cardiology", Bio: "Helps with headache", Rating: decimal.RequireFromString("3.9")}

	q := builder.Build(entity.SearchFilter{Symptoms: "headache", MinRating: decimal.NewFromInt(4)})

	assert.True(t, q.Matches(&neurologist))
	assert.False(t, q.Matches(&cardiologist))
}
