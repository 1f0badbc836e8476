package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// SymptomLexicon maps lower-case symptom keywords to candidate specialties.
// It is built once at startup and never modified.
type SymptomLexicon struct {
	entries map[string][]string
}

var defaultSymptoms = map[string][]string{
	"chest pain":          {"Cardiology", "General Practice"},
	"heart":               {"Cardiology"},
	"palpitations":        {"Cardiology"},
	"high blood pressure": {"Cardiology", "Internal Medicine"},
	"shortness of breath": {"Pulmonology", "Cardiology"},
	"cough":               {"Pulmonology", "General Practice"},
	"asthma":              {"Pulmonology"},
	"wheezing":            {"Pulmonology"},
	"headache":            {"Neurology", "General Practice"},
	"migraine":            {"Neurology"},
	"dizziness":           {"Neurology", "ENT"},
	"seizure":             {"Neurology"},
	"numbness":            {"Neurology"},
	"fever":               {"General Practice", "Internal Medicine"},
	"fatigue":             {"General Practice", "Internal Medicine"},
	"cold":                {"General Practice"},
	"flu":                 {"General Practice"},
	"rash":                {"Dermatology"},
	"acne":                {"Dermatology"},
	"itching":             {"Dermatology"},
	"skin":                {"Dermatology"},
	"back pain":           {"Orthopedics"},
	"joint pain":          {"Orthopedics", "Rheumatology"},
	"fracture":            {"Orthopedics"},
	"sprain":              {"Orthopedics"},
	"stomach":             {"Gastroenterology"},
	"abdominal pain":      {"Gastroenterology", "General Practice"},
	"nausea":              {"Gastroenterology"},
	"diarrhea":            {"Gastroenterology"},
	"heartburn":           {"Gastroenterology"},
	"anxiety":             {"Psychiatry"},
	"depression":          {"Psychiatry"},
	"insomnia":            {"Psychiatry", "Neurology"},
	"ear pain":            {"ENT"},
	"earache":             {"ENT"},
	"sore throat":         {"ENT", "General Practice"},
	"sinus":               {"ENT"},
	"blurred vision":      {"Ophthalmology"},
	"eye":                 {"Ophthalmology"},
	"child":               {"Pediatrics"},
	"baby":                {"Pediatrics"},
	"pregnancy":           {"Gynecology"},
	"menstrual":           {"Gynecology"},
	"toothache":           {"Dentistry"},
	"urination":           {"Urology"},
	"diabetes":            {"Endocrinology", "Internal Medicine"},
	"thyroid":             {"Endocrinology"},
}

// NewSymptomLexicon copies entries, lower-casing and trimming every keyword.
// Blank keywords and keywords without specialties are dropped.
func NewSymptomLexicon(entries map[string][]string) *SymptomLexicon {
	lexicon := &SymptomLexicon{entries: make(map[string][]string, len(entries))}
	for keyword, specialties := range entries {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" || len(specialties) == 0 {
			continue
		}
		lexicon.entries[keyword] = append(lexicon.entries[keyword], specialties...)
	}
	return lexicon
}

// DefaultSymptomLexicon returns the built-in keyword table
func DefaultSymptomLexicon() *SymptomLexicon {
	return NewSymptomLexicon(defaultSymptoms)
}

// LoadSymptomLexiconFile reads a lexicon from a YAML or JSON file of the form
//
//	symptoms:
//	  chest pain: [Cardiology, General Practice]
func LoadSymptomLexiconFile(path string) (*SymptomLexicon, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read symptom lexicon %s: %w", path, err)
	}

	entries := v.GetStringMapStringSlice("symptoms")
	if len(entries) == 0 {
		return nil, fmt.Errorf("symptom lexicon %s has no symptoms", path)
	}

	return NewSymptomLexicon(entries), nil
}

// Len returns the number of keywords
func (l *SymptomLexicon) Len() int {
	return len(l.entries)
}

type keywordHit struct {
	keyword string
	at      int
}

// Specialties returns the de-duplicated union of the specialties of every
// keyword contained in text. Keywords are taken in the order they appear in
// the text. Returns an empty slice when nothing matches.
func (l *SymptomLexicon) Specialties(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return []string{}
	}

	var hits []keywordHit
	for keyword := range l.entries {
		if at := strings.Index(text, keyword); at >= 0 {
			hits = append(hits, keywordHit{keyword: keyword, at: at})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].at != hits[j].at {
			return hits[i].at < hits[j].at
		}
		return hits[i].keyword < hits[j].keyword
	})

	specialties := []string{}
	seen := make(map[string]struct{})
	for _, hit := range hits {
		for _, specialty := range l.entries[hit.keyword] {
			key := strings.ToLower(specialty)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			specialties = append(specialties, specialty)
		}
	}
	return specialties
}
