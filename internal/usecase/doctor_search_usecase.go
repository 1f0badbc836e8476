package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"doctor-discovery/internal/converter"
	"doctor-discovery/internal/delivery/dto"
	"doctor-discovery/internal/domain/entity"
	"doctor-discovery/internal/domain/repository"
	"doctor-discovery/internal/service"
	"doctor-discovery/pkg/geo"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSymptomsRequired  = errors.New("symptoms are required")
	ErrLocationRequired  = errors.New("location is required")
	ErrInvalidSearch     = errors.New("invalid search filter")
	ErrSearchUnavailable = errors.New("doctor search is unavailable")
)

var maxRating = decimal.NewFromInt(entity.MaxReviewRating)

// SearchMode is the kind of search the caller asked for
type SearchMode string

const (
	SearchModeSymptoms SearchMode = "symptoms"
	SearchModeLocation SearchMode = "location"
	SearchModeListing  SearchMode = "listing"
)

// SearchTier names the attempt that produced a search result
type SearchTier string

const (
	TierPrimary   SearchTier = "primary"
	TierBroadened SearchTier = "broadened"
	TierEmergency SearchTier = "emergency"
)

type DoctorSearchUsecase interface {
	// Search infers the mode from the filters that are set
	Search(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error)
	SearchBySymptoms(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error)
	SearchByLocation(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error)
}

type doctorSearchUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	doctorRepo  repository.DoctorRepository
	builder     *service.DoctorQueryBuilder
	ranker      *service.DoctorRanker
	defaultSort entity.SortKey
}

func NewDoctorSearchUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	builder *service.DoctorQueryBuilder,
	ranker *service.DoctorRanker,
	defaultSort entity.SortKey,
) DoctorSearchUsecase {
	if !entity.ValidSortKey(defaultSort) {
		defaultSort = entity.DefaultSortKey
	}
	return &doctorSearchUsecase{
		db:          db,
		log:         log,
		doctorRepo:  doctorRepo,
		builder:     builder,
		ranker:      ranker,
		defaultSort: defaultSort,
	}
}

func (u *doctorSearchUsecase) Search(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error) {
	filter, err := u.normalize(req)
	if err != nil {
		return nil, err
	}

	mode := SearchModeListing
	switch {
	case filter.HasSymptoms():
		mode = SearchModeSymptoms
	case filter.HasLocation():
		mode = SearchModeLocation
	}

	return u.run(ctx, mode, filter)
}

func (u *doctorSearchUsecase) SearchBySymptoms(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error) {
	filter, err := u.normalize(req)
	if err != nil {
		return nil, err
	}
	if !filter.HasSymptoms() {
		return nil, ErrSymptomsRequired
	}

	return u.run(ctx, SearchModeSymptoms, filter)
}

func (u *doctorSearchUsecase) SearchByLocation(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error) {
	filter, err := u.normalize(req)
	if err != nil {
		return nil, err
	}
	if !filter.HasLocation() {
		return nil, ErrLocationRequired
	}

	return u.run(ctx, SearchModeLocation, filter)
}

// run executes the tiers strictly in order: primary, then broadened for an
// empty symptom search, then emergency after any store fault.
func (u *doctorSearchUsecase) run(ctx context.Context, mode SearchMode, filter entity.SearchFilter) (*dto.SearchDoctorsResponse, error) {
	db := u.db.WithContext(ctx)
	query := u.builder.Build(filter)

	tier := TierPrimary
	doctors, err := u.doctorRepo.FindByQuery(db, query)

	if needsBroadening(mode, doctors, err) {
		u.log.WithFields(logrus.Fields{"mode": mode, "symptoms": filter.Symptoms}).
			Debug("Primary doctor search empty, broadening to text match")
		tier = TierBroadened
		doctors, err = u.broadened(db, filter.Symptoms)
	}

	if needsEmergency(err) {
		u.log.WithFields(logrus.Fields{"mode": mode, "tier": tier}).
			Warnf("Failed doctor search, serving unfiltered list: %+v", err)
		tier = TierEmergency
		doctors, err = u.doctorRepo.FindAll(db)
		if err != nil {
			u.log.Warnf("Failed emergency doctor fetch: %+v", err)
			return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
		}
	}

	degraded := tier == TierEmergency
	ranked := u.ranker.Annotate(doctors, filter.Origin)
	radiusApplied := false
	if !degraded && filter.Origin != nil && filter.MaxDistanceKm > 0 {
		ranked = u.ranker.WithinRadius(ranked, filter.MaxDistanceKm)
		radiusApplied = true
	}
	ranked = u.ranker.Sort(ranked, filter.SortBy)

	return &dto.SearchDoctorsResponse{
		Doctors:  converter.RankedDoctorsToResponses(ranked),
		Total:    len(ranked),
		Message:  searchMessage(mode, tier, filter, len(ranked), radiusApplied),
		Degraded: degraded,
		Tier:     string(tier),
	}, nil
}

// broadened re-tests the whole corpus against the raw symptom text only
func (u *doctorSearchUsecase) broadened(db *gorm.DB, symptoms string) ([]entity.Doctor, error) {
	all, err := u.doctorRepo.FindAll(db)
	if err != nil {
		return nil, err
	}

	matched := make([]entity.Doctor, 0)
	for i := range all {
		if all[i].MentionsText(symptoms) {
			matched = append(matched, all[i])
		}
	}
	return matched, nil
}

// needsBroadening holds for an empty symptom search without a store fault
func needsBroadening(mode SearchMode, primary []entity.Doctor, err error) bool {
	return mode == SearchModeSymptoms && err == nil && len(primary) == 0
}

// needsEmergency holds after any store fault
func needsEmergency(err error) bool {
	return err != nil
}

func searchMessage(mode SearchMode, tier SearchTier, filter entity.SearchFilter, n int, radiusApplied bool) string {
	if tier == TierEmergency {
		if n == 0 {
			return "No doctors available (emergency fallback)"
		}
		return fmt.Sprintf("Showing all %d doctors (emergency fallback)", n)
	}

	if n == 0 && radiusApplied {
		return fmt.Sprintf("No doctors found within %s km", strconv.FormatFloat(filter.MaxDistanceKm, 'f', -1, 64))
	}

	switch mode {
	case SearchModeSymptoms:
		if n == 0 {
			return fmt.Sprintf(`No doctors found for "%s". Try different symptoms like "fever", "headache", or "cough".`, filter.Symptoms)
		}
		if tier == TierBroadened {
			return fmt.Sprintf(`Showing %d doctor(s) for "%s" (fallback search)`, n, filter.Symptoms)
		}
		return fmt.Sprintf(`Showing %d doctor(s) for "%s"`, n, filter.Symptoms)
	case SearchModeLocation:
		if n == 0 {
			return fmt.Sprintf("No doctors found in %s", filter.Location)
		}
		return fmt.Sprintf("Showing %d doctors in %s", n, filter.Location)
	default:
		if n == 0 {
			return "No doctors found matching your criteria"
		}
		return fmt.Sprintf("Showing %d doctors", n)
	}
}

// normalize strips form sentinels and parses the numeric fields
func (u *doctorSearchUsecase) normalize(req *dto.SearchDoctorsRequest) (entity.SearchFilter, error) {
	filter := entity.SearchFilter{
		Symptoms: strings.TrimSpace(req.Symptoms),
		Location: strings.TrimSpace(req.Location),
		SortBy:   u.defaultSort,
	}

	if specialty := strings.TrimSpace(req.Specialty); !strings.EqualFold(specialty, entity.AllSpecialties) {
		filter.Specialty = specialty
	}

	if rating := strings.TrimSpace(req.Rating); rating != "" && rating != entity.NoRatingThreshold {
		minRating, err := decimal.NewFromString(rating)
		if err != nil || minRating.IsNegative() || minRating.GreaterThan(maxRating) {
			return filter, fmt.Errorf("%w: rating must be a number between 0 and 5", ErrInvalidSearch)
		}
		filter.MinRating = minRating
	}

	origin, err := parseOrigin(req.Lat, req.Lng)
	if err != nil {
		return filter, err
	}
	filter.Origin = origin

	if maxDistance := strings.TrimSpace(req.MaxDistance); maxDistance != "" && !strings.EqualFold(maxDistance, entity.AnyDistance) {
		km, err := strconv.ParseFloat(maxDistance, 64)
		if err != nil || km <= 0 {
			return filter, fmt.Errorf("%w: max_distance must be a positive number of kilometers", ErrInvalidSearch)
		}
		filter.MaxDistanceKm = km
	}

	if sortBy := strings.TrimSpace(req.Sort); sortBy != "" {
		key := entity.SortKey(strings.ToLower(sortBy))
		if !entity.ValidSortKey(key) {
			return filter, fmt.Errorf("%w: unknown sort %q", ErrInvalidSearch, sortBy)
		}
		filter.SortBy = key
	}

	return filter, nil
}

func parseOrigin(lat, lng string) (*geo.Point, error) {
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" && lng == "" {
		return nil, nil
	}
	if lat == "" || lng == "" {
		return nil, fmt.Errorf("%w: lat and lng must be given together", ErrInvalidSearch)
	}

	latValue, errLat := strconv.ParseFloat(lat, 64)
	lngValue, errLng := strconv.ParseFloat(lng, 64)
	point := geo.Point{Lat: latValue, Lng: lngValue}
	if errLat != nil || errLng != nil || !point.Valid() {
		return nil, fmt.Errorf("%w: lat must be within [-90, 90] and lng within [-180, 180]", ErrInvalidSearch)
	}
	return &point, nil
}
