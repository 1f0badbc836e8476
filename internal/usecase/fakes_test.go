package usecase

import (
	"context"
	"sort"
	"testing"
	"time"

	"doctor-discovery/internal/domain/entity"
	"doctor-discovery/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func coord(v float64) *float64 {
	return &v
}

func newTestLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

// fakeDoctorRepo evaluates queries in memory with DoctorQuery.Matches
type fakeDoctorRepo struct {
	doctors      []entity.Doctor
	queryErr     error
	allErr       error
	queries      []*entity.DoctorQuery
	findAllCalls int
}

func (r *fakeDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	r.doctors = append(r.doctors, *doctor)
	return nil
}

func (r *fakeDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	for i := range r.doctors {
		if r.doctors[i].ID == id {
			d := r.doctors[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return r.FindByID(db, id)
}

func (r *fakeDoctorRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	for i := range r.doctors {
		if r.doctors[i].UserID != nil && *r.doctors[i].UserID == userID {
			d := r.doctors[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	r.findAllCalls++
	if r.allErr != nil {
		return nil, r.allErr
	}
	return append([]entity.Doctor(nil), r.doctors...), nil
}

func (r *fakeDoctorRepo) FindByQuery(db *gorm.DB, query *entity.DoctorQuery) ([]entity.Doctor, error) {
	r.queries = append(r.queries, query)
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	matched := []entity.Doctor{}
	for i := range r.doctors {
		if query.Matches(&r.doctors[i]) {
			matched = append(matched, r.doctors[i])
		}
	}
	return matched, nil
}

func (r *fakeDoctorRepo) Update(db *gorm.DB, doctor *entity.Doctor) error {
	for i := range r.doctors {
		if r.doctors[i].ID == doctor.ID {
			rating, count := r.doctors[i].Rating, r.doctors[i].ReviewCount
			r.doctors[i] = *doctor
			r.doctors[i].Rating, r.doctors[i].ReviewCount = rating, count
		}
	}
	return nil
}

func (r *fakeDoctorRepo) UpdateRating(db *gorm.DB, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	for i := range r.doctors {
		if r.doctors[i].ID == id {
			r.doctors[i].Rating = rating
			r.doctors[i].ReviewCount = reviewCount
		}
	}
	return nil
}

type fakeUserRepo struct {
	users []entity.User
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	user.ID = uuid.New()
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

type fakeReviewRepo struct {
	reviews []entity.Review
}

func (r *fakeReviewRepo) Create(db *gorm.DB, review *entity.Review) error {
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeReviewRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error) {
	var out []entity.Review
	for _, review := range r.reviews {
		if review.DoctorID == doctorID {
			out = append(out, review)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeReviewRepo) Totals(db *gorm.DB, doctorID uuid.UUID) (int64, int64, error) {
	var sum, count int64
	for _, review := range r.reviews {
		if review.DoctorID == doctorID {
			sum += int64(review.Rating)
			count++
		}
	}
	return sum, count, nil
}

type fakeAppointmentRepo struct {
	appointments []entity.Appointment
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	appointment.ID = uuid.New()
	r.appointments = append(r.appointments, *appointment)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			a := r.appointments[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindActiveBySlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, slot string) (*entity.Appointment, error) {
	for i := range r.appointments {
		a := r.appointments[i]
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == slot && !a.IsCancelled() {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindActiveByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && !a.IsCancelled() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	for i := range r.appointments {
		if r.appointments[i].ID == id && !r.appointments[i].IsCancelled() {
			r.appointments[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeAppointmentRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeAuditLogRepo struct {
	logs []entity.AuditLog
}

func (r *fakeAuditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditLogRepo) FindRecent(db *gorm.DB, limit int) ([]entity.AuditLog, error) {
	out := make([]entity.AuditLog, 0, limit)
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

func (r *fakeAuditLogRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	for i := range r.logs {
		if r.logs[i].ID == id {
			l := r.logs[i]
			return &l, nil
		}
	}
	return nil, nil
}

func newTestAuditService(repo *fakeAuditLogRepo) service.AuditService {
	return service.NewAuditService(newTestLogger(), repo)
}

// cachingDoctorRepo reports, at each invalidation, whether every expected
// database call (including the commit) had already happened
type cachingDoctorRepo struct {
	*fakeDoctorRepo
	mock            sqlmock.Sqlmock
	invalidations   int
	beforeCommitted int
}

func (r *cachingDoctorRepo) InvalidateCache(ctx context.Context) {
	r.invalidations++
	if r.mock.ExpectationsWereMet() != nil {
		r.beforeCommitted++
	}
}
