// Package store persists HealthChain documents. Mongo is the production
// backend; Memory backs local runs and tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Doctors interface {
	CreateDoctor(ctx context.Context, d *models.Doctor) error
	FindDoctorByEmail(ctx context.Context, email string) (*models.Doctor, error)
	FindDoctorByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s *models.Session) error
	FindSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	// DeleteSessionsFor removes every session of one principal and returns
	// the removed ids.
	DeleteSessionsFor(ctx context.Context, kind models.PrincipalKind, principalID primitive.ObjectID) ([]string, error)
}

type HealthLogs interface {
	AddLog(ctx context.Context, l *models.HealthLog) error
	ListLogs(ctx context.Context, userID primitive.ObjectID) ([]models.HealthLog, error)
}

type Medications interface {
	AddMedication(ctx context.Context, m *models.Medication) error
	ListMedications(ctx context.Context, userID primitive.ObjectID) ([]models.Medication, error)
}

type Nutrition interface {
	AddNutrition(ctx context.Context, n *models.NutritionEntry) error
	// ListNutrition returns entries at or after since; a zero since means all.
	ListNutrition(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.NutritionEntry, error)
}

type Fitness interface {
	AddFitness(ctx context.Context, f *models.FitnessEntry) error
	ListFitness(ctx context.Context, userID primitive.ObjectID) ([]models.FitnessEntry, error)
	LatestFitness(ctx context.Context, userID primitive.ObjectID) (*models.FitnessEntry, error)
}

type Forum interface {
	AddPost(ctx context.Context, p *models.ForumPost) error
	ListPosts(ctx context.Context) ([]models.ForumPost, error)
}

type Reports interface {
	AddReport(ctx context.Context, r *models.Report) error
	FindReport(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	ListReports(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error)
}

type Appointments interface {
	AddAppointment(ctx context.Context, a *models.Appointment) error
	PendingAppointments(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error)
	// AcceptAppointment moves a pending appointment owned by doctorID to
	// accepted. It returns ErrNotFound when no such pending appointment exists.
	AcceptAppointment(ctx context.Context, id, doctorID primitive.ObjectID, at time.Time) (*models.Appointment, error)
	// AcceptedAppointments lists accepted appointments ordered by accepted_at.
	// A non-nil day restricts the result to [day, day+24h).
	AcceptedAppointments(ctx context.Context, doctorID primitive.ObjectID, day *time.Time) ([]models.Appointment, error)
	PatientAppointments(ctx context.Context, patientID primitive.ObjectID) ([]models.Appointment, error)
}

type Ledger interface {
	ReplaceBlocks(ctx context.Context, userID primitive.ObjectID, blocks []models.LedgerBlock) error
	ListBlocks(ctx context.Context, userID primitive.ObjectID) ([]models.LedgerBlock, error)
}

// Store is everything the API needs from persistence.
type Store interface {
	Users
	Doctors
	Sessions
	HealthLogs
	Medications
	Nutrition
	Fitness
	Forum
	Reports
	Appointments
	Ledger

	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
	EnsureIndexes(ctx context.Context) error
	Close(ctx context.Context) error
}

// Collection names.
const (
	UsersCollection        = "users"
	DoctorsCollection      = "doctors"
	SessionsCollection     = "sessions"
	LogsCollection         = "health_logs"
	MedicationsCollection  = "medications"
	NutritionCollection    = "nutrition"
	FitnessCollection      = "fitness"
	ForumCollection        = "forum"
	ReportsCollection      = "reports"
	AppointmentsCollection = "appointments"
	LedgerCollection       = "ledger_blocks"
)
