package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Store. Data is lost on restart.
type Memory struct {
	mu           sync.RWMutex
	users        []models.User
	doctors      []models.Doctor
	sessions     map[string]models.Session
	logs         []models.HealthLog
	meds         []models.Medication
	nutrition    []models.NutritionEntry
	fitness      []models.FitnessEntry
	posts        []models.ForumPost
	reports      []models.Report
	appointments []models.Appointment
	blocks       map[primitive.ObjectID][]models.LedgerBlock
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]models.Session),
		blocks:   make(map[primitive.ObjectID][]models.LedgerBlock),
	}
}

func (m *Memory) Ping(ctx context.Context) error          { return nil }
func (m *Memory) EnsureIndexes(ctx context.Context) error { return nil }
func (m *Memory) Close(ctx context.Context) error         { return nil }

func (m *Memory) Collections(ctx context.Context) ([]string, error) {
	return []string{
		UsersCollection, DoctorsCollection, SessionsCollection, LogsCollection,
		MedicationsCollection, NutritionCollection, FitnessCollection, ForumCollection,
		ReportsCollection, AppointmentsCollection, LedgerCollection,
	}, nil
}

func assignID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	assignID(&u.ID)
	m.users = append(m.users, *u)
	return nil
}

func (m *Memory) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.doctors {
		if existing.Email == d.Email {
			return ErrDuplicate
		}
	}
	assignID(&d.ID)
	m.doctors = append(m.doctors, *d)
	return nil
}

func (m *Memory) FindDoctorByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.doctors {
		if d.Email == email {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindDoctorByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.doctors {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		d.Password = ""
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) CreateSession(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return ErrDuplicate
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) FindSession(ctx context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *Memory) DeleteSessionsFor(ctx context.Context, kind models.PrincipalKind, principalID primitive.ObjectID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, s := range m.sessions {
		if s.Kind == kind && s.PrincipalID == principalID {
			delete(m.sessions, id)
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *Memory) AddLog(ctx context.Context, l *models.HealthLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignID(&l.ID)
	m.logs = append(m.logs, *l)
	return nil
}

func (m *Memory) ListLogs(ctx context.Context, userID primitive.ObjectID) ([]models.HealthLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.HealthLog{}
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *Memory) AddMedication(ctx context.Context, med *models.Medication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignID(&med.ID)
	m.meds = append(m.meds, *med)
	return nil
}

func (m *Memory) ListMedications(ctx context.Context, userID primitive.ObjectID) ([]models.Medication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Medication{}
	for _, med := range m.meds {
		if med.UserID == userID {
			out = append(out, med)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *Memory) AddNutrition(ctx context.Context, n *models.NutritionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignID(&n.ID)
	m.nutrition = append(m.nutrition, *n)
	return nil
}

func (m *Memory) ListNutrition(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.NutritionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.NutritionEntry{}
	for _, n := range m.nutrition {
		if n.UserID != userID || (!since.IsZero() && n.Timestamp.Before(since)) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *Memory) AddFitness(ctx context.Context, f *models.FitnessEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignID(&f.ID)
	m.fitness = append(m.fitness, *f)
	return nil
}

func (m *Memory) ListFitness(ctx context.Context, userID primitive.ObjectID) ([]models.FitnessEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.FitnessEntry{}
	for _, f := range m.fitness {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *Memory) LatestFitness(ctx context.Context, userID primitive.ObjectID) (*models.FitnessEntry, error) {
	entries, _ := m.ListFitness(ctx, userID)
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	latest := entries[len(entries)-1]
	return &latest, nil
}

func (m *Memory) AddPost(ctx context.Context, p *models.ForumPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignID(&p.ID)
	m.posts = append(m.posts, *p)
	return nil
}

func (m *Memory) ListPosts(ctx context.Context) ([]models.ForumPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]models.ForumPost{}, m.posts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *Memory) AddReport(ctx context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignID(&r.ID)
	m.reports = append(m.reports, *r)
	return nil
}

func (m *Memory) FindReport(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reports {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListReports(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Report{}
	for _, r := range m.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) AddAppointment(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignID(&a.ID)
	m.appointments = append(m.appointments, *a)
	return nil
}

func (m *Memory) filterAppointments(keep func(models.Appointment) bool) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range m.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (m *Memory) PendingAppointments(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.filterAppointments(func(a models.Appointment) bool {
		return a.DoctorID == doctorID && a.Status == models.AppointmentPending
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (m *Memory) AcceptAppointment(ctx context.Context, id, doctorID primitive.ObjectID, at time.Time) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.appointments {
		a := &m.appointments[i]
		if a.ID != id || a.DoctorID != doctorID || a.Status != models.AppointmentPending {
			continue
		}
		a.Status = models.AppointmentAccepted
		accepted := at
		a.AcceptedAt = &accepted
		out := *a
		return &out, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) AcceptedAppointments(ctx context.Context, doctorID primitive.ObjectID, day *time.Time) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.filterAppointments(func(a models.Appointment) bool {
		if a.DoctorID != doctorID || a.Status != models.AppointmentAccepted || a.AcceptedAt == nil {
			return false
		}
		if day == nil {
			return true
		}
		return !a.AcceptedAt.Before(*day) && a.AcceptedAt.Before(day.Add(24*time.Hour))
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].AcceptedAt.Before(*out[j].AcceptedAt) })
	return out, nil
}

func (m *Memory) PatientAppointments(ctx context.Context, patientID primitive.ObjectID) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.filterAppointments(func(a models.Appointment) bool { return a.PatientID == patientID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func (m *Memory) ReplaceBlocks(ctx context.Context, userID primitive.ObjectID, blocks []models.LedgerBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]models.LedgerBlock, len(blocks))
	for i, b := range blocks {
		b.ID = primitive.NewObjectID()
		b.UserID = userID
		stored[i] = b
	}
	m.blocks[userID] = stored
	return nil
}

func (m *Memory) ListBlocks(ctx context.Context, userID primitive.ObjectID) ([]models.LedgerBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]models.LedgerBlock{}, m.blocks[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Mongo)(nil)
)
