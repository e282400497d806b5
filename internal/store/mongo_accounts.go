package store

import (
	"context"
	"fmt"

	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *Mongo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, UsersCollection, u)
}

func (m *Mongo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := m.findOne(ctx, UsersCollection, bson.M{"username": username}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *Mongo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := m.findOne(ctx, UsersCollection, bson.M{"_id": id}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *Mongo) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, DoctorsCollection, d)
}

func (m *Mongo) FindDoctorByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var d models.Doctor
	if err := m.findOne(ctx, DoctorsCollection, bson.M{"email": email}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *Mongo) FindDoctorByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var d models.Doctor
	if err := m.findOne(ctx, DoctorsCollection, bson.M{"_id": id}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *Mongo) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors := []models.Doctor{}
	opts := options.Find().SetProjection(bson.M{"password": 0}).SetSort(bson.D{{Key: "name", Value: 1}})
	if err := m.findAll(ctx, DoctorsCollection, bson.M{}, &doctors, opts); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (m *Mongo) CreateSession(ctx context.Context, s *models.Session) error {
	return m.insert(ctx, SessionsCollection, s)
}

func (m *Mongo) FindSession(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	if err := m.findOne(ctx, SessionsCollection, bson.M{"_id": id}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *Mongo) DeleteSession(ctx context.Context, id string) error {
	if _, err := m.db.Collection(SessionsCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (m *Mongo) DeleteSessionsFor(ctx context.Context, kind models.PrincipalKind, principalID primitive.ObjectID) ([]string, error) {
	var sessions []models.Session
	filter := bson.M{"kind": kind, "principal_id": principalID}
	if err := m.findAll(ctx, SessionsCollection, filter, &sessions, options.Find().SetProjection(bson.M{"_id": 1})); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	if _, err := m.db.Collection(SessionsCollection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, fmt.Errorf("delete sessions: %w", err)
	}
	return ids, nil
}
