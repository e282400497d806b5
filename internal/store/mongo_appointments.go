package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *Mongo) AddAppointment(ctx context.Context, a *models.Appointment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, AppointmentsCollection, a)
}

func (m *Mongo) PendingAppointments(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error) {
	filter := bson.M{"doctor_id": doctorID, "status": models.AppointmentPending}
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}})
	appointments := []models.Appointment{}
	if err := m.findAll(ctx, AppointmentsCollection, filter, &appointments, opts); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (m *Mongo) AcceptAppointment(ctx context.Context, id, doctorID primitive.ObjectID, at time.Time) (*models.Appointment, error) {
	filter := bson.M{"_id": id, "doctor_id": doctorID, "status": models.AppointmentPending}
	update := bson.M{"$set": bson.M{"status": models.AppointmentAccepted, "accepted_at": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var apt models.Appointment
	err := m.db.Collection(AppointmentsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&apt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("accept appointment: %w", err)
	}
	return &apt, nil
}

func (m *Mongo) AcceptedAppointments(ctx context.Context, doctorID primitive.ObjectID, day *time.Time) ([]models.Appointment, error) {
	filter := bson.M{"doctor_id": doctorID, "status": models.AppointmentAccepted}
	if day != nil {
		filter["accepted_at"] = bson.M{"$gte": *day, "$lt": day.Add(24 * time.Hour)}
	}
	opts := options.Find().SetSort(bson.D{{Key: "accepted_at", Value: 1}})
	appointments := []models.Appointment{}
	if err := m.findAll(ctx, AppointmentsCollection, filter, &appointments, opts); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (m *Mongo) PatientAppointments(ctx context.Context, patientID primitive.ObjectID) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}})
	appointments := []models.Appointment{}
	if err := m.findAll(ctx, AppointmentsCollection, bson.M{"patient_id": patientID}, &appointments, opts); err != nil {
		return nil, err
	}
	return appointments, nil
}
