package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentPending  = "pending"
	AppointmentAccepted = "accepted"
)

type Appointment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID     primitive.ObjectID `bson:"doctor_id" json:"doctor_id"`
	PatientID    primitive.ObjectID `bson:"patient_id" json:"patient_id"`
	PatientName  string             `bson:"patient_name" json:"patient_name"`
	PatientEmail string             `bson:"patient_email" json:"patient_email"`
	Status       string             `bson:"status" json:"status"` // "pending", "accepted"
	RequestedAt  time.Time          `bson:"requested_at" json:"requested_at"`
	AcceptedAt   *time.Time         `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
}
