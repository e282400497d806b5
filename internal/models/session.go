package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrincipalKind separates patient sessions from doctor sessions.
type PrincipalKind string

const (
	KindPatient PrincipalKind = "patient"
	KindDoctor  PrincipalKind = "doctor"
)

type Session struct {
	ID          string             `bson:"_id" json:"id"`
	Kind        PrincipalKind      `bson:"kind" json:"kind"`
	PrincipalID primitive.ObjectID `bson:"principal_id" json:"principal_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time          `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
