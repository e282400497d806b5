package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	Username      string             `bson:"username" json:"username"`
	Logs          []HealthLog        `bson:"logs" json:"logs"`
	Analysis      string             `bson:"analysis" json:"analysis"`
	ImageAnalysis string             `bson:"image_analysis,omitempty" json:"image_analysis,omitempty"`
	PDFPath       string             `bson:"pdf_path,omitempty" json:"-"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}

// LedgerBlock is one block of the client-side health ledger. Data keeps the
// exact JSON text the client hashed.
type LedgerBlock struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID       primitive.ObjectID `bson:"user_id" json:"-"`
	Index        int64              `bson:"index" json:"index"`
	Timestamp    string             `bson:"timestamp" json:"timestamp"`
	Data         string             `bson:"data" json:"-"`
	PreviousHash string             `bson:"previous_hash" json:"previousHash"`
	Hash         string             `bson:"hash" json:"hash"`
}
