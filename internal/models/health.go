package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HealthLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Mood      string             `bson:"mood" json:"mood"`
	Sleep     float64            `bson:"sleep" json:"sleep"`       // hours
	Water     float64            `bson:"water" json:"water"`       // litres
	Exercise  float64            `bson:"exercise" json:"exercise"` // minutes
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type Medication struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Time      string             `bson:"time" json:"time"`
	Dosage    string             `bson:"dosage,omitempty" json:"dosage,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type NutritionEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	FoodItem  string             `bson:"food_item" json:"food_item"`
	Calories  float64            `bson:"calories" json:"calories"`
	Protein   float64            `bson:"protein" json:"protein"`
	Fats      float64            `bson:"fats" json:"fats"`
	Carbs     float64            `bson:"carbs" json:"carbs"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type FitnessEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	ExerciseName string             `bson:"exercise_name" json:"exercise_name"`
	Duration     int                `bson:"duration" json:"duration"` // minutes
	Intensity    int                `bson:"intensity" json:"intensity"`
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Goal         string             `bson:"goal,omitempty" json:"goal,omitempty"`
	FitnessLevel string             `bson:"fitness_level,omitempty" json:"fitness_level,omitempty"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
}

type ForumPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Author    string             `bson:"author" json:"author"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
