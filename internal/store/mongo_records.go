package store

import (
	"context"
	"fmt"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func byTimestamp(order int) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "timestamp", Value: order}})
}

func (m *Mongo) AddLog(ctx context.Context, l *models.HealthLog) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, LogsCollection, l)
}

func (m *Mongo) ListLogs(ctx context.Context, userID primitive.ObjectID) ([]models.HealthLog, error) {
	logs := []models.HealthLog{}
	if err := m.findAll(ctx, LogsCollection, bson.M{"user_id": userID}, &logs, byTimestamp(1)); err != nil {
		return nil, err
	}
	return logs, nil
}

func (m *Mongo) AddMedication(ctx context.Context, med *models.Medication) error {
	if med.ID.IsZero() {
		med.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, MedicationsCollection, med)
}

func (m *Mongo) ListMedications(ctx context.Context, userID primitive.ObjectID) ([]models.Medication, error) {
	meds := []models.Medication{}
	if err := m.findAll(ctx, MedicationsCollection, bson.M{"user_id": userID}, &meds, byTimestamp(1)); err != nil {
		return nil, err
	}
	return meds, nil
}

func (m *Mongo) AddNutrition(ctx context.Context, n *models.NutritionEntry) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, NutritionCollection, n)
}

func (m *Mongo) ListNutrition(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.NutritionEntry, error) {
	filter := bson.M{"user_id": userID}
	if !since.IsZero() {
		filter["timestamp"] = bson.M{"$gte": since}
	}
	entries := []models.NutritionEntry{}
	if err := m.findAll(ctx, NutritionCollection, filter, &entries, byTimestamp(1)); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *Mongo) AddFitness(ctx context.Context, f *models.FitnessEntry) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, FitnessCollection, f)
}

func (m *Mongo) ListFitness(ctx context.Context, userID primitive.ObjectID) ([]models.FitnessEntry, error) {
	entries := []models.FitnessEntry{}
	if err := m.findAll(ctx, FitnessCollection, bson.M{"user_id": userID}, &entries, byTimestamp(1)); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *Mongo) LatestFitness(ctx context.Context, userID primitive.ObjectID) (*models.FitnessEntry, error) {
	var f models.FitnessEntry
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if err := m.findOne(ctx, FitnessCollection, bson.M{"user_id": userID}, &f, opts); err != nil {
		return nil, err
	}
	return &f, nil
}

func (m *Mongo) AddPost(ctx context.Context, p *models.ForumPost) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, ForumCollection, p)
}

func (m *Mongo) ListPosts(ctx context.Context) ([]models.ForumPost, error) {
	posts := []models.ForumPost{}
	if err := m.findAll(ctx, ForumCollection, bson.M{}, &posts, byTimestamp(-1)); err != nil {
		return nil, err
	}
	return posts, nil
}

func (m *Mongo) AddReport(ctx context.Context, r *models.Report) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	return m.insert(ctx, ReportsCollection, r)
}

func (m *Mongo) FindReport(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var r models.Report
	if err := m.findOne(ctx, ReportsCollection, bson.M{"_id": id}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (m *Mongo) ListReports(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error) {
	reports := []models.Report{}
	if err := m.findAll(ctx, ReportsCollection, bson.M{"user_id": userID}, &reports, byTimestamp(1)); err != nil {
		return nil, err
	}
	return reports, nil
}

func (m *Mongo) ReplaceBlocks(ctx context.Context, userID primitive.ObjectID, blocks []models.LedgerBlock) error {
	coll := m.db.Collection(LedgerCollection)
	if _, err := coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	if len(blocks) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(blocks))
	for i := range blocks {
		blocks[i].ID = primitive.NewObjectID()
		blocks[i].UserID = userID
		docs = append(docs, blocks[i])
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert ledger: %w", err)
	}
	return nil
}

func (m *Mongo) ListBlocks(ctx context.Context, userID primitive.ObjectID) ([]models.LedgerBlock, error) {
	blocks := []models.LedgerBlock{}
	opts := options.Find().SetSort(bson.D{{Key: "index", Value: 1}})
	if err := m.findAll(ctx, LedgerCollection, bson.M{"user_id": userID}, &blocks, opts); err != nil {
		return nil, err
	}
	return blocks, nil
}
