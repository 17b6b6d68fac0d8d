package patientRepo

import (
	"context"
	"fmt"
	"time"

	"medisync/database"
	"medisync/models"
	"medisync/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoPatientRepo implements PatientRepository using MongoDB.
type MongoPatientRepo struct {
	coll *mongo.Collection
}

// NewMongoPatientRepo constructs a new instance of MongoPatientRepo.
func NewMongoPatientRepo() PatientRepository {
	repo := &MongoPatientRepo{
		coll: database.DB().Collection("patients"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("patient repo: failed to ensure indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoPatientRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create patient indexes: %w", err)
	}
	return nil
}

func (r *MongoPatientRepo) GetByID(id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var p models.Patient
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching patient with id %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoPatientRepo) GetByUserID(userID string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var p models.Patient
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching patient for user %s: %w", userID, err)
	}
	return &p, nil
}

func (r *MongoPatientRepo) Create(p *models.Patient) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("error creating patient: %w", err)
	}
	return nil
}

func (r *MongoPatientRepo) PullUpcoming(patientID, appointmentID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$pull": bson.M{"appointments.upcoming": bson.M{"appointmentId": appointmentID}}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": patientID}, update); err != nil {
		return fmt.Errorf("error pulling upcoming appointment %s for patient %s: %w", appointmentID, patientID, err)
	}
	return nil
}

func (r *MongoPatientRepo) ListUserIDs() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"userId": 1}))
	if err != nil {
		return nil, fmt.Errorf("error listing patient user ids: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var row struct {
			UserID string `bson:"userId"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("error decoding patient user id: %w", err)
		}
		ids = append(ids, row.UserID)
	}
	return ids, cursor.Err()
}

func (r *MongoPatientRepo) MoveToPrevious(patientID, appointmentID string, entry models.PatientAppointment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Purge the id from both buckets before pushing the terminal entry. The
	// sweep may have migrated it to previous already; without the second
	// pull a later review would append a duplicate history entry. Mongo
	// rejects a $pull and $push on the same field in one update, so this is
	// two operations.
	purge := bson.M{"$pull": bson.M{
		"appointments.upcoming": bson.M{"appointmentId": appointmentID},
		"appointments.previous": bson.M{"appointmentId": appointmentID},
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": patientID}, purge)
	if err != nil {
		return fmt.Errorf("error purging appointment %s for patient %s: %w", appointmentID, patientID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("patient %s not found", patientID)
	}

	push := bson.M{"$push": bson.M{"appointments.previous": entry}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": patientID}, push); err != nil {
		return fmt.Errorf("error moving appointment %s to previous for patient %s: %w", appointmentID, patientID, err)
	}
	return nil
}
