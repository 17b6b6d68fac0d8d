package paymentRepo

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

// PaymentRepository persists completed charge records.
type PaymentRepository interface {
	Create(p *models.Payment) error
	ListByDoctor(doctorID string) ([]models.Payment, error)
	ListByPatient(patientID string) ([]models.Payment, error)
}

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new instance of MongoPaymentRepo.
func NewMongoPaymentRepo() PaymentRepository {
	repo := &MongoPaymentRepo{
		coll: database.DB().Collection("payments"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("payment repo: failed to ensure indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoPaymentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	idxs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "stripePaymentId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, idxs); err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) Create(p *models.Payment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("error creating payment record: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) ListByDoctor(doctorID string) ([]models.Payment, error) {
	return r.list(bson.M{"doctorId": doctorID})
}

func (r *MongoPaymentRepo) ListByPatient(patientID string) ([]models.Payment, error) {
	return r.list(bson.M{"patientId": patientID})
}

func (r *MongoPaymentRepo) list(filter bson.M) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("error decoding payments: %w", err)
	}
	return payments, nil
}
