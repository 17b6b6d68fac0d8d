package doctorRepo

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

// MongoDoctorRepo implements DoctorRepository using MongoDB.
type MongoDoctorRepo struct {
	coll *mongo.Collection
}

// NewMongoDoctorRepo constructs a new instance of MongoDoctorRepo.
func NewMongoDoctorRepo() DoctorRepository {
	repo := &MongoDoctorRepo{
		coll: database.DB().Collection("doctors"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("doctor repo: failed to ensure indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching doctor with id %s: %w", id, err)
	}
	return &doc, nil
}

func (r *MongoDoctorRepo) GetByUserID(userID string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching doctor for user %s: %w", userID, err)
	}
	return &doc, nil
}

func (r *MongoDoctorRepo) Create(doc *models.Doctor) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("error creating doctor: %w", err)
	}
	return nil
}

func (r *MongoDoctorRepo) Update(doc *models.Doctor) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doc.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("error updating doctor %s: %w", doc.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("doctor %s not found", doc.ID)
	}
	return nil
}

func (r *MongoDoctorRepo) PullAppointment(doctorID, appointmentID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$pull": bson.M{"appointments": bson.M{"appointmentId": appointmentID}}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update); err != nil {
		return fmt.Errorf("error pulling appointment %s from doctor %s: %w", appointmentID, doctorID, err)
	}
	return nil
}

func (r *MongoDoctorRepo) ReplaceAppointments(doctorID string, appts []models.DoctorAppointment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"appointments": appts, "updatedAt": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update); err != nil {
		return fmt.Errorf("error replacing appointments for doctor %s: %w", doctorID, err)
	}
	return nil
}

func (r *MongoDoctorRepo) ApplyReview(doctorID string, stars int, appointmentID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc":  bson.M{"totalStars": stars, "totalReviews": 1},
		"$pull": bson.M{"appointments": bson.M{"appointmentId": appointmentID}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update)
	if err != nil {
		return fmt.Errorf("error applying review to doctor %s: %w", doctorID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("doctor %s not found", doctorID)
	}
	return nil
}

func (r *MongoDoctorRepo) AppendPrivateReview(doctorID string, review models.PrivateReview) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$push": bson.M{"privateReviews": review}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update); err != nil {
		return fmt.Errorf("error appending private review to doctor %s: %w", doctorID, err)
	}
	return nil
}

func (r *MongoDoctorRepo) ListUserIDs() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"userId": 1}))
	if err != nil {
		return nil, fmt.Errorf("error listing doctor user ids: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var row struct {
			UserID string `bson:"userId"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("error decoding doctor user id: %w", err)
		}
		ids = append(ids, row.UserID)
	}
	return ids, cursor.Err()
}

func (r *MongoDoctorRepo) SetStatus(doctorID, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update)
	if err != nil {
		return fmt.Errorf("error setting status for doctor %s: %w", doctorID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("doctor %s not found", doctorID)
	}
	return nil
}
