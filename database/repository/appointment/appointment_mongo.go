package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository using MongoDB. It
// holds handles to the doctor and patient collections as well because the
// booking transaction spans all three.
type MongoAppointmentRepo struct {
	apptColl    *mongo.Collection
	doctorColl  *mongo.Collection
	patientColl *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new instance of MongoAppointmentRepo.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.DB()
	repo := &MongoAppointmentRepo{
		apptColl:    db.Collection("appointments"),
		doctorColl:  db.Collection("doctors"),
		patientColl: db.Collection("patients"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("appointment repo: failed to ensure indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	idxs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "appointmentId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{
			{Key: "doctorId", Value: 1},
			{Key: "date", Value: 1},
			{Key: "time", Value: 1},
		}},
		{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := r.apptColl.Indexes().CreateMany(ctx, idxs); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) GetByID(appointmentID string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var a models.Appointment
	if err := r.apptColl.FindOne(ctx, bson.M{"appointmentId": appointmentID}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching appointment %s: %w", appointmentID, err)
	}
	return &a, nil
}

func (r *MongoAppointmentRepo) Delete(appointmentID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.apptColl.DeleteOne(ctx, bson.M{"appointmentId": appointmentID})
	if err != nil {
		return fmt.Errorf("error deleting appointment %s: %w", appointmentID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("appointment %s not found", appointmentID)
	}
	return nil
}

func (r *MongoAppointmentRepo) SetStatus(appointmentID, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status}}
	if _, err := r.apptColl.UpdateOne(ctx, bson.M{"appointmentId": appointmentID}, update); err != nil {
		return fmt.Errorf("error setting status for appointment %s: %w", appointmentID, err)
	}
	return nil
}

func (r *MongoAppointmentRepo) SaveReview(appointmentID string, rating int, review string, anonymous bool) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The status guard in the filter is what makes repeated review
	// submissions for the same appointment a no-op.
	filter := bson.M{
		"appointmentId": appointmentID,
		"status":        bson.M{"$ne": models.AppointmentCompleted},
	}
	set := bson.M{
		"status": models.AppointmentCompleted,
		"rating": rating,
		"review": review,
	}
	if anonymous {
		set["isAnonymous"] = true
		set["patientName"] = "Anonymous"
	}

	res, err := r.apptColl.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error saving review for appointment %s: %w", appointmentID, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoAppointmentRepo) CountActiveForSlot(doctorID, date, slotTime string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId": doctorID,
		"date":     date,
		"time":     slotTime,
		"status":   bson.M{"$in": []string{models.AppointmentUpcoming, models.AppointmentConfirmed}},
	}
	n, err := r.apptColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting active appointments: %w", err)
	}
	return n, nil
}
