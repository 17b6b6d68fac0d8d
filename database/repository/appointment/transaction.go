package appointmentRepo

import (
	"context"
	"fmt"

	"medisync/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookAppointment runs the booking tri-write inside a Mongo session
// transaction. The slot transition is a conditional update filtered on
// status "available"; when it matches nothing the transaction aborts with
// ErrSlotTaken and none of the denormalized copies are written. Under two
// concurrent bookings for the same slot exactly one filter matches.
func (r *MongoAppointmentRepo) BookAppointment(ctx context.Context, params BookingParams) error {
	appt := params.Appointment

	client := r.apptColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// Slot transition first: losing the race aborts before any other
		// write lands.
		filter := bson.M{
			"id": params.DoctorDocID,
			"availability": bson.M{"$elemMatch": bson.M{
				"date":  appt.Date,
				"slots": bson.M{"$elemMatch": bson.M{"time": appt.Time, "status": models.SlotAvailable}},
			}},
		}
		update := bson.M{"$set": bson.M{
			"availability.$[d].slots.$[s].status":   models.SlotBooked,
			"availability.$[d].slots.$[s].bookedBy": appt.PatientID,
		}}
		opts := options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"d.date": appt.Date},
				bson.M{"s.time": appt.Time, "s.status": models.SlotAvailable},
			},
		})

		res, err := r.doctorColl.UpdateOne(sc, filter, update, opts)
		if err != nil {
			return fmt.Errorf("slot update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrSlotTaken
		}

		if _, err := r.apptColl.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}

		doctorEntry := models.DoctorAppointment{
			AppointmentID: appt.AppointmentID,
			PatientID:     appt.PatientID,
			Date:          appt.Date,
			Time:          appt.Time,
			PaymentStatus: params.PaymentStatus,
		}
		if _, err := r.doctorColl.UpdateOne(sc,
			bson.M{"id": params.DoctorDocID},
			bson.M{"$push": bson.M{"appointments": doctorEntry}},
		); err != nil {
			return fmt.Errorf("doctor appointment append failed: %w", err)
		}

		patientEntry := models.PatientAppointment{
			AppointmentID: appt.AppointmentID,
			DoctorID:      appt.DoctorID,
			Date:          appt.Date,
			Time:          appt.Time,
			Status:        params.PatientStatus,
		}
		if _, err := r.patientColl.UpdateOne(sc,
			bson.M{"id": params.PatientDocID},
			bson.M{"$push": bson.M{"appointments.upcoming": patientEntry}},
		); err != nil {
			return fmt.Errorf("patient appointment append failed: %w", err)
		}

		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotTaken {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}
