package doctorRepo

import (
	"context"
	"fmt"
	"time"

	"medisync/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Slot mutations. Each one is a single conditional update filtered on the
// slot's current status so concurrent writers cannot clobber each other:
// the filter and the set happen in one atomic operation on the doctor
// document.

func (r *MongoDoctorRepo) ReplaceDayAvailability(doctorID string, day models.DayAvailability) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Replace the slot list when the date already exists.
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": doctorID, "availability.date": day.Date},
		bson.M{"$set": bson.M{"availability.$.slots": day.Slots, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error replacing availability for doctor %s date %s: %w", doctorID, day.Date, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Otherwise append a new date entry. The $ne guard stops two concurrent
	// publishers of the same brand-new date from each appending one.
	res, err = r.coll.UpdateOne(ctx,
		bson.M{"id": doctorID, "availability.date": bson.M{"$ne": day.Date}},
		bson.M{"$push": bson.M{"availability": day}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error appending availability for doctor %s date %s: %w", doctorID, day.Date, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Guard miss: a concurrent writer appended the date between the two
	// updates. Retry the in-place replace.
	res, err = r.coll.UpdateOne(ctx,
		bson.M{"id": doctorID, "availability.date": day.Date},
		bson.M{"$set": bson.M{"availability.$.slots": day.Slots, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error replacing availability for doctor %s date %s: %w", doctorID, day.Date, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("doctor %s not found", doctorID)
	}
	return nil
}

func (r *MongoDoctorRepo) MarkSlotBusy(doctorID, date, slotTime string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Booked slots are left untouched; available and already-busy slots
	// both end up busy.
	filter := bson.M{
		"id": doctorID,
		"availability": bson.M{"$elemMatch": bson.M{
			"date":  date,
			"slots": bson.M{"$elemMatch": bson.M{"time": slotTime, "status": bson.M{"$ne": models.SlotBooked}}},
		}},
	}
	update := bson.M{"$set": bson.M{"availability.$[d].slots.$[s].status": models.SlotBusy}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"d.date": date},
			bson.M{"s.time": slotTime, "s.status": bson.M{"$ne": models.SlotBooked}},
		},
	})

	res, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("error marking slot busy for doctor %s: %w", doctorID, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoDoctorRepo) ReleaseSlot(doctorID, date, slotTime string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": doctorID,
		"availability": bson.M{"$elemMatch": bson.M{
			"date":  date,
			"slots": bson.M{"$elemMatch": bson.M{"time": slotTime, "status": models.SlotBooked}},
		}},
	}
	update := bson.M{
		"$set":   bson.M{"availability.$[d].slots.$[s].status": models.SlotAvailable},
		"$unset": bson.M{"availability.$[d].slots.$[s].bookedBy": ""},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"d.date": date},
			bson.M{"s.time": slotTime, "s.status": models.SlotBooked},
		},
	})

	res, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("error releasing slot for doctor %s: %w", doctorID, err)
	}
	return res.ModifiedCount > 0, nil
}
