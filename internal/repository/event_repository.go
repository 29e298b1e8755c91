package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/event-booking/internal/model"
)

// EventFilter narrows List results. Zero values are ignored.
type EventFilter struct {
	Status    string
	CreatedBy string
	Limit     int64
}

// EventRepo persists events in the "events" collection.
type EventRepo struct {
	col *mongo.Collection
}

func NewEventRepo(db *mongo.Database) *EventRepo {
	return &EventRepo{col: db.Collection("events")}
}

// Insert stores the event and returns its id.
func (r *EventRepo) Insert(ctx context.Context, e *model.Event) (string, error) {
	e.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return "", err
	}
	return e.ID.Hex(), nil
}

// GetByID fetches an event by hex id; a malformed id counts as a miss.
func (r *EventRepo) GetByID(ctx context.Context, id string) (model.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Event{}, ErrNotFound
	}
	var e model.Event
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Event{}, ErrNotFound
	}
	return e, err
}

// List returns events matching the filter, newest first. Limit defaults
// to 20 when unset.
func (r *EventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CreatedBy != "" {
		filter["created_by"] = f.CreatedBy
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	events := make([]model.Event, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes the event document. Missing events report ErrNotFound.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementAttendees adds delta to the cached attendees_count.
func (r *EventRepo) IncrementAttendees(ctx context.Context, id string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{
		"$inc": bson.M{"attendees_count": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAttendees overwrites the cached attendees_count; used by the
// reconcile routine.
func (r *EventRepo) SetAttendees(ctx context.Context, id string, count int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"attendees_count": count, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
