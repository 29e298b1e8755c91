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

// BookingFilter narrows List results. Zero values are ignored.
type BookingFilter struct {
	UserEmail string
	EventID   string
}

// BookingRepo persists bookings in the "bookings" collection.
type BookingRepo struct {
	col *mongo.Collection
}

func NewBookingRepo(db *mongo.Database) *BookingRepo {
	return &BookingRepo{col: db.Collection("bookings")}
}

// Insert stores the booking. The workflow pre-assigns the id so seat
// claims can reference it before the document exists.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, b)
	return err
}

// GetByID fetches a booking by hex id; a malformed id counts as a miss.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Booking{}, ErrNotFound
	}
	var b model.Booking
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// ConfirmedByEvent returns the event's Confirmed bookings. This is the
// read the seat ledger derives reserved seats from.
func (r *BookingRepo) ConfirmedByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	cur, err := r.col.Find(ctx, bson.M{
		"event_id":       eventID,
		"booking_status": model.BookingStatusConfirmed,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	bookings := make([]model.Booking, 0)
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountConfirmed counts Confirmed bookings for an event; the event
// lifecycle guard uses it to block deletions.
func (r *BookingRepo) CountConfirmed(ctx context.Context, eventID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"event_id":       eventID,
		"booking_status": model.BookingStatusConfirmed,
	})
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, email string) ([]model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	bookings := make([]model.Booking, 0)
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// List returns bookings matching the filter, newest first. Used by the
// admin listing endpoint.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	filter := bson.M{}
	if f.UserEmail != "" {
		filter["user_email"] = f.UserEmail
	}
	if f.EventID != "" {
		filter["event_id"] = f.EventID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	bookings := make([]model.Booking, 0)
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Delete removes a booking document. Bookings are never deleted through
// the API; the booking workflow uses this to compensate when the
// attendee-counter update fails after the insert.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// UpdateStatus sets booking_status on the booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"booking_status": status, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
