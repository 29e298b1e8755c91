package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/event-booking/internal/ledger"
	"github.com/iliyamo/event-booking/internal/model"
)

// seatClaim is a row in the "seat_claims" collection. Claims mirror the
// seats of Confirmed bookings one-to-one; the unique index on
// (event_id, row, column) is what makes two concurrent reservations of
// the same seat impossible: the losing insert fails with a duplicate
// key error. Claims are created when a booking is confirmed and removed
// when it leaves the Confirmed status.
type seatClaim struct {
	EventID   string `bson:"event_id"`
	Row       int    `bson:"row"`
	Column    int    `bson:"column"`
	BookingID string `bson:"booking_id"`
}

// SeatClaimRepo manages the materialized reserved-seat rows.
type SeatClaimRepo struct {
	col *mongo.Collection
}

func NewSeatClaimRepo(db *mongo.Database) *SeatClaimRepo {
	return &SeatClaimRepo{col: db.Collection("seat_claims")}
}

// Claim inserts one claim per seat for the booking, in seat order. The
// insert is ordered, so on a duplicate key the claims before the
// offending seat exist and are rolled back here before returning a
// CollisionError naming that seat. A request listing the same seat
// twice collides with itself and is rejected the same way.
func (r *SeatClaimRepo) Claim(ctx context.Context, eventID, bookingID string, seats []model.Seat) error {
	docs := make([]interface{}, 0, len(seats))
	for _, s := range seats {
		docs = append(docs, seatClaim{
			EventID:   eventID,
			Row:       s.Row,
			Column:    s.Column,
			BookingID: bookingID,
		})
	}
	_, err := r.col.InsertMany(ctx, docs)
	if err == nil {
		return nil
	}
	// Roll back whatever subset made it in.
	_, _ = r.col.DeleteMany(context.WithoutCancel(ctx), bson.M{"booking_id": bookingID})
	if mongo.IsDuplicateKeyError(err) {
		seat := seats[0]
		if bwe, ok := err.(mongo.BulkWriteException); ok && len(bwe.WriteErrors) > 0 {
			idx := bwe.WriteErrors[0].Index
			if idx >= 0 && idx < len(seats) {
				seat = seats[idx]
			}
		}
		return &ledger.CollisionError{Seat: seat}
	}
	return err
}

// Release removes every claim held by the booking. Called when a
// booking leaves the Confirmed status and when the workflow compensates
// a failed counter update.
func (r *SeatClaimRepo) Release(ctx context.Context, bookingID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"booking_id": bookingID})
	return err
}
