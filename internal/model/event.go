package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses.
const (
	EventStatusDraft     = "Draft"
	EventStatusPublished = "Published"
	EventStatusCancelled = "Cancelled"
	EventStatusCompleted = "Completed"
)

// Ticket types.
const (
	TicketTypeFree     = "Free"
	TicketTypePaid     = "Paid"
	TicketTypeDonation = "Donation"
)

// EventDateLayout is the accepted format for the date and end_date fields.
const EventDateLayout = "2006-01-02"

// Event is a document in the "events" collection. AttendeesCount is a
// cached aggregate: it must equal the sum of num_tickets over the
// event's Confirmed bookings. It is maintained incrementally by the
// booking workflow and repaired by the reconcile routine.
type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description,omitempty" json:"description"`
	Category       string             `bson:"category" json:"category"`
	Subcategory    string             `bson:"subcategory,omitempty" json:"subcategory"`
	Date           string             `bson:"date" json:"date"`
	Time           string             `bson:"time" json:"time"`
	EndDate        string             `bson:"end_date,omitempty" json:"end_date"`
	Location       string             `bson:"location" json:"location"`
	City           string             `bson:"city" json:"city"`
	Address        string             `bson:"address,omitempty" json:"address"`
	Price          float64            `bson:"price" json:"price"`
	TicketType     string             `bson:"ticket_type" json:"ticket_type"`
	Capacity       int                `bson:"capacity" json:"capacity"`
	OrganizerName  string             `bson:"organizer_name,omitempty" json:"organizer_name"`
	OrganizerEmail string             `bson:"organizer_email,omitempty" json:"organizer_email"`
	OrganizerPhone string             `bson:"organizer_phone,omitempty" json:"organizer_phone"`
	ImageURL       string             `bson:"image_url,omitempty" json:"image_url"`
	BannerURL      string             `bson:"banner_url,omitempty" json:"banner_url"`
	Tags           []string           `bson:"tags" json:"tags"`
	Status         string             `bson:"status" json:"status"`
	Featured       bool               `bson:"featured" json:"featured"`
	AttendeesCount int                `bson:"attendees_count" json:"attendees_count"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
