package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CallStatus represents the state of a call record
type CallStatus string

const (
	CallStatusPending   CallStatus = "pending"
	CallStatusCompleted CallStatus = "completed"
)

// CallOutcome records how a completed call ended
type CallOutcome string

const (
	OutcomeCallback      CallOutcome = "callback"
	OutcomeInterested    CallOutcome = "interested"
	OutcomeNotInterested CallOutcome = "not-interested"
	OutcomeNoAnswer      CallOutcome = "no-answer"
	OutcomeWrongNumber   CallOutcome = "wrong-number"
)

// NeedsFollowUp reports whether an outcome keeps the number with the caller
// for re-engagement instead of retiring it.
func (o CallOutcome) NeedsFollowUp() bool {
	return o == OutcomeCallback || o == OutcomeInterested
}

// Call represents one dial attempt against a pool number. Call records are
// owned by the calling workflow; this subsystem reads them for lifecycle and
// deletion decisions.
type Call struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	UserID      string             `bson:"userId" json:"userId"`
	Status      CallStatus         `bson:"status" json:"status"`
	Outcome     CallOutcome        `bson:"outcome,omitempty" json:"outcome,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
