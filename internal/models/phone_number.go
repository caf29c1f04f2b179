package models

import (
	"time"
)

// NumberStatus represents the lifecycle state of a phone number
type NumberStatus string

const (
	StatusAvailable NumberStatus = "available"
	StatusAssigned  NumberStatus = "assigned"
	StatusInUse     NumberStatus = "in_use"
	StatusCompleted NumberStatus = "completed"
)

// Unassigned is the reserved sentinel stored in assignedTo while a number has
// no caller. The assignedTo index must never see a missing value, so this is
// written instead of leaving the field empty.
const Unassigned = "UNASSIGNED"

// DefaultAreaCode is filled in on read for legacy rows created before
// areaCode became mandatory.
const DefaultAreaCode = "000"

// PhoneNumber represents a contact number in the pool, keyed by its
// canonical 10-digit form
type PhoneNumber struct {
	Number     string       `bson:"_id" json:"number"`
	Status     NumberStatus `bson:"status" json:"status"`
	AssignedTo string       `bson:"assignedTo" json:"assignedTo"`
	AreaCode   string       `bson:"areaCode" json:"areaCode"`
	BatchID    string       `bson:"batchId,omitempty" json:"batchId,omitempty"`
	Name       string       `bson:"name,omitempty" json:"name,omitempty"`
	Address    string       `bson:"address,omitempty" json:"address,omitempty"`
	AssignedAt time.Time    `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	CreatedAt  time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// StatusChange describes the write side of a lifecycle transition. Empty
// fields are left untouched by the update.
type StatusChange struct {
	To         NumberStatus
	AssignedTo string
	BatchID    string
	AssignedAt *time.Time
}

// CreateNumberRequest is the payload for creating a single number
type CreateNumberRequest struct {
	Number   string `json:"number" binding:"required"`
	AreaCode string `json:"areaCode" binding:"required"`
	Name     string `json:"name"`
	Address  string `json:"address"`
}

// AreaCodeCount reports available inventory for one area code
type AreaCodeCount struct {
	AreaCode string `bson:"_id" json:"areaCode"`
	Count    int64  `bson:"count" json:"count"`
}

// PoolStats reports the pool broken down by lifecycle state, either globally
// or scoped to one caller's numbers
type PoolStats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Assigned  int64 `json:"assigned"`
	InUse     int64 `json:"inUse"`
	Completed int64 `json:"completed"`
}
