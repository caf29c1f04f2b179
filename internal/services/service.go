package services

import (
	"context"

	"github.com/ArowuTest/callops-backend/internal/models"
)

// LifecycleService is the only component allowed to change a number's
// status. Transition returns (false, nil) for an illegal transition: a
// rejected no-op, not an error.
type LifecycleService interface {
	Transition(ctx context.Context, number string, event TransitionEvent) (bool, error)
}

// AllocationService hands available numbers to callers as cohorts
type AllocationService interface {
	// AssignNumbers assigns up to count available numbers to a caller as one
	// batch. Partial fulfilment is success with a note, an empty pool is
	// models.ErrNoAvailableNumbers.
	AssignNumbers(ctx context.Context, userID string, count int, areaCode string) (*models.AssignResult, error)
	// QuickAssign returns one usable number for an immediate call, reusing a
	// number already assigned to the caller before consuming new inventory.
	QuickAssign(ctx context.Context, userID, areaCode string) (*models.PhoneNumber, error)
}

// BulkService runs the chunked ingestion pipeline
type BulkService interface {
	BulkCreate(ctx context.Context, rows []models.NumberRow) (*models.BulkCreateResult, error)
}

// NumberService covers single-number operations, pool reporting and
// guard-checked deletion
type NumberService interface {
	CreateNumber(ctx context.Context, req *models.CreateNumberRequest) (*models.PhoneNumber, error)
	GetNumber(ctx context.Context, number string) (*models.PhoneNumber, error)
	UpdateNumber(ctx context.Context, number, name, address string) (*models.PhoneNumber, error)
	DeleteNumber(ctx context.Context, number string) error
	// ResetNumber returns an assigned or completed number to the available
	// pool, clearing its ownership.
	ResetNumber(ctx context.Context, number string) (*models.PhoneNumber, error)
	BulkDeleteByAreaCode(ctx context.Context, areaCode string, force bool) (*models.BulkDeleteResult, error)
	ListAvailableAreaCodes(ctx context.Context) ([]models.AreaCodeCount, error)
	Stats(ctx context.Context, userID string) (*models.PoolStats, error)
}

// CallService drives the call-side lifecycle transitions and exposes call
// history reads
type CallService interface {
	StartCall(ctx context.Context, number, userID string) (*models.Call, error)
	CompleteCall(ctx context.Context, id string, outcome models.CallOutcome, notes string) (*models.Call, error)
	DeleteCall(ctx context.Context, id string) error
	GetCallsForNumber(ctx context.Context, number string) ([]*models.Call, error)
	GetCallsForUser(ctx context.Context, userID string) ([]*models.Call, error)
}

// AuthService defines the interface for backoffice authentication
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}
